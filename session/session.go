// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"crypto/rand"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/mr-tron/base58"

	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/storage"
)

// raw token entropy before base58 encoding
const tokenLength = 16

// Grant - create a session for a user, returning its token
func Grant(userId uint64) (string, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return "", fault.ErrNotInitialised
	}

	buffer := make([]byte, tokenLength)
	if _, err := rand.Read(buffer); nil != err {
		return "", fault.ProcessError("entropy: " + err.Error())
	}
	token := base58.Encode(buffer)

	s := &record.SessionRecord{
		UserId:       userId,
		TimeToLogout: time.Now().Add(timeToLive).Unix(),
		State:        map[string]string{},
	}
	if err := store(token, s); nil != err {
		return "", err
	}
	return token, nil
}

// Touch - verify a token and push its expiry forward
//
// an absent or expired session is the same fault.ErrSessionExpired
func Touch(token string) (uint64, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return 0, fault.ErrNotInitialised
	}

	s, err := fetch(token)
	if nil != err {
		return 0, err
	}

	now := time.Now()
	if now.Unix() > s.TimeToLogout {
		_ = storage.Pool.Sessions.Delete([]byte(token))
		return 0, fault.ErrSessionExpired
	}

	s.TimeToLogout = now.Add(timeToLive).Unix()
	if err := store(token, s); nil != err {
		return 0, err
	}
	return s.UserId, nil
}

// Revoke - drop a session, a logout
func Revoke(token string) error {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}
	return storage.Pool.Sessions.Delete([]byte(token))
}

func fetch(token string) (*record.SessionRecord, error) {
	data := storage.Pool.Sessions.Get([]byte(token))
	if nil == data {
		return nil, fault.ErrSessionExpired
	}
	r, err := record.Packed(data).UnpackTrusted(nil)
	if nil != err {
		return nil, fault.ErrDataCorrupt
	}
	s, ok := r.(*record.SessionRecord)
	if !ok {
		return nil, fault.ErrDataCorrupt
	}
	return s, nil
}

func store(token string, s *record.SessionRecord) error {
	packed, err := s.Pack(nil)
	if nil != err {
		return err
	}
	return storage.Pool.Sessions.Put([]byte(token), packed)
}

// remove all sessions past their logout time
//
// best effort: rows that fail to parse are logged and skipped, a
// failing delete is retried on the next sweep
func deleteExpired(now int64) int {
	expired := [][]byte{}

	cursor := storage.Pool.Sessions.NewFetchCursor()
	err := cursor.Map(func(key []byte, value []byte) error {
		r, err := record.Packed(value).UnpackTrusted(nil)
		if nil != err {
			globalData.log.Errorf("janitor: unreadable session: %x", key)
			return nil
		}
		s, ok := r.(*record.SessionRecord)
		if !ok {
			globalData.log.Errorf("janitor: wrong record for session: %x", key)
			return nil
		}
		if now > s.TimeToLogout {
			expired = append(expired, key)
		}
		return nil
	})
	if nil != err {
		globalData.log.Errorf("janitor: scan: %s", err)
	}

	// deletes happen outside the scan, the pool lock is not
	// re-entrant
	removed := 0
	for _, key := range expired {
		if err := storage.Pool.Sessions.Delete(key); nil != err {
			globalData.log.Errorf("janitor: delete: %s", err)
			continue
		}
		removed += 1
	}
	return removed
}

// janitor - periodic session sweeper
type janitor struct{}

func (j *janitor) Run(args interface{}, shutdown <-chan struct{}) {
	log := args.(*logger.L)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(sweepPeriod):
			removed := deleteExpired(time.Now().Unix())
			if removed > 0 {
				log.Infof("janitor: removed %d expired sessions", removed)
			}
		}
	}
}
