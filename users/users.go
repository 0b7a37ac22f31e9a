// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package users

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"github.com/pantry-io/pantryd/acl"
	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/owner"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/storage"
	"github.com/pantry-io/pantryd/table"
)

// password limits
const (
	minimumPasswordLength = 1
	maximumPasswordLength = 128
	maximumUsernameLength = 64
)

// argon2id parameters
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
)

func passwordHash(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, record.HashLength)
}

// Register - create an account
//
// allocates the user id, stores the user object, the login row and
// the access row owned by the new user; a duplicate username fails
// with fault.ErrUserAlreadyExists
func Register(username string, password string) (uint64, error) {
	if 0 == len(username) || len(username) > maximumUsernameLength {
		return 0, fault.ErrUsernameLength
	}
	if len(password) < minimumPasswordLength || len(password) > maximumPasswordLength {
		return 0, fault.ErrPasswordLength
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return 0, fault.ErrNotInitialised
	}

	usernameKey := []byte(username)
	if storage.Pool.Logins.Has(usernameKey) {
		return 0, fault.ErrUserAlreadyExists
	}

	userId, err := storage.NewID()
	if nil != err {
		return 0, err
	}

	salt := make([]byte, record.SaltLength)
	if _, err := rand.Read(salt); nil != err {
		return 0, fault.ProcessError("entropy: " + err.Error())
	}

	user := &record.UserRecord{
		Id:   userId,
		Name: username,
	}
	if err := owner.StoreUnlisted(userId, user); nil != err {
		return 0, err
	}
	if err := acl.Ensure(userId, userId); nil != err {
		return 0, err
	}

	login := &record.LoginRecord{
		Username: username,
		UserId:   userId,
		Salt:     salt,
		Hash:     passwordHash(password, salt),
	}
	packed, err := login.Pack(nil)
	if nil != err {
		return 0, err
	}

	// the login row is the commit point: until it exists the
	// username stays free
	if err := storage.Pool.Logins.Put(usernameKey, packed); nil != err {
		return 0, err
	}

	globalData.log.Infof("registered user: %q id: %d", username, userId)
	return userId, nil
}

// dummy salt so an absent user burns the same hashing time as a
// present one
var absentSalt = make([]byte, record.SaltLength)

// Authenticate - verify a username and password
//
// returns the user id; a wrong password and an unknown username are
// the same fault.ErrWrongPassword so accounts cannot be enumerated
func Authenticate(username string, password string) (uint64, error) {
	if !isInitialised() {
		return 0, fault.ErrNotInitialised
	}

	data := storage.Pool.Logins.Get([]byte(username))
	if nil == data {
		passwordHash(password, absentSalt)
		return 0, fault.ErrWrongPassword
	}

	r, err := record.Packed(data).UnpackTrusted(nil)
	if nil != err {
		return 0, fault.ErrDataCorrupt
	}
	login, ok := r.(*record.LoginRecord)
	if !ok {
		return 0, fault.ErrDataCorrupt
	}

	hash := passwordHash(password, login.Salt)
	if 1 != subtle.ConstantTimeCompare(hash, login.Hash) {
		return 0, fault.ErrWrongPassword
	}
	return login.UserId, nil
}

// Get - fetch the user object by id
func Get(userId uint64) (*record.UserRecord, error) {
	rows, err := table.Of(record.User)
	if nil != err {
		return nil, err
	}
	r, err := rows.GetRecord(userId)
	if nil != err {
		return nil, err
	}
	return r.(*record.UserRecord), nil
}

func isInitialised() bool {
	globalData.Lock()
	defer globalData.Unlock()
	return globalData.initialised
}
