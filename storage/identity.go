// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/pantry-io/pantryd/fault"
)

// key for the persistent id counter, outside any pool prefix
var nextIDKey = []byte{0x00, 'N', 'E', 'X', 'T', 'I', 'D'}

// serialize id allocation
var idLock sync.Mutex

// synced writes so an allocated id survives a crash and is never reissued
var idWriteOptions = &ldb_opt.WriteOptions{Sync: true}

// NewID - allocate the next object identifier
//
// monotonic, unique for the lifetime of the database, never reused;
// the first allocated id is 1
func NewID() (uint64, error) {
	idLock.Lock()
	defer idLock.Unlock()

	poolData.RLock()
	defer poolData.RUnlock()

	if nil == poolData.db {
		return 0, fault.ErrNotInitialised
	}

	previous := uint64(0)

	buffer, err := poolData.db.Get(nextIDKey, nil)
	if leveldb.ErrNotFound == err {
		// fresh database, counter starts at zero
	} else if nil != err {
		return 0, fault.ProcessError("id read failed: " + err.Error())
	} else if 8 != len(buffer) {
		return 0, fault.ErrDataCorrupt
	} else {
		previous = binary.BigEndian.Uint64(buffer)
	}

	id := previous + 1

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, id)
	err = poolData.db.Put(nextIDKey, next, idWriteOptions)
	if nil != err {
		return 0, fault.ProcessError("id write failed: " + err.Error())
	}

	return id, nil
}
