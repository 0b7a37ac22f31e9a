// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package acl

import (
	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/storage"
)

// Create - make the access row for a new object
//
// fails with fault.ErrAccessAlreadyExists if the object already has
// a row: overwriting would silently change ownership
func Create(objectId uint64, ownerId uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	if globalData.access.Has(objectId) {
		return fault.ErrAccessAlreadyExists
	}
	return globalData.access.Put(objectId, &record.AccessRecord{
		Owner: ownerId,
	})
}

// CreateTx - stage the access row inside a transaction
//
// paired with the object write so the object is never visible
// without its access row
func CreateTx(trx storage.Transaction, objectId uint64, ownerId uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	if _, err := globalData.access.GetTx(trx, objectId); fault.ErrRecordNotFound != err {
		if nil == err {
			return fault.ErrAccessAlreadyExists
		}
		return err
	}
	return globalData.access.PutTx(trx, objectId, &record.AccessRecord{
		Owner: ownerId,
	})
}

// Ensure - idempotent Create
//
// creates the row if absent, leaves an existing row untouched
func Ensure(objectId uint64, ownerId uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	if globalData.access.Has(objectId) {
		return nil
	}
	return globalData.access.Put(objectId, &record.AccessRecord{
		Owner: ownerId,
	})
}

// Allow - append a user to the allow-list of an object
//
// duplicates are permitted and never deduplicated; order is
// preserved
func Allow(objectId uint64, userId uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	access, err := globalData.access.Get(objectId)
	if nil != err {
		return err
	}
	access.Allowed = append(access.Allowed, userId)
	return globalData.access.Put(objectId, access)
}

// Verify - check a user may act on an object
//
// nil for the owner or any allow-list member, otherwise
// fault.ErrAccessDenied; a missing row is denial, not "not found"
func Verify(objectId uint64, userId uint64) error {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	access, err := globalData.access.Get(objectId)
	if fault.ErrRecordNotFound == err {
		return fault.ErrAccessDenied
	}
	if nil != err {
		return err
	}
	if !access.IsAllowed(userId) {
		return fault.ErrAccessDenied
	}
	return nil
}

// Copy - snapshot the access row of one object onto another
//
// the raw packed bytes are duplicated without decoding, so the copy
// is a point-in-time snapshot, never a live reference
func Copy(fromId uint64, toId uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	data := storage.Pool.Acls.Get(storage.IDKey(fromId))
	if nil == data {
		return fault.ErrRecordNotFound
	}
	return storage.Pool.Acls.Put(storage.IDKey(toId), data)
}

// CopyTx - stage the snapshot copy inside a transaction
func CopyTx(trx storage.Transaction, fromId uint64, toId uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	data := trx.Get(storage.Pool.Acls, storage.IDKey(fromId))
	if nil == data {
		return fault.ErrRecordNotFound
	}
	trx.Put(storage.Pool.Acls, storage.IDKey(toId), data)
	return nil
}
