// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package owner

import (
	"github.com/pantry-io/pantryd/acl"
	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/storage"
	"github.com/pantry-io/pantryd/table"
)

// StoreListed - store an object and append it to its owner's index
//
// the index update and the object write commit in one transaction;
// concurrent calls serialize on the package lock so appends are
// never lost
func StoreListed[T record.Record](userId uint64, id uint64, v T) error {
	return storeListed(userId, id, v, nil)
}

// CreateOwned - StoreListed plus a fresh access row for the object,
// all in the same transaction
func CreateOwned[T record.Record](userId uint64, id uint64, v T) error {
	return storeListed(userId, id, v, func(trx storage.Transaction) error {
		return acl.CreateTx(trx, id, userId)
	})
}

// CreateShared - StoreListed plus an access row copied from a parent
// object, all in the same transaction
//
// used for child objects that must start with the parent's
// allow-list snapshot
func CreateShared[T record.Record](userId uint64, parentId uint64, id uint64, v T) error {
	return storeListed(userId, id, v, func(trx storage.Transaction) error {
		return acl.CopyTx(trx, parentId, id)
	})
}

func storeListed[T record.Record](userId uint64, id uint64, v T, also func(storage.Transaction) error) error {
	kind, err := record.KindOf(v)
	if nil != err {
		return err
	}
	rows, err := table.Of(kind)
	if nil != err {
		return err
	}

	toLock.Lock()
	defer toLock.Unlock()

	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	// NewDBTransaction acquires the shared transaction, a failed
	// acquire holds nothing so there is no Abort on this path
	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}

	index, err := globalData.index.GetTx(trx, userId)
	if fault.ErrRecordNotFound == err {
		index = &record.OwnedIndexRecord{}
	} else if nil != err {
		trx.Abort()
		return err
	}

	index.Append(kind, id)

	if err := globalData.index.PutTx(trx, userId, index); nil != err {
		trx.Abort()
		return err
	}
	if err := rows.PutRecordTx(trx, id, v); nil != err {
		trx.Abort()
		return err
	}
	if nil != also {
		if err := also(trx); nil != err {
			trx.Abort()
			return err
		}
	}

	return trx.Commit()
}

// StoreUnlisted - store an object without touching any index
func StoreUnlisted[T record.Record](id uint64, v T) error {
	kind, err := record.KindOf(v)
	if nil != err {
		return err
	}
	rows, err := table.Of(kind)
	if nil != err {
		return err
	}
	return rows.PutRecord(id, v)
}

// ObjectList - ids of one kind owned by a user, in creation order
//
// a missing index or a missing kind entry is an empty list, never an
// error; returned ids may point at objects that no longer exist and
// callers must handle NotFound on the follow-up fetch
func ObjectList(userId uint64, kind record.Kind) ([]uint64, error) {
	index, err := FullIndex(userId)
	if nil != err {
		return nil, err
	}

	l := index.ListFor(kind)
	if nil == l {
		return []uint64{}, nil
	}

	ids := make([]uint64, len(l.Ids))
	copy(ids, l.Ids)
	return ids, nil
}

// FullIndex - the whole owned index of a user, empty when absent
func FullIndex(userId uint64) (*record.OwnedIndexRecord, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	index, err := globalData.index.Get(userId)
	if fault.ErrRecordNotFound == err {
		return &record.OwnedIndexRecord{}, nil
	}
	if nil != err {
		return nil, err
	}
	return index, nil
}
