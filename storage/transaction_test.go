// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/storage"
)

// a second begin must fail while the first holds the transaction
func TestTransactionExclusive(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "first begin error")

	_, err = storage.NewDBTransaction()
	assert.Equal(t, fault.ErrTransactionInUse, err, "second begin must fail")

	err = trx.Commit()
	assert.Nil(t, err, "commit error")

	trx, err = storage.NewDBTransaction()
	assert.Nil(t, err, "begin after commit error")
	trx.Abort()
}

// staged writes are visible inside the transaction before commit
func TestTransactionStagedVisibility(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "begin error")

	trx.Put(p, []byte("staged"), []byte("value"))
	assert.Equal(t, []byte("value"), trx.Get(p, []byte("staged")), "staged write not visible in transaction")

	err = trx.Commit()
	assert.Nil(t, err, "commit error")

	assert.Equal(t, []byte("value"), p.Get([]byte("staged")), "committed write not stored")
}

// writes to several pools commit atomically and abort together
func TestTransactionMultiPool(t *testing.T) {
	setup(t)
	defer teardown(t)

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "begin error")

	trx.Put(storage.Pool.OwnerIndex, storage.IDKey(1), []byte("index"))
	trx.Put(storage.Pool.Lists, storage.IDKey(100), []byte("list"))

	err = trx.Commit()
	assert.Nil(t, err, "commit error")

	assert.Equal(t, []byte("index"), storage.Pool.OwnerIndex.Get(storage.IDKey(1)), "index write lost")
	assert.Equal(t, []byte("list"), storage.Pool.Lists.Get(storage.IDKey(100)), "list write lost")

	// aborted operations must leave no trace
	trx, err = storage.NewDBTransaction()
	assert.Nil(t, err, "begin error")
	trx.Put(storage.Pool.Lists, storage.IDKey(101), []byte("doomed"))
	trx.Abort()

	restart(t) // clear the cache so the read goes to disk

	assert.Nil(t, storage.Pool.Lists.Get(storage.IDKey(101)), "aborted write must not be stored")
	assert.Equal(t, []byte("list"), storage.Pool.Lists.Get(storage.IDKey(100)), "aborted transaction must not affect committed data")
}

// counter records through the transaction
func TestTransactionPutN(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "begin error")

	n, found := trx.GetN(p, []byte("count"))
	assert.False(t, found, "missing counter must report not found")
	assert.Equal(t, uint64(0), n, "missing counter must be zero")

	trx.PutN(p, []byte("count"), n+1)

	n, found = trx.GetN(p, []byte("count"))
	assert.True(t, found, "staged counter must be found")
	assert.Equal(t, uint64(1), n, "staged counter mismatch")

	err = trx.Commit()
	assert.Nil(t, err, "commit error")

	n, found = p.GetN([]byte("count"))
	assert.True(t, found, "committed counter must be found")
	assert.Equal(t, uint64(1), n, "committed counter mismatch")
}

// uncommitted writes must be invisible to readers outside the
// transaction, even before any abort or commit
func TestUncommittedWriteInvisibleOutside(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData
	key := []byte("pending")

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "begin error")

	trx.Put(p, key, []byte("dirty"))

	// inside: visible; outside: not stored yet
	assert.Equal(t, []byte("dirty"), trx.Get(p, key), "staged write must be visible inside")
	assert.Nil(t, p.Get(key), "staged write leaked to a plain read")
	assert.False(t, p.Has(key), "staged write leaked to a plain existence check")

	trx.Abort()

	assert.Nil(t, p.Get(key), "aborted write must not be stored")
}

// a staged delete hides the stored value inside the transaction while
// plain readers keep seeing it until the commit
func TestStagedDeleteVisibility(t *testing.T) {
	setup(t)
	defer teardown(t)

	p := storage.Pool.TestData
	key := []byte("condemned")

	assert.Nil(t, p.Put(key, []byte("present")), "put error")

	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "begin error")

	trx.Delete(p, key)

	assert.Nil(t, trx.Get(p, key), "staged delete must read as gone inside")
	assert.Equal(t, []byte("present"), p.Get(key), "plain read must still see the stored value")

	err = trx.Commit()
	assert.Nil(t, err, "commit error")

	assert.Nil(t, p.Get(key), "deleted value must be gone after commit")
}
