// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/pantry-io/pantryd/fault"
)

// Access - database access with a staged batch for transactions
type Access interface {
	Abort()
	Begin() error
	Commit() error
	Delete([]byte)
	DeleteNow([]byte) error
	DumpTx() []byte
	Get([]byte) ([]byte, error)
	GetStaged([]byte) ([]byte, error)
	Has([]byte) (bool, error)
	HasStaged([]byte) (bool, error)
	InUse() bool
	Iterator(*ldb_util.Range) iterator.Iterator
	Put([]byte, []byte)
	PutNow([]byte, []byte) error
}

// AccessData - implement Access for a leveldb handle
//
// staged operations are kept in a private map so that only the
// *Staged reads observe them; plain reads see committed data only
type AccessData struct {
	sync.Mutex
	inUse  bool
	db     *leveldb.DB
	batch  *leveldb.Batch
	cache  Cache
	staged map[string]cacheData
}

func newDA(db *leveldb.DB, batch *leveldb.Batch, cache Cache) Access {
	return &AccessData{
		inUse:  false,
		db:     db,
		batch:  batch,
		cache:  cache,
		staged: map[string]cacheData{},
	}
}

// Begin - take exclusive use of the staged batch
func (d *AccessData) Begin() error {
	d.Lock()
	defer d.Unlock()

	if d.inUse {
		return fault.ErrTransactionInUse
	}

	d.inUse = true
	return nil
}

// Put - stage a put into the batch, visible to GetStaged before commit
func (d *AccessData) Put(key []byte, value []byte) {
	d.Lock()
	defer d.Unlock()

	d.staged[string(key)] = cacheData{op: dbPut, value: value}
	d.batch.Put(key, value)
}

// Delete - stage a delete into the batch
func (d *AccessData) Delete(key []byte) {
	d.Lock()
	defer d.Unlock()

	d.staged[string(key)] = cacheData{op: dbDelete, value: []byte{}}
	d.batch.Delete(key)
}

// Commit - write the staged batch atomically and release it
//
// the shared cache is only populated here, never while staging, so
// uncommitted values can never be served to other readers; after a
// write failure the cache is cleared because the on-disk state is no
// longer known to match it
func (d *AccessData) Commit() error {
	d.Lock()
	defer d.Unlock()

	err := d.db.Write(d.batch, nil)
	d.batch.Reset()
	d.inUse = false
	if nil != err {
		d.staged = map[string]cacheData{}
		d.cache.Clear()
		return err
	}

	for key, data := range d.staged {
		d.cache.Set(data.op, key, data.value)
	}
	d.staged = map[string]cacheData{}
	return nil
}

// Abort - drop all staged operations and release the batch
func (d *AccessData) Abort() {
	d.Lock()
	defer d.Unlock()

	d.batch.Reset()
	d.staged = map[string]cacheData{}
	d.inUse = false
}

// DumpTx - raw content of the staged batch, for debugging
func (d *AccessData) DumpTx() []byte {
	return d.batch.Dump()
}

// InUse - is a transaction active
func (d *AccessData) InUse() bool {
	d.Lock()
	defer d.Unlock()
	return d.inUse
}

// Get - cached value if present, otherwise the stored one
//
// staged but uncommitted operations are not visible here
func (d *AccessData) Get(key []byte) ([]byte, error) {
	val, found := d.cache.Get(string(key))
	if found {
		return val, nil
	}
	return d.db.Get(key, nil)
}

// GetStaged - Get through the staged view of the open transaction
//
// a staged delete reads as not found
func (d *AccessData) GetStaged(key []byte) ([]byte, error) {
	d.Lock()
	data, found := d.staged[string(key)]
	d.Unlock()
	if found {
		if dbDelete == data.op {
			return nil, leveldb.ErrNotFound
		}
		return data.value, nil
	}
	return d.Get(key)
}

// Has - existence check on committed data only
func (d *AccessData) Has(key []byte) (bool, error) {
	_, found := d.cache.Get(string(key))
	if found {
		return true, nil
	}
	return d.db.Has(key, nil)
}

// HasStaged - Has through the staged view of the open transaction
func (d *AccessData) HasStaged(key []byte) (bool, error) {
	d.Lock()
	data, found := d.staged[string(key)]
	d.Unlock()
	if found {
		return dbDelete != data.op, nil
	}
	return d.Has(key)
}

// Iterator - iterate the stored keys of a range
//
// staged but uncommitted operations are not visible here
func (d *AccessData) Iterator(searchRange *ldb_util.Range) iterator.Iterator {
	return d.db.NewIterator(searchRange, nil)
}

// PutNow - bypass the batch for a single-record write
func (d *AccessData) PutNow(key []byte, value []byte) error {
	err := d.db.Put(key, value, nil)
	if nil != err {
		return err
	}
	d.cache.Set(dbPut, string(key), value)
	return nil
}

// DeleteNow - bypass the batch for a single-record delete
func (d *AccessData) DeleteNow(key []byte) error {
	err := d.db.Delete(key, nil)
	if nil != err {
		return err
	}
	d.cache.Set(dbDelete, string(key), []byte{})
	return nil
}
