// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Transaction - atomic multi-pool read-modify-write
//
// all pools share the one underlying database, so one commit covers
// every staged operation regardless of which pool it was made through
type Transaction interface {
	Begin() error
	Abort()
	Commit() error
	InUse() bool
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	GetNB(*PoolHandle, []byte) (uint64, []byte)
}

// TransactionData - implement Transaction over the database access list
type TransactionData struct {
	access []Access
}

func newTransaction(access []Access) Transaction {
	return &TransactionData{
		access: access,
	}
}

// Begin - take exclusive use of the staged batches
func (t *TransactionData) Begin() error {
	for i, access := range t.access {
		err := access.Begin()
		if nil != err {
			// release any already acquired
			for _, a := range t.access[:i] {
				a.Abort()
			}
			return err
		}
	}
	return nil
}

// Abort - drop all staged operations
func (t *TransactionData) Abort() {
	for _, access := range t.access {
		access.Abort()
	}
}

// Commit - atomically write all staged operations
func (t *TransactionData) Commit() error {
	for _, access := range t.access {
		err := access.Commit()
		if nil != err {
			return err
		}
	}
	return nil
}

// InUse - is any underlying batch active
func (t *TransactionData) InUse() bool {
	for _, access := range t.access {
		if access.InUse() {
			return true
		}
	}
	return false
}

// Put - stage a put through a pool handle
func (t *TransactionData) Put(handle *PoolHandle, key []byte, value []byte) {
	handle.put(key, value)
}

// PutN - stage a big endian uint64 record
func (t *TransactionData) PutN(handle *PoolHandle, key []byte, value uint64) {
	handle.putN(key, value)
}

// Delete - stage a delete through a pool handle
func (t *TransactionData) Delete(handle *PoolHandle, key []byte) {
	handle.remove(key)
}

// Get - read through the staged view of a pool
func (t *TransactionData) Get(handle *PoolHandle, key []byte) []byte {
	return handle.get(key)
}

// GetN - read a counter through the staged view of a pool
func (t *TransactionData) GetN(handle *PoolHandle, key []byte) (uint64, bool) {
	return handle.getN(key)
}

// GetNB - read a counter and trailing bytes through the staged view
func (t *TransactionData) GetNB(handle *PoolHandle, key []byte) (uint64, []byte) {
	return handle.getNB(key)
}
