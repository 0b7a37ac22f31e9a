// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package table

import (
	"sync"

	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/storage"
)

// Table - typed store of one record kind over one pool
//
// keys are always the fixed 8 byte big endian id, values the packed
// binary record form
type Table[T record.Record] struct {
	kind record.Kind
	pool *storage.PoolHandle
	ctx  sync.Pool // of *record.Context
}

// New - bind a record type to its pool
func New[T record.Record](kind record.Kind, pool *storage.PoolHandle) *Table[T] {
	return &Table[T]{
		kind: kind,
		pool: pool,
		ctx: sync.Pool{
			New: func() interface{} {
				return record.NewContext()
			},
		},
	}
}

// NewAux - bind a supporting record type to its pool
//
// for records outside the owned index domain: the kind is a
// placeholder outside the valid range and the table is never
// registry visible
func NewAux[T record.Record](pool *storage.PoolHandle) *Table[T] {
	return &Table[T]{
		kind: record.Kind(record.Count),
		pool: pool,
		ctx: sync.Pool{
			New: func() interface{} {
				return record.NewContext()
			},
		},
	}
}

// Kind - the kind stored by this table
func (t *Table[T]) Kind() record.Kind {
	return t.kind
}

// pack a record into bytes the store may retain
func (t *Table[T]) pack(v T) ([]byte, error) {
	ctx := t.ctx.Get().(*record.Context)
	defer t.ctx.Put(ctx)

	packed, err := v.Pack(ctx)
	if nil != err {
		return nil, err
	}

	// the context scratch is reused, the cache layer keeps a
	// reference to stored values
	stored := make([]byte, len(packed))
	copy(stored, packed)
	return stored, nil
}

func (t *Table[T]) unpack(data []byte) (T, error) {
	var zero T

	ctx := t.ctx.Get().(*record.Context)
	defer t.ctx.Put(ctx)

	r, err := record.Packed(data).UnpackTrusted(ctx)
	if nil != err {
		return zero, fault.ErrDataCorrupt
	}
	v, ok := r.(T)
	if !ok {
		return zero, fault.ErrWrongRecordKind
	}
	return v, nil
}

// Put - pack and store a record under its id
func (t *Table[T]) Put(id uint64, v T) error {
	stored, err := t.pack(v)
	if nil != err {
		return err
	}
	return t.pool.Put(storage.IDKey(id), stored)
}

// PutTx - stage a packed record inside a transaction
func (t *Table[T]) PutTx(trx storage.Transaction, id uint64, v T) error {
	stored, err := t.pack(v)
	if nil != err {
		return err
	}
	trx.Put(t.pool, storage.IDKey(id), stored)
	return nil
}

// Get - fetch and decode a record
//
// fault.ErrRecordNotFound when absent, fault.ErrDataCorrupt when the
// stored bytes do not parse
func (t *Table[T]) Get(id uint64) (T, error) {
	data := t.pool.Get(storage.IDKey(id))
	if nil == data {
		var zero T
		return zero, fault.ErrRecordNotFound
	}
	return t.unpack(data)
}

// GetTx - fetch through the staged view of a transaction
func (t *Table[T]) GetTx(trx storage.Transaction, id uint64) (T, error) {
	data := trx.Get(t.pool, storage.IDKey(id))
	if nil == data {
		var zero T
		return zero, fault.ErrRecordNotFound
	}
	return t.unpack(data)
}

// Has - check a record exists without decoding it
func (t *Table[T]) Has(id uint64) bool {
	return t.pool.Has(storage.IDKey(id))
}

// Delete - remove a record, administrative use
func (t *Table[T]) Delete(id uint64) error {
	return t.pool.Delete(storage.IDKey(id))
}

// Rows - type erased view of a table for the kind registry
type Rows interface {
	Kind() record.Kind
	PutRecord(id uint64, r record.Record) error
	PutRecordTx(trx storage.Transaction, id uint64, r record.Record) error
	GetRecord(id uint64) (record.Record, error)
	Has(id uint64) bool
	Delete(id uint64) error
}

// PutRecord - type erased Put
func (t *Table[T]) PutRecord(id uint64, r record.Record) error {
	v, ok := r.(T)
	if !ok {
		return fault.ErrWrongRecordKind
	}
	return t.Put(id, v)
}

// PutRecordTx - type erased PutTx
func (t *Table[T]) PutRecordTx(trx storage.Transaction, id uint64, r record.Record) error {
	v, ok := r.(T)
	if !ok {
		return fault.ErrWrongRecordKind
	}
	return t.PutTx(trx, id, v)
}

// GetRecord - type erased Get
func (t *Table[T]) GetRecord(id uint64) (record.Record, error) {
	return t.Get(id)
}
