// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

// Context - reusable codec scratch space
//
// an explicit parameter rather than ambient thread-local state; a nil
// Context is valid and simply allocates fresh buffers.  a Context must
// not be shared between goroutines, and a Packed returned by Pack is
// only valid until the next Pack call with the same Context.
type Context struct {
	scratch []byte
	ids     []uint64
}

// NewContext - a codec context with preallocated scratch
func NewContext() *Context {
	return &Context{
		scratch: make([]byte, 0, 256),
		ids:     make([]uint64, 0, 16),
	}
}

// encode buffer, length zero
func (ctx *Context) grab() []byte {
	if nil == ctx {
		return nil
	}
	return ctx.scratch[:0]
}

// remember a possibly grown encode buffer
func (ctx *Context) keep(buffer []byte) {
	if nil != ctx {
		ctx.scratch = buffer
	}
}

// id staging buffer for decode, length zero
func (ctx *Context) grabIds() []uint64 {
	if nil == ctx {
		return nil
	}
	return ctx.ids[:0]
}

// remember a possibly grown id staging buffer
func (ctx *Context) keepIds(ids []uint64) {
	if nil != ctx {
		ctx.ids = ids
	}
}
