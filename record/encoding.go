// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/json"
	"strings"

	"github.com/pantry-io/pantryd/fault"
)

// Mode - on-the-wire representation of a record
type Mode int

// possible encoding modes
const (
	Binary     Mode = iota // tagged varint bytes, the database form
	Structured Mode = iota // JSON
	invalidMode
)

// ParseMode - convert a mode name to a mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "binary":
		return Binary, nil
	case "structured":
		return Structured, nil
	default:
		return invalidMode, fault.ErrInvalidEncodingMode
	}
}

// String - convert a mode to its name
func (mode Mode) String() string {
	switch mode {
	case Binary:
		return "binary"
	case Structured:
		return "structured"
	default:
		return "*unknown*"
	}
}

// New - an empty record of a kind, ready to decode into
func New(kind Kind) (Record, error) {
	switch kind {
	case List:
		return &ListRecord{}, nil
	case Item:
		return &ItemRecord{}, nil
	case Article:
		return &ArticleRecord{}, nil
	case Shop:
		return &ShopRecord{}, nil
	case User:
		return &UserRecord{}, nil
	default:
		return nil, fault.ErrInvalidKind
	}
}

// KindOf - the kind of a domain record, fault.ErrInvalidKind for
// records outside the owned index domain
func KindOf(r Record) (Kind, error) {
	switch r.(type) {
	case *ListRecord:
		return List, nil
	case *ItemRecord:
		return Item, nil
	case *ArticleRecord:
		return Article, nil
	case *ShopRecord:
		return Shop, nil
	case *UserRecord:
		return User, nil
	default:
		return maximumKind, fault.ErrInvalidKind
	}
}

// Encode - convert a record to bytes in a mode
func Encode(mode Mode, r Record, ctx *Context) ([]byte, error) {
	switch mode {
	case Binary:
		packed, err := r.Pack(ctx)
		if nil != err {
			return nil, err
		}
		return packed, nil
	case Structured:
		return json.Marshal(r)
	default:
		return nil, fault.ErrInvalidEncodingMode
	}
}

// Decode - convert bytes of a known kind back to a record
//
// the binary path runs the validating Unpack and rejects bytes whose
// tag does not match the expected kind
func Decode(mode Mode, kind Kind, data []byte, ctx *Context) (Record, error) {
	switch mode {

	case Binary:
		r, err := Packed(data).Unpack(ctx)
		if nil != err {
			return nil, err
		}
		actual, err := KindOf(r)
		if nil != err || kind != actual {
			return nil, fault.ErrWrongRecordKind
		}
		return r, nil

	case Structured:
		r, err := New(kind)
		if nil != err {
			return nil, err
		}
		if err := json.Unmarshal(data, r); nil != err {
			return nil, fault.ErrDataCorrupt
		}
		return r, nil

	default:
		return nil, fault.ErrInvalidEncodingMode
	}
}
