// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"fmt"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/pantry-io/pantryd/fault"
)

// Kind - domain type denominator for the per-user owned index
type Kind uint64

// possible kind values
//
// the List zero value is load bearing: it is the tag stored in every
// existing owned index record, so the order must never change
const (
	List    Kind = iota
	Item    Kind = iota
	Article Kind = iota
	Shop    Kind = iota
	User    Kind = iota
	maximumKind
	Count int = int(maximumKind) // count of kinds
)

// internal conversion
func toString(k Kind) ([]byte, error) {
	switch k {
	case List:
		return []byte("list"), nil
	case Item:
		return []byte("item"), nil
	case Article:
		return []byte("article"), nil
	case Shop:
		return []byte("shop"), nil
	case User:
		return []byte("user"), nil
	default:
		return []byte{}, fault.ErrInvalidKind
	}
}

// convert a string to a kind
func fromString(in string) (Kind, error) {
	switch strings.ToLower(in) {
	case "list":
		return List, nil
	case "item":
		return Item, nil
	case "article":
		return Article, nil
	case "shop":
		return Shop, nil
	case "user":
		return User, nil
	default:
		return maximumKind, fault.ErrInvalidKind
	}
}

// FromUint64 - convert a stored denominator to a kind
func FromUint64(n uint64) (Kind, error) {
	if n >= uint64(maximumKind) {
		return maximumKind, fault.ErrInvalidKind
	}
	return Kind(n), nil
}

// Uint64 - the stored denominator value
func (kind Kind) Uint64() uint64 {
	return uint64(kind)
}

// String - convert a kind to its name
func (kind Kind) String() string {
	s, err := toString(kind)
	if nil != err {
		logger.Panicf("invalid kind enumeration: %d", kind)
	}
	return string(s)
}

// GoString - both enum value and name, for debugging
func (kind Kind) GoString() string {
	return fmt.Sprintf("<Kind#%d:%q>", uint64(kind), kind.String())
}

// MarshalText - convert kind to text
func (kind Kind) MarshalText() ([]byte, error) {
	return toString(kind)
}

// UnmarshalText - convert text to kind
func (kind *Kind) UnmarshalText(s []byte) error {
	k, err := fromString(string(s))
	if nil != err {
		return err
	}
	*kind = k
	return nil
}
