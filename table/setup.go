// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package table - typed record access over the storage pools
//
// one table per domain kind constructed at Initialise, plus a static
// kind registry for type erased call sites
package table

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/storage"
)

// tables - the typed domain tables
type tables struct {
	Lists    *Table[*record.ListRecord]
	Items    *Table[*record.ItemRecord]
	Articles *Table[*record.ArticleRecord]
	Shops    *Table[*record.ShopRecord]
	Users    *Table[*record.UserRecord]
}

// Tables - set by Initialise
var Tables tables

// for general access to the tables
type globalDataType struct {
	sync.RWMutex
	log         *logger.L
	registry    map[record.Kind]Rows
	initialised bool
}

var globalData globalDataType

// Initialise - bind the tables to their pools
//
// storage must already be initialised
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("table")
	globalData.log.Info("starting…")

	Tables = tables{
		Lists:    New[*record.ListRecord](record.List, storage.Pool.Lists),
		Items:    New[*record.ItemRecord](record.Item, storage.Pool.Items),
		Articles: New[*record.ArticleRecord](record.Article, storage.Pool.Articles),
		Shops:    New[*record.ShopRecord](record.Shop, storage.Pool.Shops),
		Users:    New[*record.UserRecord](record.User, storage.Pool.Users),
	}

	globalData.registry = map[record.Kind]Rows{
		record.List:    Tables.Lists,
		record.Item:    Tables.Items,
		record.Article: Tables.Articles,
		record.Shop:    Tables.Shops,
		record.User:    Tables.Users,
	}

	globalData.initialised = true
	return nil
}

// Finalise - release the table bindings
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	Tables = tables{}
	globalData.registry = nil
	globalData.initialised = false
	return nil
}

// Of - the type erased table for a kind
func Of(kind record.Kind) (Rows, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}
	rows, ok := globalData.registry[kind]
	if !ok {
		return nil, fault.ErrInvalidKind
	}
	return rows, nil
}
