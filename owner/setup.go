// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package owner - per-user index of owned objects
//
// every user has at most one index record keyed by the user id,
// holding one ordered id list per object kind.  the index and the
// object it points at are committed in a single transaction, so a
// listed object is always durable together with its index entry.
// readers must still tolerate index entries whose object is missing:
// databases written by older two-step code can carry them.
package owner

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/storage"
	"github.com/pantry-io/pantryd/table"
)

// serialize all index read-modify-write cycles
var toLock sync.Mutex

// for general access to the index rows
type globalDataType struct {
	sync.RWMutex
	log         *logger.L
	index       *table.Table[*record.OwnedIndexRecord]
	initialised bool
}

var globalData globalDataType

// Initialise - bind the owner index pool
//
// storage and table must already be initialised
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("owner")
	globalData.log.Info("starting…")

	globalData.index = table.NewAux[*record.OwnedIndexRecord](storage.Pool.OwnerIndex)

	globalData.initialised = true
	return nil
}

// Finalise - release the owner index binding
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.index = nil
	globalData.initialised = false
	return nil
}
