// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package acl - per-object access control lists
//
// every protected object has a row in the access pool keyed by the
// object's id, holding the owning user and an allow-list.  a missing
// row always reads as denial, never as "not found", so callers cannot
// probe for object existence.
package acl

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/storage"
	"github.com/pantry-io/pantryd/table"
)

// for general access to the acl rows
type globalDataType struct {
	sync.RWMutex
	log         *logger.L
	access      *table.Table[*record.AccessRecord]
	initialised bool
}

var globalData globalDataType

// Initialise - bind the access pool
//
// storage must already be initialised
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("acl")
	globalData.log.Info("starting…")

	globalData.access = table.NewAux[*record.AccessRecord](storage.Pool.Acls)

	globalData.initialised = true
	return nil
}

// Finalise - release the access pool binding
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.access = nil
	globalData.initialised = false
	return nil
}
