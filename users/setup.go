// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package users - account registration and password verification
//
// the login pool is keyed by username and holds the argon2id salt
// and hash plus the numeric user id; the user object itself lives in
// the users pool under its id like any other record
package users

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/pantry-io/pantryd/fault"
)

// for general access to the login rows
type globalDataType struct {
	sync.Mutex
	log         *logger.L
	initialised bool
}

var globalData globalDataType

// Initialise - start the users system
//
// storage, table, acl and owner must already be initialised
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("users")
	globalData.log.Info("starting…")

	globalData.initialised = true
	return nil
}

// Finalise - stop the users system
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.initialised = false
	return nil
}
