// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package session - login sessions with sliding expiry
//
// the sessions pool is keyed by the base58 token; every successful
// Touch pushes the logout time forward.  a background janitor sweeps
// expired rows, but expiry is enforced on read so a missed sweep is
// only a space leak, never an access hole.
package session

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/pantry-io/pantryd/background"
	"github.com/pantry-io/pantryd/fault"
)

// session lifetime and sweep cadence
const (
	timeToLive  = 2 * time.Hour
	sweepPeriod = time.Minute
)

// for general access to the session rows
type globalDataType struct {
	sync.RWMutex
	log         *logger.L
	background  *background.T
	initialised bool
}

var globalData globalDataType

// Initialise - start the session system and its janitor
//
// storage must already be initialised
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("session")
	globalData.log.Info("starting…")

	processes := background.Processes{
		&janitor{},
	}
	globalData.background = background.Start(processes, globalData.log)

	globalData.initialised = true
	return nil
}

// Finalise - stop the janitor and release the session system
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")

	globalData.background.Stop()

	globalData.log.Flush()
	globalData.initialised = false
	return nil
}
