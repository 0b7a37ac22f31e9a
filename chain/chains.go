// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain - names of the supported data flavours
//
// a production store, an isolated testing store and a throw-away
// local store share the same code paths but never the same database
package chain

// names of all chains
const (
	Production = "production"
	Testing    = "testing"
	Local      = "local"
)

// Valid - validate a chain name
func Valid(name string) bool {
	switch name {
	case Production, Testing, Local:
		return true
	default:
		return false
	}
}
