// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - domain records and their byte codec
//
// every persisted value is one of the record types here, packed into a
// tagged byte form: Varint64(tag) followed by the fields in struct
// order.  integers are Varint64, strings and byte fields are length
// prefixed, sequences are count prefixed, booleans are a single byte.
//
// two decode paths exist: Unpack performs full structural validation
// and is for bytes of unknown provenance; UnpackTrusted skips the
// bounds clipping and is only sound for bytes this process itself
// packed - the storage pools are written exclusively through Pack, so
// the table layer may use the trusted path.
//
// records also carry json tags: the structured text encoding used at
// the api boundary is plain JSON of the same structs.  storage always
// persists the compact tagged form.
package record
