// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++       = concatenation of byte data
// 3. id       = object identifier as big endian uint64 (8 bytes)
// 4. username = raw username bytes (no encoding)
// 5. token    = session token (16 random bytes)
// 6. *others* = byte values of various length
//
// Domain objects:
//
//   U ++ id        - user store
//                    data: packed User record
//   S ++ id        - shop store
//                    data: packed Shop record
//   L ++ id        - shopping list store
//                    data: packed List record
//   I ++ id        - item store
//                    data: packed Item record
//   A ++ id        - article store
//                    data: packed Article record
//
// Authentication:
//
//   N ++ username  - login index
//                    data: packed Login record (user id ++ salt ++ argon2id hash)
//   E ++ token     - session store
//                    data: packed Session record
//
// Authorization:
//
//   C ++ id        - access control list, keyed by the protected object's id
//                    data: packed AccessList record
//
// Ownership:
//
//   O ++ id        - per-user index of owned objects, keyed by the user's id
//                    data: packed OwnedIndex record
//
// Testing:
//
//   Z ++ key       - testing data
package storage
