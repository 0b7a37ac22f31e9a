// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type ForbiddenError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAccessDenied         = ForbiddenError("access denied")
	ErrAccessAlreadyExists  = ExistsError("access record already exists")
	ErrAlreadyInitialised   = ProcessError("already initialised")
	ErrDataCorrupt          = RecordError("data corrupt")
	ErrDatabaseVersion      = ProcessError("incompatible database version")
	ErrInvalidChain         = InvalidError("invalid chain")
	ErrInvalidCount         = InvalidError("invalid count")
	ErrInvalidCursor        = InvalidError("invalid cursor")
	ErrInvalidEncodingMode  = InvalidError("invalid encoding mode")
	ErrInvalidKind          = InvalidError("invalid kind")
	ErrInvalidStructPointer = InvalidError("invalid struct pointer")
	ErrKeyLength            = LengthError("key length is invalid")
	ErrNameTooLong          = LengthError("name is too long")
	ErrNotInitialised       = ProcessError("not initialised")
	ErrNotRecordPack        = RecordError("invalid record bytes")
	ErrPasswordLength       = LengthError("password length is invalid")
	ErrRateLimiting         = ProcessError("rate limiting")
	ErrRecordNotFound       = NotFoundError("record not found")
	ErrSequenceTooLong      = LengthError("sequence is too long")
	ErrSessionExpired       = ForbiddenError("session expired")
	ErrTransactionInUse     = ProcessError("transaction already in use")
	ErrUserAlreadyExists    = ExistsError("user already exists")
	ErrUsernameLength       = LengthError("username length is invalid")
	ErrWrongPassword        = ForbiddenError("wrong password")
	ErrWrongRecordKind      = RecordError("wrong kind for record")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e ForbiddenError) Error() string { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e LengthError) Error() string    { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RecordError) Error() string    { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool    { _, ok := e.(ExistsError); return ok }
func IsErrForbidden(e error) bool { _, ok := e.(ForbiddenError); return ok }
func IsErrInvalid(e error) bool   { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool    { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool  { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool   { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool    { _, ok := e.(RecordError); return ok }
