// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/record"
)

// media type for the packed binary record form, hex encoded for
// transport
const recordMediaType = "application/x-pantry-record"

// largest accepted request body
const maximumBodyLength = 65536

// pick the record encoding from a media type header value
func modeFromMediaType(value string) record.Mode {
	if strings.HasPrefix(value, recordMediaType) {
		return record.Binary
	}
	return record.Structured
}

// read one record from a request body in the negotiated encoding
func readRecord(r *http.Request, kind record.Kind) (record.Record, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maximumBodyLength))
	if nil != err {
		return nil, fault.ErrNotRecordPack
	}

	mode := modeFromMediaType(r.Header.Get("Content-Type"))
	if record.Binary == mode {
		raw, err := hex.DecodeString(strings.TrimSpace(string(body)))
		if nil != err {
			return nil, fault.ErrNotRecordPack
		}
		return record.Decode(record.Binary, kind, raw, nil)
	}
	return record.Decode(record.Structured, kind, body, nil)
}

// send one record in the encoding the client asked for
func sendRecord(w http.ResponseWriter, r *http.Request, v record.Record) {
	mode := modeFromMediaType(r.Header.Get("Accept"))
	if record.Binary == mode {
		packed, err := record.Encode(record.Binary, v, nil)
		if nil != err {
			sendInternalServerError(w)
			return
		}
		w.Header().Set("Content-Type", recordMediaType)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(hex.EncodeToString(packed)))
		return
	}
	sendReply(w, v)
}

// decode a small JSON request body
func decodeJSONBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maximumBodyLength))
	if nil != err {
		return fault.InvalidError("unreadable request body")
	}
	if err := json.Unmarshal(body, v); nil != err {
		return fault.InvalidError("invalid request body")
	}
	return nil
}

// send a JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write(text)
}

// map a fault class onto a status, never leaking internal detail
func sendFault(w http.ResponseWriter, log *logger.L, err error) {
	switch {
	case fault.ErrRateLimiting == err:
		sendError(w, "too many requests", http.StatusTooManyRequests)
	case fault.IsErrNotFound(err):
		sendNotFound(w)
	case fault.IsErrForbidden(err):
		sendForbidden(w)
	case fault.IsErrExists(err), fault.IsErrInvalid(err), fault.IsErrLength(err), fault.IsErrRecord(err):
		sendError(w, "bad request", http.StatusBadRequest)
	default:
		log.Errorf("internal error: %s", err)
		sendInternalServerError(w)
	}
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendForbidden(w http.ResponseWriter) {
	sendError(w, "forbidden", http.StatusForbidden)
}
func sendUnauthorized(w http.ResponseWriter) {
	sendError(w, "unauthorized", http.StatusUnauthorized)
}
func sendServiceUnavailable(w http.ResponseWriter) {
	sendError(w, "service unavailable", http.StatusServiceUnavailable)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just in case JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(text)
}
