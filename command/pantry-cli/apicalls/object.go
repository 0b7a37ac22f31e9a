// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package apicalls

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// CreateReply - the identifier assigned to a stored object
type CreateReply struct {
	Id uint64 `json:"id"`
}

// CreateObject - store a new object, owned by the caller
//
// a non-zero parentId stores the object shared under the access of an
// existing parent object instead
func (client *Client) CreateObject(kind string, parentId uint64, data json.RawMessage) (*CreateReply, error) {

	parameters := url.Values{}
	parameters.Set("kind", kind)
	if 0 != parentId {
		parameters.Set("parent", strconv.FormatUint(parentId, 10))
	}

	reply := &CreateReply{}
	err := client.call(http.MethodPost, "/pantry/object", parameters, data, reply)
	if nil != err {
		return nil, err
	}
	return reply, nil
}

// ShowObject - fetch one object
func (client *Client) ShowObject(kind string, id uint64) (json.RawMessage, error) {

	parameters := url.Values{}
	parameters.Set("kind", kind)
	parameters.Set("id", strconv.FormatUint(id, 10))

	reply := json.RawMessage{}
	err := client.call(http.MethodGet, "/pantry/object", parameters, nil, &reply)
	if nil != err {
		return nil, err
	}
	return reply, nil
}

// ReplaceObject - overwrite an existing object in place
func (client *Client) ReplaceObject(kind string, id uint64, data json.RawMessage) (*CreateReply, error) {

	parameters := url.Values{}
	parameters.Set("kind", kind)
	parameters.Set("id", strconv.FormatUint(id, 10))

	reply := &CreateReply{}
	err := client.call(http.MethodPut, "/pantry/object", parameters, data, reply)
	if nil != err {
		return nil, err
	}
	return reply, nil
}
