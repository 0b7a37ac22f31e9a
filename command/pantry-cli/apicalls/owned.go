// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package apicalls

import (
	"net/http"
	"net/url"
	"strconv"
)

// OwnedReply - ids of one kind owned by the caller
type OwnedReply struct {
	Kind string   `json:"kind"`
	Ids  []uint64 `json:"ids"`
}

// GetOwned - obtain the list of owned object ids
func (client *Client) GetOwned(kind string) (*OwnedReply, error) {

	parameters := url.Values{}
	parameters.Set("kind", kind)

	reply := &OwnedReply{}
	err := client.call(http.MethodGet, "/pantry/owned", parameters, nil, reply)
	if nil != err {
		return nil, err
	}
	return reply, nil
}

// Grant - allow another user access to an owned object
func (client *Client) Grant(id uint64, userId uint64) error {

	parameters := url.Values{}
	parameters.Set("id", strconv.FormatUint(id, 10))
	parameters.Set("user", strconv.FormatUint(userId, 10))

	reply := struct {
		OK bool `json:"ok"`
	}{}
	return client.call(http.MethodPost, "/pantry/allow", parameters, nil, &reply)
}
