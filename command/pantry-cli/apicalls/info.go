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

// InfoReply - state of the connected pantryd
type InfoReply struct {
	Chain       string `json:"chain"`
	Mode        string `json:"mode"`
	Connections uint64 `json:"connections"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
}

// GetInfo - obtain server state
//
// pantryd restricts this call to its details allow-list
func (client *Client) GetInfo() (*InfoReply, error) {

	reply := &InfoReply{}
	err := client.call(http.MethodGet, "/pantry/details", nil, nil, reply)
	if nil != err {
		return nil, err
	}
	return reply, nil
}

// GetFlatList - fetch a shopping list joined with its items
func (client *Client) GetFlatList(id uint64) (json.RawMessage, error) {

	parameters := url.Values{}
	parameters.Set("id", strconv.FormatUint(id, 10))

	reply := json.RawMessage{}
	err := client.call(http.MethodGet, "/pantry/list/flat", parameters, nil, &reply)
	if nil != err {
		return nil, err
	}
	return reply, nil
}
