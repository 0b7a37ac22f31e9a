// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package apicalls

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/pantry-io/pantryd/fault"
)

// Client - to hold a pantryd API connection
type Client struct {
	base    string
	token   string
	client  *http.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create an API connection to a pantryd
func NewClient(connect string, token string, verbose bool, handle io.Writer) *Client {

	return &Client{
		base:  "http://" + connect,
		token: token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		verbose: verbose,
		handle:  handle,
	}
}

// Close - drop the idle connections
func (client *Client) Close() {
	client.client.CloseIdleConnections()
}

// perform one API call, decoding the JSON reply into reply
func (client *Client) call(method string, endpoint string, parameters url.Values, body interface{}, reply interface{}) error {

	theURL := client.base + endpoint
	if len(parameters) > 0 {
		theURL += "?" + parameters.Encode()
	}

	var requestBody io.Reader
	if nil != body {
		b, err := json.Marshal(body)
		if nil != err {
			return err
		}
		client.printJson("request: "+endpoint, body)
		requestBody = bytes.NewReader(b)
	}

	request, err := http.NewRequest(method, theURL, requestBody)
	if nil != err {
		return err
	}
	if nil != body {
		request.Header.Set("Content-Type", "application/json")
	}
	if "" != client.token {
		request.Header.Set("X-Pantry-Token", client.token)
	}

	response, err := client.client.Do(request)
	if nil != err {
		return err
	}
	defer response.Body.Close()

	data, err := ioutil.ReadAll(response.Body)
	if nil != err {
		return err
	}

	if http.StatusOK != response.StatusCode {
		e := struct {
			Code  int    `json:"code"`
			Error string `json:"error"`
		}{}
		if nil == json.Unmarshal(data, &e) && "" != e.Error {
			return fault.ProcessError(fmt.Sprintf("%s: %s", endpoint, e.Error))
		}
		return fault.ProcessError(fmt.Sprintf("%s: status: %s", endpoint, response.Status))
	}

	if nil != reply {
		err = json.Unmarshal(data, reply)
		if nil != err {
			return err
		}
		client.printJson("reply: "+endpoint, reply)
	}

	return nil
}

// print out a JSON block for debugging
func (client *Client) printJson(title string, message interface{}) {
	if !client.verbose {
		return
	}
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(client.handle, "%s: error: %s\n", title, err)
		return
	}
	fmt.Fprintf(client.handle, "%s:\n%s\n", title, b)
}
