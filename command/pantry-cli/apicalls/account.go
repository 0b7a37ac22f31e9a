// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package apicalls

import (
	"net/http"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterReply - result of an account creation
type RegisterReply struct {
	UserId uint64 `json:"user_id"`
}

// Register - create a pantryd account
func (client *Client) Register(username string, password string) (*RegisterReply, error) {

	reply := &RegisterReply{}
	err := client.call(http.MethodPost, "/pantry/register", nil, &credentials{
		Username: username,
		Password: password,
	}, reply)
	if nil != err {
		return nil, err
	}
	return reply, nil
}

// LoginReply - session data for subsequent calls
type LoginReply struct {
	UserId uint64 `json:"user_id"`
	Token  string `json:"token"`
}

// Login - exchange credentials for a session token
func (client *Client) Login(username string, password string) (*LoginReply, error) {

	reply := &LoginReply{}
	err := client.call(http.MethodPost, "/pantry/login", nil, &credentials{
		Username: username,
		Password: password,
	}, reply)
	if nil != err {
		return nil, err
	}
	client.token = reply.Token
	return reply, nil
}

// Logout - revoke the current session token
func (client *Client) Logout() error {

	reply := struct {
		OK bool `json:"ok"`
	}{}
	return client.call(http.MethodPost, "/pantry/logout", nil, nil, &reply)
}
