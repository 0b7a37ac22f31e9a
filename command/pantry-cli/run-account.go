// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

func runRegister(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	username := c.String("username")
	if "" == username {
		return fmt.Errorf("missing username")
	}
	password := c.String("password")
	if "" == password {
		return fmt.Errorf("missing password")
	}

	client := newClient(m)
	defer client.Close()

	reply, err := client.Register(username, password)
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}

func runLogin(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	username := c.String("username")
	if "" == username {
		username = m.config.Username
		if "" == username {
			return fmt.Errorf("missing username")
		}
	}
	password := c.String("password")
	if "" == password {
		return fmt.Errorf("missing password")
	}

	client := newClient(m)
	defer client.Close()

	reply, err := client.Login(username, password)
	if nil != err {
		return err
	}

	m.config.Username = username
	m.config.UserId = reply.UserId
	m.config.Token = reply.Token
	m.save = true

	return printJson(m.w, reply)
}

func runLogout(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if "" == m.config.Token {
		return fmt.Errorf("no stored session")
	}

	client := newClient(m)
	defer client.Close()

	err := client.Logout()
	if nil != err {
		return err
	}

	m.config.Token = ""
	m.save = true

	fmt.Fprintf(m.w, "session revoked\n")
	return nil
}
