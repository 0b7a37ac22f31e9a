// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

func runOwned(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	kind, err := checkKind(c)
	if nil != err {
		return err
	}

	client := newClient(m)
	defer client.Close()

	reply, err := client.GetOwned(kind)
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}

func runGrant(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkId(c, "id")
	if nil != err {
		return err
	}
	userId, err := checkId(c, "user")
	if nil != err {
		return err
	}

	client := newClient(m)
	defer client.Close()

	err = client.Grant(id, userId)
	if nil != err {
		return err
	}

	fmt.Fprintf(m.w, "granted: object %d to user %d\n", id, userId)
	return nil
}
