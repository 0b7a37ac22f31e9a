// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
)

func runList(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkId(c, "id")
	if nil != err {
		return err
	}

	client := newClient(m)
	defer client.Close()

	reply, err := client.GetFlatList(id)
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client := newClient(m)
	defer client.Close()

	reply, err := client.GetInfo()
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}
