// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

func runCreate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	kind, err := checkKind(c)
	if nil != err {
		return err
	}
	data, err := readData(c.String("data"))
	if nil != err {
		return err
	}
	parentId := c.Uint64("parent")

	if m.verbose {
		fmt.Fprintf(m.e, "kind: %s\n", kind)
		fmt.Fprintf(m.e, "parent: %d\n", parentId)
	}

	client := newClient(m)
	defer client.Close()

	reply, err := client.CreateObject(kind, parentId, data)
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}

func runShow(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	kind, err := checkKind(c)
	if nil != err {
		return err
	}
	id, err := checkId(c, "id")
	if nil != err {
		return err
	}

	client := newClient(m)
	defer client.Close()

	reply, err := client.ShowObject(kind, id)
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}

func runReplace(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	kind, err := checkKind(c)
	if nil != err {
		return err
	}
	id, err := checkId(c, "id")
	if nil != err {
		return err
	}
	data, err := readData(c.String("data"))
	if nil != err {
		return err
	}

	client := newClient(m)
	defer client.Close()

	reply, err := client.ReplaceObject(kind, id, data)
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}
