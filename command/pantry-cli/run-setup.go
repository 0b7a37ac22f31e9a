// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/pantry-io/pantryd/command/pantry-cli/configuration"
)

func runSetup(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	connect := c.String("connect")
	if "" == connect {
		return fmt.Errorf("missing connect")
	}

	if m.verbose {
		fmt.Fprintf(m.e, "connect: %s\n", connect)
	}

	err := os.MkdirAll(path.Dir(m.file), 0700)
	if nil != err {
		return err
	}

	m.config = &configuration.Configuration{
		Connect: connect,
	}
	m.save = true

	fmt.Fprintf(m.w, "configuration: %s\n", m.file)
	return nil
}
