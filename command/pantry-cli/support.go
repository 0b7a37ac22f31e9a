// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/pantry-io/pantryd/command/pantry-cli/apicalls"
)

// newClient - build an API client from the stored configuration
func newClient(m *metadata) *apicalls.Client {
	return apicalls.NewClient(m.config.Connect, m.config.Token, m.verbose, m.e)
}

// readData - literal JSON from the flag, or @FILE to read a file
func readData(s string) (json.RawMessage, error) {
	if "" == s {
		return nil, fmt.Errorf("missing data")
	}
	if strings.HasPrefix(s, "@") {
		b, err := os.ReadFile(s[1:])
		if nil != err {
			return nil, err
		}
		s = string(b)
	}
	data := json.RawMessage{}
	err := json.Unmarshal([]byte(s), &data)
	if nil != err {
		return nil, fmt.Errorf("invalid JSON: %s", err)
	}
	return data, nil
}

// checkKind - required kind flag
func checkKind(c *cli.Context) (string, error) {
	kind := c.String("kind")
	if "" == kind {
		return "", fmt.Errorf("missing kind")
	}
	return kind, nil
}

// checkId - required non-zero id flag
func checkId(c *cli.Context, name string) (uint64, error) {
	id := c.Uint64(name)
	if 0 == id {
		return 0, fmt.Errorf("missing %s", name)
	}
	return id, nil
}
