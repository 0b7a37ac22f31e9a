// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/pantry-io/pantryd/command/pantry-cli/configuration"
)

type metadata struct {
	file    string
	config  *configuration.Configuration
	save    bool
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "pantry-cli"
	app.Usage = "pantryd client"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "setup",
			Usage:     "initialise pantry-cli configuration",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*pantryd host/IP and port, `HOST:PORT`",
				},
			},
			Action: runSetup,
		},
		{
			Name:      "register",
			Usage:     "create a pantryd account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "username, u",
					Value: "",
					Usage: "*account `NAME`",
				},
				cli.StringFlag{
					Name:  "password, p",
					Value: "",
					Usage: "*account `PASSWORD`",
				},
			},
			Action: runRegister,
		},
		{
			Name:      "login",
			Usage:     "obtain a session token and store it in the config file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "username, u",
					Value: "",
					Usage: " account `NAME` [default from config file]",
				},
				cli.StringFlag{
					Name:  "password, p",
					Value: "",
					Usage: "*account `PASSWORD`",
				},
			},
			Action: runLogin,
		},
		{
			Name:   "logout",
			Usage:  "revoke the stored session token",
			Action: runLogout,
		},
		{
			Name:      "create",
			Usage:     "store a new object",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "kind, k",
					Value: "",
					Usage: "*object `KIND` [list|item|article|shop]",
				},
				cli.Uint64Flag{
					Name:  "parent, P",
					Value: 0,
					Usage: " share access with existing object `ID`",
				},
				cli.StringFlag{
					Name:  "data, d",
					Value: "",
					Usage: "*object as `JSON`, or @FILE to read a file",
				},
			},
			Action: runCreate,
		},
		{
			Name:      "show",
			Usage:     "fetch one object",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "kind, k",
					Value: "",
					Usage: "*object `KIND` [list|item|article|shop|user]",
				},
				cli.Uint64Flag{
					Name:  "id, i",
					Value: 0,
					Usage: "*object `ID`",
				},
			},
			Action: runShow,
		},
		{
			Name:      "replace",
			Usage:     "overwrite an existing object",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "kind, k",
					Value: "",
					Usage: "*object `KIND` [list|item|article|shop]",
				},
				cli.Uint64Flag{
					Name:  "id, i",
					Value: 0,
					Usage: "*object `ID`",
				},
				cli.StringFlag{
					Name:  "data, d",
					Value: "",
					Usage: "*object as `JSON`, or @FILE to read a file",
				},
			},
			Action: runReplace,
		},
		{
			Name:      "grant",
			Usage:     "allow another user access to an owned object",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "id, i",
					Value: 0,
					Usage: "*object `ID`",
				},
				cli.Uint64Flag{
					Name:  "user, u",
					Value: 0,
					Usage: "*user `ID` to receive access",
				},
			},
			Action: runGrant,
		},
		{
			Name:      "owned",
			Usage:     "list ids of owned objects of one kind",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "kind, k",
					Value: "",
					Usage: "*object `KIND` [list|item|article|shop]",
				},
			},
			Action: runOwned,
		},
		{
			Name:      "list",
			Usage:     "display a shopping list joined with its items",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "id, i",
					Value: 0,
					Usage: "*list `ID`",
				},
			},
			Action: runList,
		},
		{
			Name:   "info",
			Usage:  "display pantryd status",
			Action: runInfo,
		},
		{
			Name:  "version",
			Usage: "display pantry-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// read the configuration
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file for certain commands
		command := c.Args().Get(0)
		if "version" == command {
			return nil
		}

		p := os.Getenv("XDG_CONFIG_HOME")
		if "" == p {
			return fmt.Errorf("XDG_CONFIG_HOME environment is not set")
		}
		dir, err := checkFileExists(p)
		if nil != err {
			return err
		}
		if !dir {
			return fmt.Errorf("not a directory: %q", p)
		}
		file := path.Join(p, app.Name, app.Name+".json")

		if verbose {
			fmt.Fprintf(e, "file: %q\n", file)
		}

		if "setup" == command {
			// do not run setup if there is an existing configuration
			if _, err := checkFileExists(file); nil == err {
				return fmt.Errorf("not overwriting existing configuration: %q", file)
			}

			c.App.Metadata["config"] = &metadata{
				file:    file,
				save:    false,
				verbose: verbose,
				e:       e,
				w:       w,
			}

		} else {

			if verbose {
				fmt.Fprintf(e, "reading config file: %s\n", file)
			}

			conf, err := configuration.Load(file)
			if nil != err {
				return err
			}

			c.App.Metadata["config"] = &metadata{
				file:    file,
				config:  conf,
				save:    false,
				verbose: verbose,
				e:       e,
				w:       w,
			}
		}

		return nil
	}

	// update the configuration if required
	app.After = func(c *cli.Context) error {
		e := c.App.ErrWriter
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		if m.save {
			if c.GlobalBool("verbose") {
				fmt.Fprintf(e, "updating config file: %s\n", m.file)
			}
			err := configuration.Save(m.file, m.config)
			if nil != err {
				return err
			}
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// checkFileExists - check if file exists, return true if it is a directory
func checkFileExists(name string) (bool, error) {
	s, err := os.Stat(name)
	if nil != err {
		return false, err
	}
	return s.IsDir(), nil
}
