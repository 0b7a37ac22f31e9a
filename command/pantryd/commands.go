// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/pantry-io/pantryd/storage"
)

// setup command handler
//
// commands that cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "version":
		fmt.Printf("%s\n", version)

	case "help", "h", "?":
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)
		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                             (h)      - display this message\n\n")
		fmt.Printf("  version                          (v)      - display version\n\n")
		fmt.Printf("  chain                                     - display an enquiry of the chain in the configuration\n\n")
		fmt.Printf("  show-configuration                        - display the full configuration as JSON\n\n")
		fmt.Printf("  current-identifier                        - display the next object identifier (consumes it)\n\n")

	default:
		// not a setup command
		return false
	}

	// indicate processed
	return true
}

// config command handler
//
// commands that perform enquiries on the configuration
func processConfigCommand(arguments []string, configuration *Configuration) bool {

	switch arguments[0] {
	case "chain":
		fmt.Printf("%s\n", configuration.Chain)

	case "show-configuration":
		text, err := json.MarshalIndent(configuration, "", "  ")
		if nil != err {
			exitwithstatus.Message("configuration marshal error: %s", err)
		}
		fmt.Printf("%s\n", text)

	default:
		// not a config command
		return false
	}

	// indicate processed
	return true
}

// data command handler
//
// commands that are allowed to access the internal database
func processDataCommand(log *logger.L, arguments []string, configuration *Configuration) bool {

	switch arguments[0] {
	case "current-identifier":
		id, err := storage.NewID()
		if nil != err {
			exitwithstatus.Message("identifier enquiry error: %s", err)
		}
		log.Warnf("identifier enquiry consumed id: %d", id)
		fmt.Printf("%d\n", id)

	default:
		// not a data command
		return false
	}

	// indicate processed
	return true
}
