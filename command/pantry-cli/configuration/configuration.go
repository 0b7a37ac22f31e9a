// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Configuration - configuration file data format
type Configuration struct {
	Connect  string `json:"connect"`
	Username string `json:"username"`
	UserId   uint64 `json:"user_id"`
	Token    string `json:"token"`
}

// Load - read the configuration
func Load(fileName string) (*Configuration, error) {

	options := &Configuration{}

	fileName, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	f, err := os.Open(fileName)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	err = dec.Decode(options)
	if nil != err {
		return nil, err
	}

	return options, nil
}

// Save - atomically update the configuration
//
// write to a temporary file then rename over the original so that a
// crash never leaves a half written file behind
func Save(fileName string, configuration *Configuration) error {

	tempFile := fileName + ".new"

	os.Remove(tempFile)

	b, err := json.MarshalIndent(configuration, "", "  ")
	if nil != err {
		return err
	}
	b = append(b, '\n')

	err = os.WriteFile(tempFile, b, 0600)
	if nil != err {
		return err
	}

	return os.Rename(tempFile, fileName)
}
