// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pantry-io/pantryd/configuration"
	"github.com/pantry-io/pantryd/fault"
)

type testConfig struct {
	Chain    string   `gluamapper:"chain"`
	Database string   `gluamapper:"database"`
	Listen   []string `gluamapper:"listen"`
	Count    int      `gluamapper:"count"`
}

const luaSource = `
local M = {}

M.chain = "testing"
M.database = "pantry.leveldb"
M.listen = {
    "127.0.0.1:8130",
    "[::1]:8130",
}
M.count = 2 * 5

return M
`

func writeConfig(t *testing.T, source string) string {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "pantryd.conf")
	if err := os.WriteFile(fileName, []byte(source), 0600); nil != err {
		t.Fatalf("write config: %s", err)
	}
	return fileName
}

func TestParseConfigurationFile(t *testing.T) {
	fileName := writeConfig(t, luaSource)

	var config testConfig
	err := configuration.ParseConfigurationFile(fileName, &config)
	assert.Nil(t, err, "parse")

	assert.Equal(t, "testing", config.Chain, "chain")
	assert.Equal(t, "pantry.leveldb", config.Database, "database")
	assert.Equal(t, []string{"127.0.0.1:8130", "[::1]:8130"}, config.Listen, "listen")
	assert.Equal(t, 10, config.Count, "lua expression evaluated")
}

func TestParseRejectsNonPointer(t *testing.T) {
	fileName := writeConfig(t, luaSource)

	var config testConfig
	err := configuration.ParseConfigurationFile(fileName, config)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "value")

	var number int
	err = configuration.ParseConfigurationFile(fileName, &number)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "non struct")
}

func TestParseMissingFile(t *testing.T) {
	var config testConfig
	err := configuration.ParseConfigurationFile("/nonexistent/pantryd.conf", &config)
	assert.NotNil(t, err)
}

func TestParseBadLua(t *testing.T) {
	fileName := writeConfig(t, `this is not lua`)

	var config testConfig
	err := configuration.ParseConfigurationFile(fileName, &config)
	assert.NotNil(t, err)
}

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/var/lib/pantryd/data", configuration.EnsureAbsolute("/var/lib/pantryd", "data"), "relative")
	assert.Equal(t, "/tmp/data", configuration.EnsureAbsolute("/var/lib/pantryd", "/tmp/data"), "absolute")
}
