// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command-line client for a pantryd server
//
// configuration is stored as JSON under:
//   ${XDG_CONFIG_HOME}/pantry-cli/pantry-cli.json
//
// e.g. to create an account and store a shop:
//
//   pantry-cli setup -c 127.0.0.1:2130
//   pantry-cli register -u alice -p secret
//   pantry-cli login -u alice -p secret
//   pantry-cli create -k shop -d '{"name":"corner shop","address":"1 high st"}'
package main
