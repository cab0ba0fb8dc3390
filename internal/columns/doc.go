// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package columns resolves the --columns spec into an ordered list of named
// accessors. Each accessor turns a record into a single cell value. Names
// without a built-in accessor read the key/value pair of the same name.
package columns
