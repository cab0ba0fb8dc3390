// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package command defines the dbdump CLI. It wires flags, config file
// defaults, validators and the dump action that selects rows, renders the
// table and extracts structures.
package command
