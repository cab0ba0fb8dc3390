// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// dbdump prints tables of rows from ASE atomic structure databases and
// extracts the selected structures to files. It wires the CLI, delegates to
// internal packages, and serves as the entry point.
package main
