// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package output renders selected records as an aligned text or wiki table
// and prints the examples table for --examples.
package output
