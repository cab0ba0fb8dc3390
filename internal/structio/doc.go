// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package structio writes records to structure files. The format follows the
// file extension: extended XYZ (.xyz, .extxyz), CASTEP cell (.cell) and ASE
// JSON database (.json).
package structio
