// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package backend opens ASE style databases (JSON and SQLite, locally or from
// S3) and selects records from them.
package backend
