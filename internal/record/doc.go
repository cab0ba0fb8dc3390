// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package record defines the stored atomic configuration type shared by the
// backends, selection filters, column accessors and extraction writers.
package record
