// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package elements holds periodic table data (symbols and standard atomic
// masses) and chemical formula formatting.
package elements
