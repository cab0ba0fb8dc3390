// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/staranto/dbdump/internal/config"
)

// NamespaceRoot holds per database config sections, keyed by database name.
const NamespaceRoot = "databases"

// Meta is the per invocation state shared with the command action.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// Namespace is the config section for the database being dumped, empty
	// when the database is not yet known.
	Namespace string
}

// Namespace returns the config section for the database at path: its base
// name without extension under NamespaceRoot.
func Namespace(path string) string {
	if path == "" || strings.HasPrefix(path, "-") {
		return ""
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || strings.Contains(base, ".") {
		return ""
	}
	return NamespaceRoot + "." + base
}
