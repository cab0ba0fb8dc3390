// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespace(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Si_GAP.db", "databases.Si_GAP"},
		{"/data/runs/water.json", "databases.water"},
		{"s3://bucket/dbs/Si_GAP.sqlite", "databases.Si_GAP"},
		{"archive.2024.db", ""},
		{"-n", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Namespace(tt.path), tt.path)
	}
}
