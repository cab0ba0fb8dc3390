// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	t.Setenv("DBDUMP_CACHE_DIR", "/tmp/dbdump-test")
	dir, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/dbdump-test", dir)
}

func TestEnabled(t *testing.T) {
	for _, tt := range []struct {
		value string
		want  bool
	}{
		{value: "", want: true},
		{value: "1", want: true},
		{value: "0", want: false},
		{value: "false", want: false},
	} {
		t.Setenv("DBDUMP_CACHE", tt.value)
		assert.Equal(t, tt.want, Enabled(), "DBDUMP_CACHE=%q", tt.value)
	}
}

func TestWriteAndEntryPath(t *testing.T) {
	base := t.TempDir()
	t.Setenv("DBDUMP_CACHE_DIR", base)
	t.Setenv("DBDUMP_CACHE", "")

	p, ok := EntryPath([]string{"s3"}, "s3://b/k.db")
	assert.False(t, ok)
	assert.Equal(t, filepath.Join(base, "s3", encodeKey("s3://b/k.db")), p)

	require.NoError(t, Write([]string{"s3"}, "s3://b/k.db", []byte("data")))
	p, ok = EntryPath([]string{"s3"}, "s3://b/k.db")
	assert.True(t, ok)

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "data", string(raw))
}

func TestWriteDisabled(t *testing.T) {
	base := t.TempDir()
	t.Setenv("DBDUMP_CACHE_DIR", base)
	t.Setenv("DBDUMP_CACHE", "0")

	require.NoError(t, Write([]string{"s3"}, "k", []byte("data")))
	_, ok := EntryPath([]string{"s3"}, "k")
	assert.False(t, ok)
}

func TestPurge(t *testing.T) {
	base := t.TempDir()
	t.Setenv("DBDUMP_CACHE_DIR", base)
	t.Setenv("DBDUMP_CACHE", "")

	require.NoError(t, Write(nil, "old", []byte("x")))
	require.NoError(t, Write(nil, "new", []byte("y")))

	oldPath, _ := EntryPath(nil, "old")
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	require.NoError(t, Purge(24))

	_, ok := EntryPath(nil, "old")
	assert.False(t, ok)
	_, ok = EntryPath(nil, "new")
	assert.True(t, ok)

	require.NoError(t, Purge(0))
}

func TestPurgeMissingBase(t *testing.T) {
	t.Setenv("DBDUMP_CACHE_DIR", filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, Purge(1))
}

func TestEncodeKey(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", encodeKey(""))
	assert.Len(t, encodeKey("s3://bucket/key"), 32)
}
