// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package jsondb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/dbdump/internal/record"
)

func scanAll(t *testing.T, be *BackendJSON) []*record.Record {
	t.Helper()
	var recs []*record.Record
	err := be.Scan(context.Background(), func(r *record.Record) bool {
		recs = append(recs, r)
		return true
	})
	require.NoError(t, err)
	return recs
}

func TestOpenAndScan(t *testing.T) {
	be, err := Open(filepath.Join("testdata", "small.json"))
	require.NoError(t, err)
	defer be.Close()

	assert.Equal(t, []int{1, 2, 3}, be.IDs())
	assert.Equal(t, "json:testdata/small.json", be.String())

	recs := scanAll(t, be)
	require.Len(t, recs, 3)

	r1 := recs[0]
	assert.Equal(t, 1, r1.ID)
	assert.Equal(t, "alice", r1.User)
	assert.Equal(t, []int{14, 14}, r1.Numbers)
	assert.Equal(t, [3]bool{true, true, true}, r1.PBC)
	assert.InDelta(t, 2.72, r1.Cell[0][1], 1e-12)
	assert.True(t, r1.Has(record.FieldForces))
	assert.False(t, r1.Has(record.FieldConstraints))
	v, ok := r1.KeyValuePairs.Get("config_type")
	require.True(t, ok)
	assert.Equal(t, "dia", v)

	r2 := recs[1]
	assert.Equal(t, []int{8, 1, 1}, r2.Numbers)
	assert.Equal(t, "castep", r2.Calculator)
	assert.InDelta(t, 10.0, r2.Cell[2][2], 1e-12)
	require.Len(t, r2.Constraints, 1)
	assert.Equal(t, []int{0}, r2.Constraints[0].Indices)
	assert.Len(t, r2.Positions, 3)

	r3 := recs[2]
	assert.Equal(t, [3][3]float64{{3, 0, 0}, {0, 5, 0}, {0, 0, 5}}, r3.Cell)
	assert.False(t, r3.Has(record.FieldEnergy))
}

func TestScanStopsEarly(t *testing.T) {
	be, err := Open(filepath.Join("testdata", "small.json"))
	require.NoError(t, err)

	var n int
	err = be.Scan(context.Background(), func(*record.Record) bool {
		n++
		return n < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIDsWithoutList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noids.json")
	doc := `{"5": {"numbers": [1]}, "2": {"numbers": [8]}, "nextid": 6}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	be, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, be.IDs())
	assert.Len(t, scanAll(t, be), 2)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join("testdata", "nope.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = Open(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte("[1, 2]"), 0o600))
	_, err = Open(path)
	assert.Error(t, err)
}
