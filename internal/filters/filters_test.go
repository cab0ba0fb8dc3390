// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/dbdump/internal/record"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
		wantCount int
		wantErr   bool
	}{
		{
			name:      "empty spec",
			spec:      "",
			wantCount: 0,
		},
		{
			name:      "single exact match",
			spec:      "config_type=dia",
			wantCount: 1,
			want: []Filter{
				{Key: "config_type", Operand: "=", Target: "dia"},
			},
		},
		{
			name:      "negated exact match",
			spec:      "user!=bob",
			wantCount: 1,
			want: []Filter{
				{Key: "user", Operand: "=", Target: "bob", Negate: true},
			},
		},
		{
			name:      "two character operator",
			spec:      "natoms<=2",
			wantCount: 1,
			want: []Filter{
				{Key: "natoms", Operand: "<=", Target: "2"},
			},
		},
		{
			name:      "negative target",
			spec:      "dft_energy<-2e4",
			wantCount: 1,
			want: []Filter{
				{Key: "dft_energy", Operand: "<", Target: "-2e4"},
			},
		},
		{
			name:      "bare key",
			spec:      "relaxed",
			wantCount: 1,
			want: []Filter{
				{Key: "relaxed"},
			},
		},
		{
			name:      "multiple expressions",
			spec:      "Si>100,age<1h",
			wantCount: 2,
			want: []Filter{
				{Key: "Si", Operand: ">", Target: "100"},
				{Key: "age", Operand: "<", Target: "1h"},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "a=1;b=2",
			delimiter: ";",
			wantCount: 2,
		},
		{
			name:    "missing target",
			spec:    "energy<",
			wantErr: true,
		},
		{
			name:    "garbage",
			spec:    "<<>>",
			wantErr: true,
		},
		{
			name:    "bad age",
			spec:    "age<soon",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("DBDUMP_FILTER_DELIM", tt.delimiter)
			}

			got, err := BuildFilters(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				var qe *QueryError
				assert.True(t, errors.As(err, &qe))
				assert.Equal(t, "QueryError", qe.Class())
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)
			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func testRecord() *record.Record {
	r := record.New(3)
	r.User = "alice"
	r.Numbers = []int{14, 14, 8}
	r.Energy = -25000.5
	r.CTime = 24.0
	r.PBC = [3]bool{true, false, true}
	r.Keywords = []string{"bulk"}
	r.KeyValuePairs = record.Pairs{
		{Key: "config_type", Value: "dia"},
		{Key: "dft_energy", Value: -25000.5},
		{Key: "relaxed", Value: true},
		{Key: "n", Value: int64(4)},
	}
	r.Mark(record.FieldUser, record.FieldNumbers, record.FieldEnergy, record.FieldCTime,
		record.FieldPBC, record.FieldKeywords, record.FieldKeyValuePairs)
	return r
}

func TestMatch(t *testing.T) {
	r := testRecord()
	hour := 3600 / record.Year

	tests := []struct {
		spec string
		now  float64
		want bool
	}{
		{spec: "", want: true},
		{spec: "id=3", want: true},
		{spec: "id>3", want: false},
		{spec: "user=alice", want: true},
		{spec: "user!=alice", want: false},
		{spec: "config_type=dia", want: true},
		{spec: "config_type=bt", want: false},
		{spec: "dft_energy<-2e4", want: true},
		{spec: "natoms<=2", want: false},
		{spec: "natoms=3", want: true},
		{spec: "Si>1", want: true},
		{spec: "Si=2,O=1", want: true},
		{spec: "Fe=0", want: true},
		{spec: "Si", want: true},
		{spec: "Fe", want: false},
		{spec: "bulk", want: true},
		{spec: "relaxed", want: true},
		{spec: "relaxed=True", want: true},
		{spec: "missing_key", want: false},
		{spec: "missing_key=1", want: false},
		{spec: "n>=4", want: true},
		{spec: "formula=OSi2", want: true},
		{spec: "pbc=101", want: true},
		{spec: "energy", want: true},
		{spec: "charge", want: false},
		{spec: "age<1h", now: 24.0 + 0.5*hour, want: true},
		{spec: "age<1h", now: 24.0 + 2*hour, want: false},
		{spec: "age>1h", now: 24.0 + 2*hour, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			filters, err := BuildFilters(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Match(r, filters, tt.now))
		})
	}
}

func TestLookup(t *testing.T) {
	r := testRecord()
	r.Forces = [][3]float64{{3, 4, 0}, {0, 0, 1}}
	r.Stress = []float64{1, -7, 2}
	r.Mark(record.FieldForces, record.FieldStress)

	v, ok := Lookup(r, "fmax")
	require.True(t, ok)
	assert.InDelta(t, 5.0, v, 1e-12)

	v, ok = Lookup(r, "smax")
	require.True(t, ok)
	assert.InDelta(t, 7.0, v, 1e-12)

	_, ok = Lookup(r, "charge")
	assert.False(t, ok)
}
