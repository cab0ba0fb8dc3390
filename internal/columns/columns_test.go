// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package columns

import (
	"embed"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// testResolveCase represents a single test case for TestResolveNames.
type testResolveCase struct {
	Name    string   `yaml:"name"`
	Spec    string   `yaml:"spec"`
	Want    []string `yaml:"want"`
	WantErr bool     `yaml:"wantErr"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v any) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestResolveNames(t *testing.T) {
	var tests []testResolveCase
	err := loadTestData("resolve_cases.yaml", &tests)
	require.NoError(t, err)
	require.NotEmpty(t, tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got, err := ResolveNames(tt.Spec)

			if tt.WantErr {
				require.Error(t, err)
				var ce *ColumnError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, "ValueError", ce.Class())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.Want, got)
		})
	}
}

func TestResolveNames_DefaultsUntouched(t *testing.T) {
	before := append([]string(nil), Default...)

	_, err := ResolveNames("-id,-age")
	require.NoError(t, err)
	_, err = ResolveNames("x,y")
	require.NoError(t, err)

	assert.Equal(t, before, Default)
}

func TestResolveNames_PlusIsOrderedSuperset(t *testing.T) {
	for _, spec := range []string{"+a", "+a,b", "+z,y,x", "+energy,extra"} {
		t.Run(spec, func(t *testing.T) {
			got, err := ResolveNames(spec)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(got), len(Default))
			assert.Equal(t, Default, got[:len(Default)])
		})
	}
}

func TestResolveNames_MinusPreservesOrder(t *testing.T) {
	got, err := ResolveNames("-user,-fmax,-smax")
	require.NoError(t, err)

	want := make([]string, 0, len(Default))
	for _, n := range Default {
		if n != "user" && n != "fmax" && n != "smax" {
			want = append(want, n)
		}
	}
	assert.Equal(t, want, got)
}

func TestResolve_Binds(t *testing.T) {
	cols, err := Resolve("id,config_type")
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.Equal(t, []string{"id", "config_type"}, Names(cols))
	assert.True(t, IsBuiltin("id"))
	assert.False(t, IsBuiltin("config_type"))
	for _, c := range cols {
		assert.NotNil(t, c.Value, c.Name)
	}
}

func TestCut(t *testing.T) {
	tests := []struct {
		name string
		txt  string
		n    int
		want string
	}{
		{name: "zero disables", txt: "abcdefghijklmnop", n: 0, want: "abcdefghijklmnop"},
		{name: "shorter", txt: "abc", n: 5, want: "abc"},
		{name: "exact", txt: "abcde", n: 5, want: "abcde"},
		{name: "longer", txt: "abcdefghij", n: 5, want: "ab..."},
		{name: "cell", txt: "[[1.0, 0.0, 0.0], [0.0, 1.0, 0.0], [0.0, 0.0, 1.0]]", n: 30, want: "[[1.0, 0.0, 0.0], [0.0, 1.0..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cut(tt.txt, tt.n)
			assert.Equal(t, tt.want, got)
			if tt.n > 0 && len(tt.txt) > tt.n {
				assert.Len(t, got, tt.n)
			}
		})
	}
}
