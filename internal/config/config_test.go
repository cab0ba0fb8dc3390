// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points DBDUMP_CFG at a testdata file and resets Config.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("DBDUMP_CFG", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, 100, cfg.Data["limit"])
				assert.Equal(t, "+config_type", cfg.Data["columns"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				s3, ok := cfg.Data["s3"].(map[string]interface{})
				require.True(t, ok, "s3 should be a map")
				assert.Equal(t, "us-west-2", s3["region"])
				assert.Equal(t, "research", s3["profile"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "gap-training", cfg.Data["name"])
				assert.Equal(t, 1, cfg.Data["version"])
				assert.Equal(t, true, cfg.Data["wiki_table"])
				assert.Equal(t, 30.5, cfg.Data["cut"])
				tags, ok := cfg.Data["tags"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, tags, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source, "should have a source path")
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("DBDUMP_CFG", "/nonexistent/path/dbdump.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_CfgIsDirectory(t *testing.T) {
	t.Setenv("DBDUMP_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestLoad_StandardLocations(t *testing.T) {
	home, err := filepath.Abs("testdata")
	require.NoError(t, err)

	t.Setenv("DBDUMP_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", home)
	Config = Type{}

	// testdata has no dbdump.yaml
	_, err = Load()
	assert.ErrorContains(t, err, "no config file found")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "simple string value", testFile: "simple.yaml", key: "age", want: "long"},
		{name: "nested string value", testFile: "nested.yaml", key: "s3.region", want: "us-west-2"},
		{name: "missing key with default", testFile: "simple.yaml", key: "colors.title",
			defaultValue: []string{"#f6be00"}, want: "#f6be00"},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-string value", testFile: "mixed-types.yaml", key: "version", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)
			_, _ = Load()

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{name: "int value", testFile: "simple.yaml", key: "limit", want: 100},
		{name: "float value converted to int", testFile: "mixed-types.yaml", key: "cut", want: 30},
		{name: "nested int value", testFile: "nested.yaml", key: "cache.purge_hours", want: 24},
		{name: "missing key with default", testFile: "simple.yaml", key: "cut",
			defaultValue: []int{30}, want: 30},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-int value", testFile: "simple.yaml", key: "age", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)
			_, _ = Load()

			got, err := GetInt(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetBool(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")
	_, _ = Load()

	got, err := GetBool("wiki_table")
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = GetBool("color", true)
	assert.NoError(t, err)
	assert.True(t, got)

	_, err = GetBool("name")
	assert.Error(t, err)
}

func TestConfig_GetWithNamespace(t *testing.T) {
	setupTestConfig(t, "namespace.yaml")
	_, err := Load()
	require.NoError(t, err)

	Config.Namespace = "databases.Si_GAP"

	val, err := Config.get("columns")
	assert.NoError(t, err)
	assert.Equal(t, "id,formula,energy", val)

	cut, err := GetInt("cut")
	assert.NoError(t, err)
	assert.Equal(t, 12, cut)

	// Falls back to the bare key.
	age, err := GetString("age")
	assert.NoError(t, err)
	assert.Equal(t, "short", age)

	Config.Namespace = "databases.water"
	cut, err = GetInt("cut")
	assert.NoError(t, err)
	assert.Equal(t, 30, cut)

	_, err = GetString("nonexistent")
	assert.Error(t, err)
}

func TestConfig_GetNestedPath(t *testing.T) {
	setupTestConfig(t, "deep-nested.yaml")
	_, err := Load()
	require.NoError(t, err)

	val, err := Config.get("level1.level2.level3.value")
	assert.NoError(t, err)
	assert.Equal(t, "deep-value", val)
}

func TestConfig_LazyLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	val, err := GetString("age")
	assert.NoError(t, err)
	assert.Equal(t, "long", val)
	assert.NotEmpty(t, Config.Source, "Config should be loaded")
}
