// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTablesAligned(t *testing.T) {
	assert.Len(t, masses, len(symbols))
	assert.Equal(t, "Og", Symbol(118))
	assert.Equal(t, "X", Symbol(119))
	assert.Equal(t, "X", Symbol(-1))
}

func TestNumber(t *testing.T) {
	z, ok := Number("Si")
	assert.True(t, ok)
	assert.Equal(t, 14, z)

	_, ok = Number("Zz")
	assert.False(t, ok)

	assert.True(t, IsSymbol("Fe"))
	assert.False(t, IsSymbol("X"))
	assert.False(t, IsSymbol("energy"))
}

func TestFormula(t *testing.T) {
	tests := []struct {
		name string
		zs   []int
		want string
	}{
		{name: "empty", zs: nil, want: ""},
		{name: "single atom", zs: []int{14}, want: "Si"},
		{name: "silicon dimer", zs: []int{14, 14}, want: "Si2"},
		{name: "water is alphabetical", zs: []int{8, 1, 1}, want: "H2O"},
		{name: "methane", zs: []int{1, 6, 1, 1, 1}, want: "CH4"},
		{name: "ethanol", zs: []int{6, 6, 8, 1, 1, 1, 1, 1, 1}, want: "C2H6O"},
		{name: "carbon without hydrogen", zs: []int{8, 6, 8}, want: "CO2"},
		{name: "salt", zs: []int{17, 11}, want: "ClNa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Formula(tt.zs))
		})
	}
}

func TestMass(t *testing.T) {
	assert.InDelta(t, 28.085, Mass(14), 1e-9)
	assert.InDelta(t, 2*1.008+15.999, TotalMass([]int{1, 1, 8}), 1e-9)
	assert.Equal(t, 0.0, Mass(500))
	assert.Equal(t, 2, Count([]int{14, 8, 14}, 14))
}
