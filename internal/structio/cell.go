// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package structio

import (
	"github.com/pkg/errors"

	"github.com/staranto/dbdump/internal/elements"
	"github.com/staranto/dbdump/internal/record"
)

// cellWriter writes a single CASTEP cell file.
type cellWriter struct {
	*file
	written bool
}

func (c *cellWriter) Write(r *record.Record) error {
	if c.written {
		return errors.Errorf("%s holds a single structure; use a %%d filename to extract several", c.name)
	}
	if err := checkPositions(r); err != nil {
		return err
	}
	c.written = true

	c.printf("%%BLOCK LATTICE_CART\nang\n")
	for _, row := range r.Cell {
		c.printf("  %14.8f %14.8f %14.8f\n", row[0], row[1], row[2])
	}
	c.printf("%%ENDBLOCK LATTICE_CART\n\n")

	c.printf("%%BLOCK POSITIONS_ABS\nang\n")
	for i, z := range r.Numbers {
		p := r.Positions[i]
		c.printf("%-2s %14.8f %14.8f %14.8f\n", elements.Symbol(z), p[0], p[1], p[2])
	}
	c.printf("%%ENDBLOCK POSITIONS_ABS\n")

	if fixed := fixedAtoms(r); len(fixed) > 0 {
		c.printf("\n%%BLOCK IONIC_CONSTRAINTS\n")
		n := 1
		for _, i := range fixed {
			sym := elements.Symbol(r.Numbers[i])
			index := speciesIndex(r.Numbers, i)
			for axis := range 3 {
				v := [3]int{}
				v[axis] = 1
				c.printf("%6d %-2s %4d %d %d %d\n", n, sym, index, v[0], v[1], v[2])
				n++
			}
		}
		c.printf("%%ENDBLOCK IONIC_CONSTRAINTS\n")
	}
	return nil
}

func (c *cellWriter) Close() error {
	return c.close()
}

// fixedAtoms lists the atoms held by a single FixAtoms style constraint.
func fixedAtoms(r *record.Record) []int {
	if len(r.Constraints) != 1 {
		return nil
	}
	con := r.Constraints[0]
	if !con.HasMask() {
		var out []int
		for _, i := range con.Indices {
			if i >= 0 && i < len(r.Numbers) {
				out = append(out, i)
			}
		}
		return out
	}
	var out []int
	for i, m := range con.Mask {
		if m && i < len(r.Numbers) {
			out = append(out, i)
		}
	}
	return out
}

// speciesIndex is the 1 based index of atom i among atoms of its element.
func speciesIndex(numbers []int, i int) int {
	n := 0
	for j := 0; j <= i; j++ {
		if numbers[j] == numbers[i] {
			n++
		}
	}
	return n
}
