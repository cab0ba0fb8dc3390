// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package columns

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/staranto/dbdump/internal/elements"
	"github.com/staranto/dbdump/internal/record"
)

// AccessError is a fatal failure evaluating a built-in column, as opposed to
// record.ErrMissing which only blanks the cell.
type AccessError struct {
	Column string
	Msg    string
	class  string
}

func (e *AccessError) Error() string {
	return e.Column + ": " + e.Msg
}

// Class names the error category in top level reports.
func (e *AccessError) Class() string { return e.class }

func accessErr(col, class, msg string) error {
	return errors.WithStack(&AccessError{Column: col, Msg: msg, class: class})
}

var builtins map[string]Accessor

func init() {
	builtins = map[string]Accessor{
		"id":       id,
		"age":      age,
		"user":     user,
		"formula":  formula,
		"energy":   energy,
		"size":     size,
		"cell":     cell,
		"pbc":      pbc,
		"calc":     calc,
		"fmax":     fmax,
		"keywords": keywords,
		"keyvals":  keyvals,
		"data":     data,
		"charge":   charge,
		"mass":     mass,
		"fixed":    fixed,
		"smax":     smax,
		"magmom":   magmom,
	}
}

func need(r *record.Record, fields ...string) error {
	for _, f := range fields {
		if !r.Has(f) {
			return errors.Wrap(record.ErrMissing, f)
		}
	}
	return nil
}

func id(r *record.Record, _ Options) (any, error) {
	return int64(r.ID), nil
}

func age(r *record.Record, opts Options) (any, error) {
	if err := need(r, record.FieldCTime); err != nil {
		return nil, err
	}
	if opts.LongAge {
		return humanize.RelTime(record.Time(r.CTime), record.Time(opts.Now), "ago", "from now"), nil
	}
	return record.FloatToTimeString(opts.Now - r.CTime), nil
}

func user(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldUser); err != nil {
		return nil, err
	}
	return r.User, nil
}

func formula(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldNumbers); err != nil {
		return nil, err
	}
	return elements.Formula(r.Numbers), nil
}

func energy(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldEnergy); err != nil {
		return nil, err
	}
	return r.Energy, nil
}

func charge(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldCharge); err != nil {
		return nil, err
	}
	return r.Charge, nil
}

func calc(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldCalculator); err != nil {
		return nil, err
	}
	return r.Calculator, nil
}

// size is the length, area or volume spanned by the periodic cell vectors.
func size(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldPBC, record.FieldCell); err != nil {
		return nil, err
	}

	var periodic []r3.Vec
	for i, p := range r.PBC {
		if p {
			periodic = append(periodic, vec(r.Cell[i]))
		}
	}

	switch len(periodic) {
	case 0:
		return "", nil
	case 1:
		return r3.Norm(periodic[0]), nil
	case 2:
		return r3.Norm(r3.Cross(periodic[0], periodic[1])), nil
	}

	m := mat.NewDense(3, 3, nil)
	for i := range 3 {
		for j := range 3 {
			m.Set(i, j, r.Cell[i][j])
		}
	}
	return math.Abs(mat.Det(m)), nil
}

func cell(r *record.Record, opts Options) (any, error) {
	if err := need(r, record.FieldCell); err != nil {
		return nil, err
	}

	c := r.Cell
	if isDiagonal(c) {
		return Cut(fmt.Sprintf("diag([%.1f, %.1f, %.1f])", c[0][0], c[1][1], c[2][2]), opts.Cut), nil
	}
	return Cut(fmt.Sprintf("[[%.1f, %.1f, %.1f], [%.1f, %.1f, %.1f], [%.1f, %.1f, %.1f]]",
		c[0][0], c[0][1], c[0][2],
		c[1][0], c[1][1], c[1][2],
		c[2][0], c[2][1], c[2][2]), opts.Cut), nil
}

func isDiagonal(c [3][3]float64) bool {
	for i := range 3 {
		for j := range 3 {
			if i != j && c[i][j] != 0 {
				return false
			}
		}
	}
	return true
}

func pbc(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldPBC); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, p := range r.PBC {
		if p {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String(), nil
}

// fmax is the largest force magnitude. A single masked constraint hides the
// fixed atoms; any other constraint layout uses every atom.
func fmax(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldConstraints); err != nil {
		return nil, err
	}
	if r.NullConstraints {
		return nil, accessErr("fmax", "TypeError", "constraints is None")
	}
	if len(r.Constraints) == 0 {
		return nil, accessErr("fmax", "IndexError", "empty constraint list")
	}
	if err := need(r, record.FieldForces); err != nil {
		return nil, err
	}

	forces := r.Forces
	if len(r.Constraints) == 1 && r.Constraints[0].HasMask() {
		mask := r.Constraints[0].Mask
		if len(mask) != len(forces) {
			return nil, accessErr("fmax", "IndexError",
				fmt.Sprintf("mask length %d does not match %d atoms", len(mask), len(forces)))
		}
		forces = nil
		for i, f := range r.Forces {
			if !mask[i] {
				forces = append(forces, f)
			}
		}
	}

	if len(forces) == 0 {
		return nil, accessErr("fmax", "ValueError", "no unconstrained forces")
	}

	var m float64
	for _, f := range forces {
		m = math.Max(m, r3.Norm(vec(f)))
	}
	return m, nil
}

func keywords(r *record.Record, opts Options) (any, error) {
	if err := need(r, record.FieldKeywords); err != nil {
		return nil, err
	}
	return Cut(strings.Join(r.Keywords, ","), opts.Cut), nil
}

// keyvals renders every key/value pair with fixed truncation lengths.
func keyvals(r *record.Record, _ Options) (any, error) {
	parts := make([]string, 0, len(r.KeyValuePairs))
	for _, kv := range r.KeyValuePairs {
		parts = append(parts, kv.Key+"="+Cut(record.PyString(kv.Value), 8))
	}
	return Cut(strings.Join(parts, ","), 40), nil
}

func data(r *record.Record, opts Options) (any, error) {
	if err := need(r, record.FieldData); err != nil {
		return nil, err
	}
	return Cut(strings.Join(r.Data.Keys(), ","), opts.Cut), nil
}

func mass(r *record.Record, _ Options) (any, error) {
	if r.Has(record.FieldMasses) {
		var m float64
		for _, v := range r.Masses {
			m += v
		}
		return m, nil
	}
	if err := need(r, record.FieldNumbers); err != nil {
		return nil, err
	}
	return elements.TotalMass(r.Numbers), nil
}

// fixed counts the atoms held by constraints, "?" when there is more than one.
func fixed(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldConstraints); err != nil {
		return nil, err
	}
	switch {
	case r.NullConstraints || len(r.Constraints) == 0:
		return "", nil
	case len(r.Constraints) > 1:
		return "?", nil
	}

	c := r.Constraints[0]
	if !c.HasMask() {
		return int64(len(c.Indices)), nil
	}
	var n int64
	for _, m := range c.Mask {
		if m {
			n++
		}
	}
	return n, nil
}

func smax(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldStress); err != nil {
		return nil, err
	}
	if len(r.Stress) == 0 {
		return nil, accessErr("smax", "ValueError", "empty stress")
	}
	var m float64
	for _, s := range r.Stress {
		m = math.Max(m, s*s)
	}
	return math.Sqrt(m), nil
}

func magmom(r *record.Record, _ Options) (any, error) {
	if err := need(r, record.FieldMagmom); err != nil {
		return nil, err
	}
	if r.Magmom == 0 {
		return "", nil
	}
	return r.Magmom, nil
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
