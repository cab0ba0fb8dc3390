// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Decode builds a Record from one JSON encoded row. Arrays may be plain
// (nested) JSON lists or {"__ndarray__": [shape, dtype, flat]} objects.
func Decode(id int, row gjson.Result) (*Record, error) {
	if !row.IsObject() {
		return nil, errors.Errorf("row %d is not an object", id)
	}

	r := New(id)

	if v := row.Get("ctime"); v.Exists() {
		r.CTime = v.Float()
		r.Mark(FieldCTime)
	}
	if v := row.Get("user"); v.Exists() {
		r.User = v.String()
		r.Mark(FieldUser)
	}
	if v := row.Get("numbers"); v.Exists() {
		flat, _ := Floats(v)
		r.Numbers = make([]int, len(flat))
		for i, f := range flat {
			r.Numbers[i] = int(f)
		}
		r.Mark(FieldNumbers)
	}
	if v := row.Get("positions"); v.Exists() {
		vecs, err := Vectors(v)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d positions", id)
		}
		r.Positions = vecs
		r.Mark(FieldPositions)
	}
	if v := row.Get("cell"); v.Exists() {
		cell, err := Cell(v)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d cell", id)
		}
		r.Cell = cell
		r.Mark(FieldCell)
	}
	if v := row.Get("pbc"); v.Exists() {
		r.PBC = PBC(v)
		r.Mark(FieldPBC)
	}
	for _, s := range []struct {
		key string
		dst *float64
	}{
		{FieldEnergy, &r.Energy},
		{FieldCharge, &r.Charge},
		{FieldMagmom, &r.Magmom},
	} {
		if v := row.Get(s.key); v.Exists() && v.Type == gjson.Number {
			*s.dst = v.Float()
			r.Mark(s.key)
		}
	}
	if v := row.Get("forces"); v.Exists() {
		vecs, err := Vectors(v)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d forces", id)
		}
		r.Forces = vecs
		r.Mark(FieldForces)
	}
	if v := row.Get("stress"); v.Exists() {
		r.Stress, _ = Floats(v)
		r.Mark(FieldStress)
	}
	if v := row.Get("constraints"); v.Exists() {
		r.Constraints, r.NullConstraints = Constraints(v)
		r.Mark(FieldConstraints)
	}
	if v := row.Get("masses"); v.Exists() {
		r.Masses, _ = Floats(v)
		r.Mark(FieldMasses)
	}
	if v := row.Get("calculator"); v.Exists() {
		r.Calculator = v.String()
		r.Mark(FieldCalculator)
	}
	if v := row.Get("keywords"); v.Exists() {
		for _, k := range v.Array() {
			r.Keywords = append(r.Keywords, k.String())
		}
		r.Mark(FieldKeywords)
	}
	if v := row.Get("key_value_pairs"); v.Exists() {
		r.KeyValuePairs = ParsePairs(v)
		r.Mark(FieldKeyValuePairs)
	}
	if v := row.Get("data"); v.Exists() {
		r.Data = ParsePairs(v)
		r.Mark(FieldData)
	}

	return r, nil
}

// Floats flattens a JSON array or an encoded ndarray into float64 values.
func Floats(v gjson.Result) ([]float64, []int) {
	if nd := v.Get("__ndarray__"); nd.Exists() {
		parts := nd.Array()
		if len(parts) < 3 {
			return nil, nil
		}
		var shape []int
		for _, s := range parts[0].Array() {
			shape = append(shape, int(s.Int()))
		}
		return flatten(parts[2], nil), shape
	}
	if v.IsObject() && v.Get("array").Exists() {
		return Floats(v.Get("array"))
	}

	var shape []int
	for cur := v; cur.IsArray(); {
		items := cur.Array()
		shape = append(shape, len(items))
		if len(items) == 0 {
			break
		}
		cur = items[0]
	}
	return flatten(v, nil), shape
}

func flatten(v gjson.Result, dst []float64) []float64 {
	if !v.IsArray() {
		switch v.Type {
		case gjson.True:
			return append(dst, 1)
		case gjson.False:
			return append(dst, 0)
		default:
			return append(dst, v.Float())
		}
	}
	for _, item := range v.Array() {
		dst = flatten(item, dst)
	}
	return dst
}

// Vectors decodes an (N, 3) array.
func Vectors(v gjson.Result) ([][3]float64, error) {
	flat, _ := Floats(v)
	if len(flat)%3 != 0 {
		return nil, errors.Errorf("expected a multiple of 3 values, got %d", len(flat))
	}
	vecs := make([][3]float64, len(flat)/3)
	for i := range vecs {
		copy(vecs[i][:], flat[3*i:3*i+3])
	}
	return vecs, nil
}

// Cell decodes a 3x3 lattice. A flat list of 3 values is a diagonal cell.
func Cell(v gjson.Result) ([3][3]float64, error) {
	var cell [3][3]float64
	flat, _ := Floats(v)
	switch len(flat) {
	case 9:
		for i := 0; i < 3; i++ {
			copy(cell[i][:], flat[3*i:3*i+3])
		}
	case 3:
		for i := 0; i < 3; i++ {
			cell[i][i] = flat[i]
		}
	default:
		return cell, errors.Errorf("expected 3 or 9 values, got %d", len(flat))
	}
	return cell, nil
}

// PBC decodes periodic boundary flags from a list of booleans or a bit-packed
// integer.
func PBC(v gjson.Result) [3]bool {
	var pbc [3]bool
	if v.Type == gjson.Number {
		return UnpackPBC(int(v.Int()))
	}
	flat, _ := Floats(v)
	for i := 0; i < 3 && i < len(flat); i++ {
		pbc[i] = flat[i] != 0
	}
	return pbc
}

// UnpackPBC decodes the bit-packed representation (1, 2, 4 per axis).
func UnpackPBC(bits int) [3]bool {
	return [3]bool{bits&1 != 0, bits&2 != 0, bits&4 != 0}
}

// Constraints decodes a constraint list. The second return is true when the
// stored value is null.
func Constraints(v gjson.Result) ([]Constraint, bool) {
	if v.Type == gjson.Null {
		return nil, true
	}
	if v.Type == gjson.String {
		// Some stores keep the list as JSON text.
		return Constraints(gjson.Parse(v.String()))
	}

	items := v.Array()
	if v.IsObject() {
		items = []gjson.Result{v}
	}

	cs := make([]Constraint, 0, len(items))
	for _, item := range items {
		c := Constraint{Name: item.Get("name").String()}
		args := item
		if kw := item.Get("kwargs"); kw.Exists() {
			args = kw
		}
		if m := args.Get("mask"); m.Exists() {
			flat, _ := Floats(m)
			c.Mask = make([]bool, len(flat))
			for i, f := range flat {
				c.Mask[i] = f != 0
			}
		}
		if idx := args.Get("indices"); idx.Exists() {
			flat, _ := Floats(idx)
			c.Indices = make([]int, len(flat))
			for i, f := range flat {
				c.Indices[i] = int(f)
			}
		}
		if idx := args.Get("a"); idx.Exists() && c.Indices == nil && c.Mask == nil {
			flat, _ := Floats(idx)
			for _, f := range flat {
				c.Indices = append(c.Indices, int(f))
			}
		}
		cs = append(cs, c)
	}
	return cs, false
}

// ParsePairs decodes a JSON object into ordered pairs.
func ParsePairs(v gjson.Result) Pairs {
	if v.Type == gjson.String {
		return ParsePairs(gjson.Parse(v.String()))
	}
	var p Pairs
	v.ForEach(func(key, value gjson.Result) bool {
		p = append(p, KeyValue{Key: key.String(), Value: Value(value)})
		return true
	})
	return p
}

// Value converts a JSON value to a Go scalar. Numbers written without a
// fraction or exponent become int64.
func Value(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.String:
		return v.String()
	case gjson.Number:
		if !strings.ContainsAny(v.Raw, ".eE") {
			if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
				return i
			}
		}
		return v.Float()
	}
	if v.IsArray() {
		items := v.Array()
		out := make([]any, 0, len(items))
		for _, item := range items {
			out = append(out, Value(item))
		}
		return out
	}
	if v.Get("__ndarray__").Exists() {
		flat, _ := Floats(v)
		out := make([]any, 0, len(flat))
		for _, f := range flat {
			out = append(out, f)
		}
		return out
	}
	return v.Raw
}

// Float returns v as a float64 when it is numeric.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
