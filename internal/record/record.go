// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMissing is returned when a record does not carry a requested attribute.
// Table rendering treats it as an empty cell rather than a failure.
var ErrMissing = errors.New("attribute not found")

// Field names tracked by the presence set.
const (
	FieldCTime         = "ctime"
	FieldUser          = "user"
	FieldNumbers       = "numbers"
	FieldPositions     = "positions"
	FieldCell          = "cell"
	FieldPBC           = "pbc"
	FieldEnergy        = "energy"
	FieldCharge        = "charge"
	FieldMagmom        = "magmom"
	FieldForces        = "forces"
	FieldStress        = "stress"
	FieldConstraints   = "constraints"
	FieldMasses        = "masses"
	FieldCalculator    = "calculator"
	FieldKeywords      = "keywords"
	FieldKeyValuePairs = "key_value_pairs"
	FieldData          = "data"
)

// Constraint is one stored constraint spec. Either Mask or Indices is
// normally set; Null marks a constraint list that was stored as null.
type Constraint struct {
	Name    string
	Mask    []bool
	Indices []int
}

// HasMask reports whether the constraint carries a boolean mask.
func (c Constraint) HasMask() bool {
	return c.Mask != nil
}

// Record is one stored atomic configuration.
type Record struct {
	ID            int
	CTime         float64
	User          string
	Numbers       []int
	Positions     [][3]float64
	Cell          [3][3]float64
	PBC           [3]bool
	Energy        float64
	Charge        float64
	Magmom        float64
	Forces        [][3]float64
	Stress        []float64
	Constraints   []Constraint
	Masses        []float64
	Calculator    string
	Keywords      []string
	KeyValuePairs Pairs
	Data          Pairs

	// NullConstraints is set when the constraints attribute exists but holds
	// no constraint object at all.
	NullConstraints bool

	present map[string]bool
}

// New returns an empty record with the given id.
func New(id int) *Record {
	return &Record{ID: id, present: make(map[string]bool)}
}

// Mark records that the attribute named field was supplied.
func (r *Record) Mark(fields ...string) {
	if r.present == nil {
		r.present = make(map[string]bool)
	}
	for _, f := range fields {
		r.present[f] = true
	}
}

// Has reports whether the attribute named field was supplied by the store.
func (r *Record) Has(field string) bool {
	return r.present[field]
}

// NAtoms returns the number of atoms.
func (r *Record) NAtoms() int {
	return len(r.Numbers)
}

// Dims returns the number of periodic directions.
func (r *Record) Dims() int {
	n := 0
	for _, p := range r.PBC {
		if p {
			n++
		}
	}
	return n
}

// KeyValue is one entry of an ordered mapping.
type KeyValue struct {
	Key   string
	Value any
}

// Pairs is an insertion ordered string keyed mapping.
type Pairs []KeyValue

// Get returns the value stored under key.
func (p Pairs) Get(key string) (any, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (p Pairs) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, kv := range p {
		keys = append(keys, kv.Key)
	}
	return keys
}

// Set replaces the value under key or appends a new entry.
func (p *Pairs) Set(key string, value any) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, KeyValue{Key: key, Value: value})
}

// PyString renders a scalar value using the conventions of the tools that
// write these databases: booleans are True/False and whole floats keep a
// trailing ".0".
func PyString(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return pyFloat(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, "'"+s+"'")
				continue
			}
			parts = append(parts, PyString(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "?"
	}
}

func pyFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
