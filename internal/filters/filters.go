// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/staranto/dbdump/internal/elements"
	"github.com/staranto/dbdump/internal/record"
)

// filterRegex is the pattern used to parse selection expressions into key,
// operator, and target components. Two-character operators are tried first so
// that "a<=1" is not read as "a<" "=1", and the key may not contain operator
// characters so that "e<-2e4" keeps its negative target.
var filterRegex = regexp.MustCompile(`^([^!<>=]+?)(!=|<=|>=|=|<|>)(.*)$`)

// keyRegex matches a bare key selecting rows where the key is present.
var keyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QueryError reports a malformed selection expression.
type QueryError struct {
	Expr string
	Msg  string
}

func (e *QueryError) Error() string {
	return e.Msg + ": " + e.Expr
}

// Class names the error category in top level reports.
func (e *QueryError) Class() string { return "QueryError" }

// Filter represents a single parsed selection expression. An empty Operand
// selects rows where Key is present at all.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a comma separated selection into a slice of Filter.
// A malformed expression is an error.
func BuildFilters(spec string) ([]Filter, error) {
	//nolint:prealloc
	var filters []Filter

	// If there are no expressions, go home early.
	if strings.TrimSpace(spec) == "" {
		return filters, nil
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("DBDUMP_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, expr := range strings.Split(spec, delim) {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil {
			if !keyRegex.MatchString(expr) {
				return nil, errors.WithStack(&QueryError{Expr: expr, Msg: "invalid selection"})
			}
			filters = append(filters, Filter{Key: expr})
			continue
		}

		f := Filter{
			Key:     strings.TrimSpace(parts[1]),
			Operand: parts[2],
			Target:  strings.TrimSpace(parts[3]),
		}

		// != is represented as a negated =.
		if f.Operand == "!=" {
			f.Operand = "="
			f.Negate = true
		}

		if f.Target == "" {
			return nil, errors.WithStack(&QueryError{Expr: expr, Msg: "missing value in selection"})
		}

		if f.Key == "age" {
			if _, err := record.TimeStringToFloat(f.Target); err != nil {
				return nil, errors.WithStack(&QueryError{Expr: expr, Msg: "invalid age in selection"})
			}
		}

		log.Debugf("filter: %+v", f)
		filters = append(filters, f)
	}

	return filters, nil
}

// Match returns true if the record satisfies every filter. now is the
// current time in stored time units.
func Match(r *record.Record, filters []Filter, now float64) bool {
	for _, f := range filters {
		if !apply(r, f, now) {
			return false
		}
	}
	return true
}

func apply(r *record.Record, f Filter, now float64) bool {
	if f.Operand == "" {
		return present(r, f.Key)
	}

	if f.Key == "age" {
		if !r.Has(record.FieldCTime) {
			return false
		}
		target, err := record.TimeStringToFloat(f.Target)
		if err != nil {
			return false
		}
		return compareFloat(now-r.CTime, target, f)
	}

	value, ok := Lookup(r, f.Key)
	if !ok {
		return false
	}

	if num, ok := record.Float(value); ok {
		if tgt, ok := parseTarget(f.Target); ok {
			return compareFloat(num, tgt, f)
		}
	}

	return checkStringOperand(record.PyString(value), f)
}

// parseTarget reads a numeric target, accepting True/False as 1/0.
func parseTarget(s string) (float64, bool) {
	switch s {
	case "True", "true":
		return 1, true
	case "False", "false":
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Lookup resolves a selection key against a record: built-in fields first,
// then element symbols (atom counts), then key/value pairs.
func Lookup(r *record.Record, key string) (any, bool) {
	switch key {
	case "id":
		return int64(r.ID), true
	case "ctime":
		return r.CTime, r.Has(record.FieldCTime)
	case "user":
		return r.User, r.Has(record.FieldUser)
	case "calculator", "calc":
		return r.Calculator, r.Has(record.FieldCalculator)
	case "natoms":
		return int64(r.NAtoms()), r.Has(record.FieldNumbers)
	case "energy":
		return r.Energy, r.Has(record.FieldEnergy)
	case "charge":
		return r.Charge, r.Has(record.FieldCharge)
	case "magmom":
		return r.Magmom, r.Has(record.FieldMagmom)
	case "formula":
		return elements.Formula(r.Numbers), r.Has(record.FieldNumbers)
	case "pbc":
		var b strings.Builder
		for _, p := range r.PBC {
			if p {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		return b.String(), r.Has(record.FieldPBC)
	case "mass":
		if r.Has(record.FieldMasses) {
			var m float64
			for _, v := range r.Masses {
				m += v
			}
			return m, true
		}
		return elements.TotalMass(r.Numbers), r.Has(record.FieldNumbers)
	case "fmax":
		if !r.Has(record.FieldForces) {
			return nil, false
		}
		var m float64
		for _, f := range r.Forces {
			m = math.Max(m, f[0]*f[0]+f[1]*f[1]+f[2]*f[2])
		}
		return math.Sqrt(m), true
	case "smax":
		if !r.Has(record.FieldStress) {
			return nil, false
		}
		var m float64
		for _, s := range r.Stress {
			m = math.Max(m, s*s)
		}
		return math.Sqrt(m), true
	}

	if z, ok := elements.Number(key); ok && elements.IsSymbol(key) {
		return int64(elements.Count(r.Numbers, z)), true
	}

	return r.KeyValuePairs.Get(key)
}

// present implements bare key selections.
func present(r *record.Record, key string) bool {
	if _, ok := r.KeyValuePairs.Get(key); ok {
		return true
	}
	for _, k := range r.Keywords {
		if k == key {
			return true
		}
	}
	if z, ok := elements.Number(key); ok && elements.IsSymbol(key) {
		return elements.Count(r.Numbers, z) > 0
	}
	switch key {
	case "energy", "charge", "magmom", "forces", "stress", "constraints", "masses", "calculator", "data":
		return r.Has(key)
	}
	return false
}

// compareFloat compares a numeric value against the filter target using
// numeric semantics. != is represented as Negate + "=".
func compareFloat(value, tgt float64, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case "<":
		return value < tgt
	case "<=":
		return value <= tgt
	case ">":
		return value > tgt
	case ">=":
		return value >= tgt
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return (value == filter.Target) == !filter.Negate
	case "<":
		return value < filter.Target
	case "<=":
		return value <= filter.Target
	case ">":
		return value > filter.Target
	case ">=":
		return value >= filter.Target
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
