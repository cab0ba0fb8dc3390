// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package columns

import (
	"fmt"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"github.com/staranto/dbdump/internal/record"
)

// Default is the column list used when no --columns spec is given.
var Default = []string{
	"id", "age", "user", "formula", "calc",
	"energy", "fmax", "pbc", "size", "keywords",
	"charge", "mass", "fixed", "smax", "magmom", "cell",
}

// Placeholder is the key/value column value for records lacking the key.
const Placeholder = "(none)"

// Options carries the per invocation settings every accessor may consult.
type Options struct {
	// Cut is the truncation length for long text cells. 0 disables it.
	Cut int
	// Now is the current time in stored time units.
	Now float64
	// LongAge renders age as a relative phrase ("3 hours ago").
	LongAge bool
}

// Accessor extracts one cell value from a record. It returns an int64,
// float64 or string, or record.ErrMissing when the record lacks the
// attribute.
type Accessor func(r *record.Record, opts Options) (any, error)

// Column binds a column name to its accessor.
type Column struct {
	Name  string
	Value Accessor
}

// ColumnError reports a column spec naming a column that is not in the list.
type ColumnError struct {
	Column string
	Msg    string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: %q", e.Msg, e.Column)
}

// Class names the error category in top level reports.
func (e *ColumnError) Class() string { return "ValueError" }

// Resolve builds the ordered column list from a comma separated spec.
//
// An empty spec yields the defaults. A leading "+" adds to the defaults and a
// leading "-" removes from them. Any other spec replaces the defaults. Within
// the spec "-name" removes a column and "name" (or "+name") appends it.
func Resolve(spec string) ([]Column, error) {
	names, err := ResolveNames(spec)
	if err != nil {
		return nil, err
	}

	cols := make([]Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, Column{Name: name, Value: Bind(name)})
	}
	return cols, nil
}

// ResolveNames applies a column spec to the defaults and returns the names.
func ResolveNames(spec string) ([]string, error) {
	names := append([]string(nil), Default...)
	if spec == "" {
		return names, nil
	}

	switch spec[0] {
	case '+':
		spec = spec[1:]
	case '-':
	default:
		names = names[:0]
	}

	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, errors.WithStack(&ColumnError{Column: tok, Msg: "empty column name"})
		}

		if strings.HasPrefix(tok, "-") {
			name := tok[1:]
			i := slices.Index(names, name)
			if i < 0 {
				return nil, errors.WithStack(&ColumnError{Column: name, Msg: "column not in list"})
			}
			names = slices.Delete(names, i, i+1)
			continue
		}

		name := strings.TrimLeft(tok, "+")
		if slices.Contains(names, name) {
			log.Debugf("column %s already present", name)
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

// Names returns the column names in order.
func Names(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Bind returns the accessor for a column name. Names without a built-in
// accessor look up the key/value pair of the same name.
func Bind(name string) Accessor {
	if f, ok := builtins[name]; ok {
		return f
	}
	return keyval(name)
}

// IsBuiltin reports whether name has a dedicated accessor.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

func keyval(key string) Accessor {
	return func(r *record.Record, _ Options) (any, error) {
		v, ok := r.KeyValuePairs.Get(key)
		if !ok {
			return Placeholder, nil
		}
		return record.PyString(v), nil
	}
}

// Cut shortens txt to n display cells, replacing the tail with "...".
// n == 0 leaves txt untouched.
func Cut(txt string, n int) string {
	if n <= 0 || runewidth.StringWidth(txt) <= n {
		return txt
	}
	return runewidth.Truncate(txt, n, "...")
}
