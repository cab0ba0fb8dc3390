// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package structio

import (
	"strconv"
	"strings"

	"github.com/staranto/dbdump/internal/elements"
	"github.com/staranto/dbdump/internal/record"
)

// xyzWriter writes extended XYZ frames, one per record.
type xyzWriter struct {
	*file
}

func (x *xyzWriter) Write(r *record.Record) error {
	if err := checkPositions(r); err != nil {
		return err
	}

	withForces := r.Has(record.FieldForces) && len(r.Forces) == len(r.Numbers)

	x.printf("%d\n", len(r.Numbers))
	x.printf("%s\n", comment(r, withForces))
	for i, z := range r.Numbers {
		p := r.Positions[i]
		x.printf("%-2s %16.8f %16.8f %16.8f", elements.Symbol(z), p[0], p[1], p[2])
		if withForces {
			f := r.Forces[i]
			x.printf(" %16.8f %16.8f %16.8f", f[0], f[1], f[2])
		}
		x.printf("\n")
	}
	return nil
}

func (x *xyzWriter) Close() error {
	return x.close()
}

// comment builds the extended XYZ info line.
func comment(r *record.Record, withForces bool) string {
	var parts []string

	if r.Has(record.FieldCell) && (r.Dims() > 0 || r.Cell != [3][3]float64{}) {
		var lat []string
		for _, row := range r.Cell {
			for _, v := range row {
				lat = append(lat, strconv.FormatFloat(v, 'f', 8, 64))
			}
		}
		parts = append(parts, `Lattice="`+strings.Join(lat, " ")+`"`)
	}

	props := "species:S:1:pos:R:3"
	if withForces {
		props += ":forces:R:3"
	}
	parts = append(parts, "Properties="+props)

	if r.Has(record.FieldEnergy) {
		parts = append(parts, "energy="+record.PyString(r.Energy))
	}
	for _, kv := range r.KeyValuePairs {
		parts = append(parts, kv.Key+"="+infoValue(kv.Value))
	}

	pbc := make([]string, 3)
	for i, p := range r.PBC {
		pbc[i] = "F"
		if p {
			pbc[i] = "T"
		}
	}
	parts = append(parts, `pbc="`+strings.Join(pbc, " ")+`"`)

	return strings.Join(parts, " ")
}

// infoValue renders a key/value pair for the info line, quoting strings that
// would otherwise split.
func infoValue(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return "T"
		}
		return "F"
	case string:
		if v == "" || strings.ContainsAny(v, " \t=\"") {
			return strconv.Quote(v)
		}
		return v
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = record.PyString(item)
		}
		return `"` + strings.Join(items, " ") + `"`
	}
	return record.PyString(v)
}
