// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package structio

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/staranto/dbdump/internal/record"
)

// jsonWriter collects rows and writes an ASE JSON database on Close. Rows are
// renumbered from 1 in write order.
type jsonWriter struct {
	*file
	rows []json.RawMessage
}

type constraintRow struct {
	Name   string         `json:"name"`
	Kwargs map[string]any `json:"kwargs"`
}

type jsonRow struct {
	CTime         *float64        `json:"ctime,omitempty"`
	User          *string         `json:"user,omitempty"`
	Numbers       []int           `json:"numbers"`
	Positions     [][3]float64    `json:"positions,omitempty"`
	Cell          *[3][3]float64  `json:"cell,omitempty"`
	PBC           *[3]bool        `json:"pbc,omitempty"`
	Constraints   json.RawMessage `json:"constraints,omitempty"`
	Calculator    *string         `json:"calculator,omitempty"`
	Energy        *float64        `json:"energy,omitempty"`
	Forces        [][3]float64    `json:"forces,omitempty"`
	Stress        []float64       `json:"stress,omitempty"`
	Charge        *float64        `json:"charge,omitempty"`
	Magmom        *float64        `json:"magmom,omitempty"`
	Masses        []float64       `json:"masses,omitempty"`
	Keywords      []string        `json:"keywords,omitempty"`
	KeyValuePairs json.RawMessage `json:"key_value_pairs,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

func (j *jsonWriter) Write(r *record.Record) error {
	row := jsonRow{Numbers: r.Numbers}
	if row.Numbers == nil {
		row.Numbers = []int{}
	}

	if r.Has(record.FieldCTime) {
		row.CTime = &r.CTime
	}
	if r.Has(record.FieldUser) {
		row.User = &r.User
	}
	if r.Has(record.FieldPositions) {
		row.Positions = r.Positions
	}
	if r.Has(record.FieldCell) {
		row.Cell = &r.Cell
	}
	if r.Has(record.FieldPBC) {
		row.PBC = &r.PBC
	}
	if r.Has(record.FieldConstraints) {
		raw, err := encodeConstraints(r)
		if err != nil {
			return errors.Wrapf(err, "row %d constraints", r.ID)
		}
		row.Constraints = raw
	}
	if r.Has(record.FieldCalculator) {
		row.Calculator = &r.Calculator
	}
	if r.Has(record.FieldEnergy) {
		row.Energy = &r.Energy
	}
	if r.Has(record.FieldForces) {
		row.Forces = r.Forces
	}
	if r.Has(record.FieldStress) {
		row.Stress = r.Stress
	}
	if r.Has(record.FieldCharge) {
		row.Charge = &r.Charge
	}
	if r.Has(record.FieldMagmom) {
		row.Magmom = &r.Magmom
	}
	if r.Has(record.FieldMasses) {
		row.Masses = r.Masses
	}
	row.Keywords = r.Keywords

	var err error
	if row.KeyValuePairs, err = encodePairs(r.KeyValuePairs); err != nil {
		return errors.Wrapf(err, "row %d key_value_pairs", r.ID)
	}
	if row.Data, err = encodePairs(r.Data); err != nil {
		return errors.Wrapf(err, "row %d data", r.ID)
	}

	raw, err := json.Marshal(row)
	if err != nil {
		return errors.Wrapf(err, "encoding row %d", r.ID)
	}
	j.rows = append(j.rows, raw)
	return nil
}

func encodeConstraints(r *record.Record) (json.RawMessage, error) {
	if r.NullConstraints {
		return json.RawMessage("null"), nil
	}
	list := make([]constraintRow, 0, len(r.Constraints))
	for _, c := range r.Constraints {
		kw := map[string]any{}
		if c.HasMask() {
			kw["mask"] = c.Mask
		} else if c.Indices != nil {
			kw["indices"] = c.Indices
		} else {
			kw["indices"] = []int{}
		}
		list = append(list, constraintRow{Name: c.Name, Kwargs: kw})
	}
	return json.Marshal(list)
}

// encodePairs writes pairs as a JSON object in their stored order.
func encodePairs(p record.Pairs) (json.RawMessage, error) {
	if len(p) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p {
		if i > 0 {
			buf.WriteString(", ")
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (j *jsonWriter) Close() error {
	j.printf("{\n")
	ids := make([]string, len(j.rows))
	for i, raw := range j.rows {
		id := strconv.Itoa(i + 1)
		ids[i] = id
		j.printf("%q: %s,\n", id, raw)
	}
	j.printf("\"ids\": [")
	for i, id := range ids {
		if i > 0 {
			j.printf(", ")
		}
		j.printf("%s", id)
	}
	j.printf("],\n\"nextid\": %d}\n", len(j.rows)+1)
	return j.close()
}
