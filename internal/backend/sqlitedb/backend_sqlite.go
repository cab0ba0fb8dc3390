// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sqlitedb

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"

	"github.com/staranto/dbdump/internal/record"
)

// BackendSQLite reads the systems table of an ASE SQLite database.
type BackendSQLite struct {
	Path string

	db       *sql.DB
	columns  []string
	keywords bool
}

// wanted lists the systems columns decoded into records, in select order.
var wanted = []string{
	"id", "ctime", "username", "numbers", "positions", "cell", "pbc",
	"masses", "constraints", "calculator", "energy", "forces", "stress",
	"magmom", "charge", "keywords", "key_value_pairs", "data",
}

// Open connects to the database at path and discovers its schema.
func Open(path string) (*BackendSQLite, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	be := &BackendSQLite{Path: path, db: db}
	if err := be.discover(); err != nil {
		db.Close()
		return nil, err
	}
	return be, nil
}

// discover finds which of the wanted columns the systems table has and
// whether the legacy keywords table exists.
func (be *BackendSQLite) discover() error {
	rows, err := be.db.Query("PRAGMA table_info(systems)")
	if err != nil {
		return errors.Wrapf(err, "reading schema of %s", be.Path)
	}
	defer rows.Close()

	have := map[string]bool{}
	for rows.Next() {
		var (
			cid, notnull, pk int
			name, ctype      string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return errors.Wrap(err, "scanning schema")
		}
		have[name] = true
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "scanning schema")
	}
	if !have["id"] {
		return errors.Errorf("%s has no systems table", be.Path)
	}

	for _, c := range wanted {
		if have[c] {
			be.columns = append(be.columns, c)
		}
	}
	log.Debugf("%s columns: %v", be.Path, be.columns)

	var n int
	err = be.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name='keywords'").Scan(&n)
	if err != nil {
		return errors.Wrap(err, "looking for keywords table")
	}
	be.keywords = n > 0

	return nil
}

// Scan decodes rows in id order.
func (be *BackendSQLite) Scan(ctx context.Context, fn func(*record.Record) bool) error {
	var tags map[int][]string
	if be.keywords {
		var err error
		if tags, err = be.loadKeywords(ctx); err != nil {
			return err
		}
	}

	query := "SELECT " + strings.Join(be.columns, ", ") + " FROM systems ORDER BY id"
	rows, err := be.db.QueryContext(ctx, query)
	if err != nil {
		return errors.Wrapf(err, "querying %s", be.Path)
	}
	defer rows.Close()

	values := make([]any, len(be.columns))
	ptrs := make([]any, len(be.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return errors.Wrap(err, "scanning row")
		}

		row := make(map[string]any, len(be.columns))
		for i, c := range be.columns {
			if values[i] != nil {
				row[c] = values[i]
			}
		}

		r, err := decodeRow(row)
		if err != nil {
			return errors.Wrap(err, be.Path)
		}
		if kw, ok := tags[r.ID]; ok {
			r.Keywords = append(r.Keywords, kw...)
			r.Mark(record.FieldKeywords)
		}
		if !fn(r) {
			return nil
		}
	}
	return errors.Wrap(rows.Err(), "reading rows")
}

func (be *BackendSQLite) loadKeywords(ctx context.Context) (map[int][]string, error) {
	rows, err := be.db.QueryContext(ctx, "SELECT keyword, id FROM keywords")
	if err != nil {
		return nil, errors.Wrap(err, "querying keywords")
	}
	defer rows.Close()

	tags := map[int][]string{}
	for rows.Next() {
		var (
			kw string
			id int
		)
		if err := rows.Scan(&kw, &id); err != nil {
			return nil, errors.Wrap(err, "scanning keywords")
		}
		tags[id] = append(tags[id], kw)
	}
	return tags, errors.Wrap(rows.Err(), "reading keywords")
}

// Close implements backend.Source.
func (be *BackendSQLite) Close() error {
	return be.db.Close()
}

func (be *BackendSQLite) String() string {
	return "sqlite:" + be.Path
}

func decodeRow(row map[string]any) (*record.Record, error) {
	id, ok := row["id"].(int64)
	if !ok {
		return nil, errors.Errorf("bad id %v", row["id"])
	}
	r := record.New(int(id))

	if v, ok := number(row["ctime"]); ok {
		r.CTime = v
		r.Mark(record.FieldCTime)
	}
	if v, ok := row["username"]; ok {
		r.User = text(v)
		r.Mark(record.FieldUser)
	}
	if v, ok := row["numbers"].([]byte); ok {
		r.Numbers = Ints(v)
		r.Mark(record.FieldNumbers)
	}
	if v, ok := row["positions"].([]byte); ok {
		vecs, err := vectors(Floats(v))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d positions", id)
		}
		r.Positions = vecs
		r.Mark(record.FieldPositions)
	}
	if v, ok := row["cell"].([]byte); ok {
		flat := Floats(v)
		if len(flat) != 9 {
			return nil, errors.Errorf("row %d cell has %d values", id, len(flat))
		}
		for i := range 3 {
			copy(r.Cell[i][:], flat[3*i:3*i+3])
		}
		r.Mark(record.FieldCell)
	}
	if v, ok := row["pbc"].(int64); ok {
		r.PBC = record.UnpackPBC(int(v))
		r.Mark(record.FieldPBC)
	}
	if v, ok := row["masses"].([]byte); ok {
		r.Masses = Floats(v)
		r.Mark(record.FieldMasses)
	}
	if v, ok := row["constraints"]; ok {
		r.Constraints, r.NullConstraints = record.Constraints(gjson.Parse(text(v)))
		r.Mark(record.FieldConstraints)
	}
	if v, ok := row["calculator"]; ok {
		r.Calculator = text(v)
		r.Mark(record.FieldCalculator)
	}
	if v, ok := number(row["energy"]); ok {
		r.Energy = v
		r.Mark(record.FieldEnergy)
	}
	if v, ok := row["forces"].([]byte); ok {
		vecs, err := vectors(Floats(v))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d forces", id)
		}
		r.Forces = vecs
		r.Mark(record.FieldForces)
	}
	if v, ok := row["stress"].([]byte); ok {
		r.Stress = Floats(v)
		r.Mark(record.FieldStress)
	}
	if v, ok := number(row["magmom"]); ok {
		r.Magmom = v
		r.Mark(record.FieldMagmom)
	}
	if v, ok := number(row["charge"]); ok {
		r.Charge = v
		r.Mark(record.FieldCharge)
	}
	if v, ok := row["keywords"]; ok {
		for _, k := range gjson.Parse(text(v)).Array() {
			r.Keywords = append(r.Keywords, k.String())
		}
		r.Mark(record.FieldKeywords)
	}
	if v, ok := row["key_value_pairs"]; ok {
		r.KeyValuePairs = record.ParsePairs(gjson.Parse(text(v)))
		r.Mark(record.FieldKeyValuePairs)
	}
	if v, ok := row["data"]; ok {
		if doc := gjson.Parse(text(v)); doc.IsObject() {
			r.Data = record.ParsePairs(doc)
			r.Mark(record.FieldData)
		}
	}

	return r, nil
}

// Ints decodes a little endian int32 array blob.
func Ints(b []byte) []int {
	out := make([]int, len(b)/4)
	for i := range out {
		out[i] = int(int32(binary.LittleEndian.Uint32(b[4*i:])))
	}
	return out
}

// Floats decodes a little endian float64 array blob.
func Floats(b []byte) []float64 {
	out := make([]float64, len(b)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return out
}

func vectors(flat []float64) ([][3]float64, error) {
	if len(flat)%3 != 0 {
		return nil, errors.Errorf("expected a multiple of 3 values, got %d", len(flat))
	}
	vecs := make([][3]float64, len(flat)/3)
	for i := range vecs {
		copy(vecs[i][:], flat[3*i:])
	}
	return vecs, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}
