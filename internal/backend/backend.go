// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/staranto/dbdump/internal/backend/jsondb"
	"github.com/staranto/dbdump/internal/backend/s3"
	"github.com/staranto/dbdump/internal/backend/sqlitedb"
	"github.com/staranto/dbdump/internal/filters"
	"github.com/staranto/dbdump/internal/record"
)

// Source is a store of records that can be scanned in id order.
type Source interface {
	// Scan calls fn for each record in id order until fn returns false.
	Scan(ctx context.Context, fn func(*record.Record) bool) error
	Close() error
	String() string
}

// Query selects records from a database.
type Query struct {
	Filters []filters.Filter
	// Limit caps the number of records returned. 0 means no limit.
	Limit     int
	Verbosity int
	// Now is the current time in stored time units, used by age filters.
	Now float64
}

// DB is an open database.
type DB struct {
	src  Source
	temp string
}

// IOError reports a database that could not be opened or read.
type IOError struct {
	Path string
	Msg  string
}

func (e *IOError) Error() string {
	return e.Msg + ": " + e.Path
}

// Class names the error category in top level reports.
func (e *IOError) Class() string { return "IOError" }

// Connect opens the database at path. The format is chosen by extension:
// .json for ASE JSON, .db/.sqlite/.sqlite3 for ASE SQLite. s3://bucket/key
// locations are downloaded first.
func Connect(ctx context.Context, path string, opts ...s3.Option) (*DB, error) {
	local, temp := path, ""
	if s3.IsURI(path) {
		p, isTemp, err := s3.Fetch(ctx, path, opts...)
		if err != nil {
			return nil, err
		}
		local = p
		if isTemp {
			temp = p
		}
	}

	src, err := open(local, formatOf(path))
	if err != nil {
		if temp != "" {
			_ = os.Remove(temp)
		}
		return nil, err
	}
	log.Debugf("connected to %s", src)

	return &DB{src: src, temp: temp}, nil
}

func formatOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func open(path, format string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.WithStack(&IOError{Path: path, Msg: "cannot open database"})
	}

	switch format {
	case ".json":
		return jsondb.Open(path)
	case ".db", ".sqlite", ".sqlite3":
		return sqlitedb.Open(path)
	}
	return nil, errors.WithStack(&IOError{Path: path, Msg: "unknown database type"})
}

// Select returns the records matching q in id order.
func (db *DB) Select(ctx context.Context, q Query) ([]*record.Record, error) {
	var (
		recs    []*record.Record
		scanned int
	)

	err := db.src.Scan(ctx, func(r *record.Record) bool {
		scanned++
		if !filters.Match(r, q.Filters, q.Now) {
			return true
		}
		recs = append(recs, r)
		return q.Limit <= 0 || len(recs) < q.Limit
	})
	if err != nil {
		return nil, err
	}

	if q.Verbosity > 1 {
		log.Infof("%s: scanned %d rows, selected %d", db.src, scanned, len(recs))
	}
	return recs, nil
}

// Close releases the database and any downloaded copy.
func (db *DB) Close() error {
	err := db.src.Close()
	if db.temp != "" {
		if rerr := os.Remove(db.temp); rerr != nil && err == nil {
			err = errors.Wrap(rerr, "removing downloaded database")
		}
	}
	return err
}

func (db *DB) String() string {
	return db.src.String()
}
