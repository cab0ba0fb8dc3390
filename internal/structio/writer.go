// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package structio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/staranto/dbdump/internal/elements"
	"github.com/staranto/dbdump/internal/record"
)

// Writer writes records to one structure file.
type Writer interface {
	Write(r *record.Record) error
	Close() error
	String() string
}

// FormatError reports a filename whose extension has no writer.
type FormatError struct {
	Filename string
}

func (e *FormatError) Error() string {
	return "unknown structure file format: " + e.Filename
}

// Class names the error category in top level reports.
func (e *FormatError) Class() string { return "ValueError" }

// NewWriter creates filename, truncating any existing file, and returns the
// writer for its extension.
func NewWriter(filename string) (Writer, error) {
	var ctor func(*file) Writer
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xyz", ".extxyz":
		ctor = func(f *file) Writer { return &xyzWriter{file: f} }
	case ".cell":
		ctor = func(f *file) Writer { return &cellWriter{file: f} }
	case ".json":
		ctor = func(f *file) Writer { return &jsonWriter{file: f} }
	default:
		return nil, errors.WithStack(&FormatError{Filename: filename})
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", filename)
	}
	return ctor(&file{name: filename, f: f, w: bufio.NewWriter(f)}), nil
}

// file is the buffered output shared by every writer.
type file struct {
	name string
	f    *os.File
	w    *bufio.Writer
}

func (f *file) printf(format string, args ...any) {
	fmt.Fprintf(f.w, format, args...)
}

func (f *file) close() error {
	if err := f.w.Flush(); err != nil {
		f.f.Close()
		return errors.Wrapf(err, "writing %s", f.name)
	}
	return errors.Wrapf(f.f.Close(), "closing %s", f.name)
}

func (f *file) String() string {
	return f.name
}

// Describe summarizes a record for progress messages.
func Describe(r *record.Record) string {
	pbc := make([]string, 3)
	for i, p := range r.PBC {
		pbc[i] = record.PyString(p)
	}
	return fmt.Sprintf("Atoms(id=%d, symbols='%s', pbc=[%s])",
		r.ID, elements.Formula(r.Numbers), strings.Join(pbc, ", "))
}

// checkPositions fails when a record cannot be written as a structure.
func checkPositions(r *record.Record) error {
	if !r.Has(record.FieldPositions) {
		return errors.Errorf("row %d has no positions", r.ID)
	}
	if len(r.Positions) != len(r.Numbers) {
		return errors.Errorf("row %d has %d positions for %d atoms", r.ID, len(r.Positions), len(r.Numbers))
	}
	return nil
}
