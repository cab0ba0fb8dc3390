// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package jsondb

import (
	"context"
	"os"
	"sort"
	"strconv"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/staranto/dbdump/internal/record"
)

// BackendJSON reads an ASE JSON database: an object with an "ids" list and
// one "<id>" member per row.
type BackendJSON struct {
	Path string
	doc  gjson.Result
}

// Open reads and validates the document at path.
func Open(path string) (*BackendJSON, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.Errorf("%s is not valid JSON", path)
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, errors.Errorf("%s is not a JSON database", path)
	}

	return &BackendJSON{Path: path, doc: doc}, nil
}

// IDs returns the row ids in ascending order. Without an "ids" member every
// numeric top level key is a row.
func (be *BackendJSON) IDs() []int {
	var ids []int
	if list := be.doc.Get("ids"); list.Exists() {
		for _, v := range list.Array() {
			ids = append(ids, int(v.Int()))
		}
	} else {
		be.doc.ForEach(func(key, _ gjson.Result) bool {
			if id, err := strconv.Atoi(key.String()); err == nil {
				ids = append(ids, id)
			}
			return true
		})
	}
	sort.Ints(ids)
	return ids
}

// Scan decodes rows in id order.
func (be *BackendJSON) Scan(ctx context.Context, fn func(*record.Record) bool) error {
	for _, id := range be.IDs() {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := be.doc.Get(strconv.Itoa(id))
		if !row.Exists() {
			log.Warnf("%s: id %d listed but missing", be.Path, id)
			continue
		}

		r, err := record.Decode(id, row)
		if err != nil {
			return errors.Wrap(err, be.Path)
		}
		if !fn(r) {
			return nil
		}
	}
	return nil
}

// Close implements backend.Source.
func (be *BackendJSON) Close() error {
	return nil
}

func (be *BackendJSON) String() string {
	return "json:" + be.Path
}
