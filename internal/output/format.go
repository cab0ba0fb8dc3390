// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"github.com/staranto/dbdump/internal/columns"
	"github.com/staranto/dbdump/internal/record"
)

// RepeatColumn labels the trailing count column added by uniq collapsing.
const RepeatColumn = "repeat"

// Formatter renders records as a '|' delimited text table.
type Formatter struct {
	// Sort names the column to stable sort rows by. Empty keeps input order.
	Sort string
	// Uniq collapses identical consecutive rows into one with a repeat count.
	Uniq bool
	// Wiki wraps every line in '|' and labels headers "*name*".
	Wiki bool
	// ListOnly computes the table without writing it.
	ListOnly bool
	// HeaderStyle, when set, styles the header cells after padding.
	HeaderStyle *lipgloss.Style
	// Options is passed to every column accessor.
	Options columns.Options
}

// Format evaluates cols for every record and writes the table to w. It
// returns the ids of the rendered records and the labels of the columns that
// were wide enough to print.
func (f *Formatter) Format(w io.Writer, recs []*record.Record, cols []columns.Column) ([]int, []string, error) {
	names := columns.Names(cols)
	labels := append([]string(nil), names...)
	if f.Uniq {
		labels = append(labels, RepeatColumn)
	}
	if f.Wiki {
		for i, l := range labels {
			labels[i] = "*" + l + "*"
		}
	}

	widths := make([]int, len(labels))
	left := make([]bool, len(labels))

	ids := make([]int, 0, len(recs))
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		row := make([]string, len(cols))
		for i, c := range cols {
			v, err := c.Value(rec, f.Options)
			if err != nil {
				if errors.Is(err, record.ErrMissing) {
					log.Debugf("row %d: %s: %v", rec.ID, c.Name, err)
					continue
				}
				return nil, nil, errors.Wrapf(err, "row %d column %s", rec.ID, c.Name)
			}

			s, text := cell(v)
			if text {
				left[i] = true
			}
			if n := runewidth.StringWidth(s); n > widths[i] {
				widths[i] = n
			}
			row[i] = s
		}
		rows = append(rows, row)
		ids = append(ids, rec.ID)
	}

	if f.Sort != "" {
		n := slices.Index(names, f.Sort)
		if n < 0 {
			return nil, nil, errors.WithStack(&columns.ColumnError{Column: f.Sort, Msg: "sort column not in list"})
		}
		sort.SliceStable(rows, func(a, b int) bool {
			return rows[a][n] < rows[b][n]
		})
	}

	if f.Uniq {
		rows = f.collapse(rows, widths)
	}

	for i, width := range widths {
		if width > 0 {
			widths[i] = max(width, runewidth.StringWidth(labels[i]))
		}
	}

	var visible []string
	for i, l := range labels {
		if widths[i] > 0 {
			visible = append(visible, l)
		}
	}

	if f.ListOnly {
		return ids, visible, nil
	}

	if err := f.writeLine(w, labels, widths, left, true); err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		if err := f.writeLine(w, row, widths, left, false); err != nil {
			return nil, nil, err
		}
	}

	return ids, visible, nil
}

// collapse merges runs of identical rows, appending the run length. The
// width of the trailing count column is updated in place.
func (f *Formatter) collapse(rows [][]string, widths []int) [][]string {
	if len(rows) == 0 {
		return rows
	}

	last := len(widths) - 1
	var out [][]string
	emit := func(row []string, count int) {
		c := strconv.Itoa(count)
		widths[last] = max(widths[last], len(c))
		out = append(out, append(append([]string(nil), row...), c))
	}

	first, count := rows[0], 1
	for _, row := range rows[1:] {
		if slices.Equal(row, first) {
			count++
			continue
		}
		emit(first, count)
		first, count = row, 1
	}
	emit(first, count)

	return out
}

func (f *Formatter) writeLine(w io.Writer, cells []string, widths []int, left []bool, header bool) error {
	parts := make([]string, 0, len(cells))
	for i, s := range cells {
		if widths[i] == 0 {
			continue
		}
		if left[i] {
			s = runewidth.FillRight(s, widths[i])
		} else {
			s = runewidth.FillLeft(s, widths[i])
		}
		if header && f.HeaderStyle != nil {
			s = f.HeaderStyle.Render(s)
		}
		parts = append(parts, s)
	}

	line := strings.Join(parts, "|")
	if f.Wiki {
		line = "|" + line + "|"
	}
	_, err := fmt.Fprintln(w, line)
	return errors.Wrap(err, "writing table")
}

// cell renders an accessor value. Integers print without decimals and floats
// with three. Anything else is text and reports true.
func cell(v any) (string, bool) {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v), false
	case int64:
		return strconv.FormatInt(v, 10), false
	case bool:
		if v {
			return "1", false
		}
		return "0", false
	case float64:
		switch {
		case math.IsNaN(v):
			return "nan", false
		case math.IsInf(v, 1):
			return "inf", false
		case math.IsInf(v, -1):
			return "-inf", false
		}
		return strconv.FormatFloat(v, 'f', 3, 64), false
	case string:
		return v, true
	}
	return record.PyString(v), true
}
