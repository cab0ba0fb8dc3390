// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize/english"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	awsx "github.com/staranto/dbdump/internal/aws"
	"github.com/staranto/dbdump/internal/backend"
	"github.com/staranto/dbdump/internal/backend/s3"
	"github.com/staranto/dbdump/internal/columns"
	"github.com/staranto/dbdump/internal/config"
	"github.com/staranto/dbdump/internal/filters"
	mylog "github.com/staranto/dbdump/internal/log"
	"github.com/staranto/dbdump/internal/output"
	"github.com/staranto/dbdump/internal/record"
	"github.com/staranto/dbdump/internal/structio"
)

// now is the wall clock used for ages.
var now = time.Now

// Verbosity is 1 less --quiet plus --verbose.
func Verbosity(cmd *cli.Command) int {
	v := 1
	if cmd.Bool("quiet") {
		v--
	}
	if cmd.Bool("verbose") {
		v++
	}
	return v
}

// DumpCommandAction selects rows from the database and prints, counts or
// extracts them.
func DumpCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	out := cmd.Writer
	if out == nil {
		out = os.Stdout
	}

	if cmd.Bool("examples") {
		output.DumpExamples(out, output.Examples)
		return nil
	}

	verbosity := Verbosity(cmd)
	mylog.SetVerbosity(verbosity)

	args := cmd.Args().Slice()
	selection, limit := ParseSelection(args[1:], cmd.Int("limit"))
	if cmd.Bool("count") || cmd.Bool("uniq") {
		limit = 0
	}

	filts, err := filters.BuildFilters(selection)
	if err != nil {
		return err
	}

	db, err := backend.Connect(ctx, args[0], s3Options()...)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warnf("closing %s: %v", db, err)
		}
	}()

	clock := record.Now(now())
	recs, err := db.Select(ctx, backend.Query{
		Filters:   filts,
		Limit:     limit,
		Verbosity: verbosity,
		Now:       clock,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("count") {
		fmt.Fprintln(out, english.Plural(len(recs), "row", ""))
		return nil
	}

	if len(recs) == 0 {
		return nil
	}

	listOnly := cmd.Bool("list-columns")
	cols, err := ResolveColumns(cmd.String("columns"), recs, cmd.Bool("include-all") || listOnly)
	if err != nil {
		return err
	}

	if verbosity >= 1 || listOnly {
		age, _ := config.GetString("age", "short")
		f := output.Formatter{
			Sort:        cmd.String("sort"),
			Uniq:        cmd.Bool("uniq"),
			Wiki:        cmd.Bool("wiki-table"),
			ListOnly:    listOnly,
			HeaderStyle: output.HeaderStyle(cmd.Bool("color"), asFile(out)),
			Options: columns.Options{
				Cut:     cmd.Int("cut"),
				Now:     clock,
				LongAge: age == "long",
			},
		}

		_, visible, err := f.Format(out, recs, cols)
		if err != nil {
			return err
		}

		if verbosity > 1 || listOnly {
			for _, c := range visible {
				if !listOnly {
					fmt.Fprint(out, "COLUMN ")
				}
				fmt.Fprintln(out, c)
			}
			if listOnly {
				return nil
			}
		}
	}

	if cmd.IsSet("extract") {
		return Extract(out, recs, cmd.String("extract"), verbosity)
	}

	return nil
}

// ParseSelection joins the selection tokens with commas. A lone integer token
// is a row limit instead and replaces limit.
func ParseSelection(tokens []string, limit int) (string, int) {
	if len(tokens) == 1 && isDigits(tokens[0]) {
		if n, err := strconv.Atoi(tokens[0]); err == nil {
			return "", n
		}
	}
	return strings.Join(tokens, ","), limit
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ResolveColumns applies spec to the defaults. With all set, a column is
// appended for every key/value key found in recs, in order of first
// appearance.
func ResolveColumns(spec string, recs []*record.Record, all bool) ([]columns.Column, error) {
	names, err := columns.ResolveNames(spec)
	if err != nil {
		return nil, err
	}

	if all {
		for _, r := range recs {
			for _, key := range r.KeyValuePairs.Keys() {
				if !slices.Contains(names, key) {
					names = append(names, key)
				}
			}
		}
	}

	cols := make([]columns.Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, columns.Column{Name: name, Value: columns.Bind(name)})
	}
	return cols, nil
}

// Extract writes recs to structure files named by template. A template
// containing '%' is formatted with the 0 based record index and gets one file
// per record; otherwise every record goes to the one file.
func Extract(out io.Writer, recs []*record.Record, template string, verbosity int) error {
	indexed := strings.Contains(template, "%")

	var w structio.Writer
	if !indexed {
		var err error
		if w, err = structio.NewWriter(template); err != nil {
			return err
		}
	}

	for i, r := range recs {
		if indexed {
			var err error
			if w, err = structio.NewWriter(fmt.Sprintf(template, i)); err != nil {
				return err
			}
		}

		if verbosity > 1 {
			fmt.Fprintf(out, "Writing config %d %s to '%s'\n", i, structio.Describe(r), w)
		}
		if err := w.Write(r); err != nil {
			_ = w.Close()
			return err
		}

		if indexed {
			if err := w.Close(); err != nil {
				return err
			}
		}
	}

	if !indexed {
		return w.Close()
	}
	return nil
}

func s3Options() []s3.Option {
	var opts []awsx.Option
	if region, _ := config.GetString("s3.region", ""); region != "" {
		opts = append(opts, awsx.WithRegion(region))
	}
	if profile, _ := config.GetString("s3.profile", ""); profile != "" {
		opts = append(opts, awsx.WithProfile(profile))
	}
	hours, _ := config.GetInt("cache.purge_hours", 0)

	return []s3.Option{s3.WithAWS(opts...), s3.WithPurgeHours(hours)}
}

// asFile returns w as a file when it is one.
func asFile(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}

// errorClass names the category of err for one line reports.
func errorClass(err error) string {
	var c interface{ Class() string }
	if errors.As(err, &c) {
		return c.Class()
	}
	return "Error"
}

// Report prints err for the user. Below verbosity 2 it is one line,
// "<Class>: <message>"; otherwise the full chain with stack traces.
func Report(w io.Writer, err error, verbosity int) {
	if verbosity < 2 {
		fmt.Fprintf(w, "%s: %s\n", errorClass(err), err)
		return
	}
	fmt.Fprintf(w, "%+v\n", err)
}
