// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/dbdump/internal/config"
	"github.com/staranto/dbdump/internal/meta"
)

const description = `Print a formatted table of data from an ASE database. Optionally
extracts matching configs and writes them to structure files.

Selection tokens are joined with commas. A single integer token limits the
number of rows. Use --examples for sample invocations.`

// InitApp builds the root command. The database named in args selects the
// config namespace used for flag defaults.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	ns := meta.Namespace(databaseArg(args))

	cfg, err := config.Load()
	if err != nil {
		log.Debugf("no config: %v", err)
	}
	config.Config.Namespace = ns

	m := meta.Meta{
		Args:      args,
		Config:    cfg,
		Context:   ctx,
		Namespace: ns,
	}

	app := &cli.Command{
		Name:                   "dbdump",
		Usage:                  "table formatter and extractor for ASE databases",
		UsageText:              "dbdump db-name [selection ...] [options]",
		Description:            description,
		UseShortOptionHandling: true,
		HideHelpCommand:        true,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: NewFlags(ns, cfg.Source),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := DumpCommandValidator(ctx, cmd); err != nil {
				return err
			}
			return DumpCommandAction(ctx, cmd)
		},
	}

	// Make sure flags are sorted for the --help text.
	sort.Slice(app.Flags, func(i, j int) bool {
		return app.Flags[i].Names()[0] < app.Flags[j].Names()[0]
	})

	return app, nil
}

// databaseArg returns the first argument after the program name that is not
// a flag.
func databaseArg(args []string) string {
	if len(args) < 2 {
		return ""
	}
	for _, a := range args[1:] {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}
