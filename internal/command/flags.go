// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

const (
	defaultLimit = 500
	defaultCut   = 30
)

// NewFlags constructs the dbdump flags. Flags that can be defaulted from the
// config file at path look in the ns section first and then at the top level.
func NewFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "print column names and extraction progress",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "suppress the table",
		},
		&cli.BoolFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "count number of selected rows. Implies --limit=0",
		},
		&cli.BoolFlag{
			Name:    "list-columns",
			Aliases: []string{"C"},
			Usage:   "print list of available columns and exit",
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, "columns", &cli.StringFlag{
			Name:    "columns",
			Aliases: []string{"c"},
			Usage: `columns to show, "col1,col2,...". Precede the spec with "+" to add ` +
				`to the default columns or with "-" to remove from them`,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		}),
		&cli.BoolFlag{
			Name:    "include-all",
			Aliases: []string{"a"},
			Usage:   "include columns for all key/value pairs in the selected rows",
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "sort rows using column. Default is to keep id order",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "uniq",
			Aliases: []string{"u"},
			Usage:   "suppress printing of duplicate rows. Implies --limit=0",
		},
		&cli.StringFlag{
			Name:    "extract",
			Aliases: []string{"x"},
			Usage: `extract matching configs and save to file(s). Use a filename ` +
				`containing a "%" expression for one file per config labelled by an ` +
				`index starting from 0, e.g. "file-%03d.xyz"`,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.IntFlag{
			Name:    "limit",
			Usage:   "show only the first N rows. Use --limit=0 to show all",
			Sources: configSources(ns, path, "limit"),
			Value:   defaultLimit,
			Validator: func(value int) error {
				return FlagValidators(value, NonNegativeValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "wiki-table",
			Aliases: []string{"w"},
			Usage:   "format output as a wiki table",
			Sources: configSources(ns, path, "wiki_table"),
		},
		&cli.IntFlag{
			Name:    "cut",
			Usage:   "truncate columns after CUT characters. Use 0 for no limit",
			Sources: configSources(ns, path, "cut"),
			Value:   defaultCut,
			Validator: func(value int) error {
				return FlagValidators(value, NonNegativeValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Usage:   "enable colored column titles",
			Sources: configSources(ns, path, "color"),
			Value:   false,
		},
		&cli.BoolFlag{
			Name:        "examples",
			Usage:       "show example invocations",
			HideDefault: true,
		},
	}
}

// configSources returns the yaml sources for key, namespaced first.
func configSources(ns string, path string, key string) cli.ValueSourceChain {
	chain := cli.NewValueSourceChain()
	if path == "" {
		return chain
	}
	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
	return chain
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources for key to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, key string, flag *cli.StringFlag) *cli.StringFlag {
	flag.Sources.Chain = append(flag.Sources.Chain, configSources(ns, path, key).Chain...)
	return flag
}
