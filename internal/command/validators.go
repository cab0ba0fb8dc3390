// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// DumpCommandValidator checks flag combinations before the action runs.
func DumpCommandValidator(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("examples") {
		return nil
	}
	if cmd.Args().Len() == 0 {
		return errors.New("no database specified")
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

// NonNegativeValidator rejects negative counts.
func NonNegativeValidator(value any) error {
	if value.(int) < 0 {
		return errors.New("must not be negative")
	}
	return nil
}
