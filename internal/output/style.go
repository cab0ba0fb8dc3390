// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"os"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"golang.org/x/term"

	"github.com/staranto/dbdump/internal/config"
)

// HeaderStyle returns the style for header cells when color is wanted and f
// is a terminal, nil otherwise.
func HeaderStyle(want bool, f *os.File) *lipgloss.Style {
	if !want || f == nil || !term.IsTerminal(int(f.Fd())) {
		return nil
	}

	color := getColor("colors")
	log.Debugf("header color: %s", color)

	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	return &style
}

// getColor returns the configured header color.
func getColor(key string) string {
	color, _ := config.GetString(key+".title", "#f6be00")
	return color
}
