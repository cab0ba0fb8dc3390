// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
)

// Examples pairs each sample invocation with what it does.
var Examples = [][2]string{
	{"dbdump Si_GAP.db -C", "List all columns in database, one per line, then exit"},
	{"dbdump Si_GAP.db config_type=dia -C", "List columns held for rows with diamond-structure config_type"},
	{"dbdump Si_GAP.db 'dft_energy<-2e4' -n", "Number of rows with DFT total energy below -2e4 eV"},
	{"dbdump Si_GAP.db -a", "Table of all rows and columns (up to default --limit=500 rows)"},
	{"dbdump Si_GAP.db config_type=bt -a", "Table of all columns for rows matching expression"},
	{"dbdump Si_GAP.db config_type=bt -c id,formula,calc,dft_energy,config_type", "Table of specific columns for rows matching expression"},
	{"dbdump Si_GAP.db -c user,formula,calc,config_type -s config_type -u", "Specific columns, in sorted order. Duplicate rows suppressed with -u/--uniq"},
	{"dbdump Si_GAP.db 'age<1h' -a", "Print all information held about any configs less than one hour old"},
	{"dbdump Si_GAP.db 'natoms<=2' -x primitive.xyz", "Extract rows with two or fewer atoms to single .xyz file"},
	{"dbdump Si_GAP.db 'Si>100' -x big-%03d.cell", "Extract rows with more than 100 Si atoms to a series of .cell files"},
}

// DumpExamples renders a table of example command usages.
func DumpExamples(w io.Writer, examples [][2]string) {
	if len(examples) == 0 {
		return
	}

	var rows [][]string
	for _, ex := range examples {
		rows = append(rows, []string{ex[0], ex[1]})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Rows(rows...)

	// Set headers and disable the header border for a cleaner look.
	t = t.Headers("Command", "Description").BorderHeader(false)

	fmt.Fprintln(w, t)
}
