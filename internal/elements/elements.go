// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package elements

import (
	"sort"
	"strconv"
	"strings"
)

// symbols is indexed by atomic number. Index 0 is the placeholder used for
// dummy atoms.
var symbols = []string{
	"X",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy",
	"Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf",
	"Es", "Fm", "Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// masses holds standard atomic weights in amu, indexed by atomic number.
// Elements without a stable isotope carry the mass of their longest-lived
// isotope.
var masses = []float64{
	1.0,
	1.008, 4.002602,
	6.94, 9.0121831, 10.81, 12.011, 14.007, 15.999, 18.998403163, 20.1797,
	22.98976928, 24.305, 26.9815385, 28.085, 30.973761998, 32.06, 35.45, 39.948,
	39.0983, 40.078, 44.955908, 47.867, 50.9415, 51.9961, 54.938044, 55.845,
	58.933194, 58.6934, 63.546, 65.38,
	69.723, 72.630, 74.921595, 78.971, 79.904, 83.798,
	85.4678, 87.62, 88.90584, 91.224, 92.90637, 95.95, 97.90721, 101.07,
	102.90550, 106.42, 107.8682, 112.414,
	114.818, 118.710, 121.760, 127.60, 126.90447, 131.293,
	132.90545196, 137.327, 138.90547, 140.116, 140.90766, 144.242, 144.91276,
	150.36, 151.964, 157.25, 158.92535, 162.500,
	164.93033, 167.259, 168.93422, 173.054, 174.9668, 178.49, 180.94788,
	183.84, 186.207, 190.23, 192.217, 195.084,
	196.966569, 200.592, 204.38, 207.2, 208.98040, 208.98243, 209.98715,
	222.01758,
	223.01974, 226.02541, 227.02775, 232.0377, 231.03588, 238.02891,
	237.04817, 244.06421, 243.06138, 247.07035, 247.07031, 251.07959,
	252.0830, 257.09511, 258.09843, 259.1010, 262.110, 267.122, 268.126,
	271.134, 270.133, 269.1338, 278.156, 281.165,
	281.166, 285.177, 286.182, 289.190, 289.194, 293.204, 293.208, 294.214,
}

var numbers = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for z, s := range symbols {
		m[s] = z
	}
	return m
}()

// Symbol returns the chemical symbol for an atomic number, or "X" when the
// number is out of range.
func Symbol(z int) string {
	if z < 0 || z >= len(symbols) {
		return "X"
	}
	return symbols[z]
}

// Number returns the atomic number for a chemical symbol.
func Number(symbol string) (int, bool) {
	z, ok := numbers[symbol]
	return z, ok
}

// IsSymbol reports whether s names a real element.
func IsSymbol(s string) bool {
	z, ok := numbers[s]
	return ok && z > 0
}

// Mass returns the standard atomic mass for an atomic number.
func Mass(z int) float64 {
	if z < 0 || z >= len(masses) {
		return 0
	}
	return masses[z]
}

// TotalMass sums the standard masses of the given atomic numbers.
func TotalMass(zs []int) float64 {
	var total float64
	for _, z := range zs {
		total += Mass(z)
	}
	return total
}

// Count returns the number of atoms with atomic number z.
func Count(zs []int, z int) int {
	n := 0
	for _, v := range zs {
		if v == z {
			n++
		}
	}
	return n
}

// Formula returns the Hill-order chemical formula for a list of atomic
// numbers. With carbon present, C and H come first and the rest follow
// alphabetically; without carbon every symbol is alphabetical. Counts of one
// are omitted.
func Formula(zs []int) string {
	counts := make(map[string]int)
	for _, z := range zs {
		counts[Symbol(z)]++
	}

	keys := make([]string, 0, len(counts))
	for s := range counts {
		keys = append(keys, s)
	}
	sort.Strings(keys)

	if _, ok := counts["C"]; ok {
		ordered := []string{"C"}
		if _, ok := counts["H"]; ok {
			ordered = append(ordered, "H")
		}
		for _, s := range keys {
			if s != "C" && s != "H" {
				ordered = append(ordered, s)
			}
		}
		keys = ordered
	}

	var b strings.Builder
	for _, s := range keys {
		b.WriteString(s)
		if n := counts[s]; n > 1 {
			b.WriteString(strconv.Itoa(n))
		}
	}
	return b.String()
}
