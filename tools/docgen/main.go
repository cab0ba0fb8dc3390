// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"

	"github.com/staranto/dbdump/internal/output"
)

// Doc generator:
// - Reads docs/dbdump.md as the canonical command doc
// - Generates:
//   - docs/man/share/man1/dbdump.1 via md2man
//   - docs/tldr/dbdump.md from the short description and the built in examples

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	inPath := filepath.Join(repoRoot, "docs", "dbdump.md")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")

	for _, dir := range []string{manOutDir, tldrOutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatalf("creating output dir %s: %v", dir, err)
		}
	}

	raw, err := os.ReadFile(inPath)
	if err != nil {
		fatalf("reading %s: %v", inPath, err)
	}

	manPath := filepath.Join(manOutDir, "dbdump.1")
	if err := writeFileIfChanged(manPath, md2man.Render(raw), writeOnlyIfChanged); err != nil {
		fatalf("writing man page: %v", err)
	}

	title, short := extractTitleAndShortDesc(string(raw))
	tldrPath := filepath.Join(tldrOutDir, "dbdump.md")
	if err := writeFileIfChanged(tldrPath, []byte(buildTLDR(title, short, output.Examples)), writeOnlyIfChanged); err != nil {
		fatalf("writing TLDR: %v", err)
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// extractTitleAndShortDesc returns the first H1 and the first paragraph of
// the "Description" section.
func extractTitleAndShortDesc(md string) (title, short string) {
	if m := h1Re.FindStringSubmatch(md); m != nil {
		title = strings.TrimSpace(m[1])
	}

	idx := strings.Index(strings.ToLower(md), "# description")
	if idx < 0 {
		return title, title
	}
	rest := md[idx:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}

	var b strings.Builder
	for _, ln := range strings.Split(rest, "\n") {
		if strings.TrimSpace(ln) == "" {
			if b.Len() > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(ln, "#") {
			break
		}
		b.WriteString(strings.TrimSpace(ln))
		b.WriteString(" ")
	}
	short = strings.TrimSpace(b.String())
	if short == "" {
		short = title
	}
	return title, short
}

func buildTLDR(title, short string, examples [][2]string) string {
	var b strings.Builder
	b.WriteString("# dbdump\n\n")
	if short != "" {
		b.WriteString("> " + short + "\n")
	} else {
		b.WriteString("> " + title + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/dbdump.\n")

	for _, ex := range examples {
		b.WriteString("\n- " + strings.TrimSpace(ex[1]) + ":\n\n")
		b.WriteString("`" + strings.Join(strings.Fields(ex[0]), " ") + "`\n")
	}
	return b.String()
}
