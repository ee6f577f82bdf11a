package lockfile

import (
	"regexp"
	"strings"

	"github.com/vercel-labs/fix-react2shell-next/internal/core"
)

var yarnVersionPattern = regexp.MustCompile(`^\s+version\s+"([^"]+)"`)

// ParseYarn extracts watched resolutions from a classic yarn.lock.
//
// The format is line-oriented: an unindented line ending in ":" declares
// the selectors a block resolves, and an indented `version "X"` line
// inside the block carries the resolution. The scanner is a two-state
// cursor machine. A declaration line sets the cursor when any selector
// belongs to a watched package and clears it otherwise; a version line
// under an active cursor emits one entry and returns the cursor to idle.
func ParseYarn(raw []byte, watch []string) []core.LockfileEntry {
	var entries []core.LockfileEntry
	current := ""
	for _, line := range strings.Split(string(raw), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			current = ""
			trimmed := strings.TrimSpace(line)
			if strings.HasSuffix(trimmed, ":") {
				current = yarnDeclared(strings.TrimSuffix(trimmed, ":"), watch)
			}
			continue
		}
		if current == "" {
			continue
		}
		if m := yarnVersionPattern.FindStringSubmatch(line); m != nil {
			entries = append(entries, core.LockfileEntry{Name: current, Version: m[1]})
			current = ""
		}
	}
	return entries
}

// yarnDeclared returns the watched package a declaration resolves, or "".
// Declarations list one or more selectors, optionally quoted, e.g.
// `next@^15.2.0, next@^15.3.0:` or `"@scope/pkg@npm:1.0.0":`.
func yarnDeclared(decl string, watch []string) string {
	for _, sel := range strings.Split(decl, ",") {
		sel = strings.Trim(strings.TrimSpace(sel), `"`)
		for _, name := range watch {
			if strings.HasPrefix(sel, name+"@") {
				return name
			}
		}
	}
	return ""
}
