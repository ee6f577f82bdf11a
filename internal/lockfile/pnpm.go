package lockfile

import (
	"regexp"
	"strings"

	"github.com/vercel-labs/fix-react2shell-next/internal/core"
)

// ParsePnpm extracts watched resolutions from a pnpm-lock.yaml.
//
// Rather than parsing YAML, every line is tested against a name-specific
// pattern: a path-style prefix (leading "/" or a quote) followed by
// name@version, which matches the packages-section keys across pnpm
// versions regardless of indentation. Peer-dependency suffixes in
// parentheses are excluded from the captured version.
func ParsePnpm(raw []byte, watch []string) []core.LockfileEntry {
	lines := strings.Split(string(raw), "\n")

	var entries []core.LockfileEntry
	for _, name := range watch {
		re := regexp.MustCompile(`["'/]` + regexp.QuoteMeta(name) + `@([0-9][^\s:'"(]*)`)
		for _, line := range lines {
			if m := re.FindStringSubmatch(line); m != nil {
				entries = append(entries, core.LockfileEntry{Name: name, Version: m[1]})
			}
		}
	}
	return entries
}
