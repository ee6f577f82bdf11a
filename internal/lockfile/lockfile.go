// Package lockfile extracts concretely resolved versions of watched
// packages from JavaScript lockfiles.
//
// Each parser is pure: raw bytes and a watch-list in, entries out.
// Malformed input of any kind yields an empty result, never an error;
// a lockfile this tool cannot read is equivalent to no lockfile at all.
package lockfile

import (
	"os"
	"path/filepath"

	"github.com/vercel-labs/fix-react2shell-next/internal/core"
)

// Format identifies a lockfile dialect.
type Format string

const (
	FormatNPM  Format = "npm"
	FormatYarn Format = "yarn"
	FormatPnpm Format = "pnpm"
	FormatBun  Format = "bun"
)

// candidates lists the recognized lockfile names in scan priority order.
var candidates = []struct {
	file   string
	format Format
}{
	{"package-lock.json", FormatNPM},
	{"yarn.lock", FormatYarn},
	{"pnpm-lock.yaml", FormatPnpm},
	{"bun.lockb", FormatBun},
	{"bun.lock", FormatBun},
}

// Candidates returns the recognized lockfile filenames in scan priority
// order.
func Candidates() []string {
	files := make([]string, len(candidates))
	for i, c := range candidates {
		files[i] = c.file
	}
	return files
}

// DetectFormat maps a lockfile path to its format by base filename.
func DetectFormat(path string) (Format, bool) {
	base := filepath.Base(path)
	for _, c := range candidates {
		if c.file == base {
			return c.format, true
		}
	}
	return "", false
}

// Parse dispatches raw lockfile content to the parser for its format.
func Parse(format Format, raw []byte, watch []string) []core.LockfileEntry {
	switch format {
	case FormatNPM:
		return ParseNPM(raw, watch)
	case FormatYarn:
		return ParseYarn(raw, watch)
	case FormatPnpm:
		return ParsePnpm(raw, watch)
	case FormatBun:
		return ParseBun(raw, watch)
	}
	return nil
}

// ScanResult is the outcome of selecting a directory's lockfile.
type ScanResult struct {
	// File is the matched filename, relative to the scanned directory.
	File    string
	Format  Format
	Entries []core.LockfileEntry
}

// ScanDir selects the lockfile for a directory: candidates are tried in
// priority order, and the first whose file exists and whose parse yields
// at least one watched entry wins. Formats are never merged. A directory
// with no qualifying lockfile yields ok == false, which is not an error;
// the caller falls back to the installed-version lookup.
func ScanDir(dir string, watch []string) (ScanResult, bool) {
	for _, c := range candidates {
		raw, err := os.ReadFile(filepath.Join(dir, c.file))
		if err != nil {
			continue
		}
		entries := Parse(c.format, raw, watch)
		if len(entries) == 0 {
			continue
		}
		return ScanResult{File: c.file, Format: c.format, Entries: entries}, true
	}
	return ScanResult{}, false
}
