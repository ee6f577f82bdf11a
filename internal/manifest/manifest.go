// Package manifest reads and patches package.json files.
//
// Patching is a byte-level targeted rewrite: only the matched specifier
// strings change, and the rest of the file keeps its exact formatting,
// key order, and whitespace.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/vercel-labs/fix-react2shell-next/internal/core"
	"github.com/vercel-labs/fix-react2shell-next/internal/version"
)

// ErrNoManifest is returned when the directory has no package.json.
var ErrNoManifest = errors.New("no package.json found")

// ParseError wraps a JSON decoding failure with the file it came from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Manifest is a loaded package.json.
type Manifest struct {
	Path string
	Raw  []byte

	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Load reads and parses the package.json at path.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoManifest, path)
		}
		return nil, err
	}
	m, err := Parse(raw)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	m.Path = path
	return m, nil
}

// Parse decodes raw package.json bytes.
func Parse(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m.Raw = raw
	return &m, nil
}

// Declared returns the specifier the named package is declared with in
// the block for the given origin.
func (m *Manifest) Declared(name string, origin core.Origin) (string, bool) {
	deps := m.Dependencies
	if origin == core.OriginDevelopment {
		deps = m.DevDependencies
	}
	spec, ok := deps[name]
	return spec, ok
}

// Apply rewrites the declared specifier for each fix in place and returns
// how many declarations changed. Fixes without a target version are
// skipped. The new specifier keeps the original's operator when the
// original was a preservable form and is an exact pin otherwise.
func (m *Manifest) Apply(fixes []core.Fix) int {
	changed := 0
	for _, fix := range fixes {
		if fix.Target == "" {
			continue
		}
		newSpec := version.ReconstructSpecifier(fix.Declared, fix.Target)
		if newSpec == fix.Declared {
			continue
		}
		if m.rewrite(fix.Package, fix.Origin, newSpec) {
			changed++
		}
	}
	return changed
}

func (m *Manifest) rewrite(name string, origin core.Origin, newSpec string) bool {
	key := "dependencies"
	deps := m.Dependencies
	if origin == core.OriginDevelopment {
		key = "devDependencies"
		deps = m.DevDependencies
	}

	start, end, ok := blockRange(m.Raw, key)
	if !ok {
		return false
	}

	re := regexp.MustCompile(`("` + regexp.QuoteMeta(name) + `"\s*:\s*")((?:[^"\\]|\\.)*)(")`)
	loc := re.FindSubmatchIndex(m.Raw[start:end])
	if loc == nil {
		return false
	}

	// loc[4]:loc[5] is the specifier submatch, relative to the block.
	if string(m.Raw[start+loc[4]:start+loc[5]]) == newSpec {
		return false
	}
	var out []byte
	out = append(out, m.Raw[:start+loc[4]]...)
	out = append(out, newSpec...)
	out = append(out, m.Raw[start+loc[5]:]...)
	m.Raw = out

	if _, ok := deps[name]; ok {
		deps[name] = newSpec
	}
	return true
}

// blockRange locates the object value of a top-level key, returning the
// byte range spanning its braces. Brace counting tracks JSON string and
// escape state so values containing braces cannot unbalance it.
func blockRange(raw []byte, key string) (int, int, bool) {
	keyPattern := regexp.MustCompile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*\{`)
	loc := keyPattern.FindIndex(raw)
	if loc == nil {
		return 0, 0, false
	}

	start := loc[1] - 1
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return start, i + 1, true
			}
		}
	}
	return 0, 0, false
}

// Write persists the patched bytes back to the manifest's path, keeping
// the file's existing permissions.
func (m *Manifest) Write() error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(m.Path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(m.Path, m.Raw, mode)
}
