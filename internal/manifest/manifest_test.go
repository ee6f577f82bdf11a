package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vercel-labs/fix-react2shell-next/internal/core"
)

const sample = `{
  "name": "storefront",
  "version": "1.0.0",
  "private": true,
  "scripts": {
    "dev": "next dev",
    "build": "next build"
  },
  "dependencies": {
    "next": "^15.3.0",
    "react": "^19.0.0",
    "react-dom": "^19.0.0"
  },
  "devDependencies": {
    "next": "15.6.0-canary.0",
    "typescript": "~5.6.2"
  }
}
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if m.Name != "storefront" {
		t.Errorf("Name = %q, want %q", m.Name, "storefront")
	}
	if got := m.Dependencies["next"]; got != "^15.3.0" {
		t.Errorf("Dependencies[next] = %q, want %q", got, "^15.3.0")
	}
	if got := m.DevDependencies["next"]; got != "15.6.0-canary.0" {
		t.Errorf("DevDependencies[next] = %q, want %q", got, "15.6.0-canary.0")
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse([]byte(`{"name": `)); err == nil {
		t.Error("Parse(truncated) error = nil, want error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if m.Path != path {
		t.Errorf("Path = %q, want %q", m.Path, path)
	}

	if _, err := Load(filepath.Join(dir, "missing", "package.json")); !errors.Is(err, ErrNoManifest) {
		t.Errorf("Load(missing) error = %v, want ErrNoManifest", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	var perr *ParseError
	if _, err := Load(bad); !errors.As(err, &perr) {
		t.Errorf("Load(bad) error = %v, want *ParseError", err)
	}
}

func TestDeclared(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	if spec, ok := m.Declared("next", core.OriginRuntime); !ok || spec != "^15.3.0" {
		t.Errorf("Declared(next, runtime) = %q, %v, want ^15.3.0, true", spec, ok)
	}
	if spec, ok := m.Declared("next", core.OriginDevelopment); !ok || spec != "15.6.0-canary.0" {
		t.Errorf("Declared(next, development) = %q, %v, want 15.6.0-canary.0, true", spec, ok)
	}
	if _, ok := m.Declared("typescript", core.OriginRuntime); ok {
		t.Error("Declared(typescript, runtime) ok = true, want false")
	}
}

func TestApplyPreservesFormatting(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	changed := m.Apply([]core.Fix{
		{Package: "next", Declared: "^15.3.0", Target: "15.3.7", Origin: core.OriginRuntime},
		{Package: "next", Declared: "15.6.0-canary.0", Target: "15.6.0-canary.59", Origin: core.OriginDevelopment},
	})
	if changed != 2 {
		t.Fatalf("changed = %d, want 2", changed)
	}

	got := string(m.Raw)
	want := strings.Replace(sample, `"next": "^15.3.0"`, `"next": "^15.3.7"`, 1)
	want = strings.Replace(want, `"next": "15.6.0-canary.0"`, `"next": "15.6.0-canary.59"`, 1)
	if got != want {
		t.Errorf("patched manifest:\n%s\nwant:\n%s", got, want)
	}

	// The in-memory view follows the bytes.
	if m.Dependencies["next"] != "^15.3.7" {
		t.Errorf("Dependencies[next] = %q, want %q", m.Dependencies["next"], "^15.3.7")
	}
	if m.DevDependencies["next"] != "15.6.0-canary.59" {
		t.Errorf("DevDependencies[next] = %q, want %q", m.DevDependencies["next"], "15.6.0-canary.59")
	}
	// Untouched keys keep their bytes.
	if !strings.Contains(got, `"react": "^19.0.0"`) {
		t.Error("unrelated dependency was rewritten")
	}
	if !strings.Contains(got, `"dev": "next dev"`) {
		t.Error("scripts block was rewritten")
	}
}

func TestApplyExactPinForUnsupportedRange(t *testing.T) {
	raw := `{
	"dependencies": {
		"next": "15.x",
		"react-server-dom-webpack": ">=19.0.0 <19.1.0"
	}
}`
	m, err := Parse([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}

	changed := m.Apply([]core.Fix{
		{Package: "next", Declared: "15.x", Target: "15.5.8", Origin: core.OriginRuntime},
	})
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}
	if !strings.Contains(string(m.Raw), `"next": "15.5.8"`) {
		t.Errorf("x-range was not pinned exactly:\n%s", m.Raw)
	}
}

func TestApplySkipsWithoutTarget(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	changed := m.Apply([]core.Fix{
		{Package: "next", Declared: "^15.3.0", Target: "", Origin: core.OriginRuntime},
	})
	if changed != 0 {
		t.Errorf("changed = %d, want 0", changed)
	}
	if string(m.Raw) != sample {
		t.Error("manifest bytes changed for a fix without a target")
	}
}

func TestApplyIdempotent(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	fixes := []core.Fix{{Package: "next", Declared: "^15.3.0", Target: "15.3.7", Origin: core.OriginRuntime}}
	if changed := m.Apply(fixes); changed != 1 {
		t.Fatalf("first Apply changed = %d, want 1", changed)
	}
	first := string(m.Raw)
	if changed := m.Apply(fixes); changed != 0 {
		t.Errorf("second Apply changed = %d, want 0", changed)
	}
	if string(m.Raw) != first {
		t.Error("second Apply altered bytes")
	}
}

func TestApplyMissingPackage(t *testing.T) {
	m, err := Parse([]byte(`{"dependencies": {"react": "^19.0.0"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if changed := m.Apply([]core.Fix{{Package: "next", Declared: "^15.3.0", Target: "15.3.7"}}); changed != 0 {
		t.Errorf("changed = %d, want 0", changed)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	m.Apply([]core.Fix{{Package: "next", Declared: "^15.3.0", Target: "15.3.7", Origin: core.OriginRuntime}})
	if err := m.Write(); err != nil {
		t.Fatalf("Write error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"next": "^15.3.7"`) {
		t.Error("written file does not carry the patched specifier")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}
