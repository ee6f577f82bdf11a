// Package pmexec resolves concretely installed package versions. It reads
// node_modules metadata first and shells out to the project's package
// manager only when that fails.
package pmexec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/vercel-labs/fix-react2shell-next/internal/lockfile"
)

// Result holds a subprocess execution result.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
	ExitCode int
}

// Run executes a command under ctx, capturing output and duration. Exit
// code 124 marks a deadline hit and 127 a missing executable, matching
// shell conventions.
func Run(ctx context.Context, name string, args []string, dir string) (Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = 1
		}
		if ctx.Err() == context.DeadlineExceeded {
			res.ExitCode = 124
		} else if errors.Is(err, exec.ErrNotFound) {
			res.ExitCode = 127
		}
	}
	return res, err
}

// Manager is a JavaScript package manager.
type Manager string

const (
	ManagerNPM  Manager = "npm"
	ManagerYarn Manager = "yarn"
	ManagerPnpm Manager = "pnpm"
	ManagerBun  Manager = "bun"
)

// Detect picks the package manager for a directory from the lockfile it
// carries, falling back to npm.
func Detect(dir string) Manager {
	for _, file := range lockfile.Candidates() {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			continue
		}
		format, _ := lockfile.DetectFormat(file)
		switch format {
		case lockfile.FormatYarn:
			return ManagerYarn
		case lockfile.FormatPnpm:
			return ManagerPnpm
		case lockfile.FormatBun:
			return ManagerBun
		default:
			return ManagerNPM
		}
	}
	return ManagerNPM
}

// Prober resolves installed versions for one project directory.
type Prober struct {
	Dir     string
	Manager Manager
	// Timeout bounds each package-manager subprocess. Zero means the
	// caller's context is the only bound.
	Timeout time.Duration

	runner func(ctx context.Context, name string, args []string, dir string) (Result, error)
}

func NewProber(dir string, timeout time.Duration) *Prober {
	return &Prober{
		Dir:     dir,
		Manager: Detect(dir),
		Timeout: timeout,
		runner:  Run,
	}
}

// InstalledVersion returns the installed version of pkg under the
// prober's directory, or "" when it cannot be determined.
func (p *Prober) InstalledVersion(ctx context.Context, pkg string) string {
	if v := readNodeModules(p.Dir, pkg); v != "" {
		return v
	}
	return p.query(ctx, pkg)
}

// Lookup adapts the prober to the resolver's lookup signature.
func (p *Prober) Lookup(ctx context.Context) func(pkg string) string {
	return func(pkg string) string {
		return p.InstalledVersion(ctx, pkg)
	}
}

func readNodeModules(dir, pkg string) string {
	raw, err := os.ReadFile(filepath.Join(dir, "node_modules", pkg, "package.json"))
	if err != nil {
		return ""
	}
	var meta struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ""
	}
	return meta.Version
}

func (p *Prober) query(ctx context.Context, pkg string) string {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	switch p.Manager {
	case ManagerYarn:
		// yarn classic emits one JSON event per line; the tree event
		// carries "name":"pkg@version" entries.
		res, _ := p.runner(ctx, "yarn", []string{"list", "--pattern", pkg, "--json"}, p.Dir)
		return matchNameVersion(res.Stdout, pkg)
	case ManagerBun:
		res, _ := p.runner(ctx, "bun", []string{"pm", "ls"}, p.Dir)
		return matchNameVersion(res.Stdout, pkg)
	case ManagerPnpm:
		res, _ := p.runner(ctx, "pnpm", []string{"ls", pkg, "--json", "--depth", "10"}, p.Dir)
		return versionFromTree(res.Stdout, pkg)
	default:
		// npm ls exits non-zero on peer conflicts while still printing
		// the tree, so the output matters more than the error.
		res, _ := p.runner(ctx, "npm", []string{"ls", pkg, "--json", "--depth", "10"}, p.Dir)
		return versionFromTree(res.Stdout, pkg)
	}
}

// matchNameVersion extracts the version from pkg@version occurrences in
// free-form or line-JSON listing output. Alias targets such as
// "pkg@npm:..." are skipped, since a version starts with a digit.
func matchNameVersion(out, pkg string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(pkg) + `@([0-9][^\s"')]*)`)
	if m := re.FindStringSubmatch(out); m != nil {
		return m[1]
	}
	return ""
}

// versionFromTree walks npm- and pnpm-style ls JSON (a tree object or an
// array of them) for the package's resolved version. Direct dependencies
// win over nested ones.
func versionFromTree(out, pkg string) string {
	var root any
	if err := json.Unmarshal([]byte(out), &root); err != nil {
		return ""
	}
	return findVersion(root, pkg)
}

func findVersion(node any, pkg string) string {
	switch n := node.(type) {
	case map[string]any:
		deps, ok := n["dependencies"].(map[string]any)
		if !ok {
			return ""
		}
		if d, ok := deps[pkg].(map[string]any); ok {
			if v, ok := d["version"].(string); ok && v != "" {
				return v
			}
		}
		for _, child := range deps {
			if v := findVersion(child, pkg); v != "" {
				return v
			}
		}
	case []any:
		for _, item := range n {
			if v := findVersion(item, pkg); v != "" {
				return v
			}
		}
	}
	return ""
}
