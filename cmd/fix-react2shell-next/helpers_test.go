package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// writeProject lays out a minimal npm project under a temp dir.
func writeProject(t *testing.T, manifest, lock string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0644))
	if lock != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package-lock.json"), []byte(lock), 0644))
	}
	return dir
}

func lockWithNext(version string) string {
	return fmt.Sprintf(`{
  "name": "app",
  "lockfileVersion": 3,
  "packages": {
    "node_modules/next": {"version": %q}
  }
}
`, version)
}

// installPackage fakes an installed dependency under node_modules so the
// lookup never shells out to a package manager.
func installPackage(t *testing.T, dir, name, version string) {
	t.Helper()
	pkgDir := filepath.Join(dir, "node_modules", name)
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	raw := fmt.Sprintf(`{"name": %q, "version": %q}`, name, version)
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(raw), 0644))
}

// captureExit replaces the exit func and records the first code passed.
// -1 means exit was never called.
func captureExit(t *testing.T) *int {
	t.Helper()
	code := -1
	orig := exit
	exit = func(c int) {
		if code == -1 {
			code = c
		}
	}
	t.Cleanup(func() { exit = orig })
	return &code
}

// setViper sets a viper key for the duration of the test.
func setViper(t *testing.T, key string, value any) {
	t.Helper()
	old := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, old) })
}

func runCommand(t *testing.T, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	err := cmd.RunE(cmd, args)
	return buf.String(), err
}
