package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yarnLockFixture = `# THIS IS AN AUTOGENERATED FILE. DO NOT EDIT THIS FILE DIRECTLY.
# yarn lockfile v1


next@^15.3.0:
  version "15.3.4"
  resolved "https://registry.yarnpkg.com/next/-/next-15.3.4.tgz#deadbeef"

react@^19.0.0:
  version "19.1.0"
  resolved "https://registry.yarnpkg.com/react/-/react-19.1.0.tgz#cafebabe"
`

func TestLockfileCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), []byte(yarnLockFixture), 0644))
	setViper(t, "no_color", true)
	code := captureExit(t)

	out, err := runCommand(t, NewLockfileCmd(), []string{dir})
	require.NoError(t, err)
	assert.Contains(t, out, "yarn.lock")
	assert.Contains(t, out, "15.3.4")
	assert.Contains(t, out, "CVE-2025-66478")
	assert.Contains(t, out, "-> 15.3.7")
	assert.Equal(t, 1, *code)
}

func TestLockfileCmdJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), []byte(yarnLockFixture), 0644))
	setViper(t, "json", true)
	code := captureExit(t)

	out, err := runCommand(t, NewLockfileCmd(), []string{dir})
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, filepath.Join(dir, "yarn.lock"), rep.ScannedPath)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "pkg:npm/next@15.3.4", rep.Findings[0].PURL)
	assert.Equal(t, 1, *code)
}

func TestLockfileCmdClean(t *testing.T) {
	lock := `next@^16.0.0:
  version "16.0.8"
  resolved "https://registry.yarnpkg.com/next/-/next-16.0.8.tgz#00c0ffee"
`
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), []byte(lock), 0644))
	setViper(t, "no_color", true)
	code := captureExit(t)

	out, err := runCommand(t, NewLockfileCmd(), []string{dir})
	require.NoError(t, err)
	assert.Contains(t, out, "No known vulnerabilities")
	assert.Equal(t, -1, *code)
}

func TestLockfileCmdNone(t *testing.T) {
	_, err := runCommand(t, NewLockfileCmd(), []string{t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no lockfile")
}
