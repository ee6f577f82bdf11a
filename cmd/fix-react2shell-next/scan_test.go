package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
)

func TestScanCmdVulnerable(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {"next": "^15.3.0"}}`, lockWithNext("15.3.4"))
	installPackage(t, dir, "next", "15.3.4")
	setViper(t, "no_color", true)
	code := captureExit(t)

	out, err := runCommand(t, NewScanCmd(), []string{dir})
	require.NoError(t, err)

	assert.Contains(t, out, "next")
	assert.Contains(t, out, "^15.3.0 (installed: 15.3.4)")
	assert.Contains(t, out, "CVE-2025-55182")
	assert.Contains(t, out, "CVE-2025-66478")
	assert.Contains(t, out, "-> ^15.3.7")
	assert.Equal(t, 1, *code)
}

func TestScanCmdClean(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {"next": "16.0.8"}}`, "")
	setViper(t, "no_color", true)
	code := captureExit(t)

	out, err := runCommand(t, NewScanCmd(), []string{dir})
	require.NoError(t, err)
	assert.Contains(t, out, "No known vulnerabilities")
	assert.Equal(t, -1, *code)
}

func TestScanCmdJSON(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {"next": "^15.3.0"}}`, lockWithNext("15.3.4"))
	installPackage(t, dir, "next", "15.3.4")
	setViper(t, "json", true)
	code := captureExit(t)

	out, err := runCommand(t, NewScanCmd(), []string{dir})
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 1, rep.SchemaVersion)
	assert.Equal(t, dir, rep.ScannedPath)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "next", rep.Findings[0].Package)
	assert.Equal(t, "pkg:npm/next@15.3.4", rep.Findings[0].PURL)
	require.Len(t, rep.Fixes, 1)
	assert.Equal(t, "15.3.7", rep.Fixes[0].Target)
	assert.Empty(t, rep.Errors)
	assert.Equal(t, 1, *code)
}

func TestScanCmdFailOn(t *testing.T) {
	// 19.2.1 clears the critical advisory but still matches the high ones.
	dir := writeProject(t, `{"dependencies": {"react-server-dom-webpack": "19.2.1"}}`, "")
	setViper(t, "no_color", true)
	code := captureExit(t)

	cmd := NewScanCmd()
	require.NoError(t, cmd.Flags().Set("fail-on", "critical"))
	out, err := runCommand(t, cmd, []string{dir})
	require.NoError(t, err)
	assert.Contains(t, out, "CVE-2025-66793")
	assert.NotContains(t, out, "CVE-2025-55182")
	assert.Equal(t, -1, *code)

	code2 := captureExit(t)
	_, err = runCommand(t, NewScanCmd(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, 1, *code2)
}

func TestScanCmdOmitDev(t *testing.T) {
	dir := writeProject(t, `{"devDependencies": {"next": "15.3.4"}}`, "")
	setViper(t, "no_color", true)
	code := captureExit(t)

	cmd := NewScanCmd()
	require.NoError(t, cmd.Flags().Set("omit-dev", "true"))
	out, err := runCommand(t, cmd, []string{dir})
	require.NoError(t, err)
	assert.Contains(t, out, "No watched dependencies declared")
	assert.Equal(t, -1, *code)
}

func TestScanCmdUnknownSpecifier(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {"next": "file:../next"}}`, "")
	setViper(t, "no_color", true)
	code := captureExit(t)

	// Unclassifiable findings must fail even the strictest threshold.
	cmd := NewScanCmd()
	require.NoError(t, cmd.Flags().Set("fail-on", "critical"))
	out, err := runCommand(t, cmd, []string{dir})
	require.NoError(t, err)
	assert.Contains(t, out, "UNKNOWN")
	assert.Contains(t, out, "16.0.8")
	assert.Equal(t, 1, *code)
}

func TestScanCmdNoManifest(t *testing.T) {
	_, err := runCommand(t, NewScanCmd(), []string{t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, fixnext.ErrNoManifest)
}

func TestScanCmdBadFailOn(t *testing.T) {
	cmd := NewScanCmd()
	require.NoError(t, cmd.Flags().Set("fail-on", "fatal"))
	_, err := runCommand(t, cmd, []string{t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--fail-on")
}
