package lockfile

import (
	"github.com/vercel-labs/fix-react2shell-next/internal/core"
)

// ParseBun always returns no entries. bun.lockb is binary and bun.lock
// mixes JSON with comments and trailing commas; neither is parsed here.
// An empty result makes the directory scan skip the file, which pushes
// the caller onto the installed-version lookup instead.
func ParseBun(raw []byte, watch []string) []core.LockfileEntry {
	return nil
}
