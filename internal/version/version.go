// Package version parses and compares Next.js release versions.
//
// The grammar is deliberately narrow: stable releases (MAJOR.MINOR.PATCH)
// and the two pre-release channels Next.js actually publishes,
// MAJOR.MINOR.PATCH-rc.N and MAJOR.MINOR.PATCH-canary.N. Anything else,
// including dist-tags ("latest", "canary"), aliases ("npm:...",
// "workspace:..."), and range specifiers, does not parse. Range shapes are
// classified separately by Classify so callers can tell "a range we
// understand but cannot resolve" apart from "a token we do not understand
// at all".
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnrecognized is returned for tokens that are not version-shaped at
	// all: dist-tags, protocol-prefixed aliases, wildcards, paths.
	ErrUnrecognized = errors.New("unrecognized version token")

	// ErrMalformed is returned for strings that look numeric but do not
	// match the stable/rc/canary grammar (e.g. "15.3", "15.3.0-rc").
	ErrMalformed = errors.New("malformed version string")
)

// Channel is the release track a version belongs to.
type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelRC     Channel = "rc"
	ChannelCanary Channel = "canary"
)

// rank orders channels at an identical MAJOR.MINOR.PATCH triple: every
// canary precedes every rc, which precedes the stable release.
func (c Channel) rank() int {
	switch c {
	case ChannelCanary:
		return 0
	case ChannelRC:
		return 1
	default:
		return 2
	}
}

// Version is a parsed release version. Sequence is the pre-release counter
// and is only meaningful when Channel is not ChannelStable. Versions are
// value types; treat them as immutable once parsed.
type Version struct {
	Major    int
	Minor    int
	Patch    int
	Channel  Channel
	Sequence int
}

// String renders the version in its canonical published form.
func (v Version) String() string {
	if v.Channel == ChannelStable || v.Channel == "" {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d.%d-%s.%d", v.Major, v.Minor, v.Patch, v.Channel, v.Sequence)
}

// IsPrerelease reports whether the version is on the rc or canary channel.
func (v Version) IsPrerelease() bool {
	return v.Channel == ChannelRC || v.Channel == ChannelCanary
}

// Parse parses a concrete version string. The input must already have any
// leading operator stripped (see StripOperator); "^15.3.0" does not parse.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, ErrUnrecognized
	}

	// Protocol aliases and anything path-like are never versions.
	if strings.Contains(s, "/") || strings.Contains(s, ":") {
		return Version{}, ErrUnrecognized
	}
	if s[0] < '0' || s[0] > '9' {
		return Version{}, ErrUnrecognized
	}

	numeric, pre, hasPre := strings.Cut(s, "-")

	parts := strings.Split(numeric, ".")
	if len(parts) != 3 {
		return Version{}, ErrMalformed
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, ErrMalformed
		}
		nums[i] = n
	}

	v := Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Channel: ChannelStable}
	if !hasPre {
		return v, nil
	}

	channel, seq, ok := strings.Cut(pre, ".")
	if !ok {
		return Version{}, ErrMalformed
	}
	switch Channel(channel) {
	case ChannelRC:
		v.Channel = ChannelRC
	case ChannelCanary:
		v.Channel = ChannelCanary
	default:
		return Version{}, ErrMalformed
	}
	n, err := strconv.Atoi(seq)
	if err != nil || n < 0 {
		return Version{}, ErrMalformed
	}
	v.Sequence = n
	return v, nil
}

// MustParse parses a version string known to be well formed, such as the
// curated entries in an advisory table. It panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("version: MustParse(%q): %v", s, err))
	}
	return v
}

// Compare orders two versions. Numeric major/minor/patch dominate; at an
// equal triple the channel rank decides (canary < rc < stable); within an
// equal non-stable channel the pre-release sequence breaks the tie. Two
// stable versions with an identical triple compare equal.
func Compare(a, b Version) int {
	if a.Major != b.Major {
		return cmpInt(a.Major, b.Major)
	}
	if a.Minor != b.Minor {
		return cmpInt(a.Minor, b.Minor)
	}
	if a.Patch != b.Patch {
		return cmpInt(a.Patch, b.Patch)
	}
	if ar, br := a.Channel.rank(), b.Channel.rank(); ar != br {
		return cmpInt(ar, br)
	}
	if a.Channel == ChannelStable || a.Channel == "" {
		// Stable carries no sequence by definition.
		return 0
	}
	return cmpInt(a.Sequence, b.Sequence)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
