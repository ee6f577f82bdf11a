package advisory

import (
	"fmt"
	"sort"

	"github.com/vercel-labs/fix-react2shell-next/internal/core"
	"github.com/vercel-labs/fix-react2shell-next/internal/version"
)

var rsdPackages = []string{
	"react-server-dom-webpack",
	"react-server-dom-turbopack",
	"react-server-dom-parcel",
}

func isRSD(name string) bool {
	for _, p := range rsdPackages {
		if name == p {
			return true
		}
	}
	return false
}

// lineTable maps a "major.minor" release line to the first patched version
// on that line. A version belongs to a line when its major.minor matches,
// whatever its channel; canaries and rcs that predate the line's patch
// compare below it and match.
type lineTable map[string]string

func (t lineTable) fixFor(v version.Version) (string, bool) {
	fix, ok := t[fmt.Sprintf("%d.%d", v.Major, v.Minor)]
	return fix, ok
}

// canaryGate is a cutover on a canary line that tracks its own sequence
// counter. Sequences below fixedSeq are affected.
type canaryGate struct {
	major, minor, patch int
	fixedSeq            int
	recommended         string
	alternative         string
}

func (g canaryGate) matches(v version.Version) bool {
	return v.Channel == version.ChannelCanary &&
		v.Major == g.major && v.Minor == g.minor && v.Patch == g.patch
}

// flightRule is one advisory in the React Flight deserialization family.
// These advisories share their shape: per-minor patched lines for next,
// canary cutovers with independent sequence counters, a canary-only rule
// for the abandoned 14.3.0 line, a per-major assumption for version
// strings that cannot be resolved, and a per-minor table for the
// react-server-dom renderers.
type flightRule struct {
	id       string
	title    string
	severity core.Severity

	// next coverage; nil nextLines disables it.
	nextLines  lineTable
	nextCanary []canaryGate
	// The 14.3.0-canary line vendored React 19 and was discontinued
	// before a fix shipped; every sequence is affected and the
	// remediation is a major upgrade. Empty disables the rule: stable 14
	// and everything older run React 18 and are not affected.
	next14To   string
	next14Note string
	// majorPins is the policy for strings that parse to nothing but still
	// expose a major number ("15.x", "^16"): those majors are assumed
	// affected and pinned to their newest patched release. Majors absent
	// from the map (14 included) are not matched on this path.
	majorPins map[int]string

	// react-server-dom coverage; nil disables it. These rules require a
	// fully parsed version: an unparseable renderer version falls through
	// to the resolver's UNKNOWN handling instead.
	rsdLines lineTable
}

func (r *flightRule) ID() string              { return r.id }
func (r *flightRule) Title() string           { return r.title }
func (r *flightRule) Severity() core.Severity { return r.severity }

func (r *flightRule) Packages() []string {
	var names []string
	if r.nextLines != nil {
		names = append(names, "next")
	}
	if r.rsdLines != nil {
		names = append(names, rsdPackages...)
	}
	return names
}

func (r *flightRule) Affects(name string) bool {
	if name == "next" {
		return r.nextLines != nil
	}
	return r.rsdLines != nil && isRSD(name)
}

func (r *flightRule) IsVulnerable(name, raw string) bool {
	_, ok := r.match(name, raw)
	return ok
}

func (r *flightRule) Remediation(name, raw string) (core.Remediation, bool) {
	return r.match(name, raw)
}

func (r *flightRule) match(name, raw string) (core.Remediation, bool) {
	switch {
	case name == "next" && r.nextLines != nil:
		return r.matchNext(raw)
	case isRSD(name) && r.rsdLines != nil:
		return r.matchRSD(raw)
	}
	return core.Remediation{}, false
}

func (r *flightRule) matchNext(raw string) (core.Remediation, bool) {
	v, err := version.Parse(raw)
	if err != nil {
		major, ok := version.MajorOf(raw)
		if !ok {
			return core.Remediation{}, false
		}
		pin, ok := r.majorPins[major]
		if !ok {
			return core.Remediation{}, false
		}
		return core.Remediation{
			Recommended: pin,
			Note:        fmt.Sprintf("could not resolve %q to an exact version; earlier %d.x releases are affected, so the newest patched release is recommended", raw, major),
		}, true
	}

	// Canary lines carry their own sequence cutovers and are checked
	// before the stable line tables, which do not list them.
	for _, gate := range r.nextCanary {
		if gate.matches(v) {
			if v.Sequence >= gate.fixedSeq {
				return core.Remediation{}, false
			}
			return core.Remediation{
				Recommended: gate.recommended,
				Alternative: gate.alternative,
			}, true
		}
	}

	if v.Major == 14 {
		if r.next14To != "" && v.Minor == 3 && v.Patch == 0 && v.Channel == version.ChannelCanary {
			return core.Remediation{Recommended: r.next14To, Note: r.next14Note}, true
		}
		return core.Remediation{}, false
	}

	return matchLine(r.nextLines, v)
}

func (r *flightRule) matchRSD(raw string) (core.Remediation, bool) {
	v, err := version.Parse(raw)
	if err != nil {
		return core.Remediation{}, false
	}
	return matchLine(r.rsdLines, v)
}

func (r *flightRule) Targets(name string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	switch {
	case name == "next" && r.nextLines != nil:
		for _, fix := range r.nextLines {
			add(fix)
		}
		for _, gate := range r.nextCanary {
			add(gate.recommended)
			add(gate.alternative)
		}
		add(r.next14To)
		for _, pin := range r.majorPins {
			add(pin)
		}
	case isRSD(name) && r.rsdLines != nil:
		for _, fix := range r.rsdLines {
			add(fix)
		}
	}
	sort.Strings(out)
	return out
}

// matchLine applies the per-line table: a version is affected when its
// major.minor line is listed and it compares below the line's patched
// version. Lines outside the table are treated as safe; lines newer than
// the table shipped after the fix, and lines older predate the affected
// code.
func matchLine(t lineTable, v version.Version) (core.Remediation, bool) {
	fix, ok := t.fixFor(v)
	if !ok {
		return core.Remediation{}, false
	}
	if version.Compare(v, version.MustParse(fix)) >= 0 {
		return core.Remediation{}, false
	}
	return core.Remediation{Recommended: fix}, true
}
