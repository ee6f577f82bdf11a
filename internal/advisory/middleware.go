package advisory

import (
	"sort"

	"github.com/vercel-labs/fix-react2shell-next/internal/core"
	"github.com/vercel-labs/fix-react2shell-next/internal/version"
)

const middlewareMitigation = "if you cannot upgrade, strip or block external requests carrying the x-middleware-subrequest header at your proxy"

// middlewareRule is the middleware authorization bypass. Middleware
// support landed in 11.1.4, so everything older is out of range. Each
// major line has a single patched release and the comparison runs across
// the whole major, not per minor. The rule needs a fully parsed version:
// a string it cannot parse never matches, and the resolver's UNKNOWN
// handling covers the remainder.
type middlewareRule struct {
	id       string
	title    string
	severity core.Severity
}

// Patched releases per major. Majors 11 and 12 share 12.3.5 because no
// fix was published for 11. Majors 16 and later shipped after the fix.
var middlewareFixes = map[int]string{
	11: "12.3.5",
	12: "12.3.5",
	13: "13.5.9",
	14: "14.2.25",
	15: "15.2.3",
}

var middlewareFloor = version.Version{Major: 11, Minor: 1, Patch: 4, Channel: version.ChannelStable}

func (r *middlewareRule) ID() string              { return r.id }
func (r *middlewareRule) Title() string           { return r.title }
func (r *middlewareRule) Severity() core.Severity { return r.severity }
func (r *middlewareRule) Packages() []string      { return []string{"next"} }
func (r *middlewareRule) Affects(name string) bool {
	return name == "next"
}

func (r *middlewareRule) IsVulnerable(name, raw string) bool {
	_, ok := r.match(name, raw)
	return ok
}

func (r *middlewareRule) Remediation(name, raw string) (core.Remediation, bool) {
	return r.match(name, raw)
}

func (r *middlewareRule) Targets(name string) []string {
	if name != "next" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, fix := range middlewareFixes {
		if !seen[fix] {
			seen[fix] = true
			out = append(out, fix)
		}
	}
	sort.Strings(out)
	return out
}

func (r *middlewareRule) match(name, raw string) (core.Remediation, bool) {
	if name != "next" {
		return core.Remediation{}, false
	}
	v, err := version.Parse(raw)
	if err != nil {
		return core.Remediation{}, false
	}
	if version.Compare(v, middlewareFloor) < 0 {
		return core.Remediation{}, false
	}
	fix, ok := middlewareFixes[v.Major]
	if !ok {
		return core.Remediation{}, false
	}
	if version.Compare(v, version.MustParse(fix)) >= 0 {
		return core.Remediation{}, false
	}
	note := middlewareMitigation
	if v.Major == 11 {
		note = "no fix was published for Next.js 11; upgrading to 12.3.5 is required; " + middlewareMitigation
	}
	return core.Remediation{Recommended: fix, Note: note}, true
}
