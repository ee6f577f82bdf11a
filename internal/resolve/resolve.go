// Package resolve evaluates declared dependencies against the advisory
// registry and produces findings.
package resolve

import (
	"fmt"

	"github.com/vercel-labs/fix-react2shell-next/internal/advisory"
	"github.com/vercel-labs/fix-react2shell-next/internal/core"
	"github.com/vercel-labs/fix-react2shell-next/internal/version"
)

// Lookup resolves the concretely installed version of a package, usually
// by reading node_modules or asking the package manager. It returns ""
// when no installed version can be determined. The resolver invokes it at
// most once per package, and only when the declared specifier does not
// pin an exact version.
type Lookup func(pkg string) string

// Resolver turns (package, declared specifier) pairs into findings.
type Resolver struct {
	reg *advisory.Registry
}

func New(reg *advisory.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Registry returns the advisory registry the resolver consults.
func (r *Resolver) Registry() *advisory.Registry {
	return r.reg
}

// Analyze evaluates one declared dependency. lookup may be nil.
//
// An exact pin is evaluated directly. A range or unparseable specifier
// first consults lookup; without an installed version, a preservable
// range is evaluated at its declared floor (the worst version it admits)
// and anything else is handed to the advisories raw, which lets their
// own unresolvable-string policies apply. A watched package that matches
// nothing, parses to nothing, and has no installed version is never
// reported clean: it gets a synthetic UNKNOWN match pinning the
// conservative safe version.
func (r *Resolver) Analyze(pkg, declared string, origin core.Origin, lookup Lookup) core.Finding {
	finding := core.Finding{
		Package:  pkg,
		Declared: declared,
		Display:  declared,
		Origin:   origin,
	}

	cls := version.Classify(declared)
	stripped := version.StripOperator(declared)
	_, parseErr := version.Parse(stripped)
	unparseable := parseErr != nil && !cls.Unsupported
	exactPin := parseErr == nil && !cls.Unsupported && version.OperatorOf(declared) == version.OpNone

	evalVersion := declared
	installed := ""
	switch {
	case exactPin:
		evalVersion = stripped
		finding.Observed = stripped
	default:
		if lookup != nil {
			installed = lookup(pkg)
		}
		switch {
		case installed != "":
			evalVersion = installed
			finding.Observed = installed
			finding.Display = fmt.Sprintf("%s (installed: %s)", declared, installed)
		case parseErr == nil && !cls.Unsupported:
			// Preservable range with no installed version: evaluate the
			// declared floor.
			evalVersion = stripped
			finding.Observed = stripped
		}
	}

	for _, rule := range r.reg.For(pkg) {
		if rem, ok := rule.Remediation(pkg, evalVersion); ok {
			finding.Matched = append(finding.Matched, core.MatchedAdvisory{
				AdvisoryID:  rule.ID(),
				Severity:    rule.Severity(),
				Remediation: rem,
			})
		}
	}

	if len(finding.Matched) == 0 && unparseable && installed == "" && r.reg.Watches(pkg) {
		finding.Matched = append(finding.Matched, core.MatchedAdvisory{
			AdvisoryID: "UNKNOWN",
			Severity:   core.SeverityUnknown,
			Remediation: core.Remediation{
				Recommended: r.reg.SafePin(pkg),
				Note:        fmt.Sprintf("could not interpret %q or determine the installed version; verify the resolved version manually", declared),
			},
		})
	}

	return finding
}

// AnalyzeEntry evaluates one concrete lockfile resolution. Lockfile
// findings carry no origin, since lockfiles keep no dependency versus
// devDependency distinction, and no UNKNOWN synthesis: a resolution that
// matches nothing is clean.
func (r *Resolver) AnalyzeEntry(entry core.LockfileEntry) core.Finding {
	finding := core.Finding{
		Package:  entry.Name,
		Declared: entry.Version,
		Observed: entry.Version,
		Display:  entry.Version,
	}
	for _, rule := range r.reg.For(entry.Name) {
		if rem, ok := rule.Remediation(entry.Name, entry.Version); ok {
			finding.Matched = append(finding.Matched, core.MatchedAdvisory{
				AdvisoryID:  rule.ID(),
				Severity:    rule.Severity(),
				Remediation: rem,
			})
		}
	}
	return finding
}

// AnalyzeEntries evaluates a lockfile scan. Identical (name, version)
// pairs collapse to a single finding, keeping first-seen order.
func (r *Resolver) AnalyzeEntries(entries []core.LockfileEntry) []core.Finding {
	seen := make(map[string]bool, len(entries))
	var findings []core.Finding
	for _, entry := range entries {
		key := entry.Name + "@" + entry.Version
		if seen[key] {
			continue
		}
		seen[key] = true
		findings = append(findings, r.AnalyzeEntry(entry))
	}
	return findings
}
