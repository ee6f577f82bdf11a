// Package core provides the shared data model for advisory matching and
// fix planning.
package core

import (
	"fmt"
	"strings"
)

// Severity is the advisory severity level.
type Severity string

const (
	SeverityUnknown  Severity = "unknown"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns an integer rank for threshold comparison (low=1, critical=4,
// unknown=0).
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a severity name case-insensitively. "moderate" is
// accepted as an alias for "medium", matching npm advisory vocabulary.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "low":
		return SeverityLow, nil
	case "medium", "moderate":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityUnknown, fmt.Errorf("invalid severity: %s", s)
	}
}

// Origin indicates which manifest block declared a dependency. Findings
// derived from lockfiles carry no origin, since lockfiles do not keep the
// dependency/devDependency distinction.
type Origin string

const (
	OriginRuntime     Origin = "runtime"
	OriginDevelopment Origin = "development"
)

// Remediation is one advisory's proposed fix for a specific affected line.
type Remediation struct {
	// Recommended is the version to move to. Empty means the advisory has
	// no known patched version for this line.
	Recommended string `json:"recommended,omitempty"`
	// Alternative is a second valid remediation path, when one exists
	// (for example a patched stable release instead of a canary bump).
	Alternative string `json:"alternative,omitempty"`
	// Note carries a free-text caveat for the operator.
	Note string `json:"note,omitempty"`
}

// MatchedAdvisory records one advisory that classified the observed
// version as vulnerable, together with its proposed remediation.
type MatchedAdvisory struct {
	AdvisoryID string   `json:"advisory_id"`
	Severity   Severity `json:"severity"`
	Remediation
}

// Finding is the result of evaluating one declared dependency against the
// advisory registry.
type Finding struct {
	// Package is the dependency name.
	Package string `json:"package"`
	// Declared is the specifier exactly as written in the manifest, or the
	// resolved version for lockfile-derived findings.
	Declared string `json:"declared"`
	// Observed is the concrete version the advisories were evaluated
	// against. It differs from Declared when an installed version was
	// resolved for a range specifier; it is empty when no concrete
	// version could be determined.
	Observed string `json:"observed,omitempty"`
	// Display is the human-readable form, e.g. "^15.3.0 (installed: 15.3.4)".
	Display string `json:"display"`
	// Matched lists every advisory that flagged the version, in registry
	// order.
	Matched []MatchedAdvisory `json:"matched"`
	// Origin is runtime or development for manifest findings, empty for
	// lockfile findings.
	Origin Origin `json:"origin,omitempty"`
}

// Vulnerable reports whether any advisory matched.
func (f Finding) Vulnerable() bool {
	return len(f.Matched) > 0
}

// MaxSeverity returns the highest severity among matched advisories, or
// SeverityUnknown when nothing matched.
func (f Finding) MaxSeverity() Severity {
	max := SeverityUnknown
	for _, m := range f.Matched {
		if m.Severity.Rank() > max.Rank() {
			max = m.Severity
		}
	}
	return max
}

// Fix is the reduced, single-target remediation for one package after
// merging every matched advisory.
type Fix struct {
	Package string `json:"package"`
	// Declared is the original manifest specifier the fix applies to.
	Declared string `json:"declared"`
	// Target is the version to pin or bump to. Empty means no matched
	// advisory knows a patched version: the package cannot be
	// auto-remediated, which is distinct from "no advisory matched".
	Target string `json:"target,omitempty"`
	// CVEs lists the matched advisory IDs in first-seen registry order.
	CVEs []string `json:"cves"`
	// Note and Alternative carry the first non-empty values encountered,
	// in registry order. Later values are dropped, not merged.
	Note        string `json:"note,omitempty"`
	Alternative string `json:"alternative,omitempty"`
	Origin      Origin `json:"origin,omitempty"`
}

// LockfileEntry is a concrete package@version resolution recovered from a
// lockfile, restricted to watch-listed package names.
type LockfileEntry struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	SourceURL string `json:"source_url,omitempty"`
}
