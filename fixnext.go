// Package fixnext detects and remediates the React2Shell family of
// vulnerabilities in Next.js and the React Flight renderer packages.
//
// The package evaluates declared dependencies (package.json), concrete
// lockfile resolutions, and installed trees against a curated advisory
// registry, then reduces every match to the minimal version bump that
// clears all findings for a package.
//
// Basic usage:
//
//	a := fixnext.New()
//	findings, err := a.AnalyzeDir(".")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, fix := range fixnext.PlanFixes(findings) {
//		fmt.Printf("%s: %s -> %s\n", fix.Package, fix.Declared, fix.Target)
//	}
//
// The advisory set and the installed-version lookup are injectable:
//
//	a := fixnext.New(
//		fixnext.WithLookup(prober.Lookup(ctx)),
//	)
package fixnext

import (
	"path/filepath"

	"github.com/vercel-labs/fix-react2shell-next/internal/advisory"
	"github.com/vercel-labs/fix-react2shell-next/internal/core"
	"github.com/vercel-labs/fix-react2shell-next/internal/lockfile"
	"github.com/vercel-labs/fix-react2shell-next/internal/manifest"
	"github.com/vercel-labs/fix-react2shell-next/internal/plan"
	"github.com/vercel-labs/fix-react2shell-next/internal/resolve"
)

// Re-export types from internal/core
type (
	// Severity is the advisory severity level.
	Severity = core.Severity

	// Origin indicates which manifest block declared a dependency.
	Origin = core.Origin

	// Remediation is one advisory's proposed fix for an affected line.
	Remediation = core.Remediation

	// MatchedAdvisory records one advisory that flagged a version.
	MatchedAdvisory = core.MatchedAdvisory

	// Finding is the result of evaluating one dependency.
	Finding = core.Finding

	// Fix is the reduced remediation for one package.
	Fix = core.Fix

	// LockfileEntry is a concrete resolution recovered from a lockfile.
	LockfileEntry = core.LockfileEntry
)

// Re-export types from the advisory, manifest, and lockfile layers
type (
	// Advisory is a single known-vulnerability rule.
	Advisory = advisory.Advisory

	// AdvisoryRegistry is an immutable, ordered collection of advisories.
	AdvisoryRegistry = advisory.Registry

	// Manifest is a parsed package.json.
	Manifest = manifest.Manifest

	// ScanResult is a discovered and parsed lockfile.
	ScanResult = lockfile.ScanResult

	// Lookup resolves the installed version of a package; it returns ""
	// when none can be determined.
	Lookup = resolve.Lookup
)

// Re-export constants
const (
	SeverityUnknown  = core.SeverityUnknown
	SeverityLow      = core.SeverityLow
	SeverityMedium   = core.SeverityMedium
	SeverityHigh     = core.SeverityHigh
	SeverityCritical = core.SeverityCritical

	OriginRuntime     = core.OriginRuntime
	OriginDevelopment = core.OriginDevelopment
)

// Re-export errors
var (
	ErrNoManifest = manifest.ErrNoManifest
)

// NewAdvisoryRegistry builds a registry over custom rules. safePins maps
// watched packages to the conservative recommendation used when a version
// cannot be determined at all; it may be nil.
var NewAdvisoryRegistry = advisory.NewRegistry

// DefaultRegistry returns the built-in registry with the five curated
// advisories covering next and the react-server-dom-* renderers.
func DefaultRegistry() *AdvisoryRegistry {
	return advisory.Default()
}

// Analyzer evaluates dependencies against an advisory registry.
type Analyzer struct {
	reg      *advisory.Registry
	resolver *resolve.Resolver
	lookup   resolve.Lookup
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRegistry replaces the default advisory registry.
func WithRegistry(reg *AdvisoryRegistry) Option {
	return func(a *Analyzer) {
		a.reg = reg
	}
}

// WithLookup sets the installed-version lookup consulted for range and
// unparseable specifiers. Without one, ranges are evaluated at their
// declared floor.
func WithLookup(fn Lookup) Option {
	return func(a *Analyzer) {
		a.lookup = fn
	}
}

// New creates an Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	if a.reg == nil {
		a.reg = advisory.Default()
	}
	a.resolver = resolve.New(a.reg)
	return a
}

// Registry returns the advisory registry in use.
func (a *Analyzer) Registry() *AdvisoryRegistry {
	return a.reg
}

// Watched returns the names of every package the registry covers.
func (a *Analyzer) Watched() []string {
	return a.reg.AllPackages()
}

// AnalyzeManifest evaluates every watched dependency declared in m.
// Runtime dependencies come first, then development ones, each in
// watch-list order.
func (a *Analyzer) AnalyzeManifest(m *Manifest) []Finding {
	var findings []Finding
	for _, origin := range []Origin{OriginRuntime, OriginDevelopment} {
		for _, pkg := range a.reg.AllPackages() {
			if spec, ok := m.Declared(pkg, origin); ok {
				findings = append(findings, a.resolver.Analyze(pkg, spec, origin, a.lookup))
			}
		}
	}
	return findings
}

// AnalyzeDir loads dir/package.json and evaluates it.
func (a *Analyzer) AnalyzeDir(dir string) ([]Finding, error) {
	m, err := manifest.Load(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, err
	}
	return a.AnalyzeManifest(m), nil
}

// AnalyzeLockfile evaluates concrete lockfile resolutions. Duplicate
// (name, version) pairs collapse to a single finding.
func (a *Analyzer) AnalyzeLockfile(entries []LockfileEntry) []Finding {
	return a.resolver.AnalyzeEntries(entries)
}

// ScanLockfiles discovers and parses the highest-priority lockfile in dir
// that mentions a watched package. The second return is false when no
// lockfile qualifies.
func (a *Analyzer) ScanLockfiles(dir string) (ScanResult, bool) {
	return lockfile.ScanDir(dir, a.reg.AllPackages())
}

// PlanFixes reduces findings to at most one fix per (package, origin):
// the smallest version that satisfies every matched advisory.
func PlanFixes(findings []Finding) []Fix {
	return plan.Fixes(findings)
}

// PlanPackageFix reduces findings for a single package. The second
// return is false when no finding is vulnerable.
func PlanPackageFix(findings []Finding) (Fix, bool) {
	return plan.ForPackage(findings)
}

// LoadManifest reads and parses a package.json file.
func LoadManifest(path string) (*Manifest, error) {
	return manifest.Load(path)
}

// ParseManifest parses raw package.json bytes.
func ParseManifest(raw []byte) (*Manifest, error) {
	return manifest.Parse(raw)
}

// ParseSeverity parses a severity name case-insensitively. "moderate" is
// accepted as an alias for "medium".
var ParseSeverity = core.ParseSeverity

// MaxSeverity returns the highest severity across all findings, or
// SeverityUnknown when nothing matched.
func MaxSeverity(findings []Finding) Severity {
	max := core.SeverityUnknown
	for _, f := range findings {
		if s := f.MaxSeverity(); s.Rank() > max.Rank() {
			max = s
		}
	}
	return max
}

// Vulnerable reports whether any finding matched an advisory.
func Vulnerable(findings []Finding) bool {
	for _, f := range findings {
		if f.Vulnerable() {
			return true
		}
	}
	return false
}

// PURL wraps a parsed pkg:npm Package URL.
type PURL = core.PURL

// ParsePURL parses a Package URL string. Only pkg:npm PURLs are accepted.
func ParsePURL(purl string) (*PURL, error) {
	return core.ParsePURL(purl)
}

// NewPURL builds the canonical pkg:npm PURL string for a package version.
func NewPURL(name, version string) string {
	return core.NewPURL(name, version)
}
