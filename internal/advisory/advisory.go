// Package advisory holds the curated vulnerability rules and the registry
// that serves them.
//
// Each advisory is a self-contained rule table: it declares the packages
// it covers and classifies a (package, version) pair on its own, without
// the registry interpreting its internals. Version strings are passed raw
// because several rules have a documented policy for strings that cannot
// be parsed (for example "assume an extractable major 15 is affected").
package advisory

import (
	"github.com/vercel-labs/fix-react2shell-next/internal/core"
)

// Advisory is a single known-vulnerability rule.
type Advisory interface {
	// ID returns the advisory identifier, e.g. "CVE-2025-55182".
	ID() string
	// Title returns a short human-readable description.
	Title() string
	// Severity returns the advisory's severity level.
	Severity() core.Severity
	// Packages lists the package names this advisory covers.
	Packages() []string
	// Affects reports whether the advisory covers the named package.
	Affects(name string) bool
	// IsVulnerable reports whether the given version of the named package
	// is affected. The version is the raw string as observed; each rule
	// decides how to treat strings it cannot parse.
	IsVulnerable(name, version string) bool
	// Remediation returns the proposed fix for an affected (name, version)
	// pair. The second return is false when the pair is not affected.
	Remediation(name, version string) (core.Remediation, bool)
	// Targets lists every distinct version this advisory may recommend
	// for the named package, sorted, for publishability checks.
	Targets(name string) []string
}

// Registry is an immutable, ordered collection of advisories. Order is
// significant: findings list matches in registry order, and the planner's
// first-non-empty note selection follows it.
type Registry struct {
	rules    []Advisory
	safePins map[string]string
}

// NewRegistry builds a registry over the given rules. safePins maps each
// watched package to the conservative version recommended when a
// dependency cannot be classified at all; it may be nil.
func NewRegistry(rules []Advisory, safePins map[string]string) *Registry {
	pins := make(map[string]string, len(safePins))
	for name, pin := range safePins {
		pins[name] = pin
	}
	return &Registry{rules: rules, safePins: pins}
}

// Default returns the built-in registry with the five curated advisories.
func Default() *Registry {
	return NewRegistry(defaultRules(), defaultSafePins())
}

// All returns the advisories in registry order.
func (r *Registry) All() []Advisory {
	return r.rules
}

// AllPackages returns the union of every advisory's package set, in
// first-seen registry order. This is the tool's watch-list.
func (r *Registry) AllPackages() []string {
	seen := make(map[string]bool)
	var names []string
	for _, rule := range r.rules {
		for _, name := range rule.Packages() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// For returns the advisories covering the named package, in registry order.
func (r *Registry) For(name string) []Advisory {
	var matched []Advisory
	for _, rule := range r.rules {
		if rule.Affects(name) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// Watches reports whether any advisory covers the named package.
func (r *Registry) Watches(name string) bool {
	for _, rule := range r.rules {
		if rule.Affects(name) {
			return true
		}
	}
	return false
}

// SafePin returns the conservative recommendation used when a watched
// package's version cannot be determined at all. Empty when the package
// has no pin.
func (r *Registry) SafePin(name string) string {
	return r.safePins[name]
}
