// Package plan reduces findings into single-target fixes.
package plan

import (
	"github.com/vercel-labs/fix-react2shell-next/internal/core"
	"github.com/vercel-labs/fix-react2shell-next/internal/version"
)

// ForPackage reduces findings that share one package (and origin) into a
// single fix.
//
// The target version is the supremum, under version comparison, of every
// recommendation across the matched advisories, so it satisfies all of
// them at once. It stays empty when no matched advisory knows a patched
// version, which signals "cannot auto-remediate" rather than "clean".
// CVE IDs keep first-seen order, and the note and alternative take the
// first non-empty value; later ones are dropped, not merged.
//
// The second return is false when nothing matched, in which case no fix
// exists for the package.
func ForPackage(findings []core.Finding) (core.Fix, bool) {
	if len(findings) == 0 {
		return core.Fix{}, false
	}

	fix := core.Fix{
		Package:  findings[0].Package,
		Declared: findings[0].Declared,
		Origin:   findings[0].Origin,
	}

	seen := make(map[string]bool)
	var targetV version.Version
	for _, f := range findings {
		for _, m := range f.Matched {
			if !seen[m.AdvisoryID] {
				seen[m.AdvisoryID] = true
				fix.CVEs = append(fix.CVEs, m.AdvisoryID)
			}
			if fix.Note == "" {
				fix.Note = m.Note
			}
			if fix.Alternative == "" {
				fix.Alternative = m.Alternative
			}
			if m.Recommended == "" {
				continue
			}
			v, err := version.Parse(m.Recommended)
			if err != nil {
				continue
			}
			if fix.Target == "" || version.Compare(v, targetV) > 0 {
				fix.Target, targetV = m.Recommended, v
			}
		}
	}

	if len(fix.CVEs) == 0 {
		return core.Fix{}, false
	}
	return fix, true
}

// Fixes groups findings by package and origin and reduces each group with
// ForPackage. Manifest findings declared under both dependencies and
// devDependencies reduce separately per block; lockfile findings all
// carry an empty origin and reduce per package. Groups keep first-seen
// order, and packages whose findings matched nothing produce no fix.
func Fixes(findings []core.Finding) []core.Fix {
	type key struct {
		pkg    string
		origin core.Origin
	}

	groups := make(map[key][]core.Finding)
	var order []key
	for _, f := range findings {
		k := key{f.Package, f.Origin}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], f)
	}

	var fixes []core.Fix
	for _, k := range order {
		if fix, ok := ForPackage(groups[k]); ok {
			fixes = append(fixes, fix)
		}
	}
	return fixes
}
