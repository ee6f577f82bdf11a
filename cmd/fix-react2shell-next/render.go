package main

import (
	"fmt"
	"io"
	"strings"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
	verpkg "github.com/vercel-labs/fix-react2shell-next/internal/version"
)

// renderFindings prints one line per watched dependency, with the matched
// advisories indented under the vulnerable ones.
func renderFindings(w io.Writer, findings []fixnext.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, paint(dimStyle, "No watched dependencies declared."))
		return
	}

	vulnerable := 0
	for _, f := range findings {
		if !f.Vulnerable() {
			fmt.Fprintf(w, "%s %s %s\n", paint(okStyle, "✓"), f.Package, paint(dimStyle, f.Display))
			continue
		}
		vulnerable++

		origin := ""
		if f.Origin != "" {
			origin = " " + paint(dimStyle, "["+string(f.Origin)+"]")
		}
		fmt.Fprintf(w, "%s %s %s%s\n", paint(failStyle, "✗"), paint(boldStyle, f.Package), f.Display, origin)

		for _, m := range f.Matched {
			line := fmt.Sprintf("    %-16s %s", m.AdvisoryID, severityLabel(m.Severity))
			if m.Recommended != "" {
				line += " fix: " + m.Recommended
			}
			if m.Alternative != "" {
				line += paint(dimStyle, " (or "+m.Alternative+")")
			}
			fmt.Fprintln(w, line)
			if m.Note != "" {
				fmt.Fprintf(w, "      %s\n", paint(dimStyle, "note: "+m.Note))
			}
		}
	}

	fmt.Fprintln(w)
	if vulnerable == 0 {
		fmt.Fprintln(w, paint(okStyle, "No known vulnerabilities."))
	} else {
		word := "dependencies"
		if vulnerable == 1 {
			word = "dependency"
		}
		fmt.Fprintln(w, paint(failStyle, fmt.Sprintf("%d vulnerable %s (%d watched).", vulnerable, word, len(findings))))
	}
}

// renderFixes prints the planned remediation per package, showing the
// specifier the manifest would be rewritten to.
func renderFixes(w io.Writer, fixes []fixnext.Fix) {
	if len(fixes) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(boldStyle, "Planned fixes:"))
	for _, fix := range fixes {
		if fix.Target == "" {
			fmt.Fprintf(w, "  %s %s: no patched release known (%s)\n",
				paint(warnStyle, "!"), fix.Package, strings.Join(fix.CVEs, ", "))
			continue
		}
		newSpec := verpkg.ReconstructSpecifier(fix.Declared, fix.Target)
		fmt.Fprintf(w, "  %s: %s -> %s  %s\n",
			fix.Package, fix.Declared, newSpec, paint(dimStyle, "("+strings.Join(fix.CVEs, ", ")+")"))
		if fix.Alternative != "" {
			fmt.Fprintf(w, "      alternative: %s\n", fix.Alternative)
		}
		if fix.Note != "" {
			fmt.Fprintf(w, "      %s\n", paint(dimStyle, "note: "+fix.Note))
		}
	}
}
