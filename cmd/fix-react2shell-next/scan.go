package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
)

func NewScanCmd() *cobra.Command {
	var failOn string
	var omitDev bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan a project for vulnerable Next.js and React Flight packages",
		Long: `Scan reads the project's package.json and evaluates every watched
dependency against the built-in advisories. Declared ranges are narrowed to
the installed version when node_modules, the package manager, or a lockfile
can supply one; dist-tag specifiers are resolved against the registry as a
last resort.

Exits 0 when clean, 1 when findings at or above --fail-on exist, and 2 on
usage or I/O errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			threshold, err := fixnext.ParseSeverity(failOn)
			if err != nil {
				return fmt.Errorf("--fail-on: %w", err)
			}

			res, err := analyzeProject(commandContext(cmd), dir)
			if err != nil {
				return err
			}

			findings := res.Findings
			if omitDev {
				findings = dropDevFindings(findings)
			}
			fixes := fixnext.PlanFixes(findings)

			out := cmd.OutOrStdout()
			if viper.GetBool("json") {
				if err := writeJSON(out, buildReport(dir, findings, fixes, res.Errors)); err != nil {
					return err
				}
			} else {
				renderFindings(out, findings)
				renderFixes(out, fixes)
			}

			if failsThreshold(findings, threshold) {
				exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&failOn, "fail-on", "low", "Minimum severity that causes exit code 1 (low, medium, high, critical)")
	cmd.Flags().BoolVar(&omitDev, "omit-dev", false, "Ignore devDependencies")
	return cmd
}

var scanCmd = NewScanCmd()

func init() {
	rootCmd.AddCommand(scanCmd)
}

func dropDevFindings(findings []fixnext.Finding) []fixnext.Finding {
	kept := findings[:0:0]
	for _, f := range findings {
		if f.Origin != fixnext.OriginDevelopment {
			kept = append(kept, f)
		}
	}
	return kept
}

// failsThreshold reports whether any finding should flip the exit code.
// Findings whose severity cannot be ranked (the synthesized UNKNOWN match)
// always count: surfacing exactly those is this tool's job.
func failsThreshold(findings []fixnext.Finding, min fixnext.Severity) bool {
	for _, f := range findings {
		if !f.Vulnerable() {
			continue
		}
		s := f.MaxSeverity()
		if s == fixnext.SeverityUnknown || s.Rank() >= min.Rank() {
			return true
		}
	}
	return false
}
