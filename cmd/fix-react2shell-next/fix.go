package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
	"github.com/vercel-labs/fix-react2shell-next/internal/pmexec"
)

// askOne is swapped out in tests.
var askOne = survey.AskOne

func NewFixCmd() *cobra.Command {
	var yes bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix [dir]",
		Short: "Apply the minimal safe version bumps to package.json",
		Long: `Fix scans the project like "scan" does, reduces the findings to one
version bump per package, and rewrites package.json in place. Range
operators are preserved when the bumped version still satisfies the
declared range shape; everything else becomes an exact pin. The rewrite
only touches the changed specifiers, leaving formatting intact.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			out := cmd.OutOrStdout()
			jsonOut := viper.GetBool("json")

			if jsonOut && !yes && !dryRun {
				return fmt.Errorf("refusing to prompt in --json mode; pass --yes or --dry-run")
			}

			res, err := analyzeProject(commandContext(cmd), dir)
			if err != nil {
				return err
			}

			fixes := fixnext.PlanFixes(res.Findings)
			applicable := applicableFixes(fixes)

			if jsonOut {
				if err := writeJSON(out, buildReport(dir, res.Findings, fixes, res.Errors)); err != nil {
					return err
				}
			}

			if len(applicable) == 0 {
				if !jsonOut {
					if len(fixes) > 0 {
						fmt.Fprintln(out, paint(warnStyle, "Findings exist but no patched release is known; nothing to apply."))
					} else {
						fmt.Fprintln(out, paint(okStyle, "Nothing to fix."))
					}
				}
				return nil
			}

			if !jsonOut {
				renderFindings(out, res.Findings)
				renderFixes(out, fixes)
				fmt.Fprintln(out)
			}

			if dryRun {
				if !jsonOut {
					fmt.Fprintln(out, paint(dimStyle, "Dry run: package.json not modified."))
				}
				return nil
			}

			if !yes {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Rewrite %s with %d change(s)?", res.Manifest.Path, len(applicable)),
					Default: true,
				}
				if err := askOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			changed := res.Manifest.Apply(applicable)
			if changed == 0 {
				if !jsonOut {
					fmt.Fprintln(out, "No declarations changed.")
				}
				return nil
			}
			if err := res.Manifest.Write(); err != nil {
				return fmt.Errorf("writing %s: %w", res.Manifest.Path, err)
			}

			if !jsonOut {
				fmt.Fprintf(out, "%s %s updated (%d change(s)).\n", paint(okStyle, "✓"), res.Manifest.Path, changed)
				fmt.Fprintf(out, "Re-install to apply: %s install\n", pmexec.Detect(dir))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the planned changes without writing package.json")
	return cmd
}

var fixCmd = NewFixCmd()

func init() {
	rootCmd.AddCommand(fixCmd)
}

// applicableFixes keeps the fixes that carry a concrete target version.
func applicableFixes(fixes []fixnext.Fix) []fixnext.Fix {
	kept := fixes[:0:0]
	for _, fix := range fixes {
		if fix.Target != "" {
			kept = append(kept, fix)
		}
	}
	return kept
}
