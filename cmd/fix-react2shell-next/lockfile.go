package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
)

func NewLockfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lockfile [dir]",
		Short: "Analyze the lockfile's concrete resolutions, ignoring package.json",
		Long: `Lockfile finds the highest-priority lockfile in the directory
(package-lock.json, then yarn.lock, pnpm-lock.yaml, bun.lockb, bun.lock)
and evaluates the exact versions it pins for the watched packages.
Lockfile findings carry no runtime/development origin, since lockfiles do
not keep that distinction.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			out := cmd.OutOrStdout()

			a := fixnext.New()
			scan, ok := a.ScanLockfiles(dir)
			if !ok {
				return fmt.Errorf("no lockfile mentioning a watched package found in %s", dir)
			}

			findings := a.AnalyzeLockfile(scan.Entries)
			fixes := fixnext.PlanFixes(findings)

			if viper.GetBool("json") {
				if err := writeJSON(out, buildReport(filepath.Join(dir, scan.File), findings, fixes, nil)); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "%s %s\n\n", paint(boldStyle, scan.File), paint(dimStyle, "("+string(scan.Format)+")"))
				renderFindings(out, findings)
				renderFixes(out, fixes)
			}

			if fixnext.Vulnerable(findings) {
				exit(1)
			}
			return nil
		},
	}
	return cmd
}

var lockfileCmd = NewLockfileCmd()

func init() {
	rootCmd.AddCommand(lockfileCmd)
}
