package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
)

func NewDoctorCmd() *cobra.Command {
	var purl string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Verify registry reachability and that every recommended version exists",
		Long: `Doctor checks that the configured npm registry is reachable and that
every version the built-in advisories may recommend is actually published
and not deprecated. With --purl it instead evaluates a single
pkg:npm/<name>@<version> coordinate against the advisories, offline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if purl != "" {
				return doctorPURL(cmd.OutOrStdout(), purl)
			}
			return doctorRegistry(commandContext(cmd), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&purl, "purl", "", "Analyze one pkg:npm/<name>@<version> PURL instead of checking the registry")
	return cmd
}

var doctorCmd = NewDoctorCmd()

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func doctorRegistry(ctx context.Context, out io.Writer) error {
	reg := newRegistry()
	adv := fixnext.DefaultRegistry()

	fmt.Fprintf(out, "Registry: %s\n", reg.BaseURL())
	if err := reg.Ping(ctx); err != nil {
		fmt.Fprintf(out, "  %s not reachable: %v\n", paint(failStyle, "✗"), err)
		return fmt.Errorf("registry not reachable")
	}
	fmt.Fprintf(out, "  %s reachable\n", paint(okStyle, "✓"))

	failures := 0
	for _, pkg := range adv.AllPackages() {
		fmt.Fprintf(out, "\n%s\n", paint(boldStyle, pkg))
		meta, err := reg.PackageMetadata(ctx, pkg)
		if err != nil {
			fmt.Fprintf(out, "  %s metadata: %v\n", paint(failStyle, "✗"), err)
			failures++
			continue
		}

		for _, target := range recommendedVersions(adv, pkg) {
			if !meta.Has(target) {
				fmt.Fprintf(out, "  %s %s not published\n", paint(failStyle, "✗"), target)
				failures++
				continue
			}
			if reason := meta.Versions[target].Deprecated; reason != "" {
				fmt.Fprintf(out, "  %s %s published but deprecated: %s\n", paint(warnStyle, "!"), target, reason)
				continue
			}
			fmt.Fprintf(out, "  %s %s\n", paint(okStyle, "✓"), target)
		}
	}

	fmt.Fprintln(out)
	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Fprintln(out, paint(okStyle, "All advisory recommendations are published."))
	return nil
}

// recommendedVersions collects every version the advisories may recommend
// for pkg, including the safe pin used for unclassifiable versions.
func recommendedVersions(adv *fixnext.AdvisoryRegistry, pkg string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, rule := range adv.For(pkg) {
		for _, v := range rule.Targets(pkg) {
			add(v)
		}
	}
	add(adv.SafePin(pkg))
	return out
}

// doctorPURL evaluates one package@version coordinate, offline.
func doctorPURL(out io.Writer, raw string) error {
	p, err := fixnext.ParsePURL(raw)
	if err != nil {
		return fmt.Errorf("--purl: %w", err)
	}
	if p.Version == "" {
		return fmt.Errorf("--purl: %s carries no version", raw)
	}

	name := p.FullName()
	a := fixnext.New()
	if !a.Registry().Watches(name) {
		fmt.Fprintf(out, "%s is not covered by the advisory registry\n", name)
		return nil
	}

	findings := a.AnalyzeLockfile([]fixnext.LockfileEntry{{Name: name, Version: p.Version}})
	fixes := fixnext.PlanFixes(findings)

	if viper.GetBool("json") {
		if err := writeJSON(out, buildReport(raw, findings, fixes, nil)); err != nil {
			return err
		}
	} else {
		renderFindings(out, findings)
		renderFixes(out, fixes)
	}

	if fixnext.Vulnerable(findings) {
		exit(1)
	}
	return nil
}
