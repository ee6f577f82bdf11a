package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/viper"

	fixnext "github.com/vercel-labs/fix-react2shell-next"
	"github.com/vercel-labs/fix-react2shell-next/internal/pmexec"
	"github.com/vercel-labs/fix-react2shell-next/internal/registry"
)

// projectAnalysis is one scanned project directory.
type projectAnalysis struct {
	Dir      string
	Manifest *fixnext.Manifest
	Findings []fixnext.Finding
	// Lockfile names the lockfile that corroborated versions, if any.
	Lockfile string
	// Errors collects non-fatal problems for the JSON report.
	Errors []string
}

// analyzeProject loads dir/package.json and evaluates every watched
// dependency. Concrete versions come from node_modules, the package
// manager, the lockfile, and finally the registry for dist-tag
// specifiers, in that order.
func analyzeProject(ctx context.Context, dir string) (*projectAnalysis, error) {
	m, err := fixnext.LoadManifest(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, err
	}

	res := &projectAnalysis{Dir: dir, Manifest: m}

	lockVersions := make(map[string]string)
	if scan, ok := fixnext.New().ScanLockfiles(dir); ok {
		res.Lockfile = scan.File
		for _, e := range scan.Entries {
			if _, seen := lockVersions[e.Name]; !seen {
				lockVersions[e.Name] = e.Version
			}
		}
	}

	a := fixnext.New(fixnext.WithLookup(res.buildLookup(ctx, lockVersions)))
	res.Findings = a.AnalyzeManifest(m)
	return res, nil
}

func (res *projectAnalysis) buildLookup(ctx context.Context, lockVersions map[string]string) fixnext.Lookup {
	prober := pmexec.NewProber(res.Dir, viper.GetDuration("timeout"))
	if pm := viper.GetString("package_manager"); pm != "" {
		prober.Manager = pmexec.Manager(pm)
	}
	installed := prober.Lookup(ctx)
	reg := newRegistry()

	return func(pkg string) string {
		if v := installed(pkg); v != "" {
			slog.Debug("using installed version", "package", pkg, "version", v)
			return v
		}
		if v := lockVersions[pkg]; v != "" {
			slog.Debug("using lockfile version", "package", pkg, "version", v, "lockfile", res.Lockfile)
			return v
		}
		// Nothing installed locally: a dist-tag specifier can still be
		// pinned down by the registry.
		spec, ok := res.declared(pkg)
		if !ok || !registry.IsDistTagSpecifier(spec) {
			return ""
		}
		v, err := reg.ResolveDistTag(ctx, pkg, spec)
		if err != nil {
			slog.Debug("dist-tag resolution failed", "package", pkg, "tag", spec, "error", err)
			res.Errors = append(res.Errors, fmt.Sprintf("could not resolve %s@%s against the registry: %v", pkg, spec, err))
			return ""
		}
		slog.Debug("resolved dist-tag", "package", pkg, "tag", spec, "version", v)
		return v
	}
}

func (res *projectAnalysis) declared(pkg string) (string, bool) {
	if spec, ok := res.Manifest.Declared(pkg, fixnext.OriginRuntime); ok {
		return spec, true
	}
	return res.Manifest.Declared(pkg, fixnext.OriginDevelopment)
}
