package lockfile

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/vercel-labs/fix-react2shell-next/internal/core"
)

type npmLock struct {
	Packages     map[string]npmPackage    `json:"packages"`
	Dependencies map[string]npmDependency `json:"dependencies"`
}

type npmPackage struct {
	Version  string `json:"version"`
	Resolved string `json:"resolved"`
}

type npmDependency struct {
	Version      string                   `json:"version"`
	Resolved     string                   `json:"resolved"`
	Dependencies map[string]npmDependency `json:"dependencies"`
}

// ParseNPM extracts watched resolutions from a package-lock.json.
// Modern locks carry a flat "packages" map keyed by node_modules path;
// version 1 locks nest a "dependencies" tree instead, which is walked
// depth-first so vendored duplicates at any depth are collected too.
// Malformed input yields no entries.
func ParseNPM(raw []byte, watch []string) []core.LockfileEntry {
	var lock npmLock
	if err := json.Unmarshal(raw, &lock); err != nil {
		return nil
	}

	watched := make(map[string]bool, len(watch))
	for _, name := range watch {
		watched[name] = true
	}

	if len(lock.Packages) > 0 {
		return npmFlat(lock.Packages, watched)
	}
	return npmTree(lock.Dependencies, watched, nil)
}

func npmFlat(packages map[string]npmPackage, watched map[string]bool) []core.LockfileEntry {
	paths := make([]string, 0, len(packages))
	for path := range packages {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var entries []core.LockfileEntry
	for _, path := range paths {
		// The root project is keyed "" and is not a node_modules path.
		i := strings.LastIndex(path, "node_modules/")
		if i < 0 {
			continue
		}
		name := path[i+len("node_modules/"):]
		if !watched[name] {
			continue
		}
		pkg := packages[path]
		if pkg.Version == "" {
			continue
		}
		entries = append(entries, core.LockfileEntry{
			Name:      name,
			Version:   pkg.Version,
			SourceURL: pkg.Resolved,
		})
	}
	return entries
}

func npmTree(deps map[string]npmDependency, watched map[string]bool, entries []core.LockfileEntry) []core.LockfileEntry {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dep := deps[name]
		if watched[name] && dep.Version != "" {
			entries = append(entries, core.LockfileEntry{
				Name:      name,
				Version:   dep.Version,
				SourceURL: dep.Resolved,
			})
		}
		entries = npmTree(dep.Dependencies, watched, entries)
	}
	return entries
}
