package core

import (
	"fmt"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

// PURL wraps packageurl.PackageURL with npm-specific helpers.
type PURL struct {
	packageurl.PackageURL
}

// FullName returns the npm package name, rejoining scope and name.
func (p PURL) FullName() string {
	if p.Namespace == "" {
		return p.Name
	}
	// packageurl-go keeps @ in namespace, so "@vercel" + "/" + "next" = "@vercel/next"
	return p.Namespace + "/" + p.Name
}

// ParsePURL parses a Package URL string. Only pkg:npm PURLs are accepted.
func ParsePURL(purl string) (*PURL, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return nil, err
	}
	if p.Type != packageurl.TypeNPM {
		return nil, fmt.Errorf("unsupported PURL type %q (only npm)", p.Type)
	}
	return &PURL{p}, nil
}

// NewPURL builds the canonical pkg:npm PURL string for a package at a
// version. Version may be empty. Scoped names split into namespace and name.
func NewPURL(name, version string) string {
	namespace := ""
	if strings.HasPrefix(name, "@") {
		if i := strings.Index(name, "/"); i > 0 {
			namespace, name = name[:i], name[i+1:]
		}
	}
	p := packageurl.NewPackageURL(packageurl.TypeNPM, namespace, name, version, nil, "")
	return p.ToString()
}
