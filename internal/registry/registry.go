// Package registry provides a client for the npm registry HTTP API.
//
// It is used to verify that recommended releases exist and are not
// deprecated, and to concretize dist-tag specifiers such as "latest"
// when neither a lockfile nor an installed tree is available.
package registry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const DefaultURL = "https://registry.npmjs.org"

// Registry fetches package metadata from an npm-compatible registry.
type Registry struct {
	baseURL string
	client  JSONClient
}

// New creates a registry client for baseURL. If baseURL is empty,
// DefaultURL is used. If client is nil, a breaker-wrapped default
// client is used.
func New(baseURL string, client JSONClient) *Registry {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = NewBreakerClient(NewClient())
	}
	return &Registry{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// BaseURL returns the registry endpoint this client talks to.
func (r *Registry) BaseURL() string {
	return r.baseURL
}

// Metadata is the abbreviated package document served by the registry:
// dist-tags, the version set, and per-version deprecation notices.
type Metadata struct {
	Name     string
	DistTags map[string]string
	Versions map[string]VersionMeta
}

// VersionMeta describes a single published version.
type VersionMeta struct {
	Version    string
	Deprecated string
	Tarball    string
}

// Has reports whether the given version number was published.
func (m *Metadata) Has(version string) bool {
	_, ok := m.Versions[version]
	return ok
}

type packumentResponse struct {
	Name     string                 `json:"name"`
	DistTags map[string]string      `json:"dist-tags"`
	Versions map[string]versionInfo `json:"versions"`
}

type versionInfo struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Deprecated any      `json:"deprecated"`
	Dist       distInfo `json:"dist"`
}

type distInfo struct {
	Shasum    string `json:"shasum"`
	Tarball   string `json:"tarball"`
	Integrity string `json:"integrity"`
}

// PackageMetadata fetches the abbreviated metadata document for a package.
func (r *Registry) PackageMetadata(ctx context.Context, name string) (*Metadata, error) {
	escapedName := url.PathEscape(name)
	docURL := fmt.Sprintf("%s/%s", r.baseURL, escapedName)

	var resp packumentResponse
	if err := r.client.GetJSON(ctx, docURL, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, err
	}

	meta := &Metadata{
		Name:     resp.Name,
		DistTags: resp.DistTags,
		Versions: make(map[string]VersionMeta, len(resp.Versions)),
	}
	if meta.Name == "" {
		meta.Name = name
	}
	for num, v := range resp.Versions {
		meta.Versions[num] = VersionMeta{
			Version:    num,
			Deprecated: deprecationReason(v.Deprecated),
			Tarball:    v.Dist.Tarball,
		}
	}

	return meta, nil
}

// ResolveDistTag resolves a dist-tag such as "latest" or "canary" to the
// version number it currently points at.
func (r *Registry) ResolveDistTag(ctx context.Context, name, tag string) (string, error) {
	meta, err := r.PackageMetadata(ctx, name)
	if err != nil {
		return "", err
	}

	v, ok := meta.DistTags[tag]
	if !ok {
		return "", &NotFoundError{Name: name, Version: tag}
	}
	return v, nil
}

// VersionExists reports whether a version was published for the package.
func (r *Registry) VersionExists(ctx context.Context, name, version string) (bool, error) {
	meta, err := r.PackageMetadata(ctx, name)
	if err != nil {
		return false, err
	}
	return meta.Has(version), nil
}

// Deprecated returns the deprecation notice for a published version,
// and whether one is set.
func (r *Registry) Deprecated(ctx context.Context, name, version string) (string, bool, error) {
	meta, err := r.PackageMetadata(ctx, name)
	if err != nil {
		return "", false, err
	}

	v, ok := meta.Versions[version]
	if !ok {
		return "", false, &NotFoundError{Name: name, Version: version}
	}
	return v.Deprecated, v.Deprecated != "", nil
}

// Ping verifies connectivity to the registry.
func (r *Registry) Ping(ctx context.Context) error {
	var resp struct{}
	return r.client.GetJSON(ctx, r.baseURL+"/-/ping", &resp)
}

var distTagPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// IsDistTagSpecifier reports whether a declared specifier looks like a
// dist-tag name (latest, next, canary, beta) rather than a version or
// range.
func IsDistTagSpecifier(spec string) bool {
	return distTagPattern.MatchString(spec)
}

// deprecationReason normalizes the deprecated field, which registries
// emit as either a message string or a bare boolean.
func deprecationReason(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case bool:
		if d {
			return "deprecated"
		}
	}
	return ""
}
