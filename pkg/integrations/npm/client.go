package npm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/licensefinder/pkg/cache"
	"github.com/matzehuels/licensefinder/pkg/integrations"
	"github.com/matzehuels/licensefinder/pkg/license"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// PackageInfo is the subset of registry metadata used for license lookup.
// Any field may be empty.
type PackageInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	License  string `json:"license"`
	HomePage string `json:"homepage"`
	Tarball  string `json:"tarball"`
}

// Options configures a [Client]. Zero values select defaults.
type Options struct {
	BaseURL    string        // Registry base URL (default [DefaultBaseURL])
	Timeout    time.Duration // Per-request timeout
	Retries    int           // Attempts for transient failures
	RetryDelay time.Duration // Initial backoff between attempts
	Cache      cache.Cache   // Per-run memo; nil disables caching
}

// Client fetches package metadata from an npm-compatible registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a registry client. Responses are memoized in
// opts.Cache for the lifetime of the run.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := integrations.NewClient(opts.Cache, "npm:", 0, map[string]string{"Accept": "application/json"})
	c.SetTimeout(opts.Timeout)
	if opts.Retries > 0 {
		c.SetRetry(opts.Retries, opts.RetryDelay)
	}
	return &Client{Client: c, baseURL: base}
}

// FetchPackage returns the published metadata for pkg. A package the
// registry does not know yields an error matching [integrations.ErrNotFound].
func (c *Client) FetchPackage(ctx context.Context, pkg string) (*PackageInfo, error) {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return nil, fmt.Errorf("%w: empty package name", integrations.ErrInvalidURL)
	}

	var info PackageInfo
	err := c.Cached(ctx, pkg, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data registryResponse
	if err := c.Get(ctx, c.baseURL+"/"+EscapeName(pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}

	latest := data.DistTags.Latest
	v := data.Versions[latest]

	*info = PackageInfo{
		Name:     data.Name,
		Version:  latest,
		License:  license.Declared(data.License, data.Licenses),
		HomePage: firstNonEmpty(data.HomePage, v.HomePage),
		Tarball:  v.Dist.Tarball,
	}
	if info.License == "" {
		info.License = license.Declared(v.License, v.Licenses)
	}
	return nil
}

// EscapeName percent-encodes a package name for a registry path. Scoped
// names keep their leading "@" and encode the separating slash, the form
// the registry documents for "@scope%2fname".
func EscapeName(name string) string {
	if strings.HasPrefix(name, "@") {
		return "@" + url.PathEscape(name[1:])
	}
	return url.PathEscape(name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type registryResponse struct {
	Name     string                    `json:"name"`
	License  any                       `json:"license"`
	Licenses any                       `json:"licenses"`
	HomePage string                    `json:"homepage"`
	DistTags distTags                  `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	License  any    `json:"license"`
	Licenses any    `json:"licenses"`
	HomePage string `json:"homepage"`
	Dist     struct {
		Tarball string `json:"tarball"`
	} `json:"dist"`
}
