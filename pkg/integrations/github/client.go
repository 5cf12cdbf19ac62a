package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/licensefinder/pkg/cache"
	"github.com/matzehuels/licensefinder/pkg/integrations"
	"github.com/matzehuels/licensefinder/pkg/license"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

const hostSegment = "github.com/"

// noAssertion is the SPDX id GitHub reports when it cannot classify a
// repository's license file.
const noAssertion = "NOASSERTION"

// Options configures a [Client]. Zero values select defaults.
type Options struct {
	BaseURL    string        // API base URL (default [DefaultBaseURL])
	Token      string        // Optional bearer token
	Timeout    time.Duration // Per-request timeout
	Retries    int           // Attempts for transient failures
	RetryDelay time.Duration // Initial backoff between attempts
	Cache      cache.Cache   // Per-run memo; nil disables caching
}

// Client queries the GitHub license endpoint for repositories named by a
// package homepage.
type Client struct {
	*integrations.Client
	baseURL string
	token   string
}

// NewClient creates a GitHub API client. An empty token means
// unauthenticated requests (lower rate limits).
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	c := integrations.NewClient(opts.Cache, "github:", 0, headers)
	c.SetTimeout(opts.Timeout)
	if opts.Retries > 0 {
		c.SetRetry(opts.Retries, opts.RetryDelay)
	}
	return &Client{Client: c, baseURL: base, token: opts.Token}
}

// LicenseEndpoint rewrites a project homepage into the license endpoint of
// the API at apiBase.
//
// The fragment and one trailing slash are removed, then the part after
// "github.com/" is placed under apiBase + "/repos/", and "/license" is
// appended:
//
//	https://github.com/owner/repo#readme -> <apiBase>/repos/owner/repo/license
//
// A homepage that does not contain "github.com/" is kept as is with
// "/license" appended. The result is still a well-formed URL; querying it is
// expected to fail and callers treat that as a lookup failure.
func LicenseEndpoint(apiBase, homepage string) string {
	s := strings.TrimSpace(homepage)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "/")

	if i := strings.Index(s, hostSegment); i >= 0 {
		s = strings.TrimRight(apiBase, "/") + "/repos/" + s[i+len(hostSegment):]
	}
	return s + "/license"
}

// FetchLicense returns the SPDX identifier GitHub reports for the
// repository behind homepage. It returns [license.Unknown] with a nil error
// when GitHub answers but cannot classify the license (NOASSERTION). A missing repository
// yields an error matching [integrations.ErrNotFound].
func (c *Client) FetchLicense(ctx context.Context, homepage string) (string, error) {
	endpoint := c.Endpoint(homepage)

	var data licenseResponse
	err := c.Cached(ctx, endpoint, &data, func() error {
		return c.fetch(ctx, endpoint, &data)
	})
	if err != nil {
		return license.Unknown, err
	}
	if strings.TrimSpace(data.License.SPDXID) == noAssertion {
		return license.Unknown, nil
	}
	return license.OrUnknown(data.License.SPDXID), nil
}

// Endpoint returns the license endpoint queried for homepage.
func (c *Client) Endpoint(homepage string) string {
	return LicenseEndpoint(c.baseURL, homepage)
}

func (c *Client) fetch(ctx context.Context, endpoint string, data *licenseResponse) error {
	var headers map[string]string
	if c.token != "" && strings.HasPrefix(endpoint, c.baseURL+"/") {
		headers = map[string]string{"Authorization": "Bearer " + c.token}
	}
	if err := c.GetWithHeaders(ctx, endpoint, headers, data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: github repo %s", err, endpoint)
		}
		return err
	}
	return nil
}

type licenseResponse struct {
	License struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}
