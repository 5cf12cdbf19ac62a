package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/licensefinder/pkg/buildinfo"
	"github.com/matzehuels/licensefinder/pkg/cache"
	"github.com/matzehuels/licensefinder/pkg/httputil"
	"github.com/matzehuels/licensefinder/pkg/observability"
)

// Client provides shared HTTP functionality for the registry, source-host
// and tarball clients. It handles caching, retry logic, timeouts and
// common request headers.
type Client struct {
	http       *http.Client
	cache      cache.Cache
	namespace  string
	ttl        time.Duration
	headers    map[string]string
	attempts   int
	retryDelay time.Duration
}

// NewClient creates a Client with the given cache and default headers.
// Cache keys are prefixed with namespace. A nil cache disables caching.
// Headers are applied to all requests made through this client; pass nil
// if no default headers are needed.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:       NewHTTPClient(),
		cache:      c,
		namespace:  namespace,
		ttl:        ttl,
		headers:    headers,
		attempts:   defaultAttempts,
		retryDelay: defaultRetryDelay,
	}
}

// SetTimeout replaces the per-request timeout. Non-positive values are
// ignored.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// SetRetry configures how many attempts transient failures get and the
// initial backoff delay between them.
func (c *Client) SetRetry(attempts int, delay time.Duration) {
	c.attempts = max(attempts, 1)
	if delay > 0 {
		c.retryDelay = delay
	}
}

// Retry runs fn with the client's retry policy.
func (c *Client) Retry(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, c.attempts, c.retryDelay, fn)
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// The fetch function should populate v; on success, v is stored in the cache.
// Failed fetches are never cached.
func (c *Client) Cached(ctx context.Context, key string, v any, fetch func() error) error {
	key = c.namespace + key
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if json.Unmarshal(data, v) == nil {
			observability.Cache().OnCacheHit(ctx, c.namespace)
			return nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, c.namespace)
	if err := c.Retry(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers. Get does not retry; wrap it in
// [Client.Cached] or [Client.Retry].
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidResponse, url, err)
	}
	return nil
}

// Download performs an HTTP GET and streams the response body into w.
// It returns the number of bytes written. A failure while copying the body
// is reported as retryable; callers that retry must reset w first.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return n, nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if err := checkURL(req); err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// checkURL rejects requests that cannot succeed on any attempt, such as a
// homepage without a scheme rewritten into an endpoint.
func checkURL(req *http.Request) error {
	switch {
	case req.URL.Scheme != "http" && req.URL.Scheme != "https":
		return fmt.Errorf("%w: unsupported scheme %q in %s", ErrInvalidURL, req.URL.Scheme, req.URL)
	case req.URL.Host == "":
		return fmt.Errorf("%w: no host in %s", ErrInvalidURL, req.URL)
	}
	return nil
}
