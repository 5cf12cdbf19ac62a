// Package httputil provides HTTP utilities for the registry and source-host
// clients.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff when it fails with
// a [RetryableError]:
//
//   - Network errors and timeouts
//   - 5xx server errors
//   - 429 rate limit responses
//
// Everything else (404, malformed bodies) is returned on the first attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.Get(ctx, url, &v)
//	})
//
// # Configuration
//
// The integration clients default to 3 attempts with a 1 second initial
// delay. The licensefinder CLI exposes the attempt count as the "retries"
// setting.
package httputil
