// Package integrations provides HTTP clients for the services licensefinder
// consults when a lockfile does not declare a license.
//
// # Overview
//
// Each remote service has its own subpackage:
//
//   - [npm]: npm registry package metadata
//   - [github]: GitHub repository license endpoint
//
// Tarball downloads use the shared [Client] directly via [Client.Download].
//
// # Client Pattern
//
// All clients follow a consistent pattern:
//
//	client := npm.NewClient(npm.Options{Timeout: 10 * time.Second})
//	pkg, err := client.FetchPackage(ctx, "express")
//
// Clients handle:
//   - HTTP requests with retry on transient failures
//   - Per-request timeouts
//   - Per-run response memoization via [cache.Cache]
//
// # Errors
//
// A 404 is reported as [ErrNotFound] so callers can tell "does not exist"
// apart from every other failure. Network errors, timeouts, 429 and 5xx
// responses wrap [ErrNetwork] and are retried; undecodable bodies wrap
// [ErrInvalidResponse].
//
// [npm]: github.com/matzehuels/licensefinder/pkg/integrations/npm
// [github]: github.com/matzehuels/licensefinder/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/licensefinder/pkg/cache.Cache
package integrations
