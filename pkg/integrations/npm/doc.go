// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package fetches package metadata (packuments) from the npm registry
// (https://registry.npmjs.org) and reduces them to the fields needed for
// license resolution.
//
// # Usage
//
//	client := npm.NewClient(npm.Options{Timeout: 10 * time.Second})
//
//	pkg, err := client.FetchPackage(ctx, "express")
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // package does not exist on the registry
//	}
//
//	fmt.Println(pkg.License, pkg.HomePage)
//
// # PackageInfo
//
// [Client.FetchPackage] returns a [PackageInfo] containing:
//
//   - License: top-level packument license, else the "latest" version's
//   - HomePage: top-level homepage, else the "latest" version's
//   - Tarball: dist.tarball of the "latest" version
//
// String, object ({"type": ...}) and legacy "licenses" array forms are all
// accepted.
//
// # Caching
//
// Pass a [cache.Cache] in [Options] to memoize lookups for the duration of
// a run; the same package name can appear many times in one lockfile.
//
// [cache.Cache]: github.com/matzehuels/licensefinder/pkg/cache.Cache
package npm
