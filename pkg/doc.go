// Package pkg provides the core libraries for licensefinder.
//
// # Overview
//
// licensefinder reports the license of every package in an npm
// package-lock.json. The pkg directory is organized into these areas:
//
//  1. [lockfile] - Ordered decoding of the lockfile "packages" map
//  2. [resolve] - The fallback chain (lockfile → registry → GitHub → tarball)
//  3. [integrations] - HTTP clients for the npm registry and the GitHub API
//  4. [tarball] - Tarball download and package.json license extraction
//  5. [report] - CSV output, license tally and unresolved list
//
// Supporting packages: [cache] (per-run lookup memo), [httputil] (retry),
// [errors] (coded fatal errors), [license] (declaration normalization),
// [observability] (hooks) and [buildinfo].
//
// # Architecture
//
//	package-lock.json
//	         ↓
//	    [lockfile] package (dependencies in file order)
//	         ↓
//	    [resolve] package (one dependency at a time)
//	      ├─ declared license → done
//	      ├─ [integrations/npm]
//	      ├─ [integrations/github]
//	      └─ [tarball]
//	         ↓
//	    [report] package (CSV + summary)
//
// # Quick Start
//
//	lf, err := lockfile.Load("package-lock.json")
//	if err != nil {
//	    return err
//	}
//
//	r := resolve.New(logger,
//	    resolve.NewRegistryStage(npm.NewClient(npm.Options{}), logger),
//	    resolve.NewSourceHostStage(github.NewClient(github.Options{}), logger),
//	    resolve.NewArchiveStage(tarball.NewExtractor(integrations.NewClient(nil, "", 0, nil), tarball.Options{})),
//	)
//
//	b := report.NewBuilder()
//	if _, err := r.Run(ctx, lf, b); err != nil {
//	    return err
//	}
//	return b.WriteFile("licenses.csv")
//
// [lockfile]: github.com/matzehuels/licensefinder/pkg/lockfile
// [resolve]: github.com/matzehuels/licensefinder/pkg/resolve
// [integrations]: github.com/matzehuels/licensefinder/pkg/integrations
// [integrations/npm]: github.com/matzehuels/licensefinder/pkg/integrations/npm
// [integrations/github]: github.com/matzehuels/licensefinder/pkg/integrations/github
// [tarball]: github.com/matzehuels/licensefinder/pkg/tarball
// [report]: github.com/matzehuels/licensefinder/pkg/report
// [cache]: github.com/matzehuels/licensefinder/pkg/cache
// [httputil]: github.com/matzehuels/licensefinder/pkg/httputil
// [errors]: github.com/matzehuels/licensefinder/pkg/errors
// [license]: github.com/matzehuels/licensefinder/pkg/license
// [observability]: github.com/matzehuels/licensefinder/pkg/observability
// [buildinfo]: github.com/matzehuels/licensefinder/pkg/buildinfo
package pkg
