// Package resolve determines the license of each lockfile dependency by
// running it through an ordered chain of lookup stages.
//
// # Chain
//
// A dependency whose lockfile entry declares a license is recorded as is,
// without any network access. Otherwise the stages run in order until one
// resolves:
//
//  1. [RegistryStage] queries the npm registry. A package the registry does
//     not know is dropped from the report entirely. Homepage and tarball
//     URL are filled from the response.
//  2. [SourceHostStage] asks the GitHub license API about the homepage.
//  3. [ArchiveStage] downloads the tarball and reads its package.json.
//
// When the chain is exhausted the dependency is recorded as
// [license.Unknown].
//
// # Failures
//
// A stage failure is logged and the chain moves on. Only cancellation of the
// run context ends [Resolver.Run] early.
//
// [license.Unknown]: github.com/matzehuels/licensefinder/pkg/license.Unknown
package resolve
