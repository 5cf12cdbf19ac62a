// Package github provides an HTTP client for the GitHub license API.
//
// # Overview
//
// When the npm registry does not report a license, licensefinder asks
// GitHub (https://api.github.com) which license it detected in the
// repository named by the package homepage.
//
// # Usage
//
//	client := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//
//	spdx, err := client.FetchLicense(ctx, "https://github.com/expressjs/express#readme")
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // no such repository
//	}
//
// # URL Rewriting
//
// [LicenseEndpoint] is a pure function that turns a homepage into
// <api>/repos/<owner>/<repo>/license. Homepages on other hosts still yield a
// well-formed URL, which is expected to fail when queried.
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// The token is only sent to the configured API base, never to the rewritten
// URL of a foreign homepage.
package github
