package cli

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/matzehuels/licensefinder/internal/config"
	"github.com/matzehuels/licensefinder/pkg/cache"
	"github.com/matzehuels/licensefinder/pkg/errors"
	"github.com/matzehuels/licensefinder/pkg/integrations"
	"github.com/matzehuels/licensefinder/pkg/integrations/github"
	"github.com/matzehuels/licensefinder/pkg/integrations/npm"
	"github.com/matzehuels/licensefinder/pkg/lockfile"
	"github.com/matzehuels/licensefinder/pkg/report"
	"github.com/matzehuels/licensefinder/pkg/resolve"
	"github.com/matzehuels/licensefinder/pkg/tarball"
)

// run executes one batch: load the lockfile, resolve every dependency,
// write the report and print the summary. The report file is only
// created once every dependency has been resolved.
func (c *CLI) run(ctx context.Context, flags *pflag.FlagSet, input, output string, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(flags, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", input)
	}
	outputPath, err := filepath.Abs(output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", output)
	}

	lf, err := lockfile.Load(inputPath)
	if err != nil {
		return err
	}
	c.Logger.Debug("Loaded lockfile", "path", inputPath, "name", lf.Name,
		"lockfileVersion", lf.LockfileVersion, "dependencies", len(lf.Dependencies))

	stats := newRunStats()
	defer stats.install()()

	resolver := c.newResolver(cfg)
	builder := report.NewBuilder()

	prog := newProgress(c.Logger)
	summary, err := resolver.Run(ctx, lf, builder)
	if err != nil {
		return err
	}
	prog.done("Resolved dependencies", "records", summary.Recorded, "skipped", summary.Skipped)

	if err := builder.WriteFile(outputPath); err != nil {
		return err
	}

	printSuccess(c.out, "License information has been written to %s", outputPath)
	if err := builder.WriteSummary(c.out); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "print summary")
	}

	printStats(c.errOut,
		stat{summary.Dependencies, "dependencies"},
		stat{summary.BySource["lockfile"], "declared"},
		stat{summary.BySource["registry"], "from registry"},
		stat{summary.BySource["github"], "from github"},
		stat{summary.BySource["tarball"], "from tarball"},
		stat{summary.Skipped, "skipped"},
		stat{summary.Unresolved, "unknown"},
		stat{stats.requests, "requests"},
		stat{stats.failures, "request errors"},
		stat{stats.cacheHits, "cache hits"},
	)
	if summary.Unresolved > 0 {
		printWarning(c.errOut, "%d of %d records have no known license", summary.Unresolved, summary.Recorded)
	}
	if lookups := stats.stageCount("registry", "failed"); lookups > 0 {
		printInfo(c.errOut, "%d registry lookups failed; rerun with --verbose for details", lookups)
	}
	return nil
}

// newResolver wires the registry, GitHub and tarball stages for cfg.
func (c *CLI) newResolver(cfg config.Config) *resolve.Resolver {
	var memo cache.Cache = cache.NewMemoryCache()
	if cfg.NoCache {
		memo = cache.NewNullCache()
	}

	registry := npm.NewClient(npm.Options{
		BaseURL: cfg.Registry,
		Timeout: cfg.Timeout,
		Retries: cfg.Retries,
		Cache:   memo,
	})
	gh := github.NewClient(github.Options{
		BaseURL: cfg.GitHubAPI,
		Token:   cfg.GitHubToken,
		Timeout: cfg.Timeout,
		Retries: cfg.Retries,
		Cache:   memo,
	})

	downloads := integrations.NewClient(nil, "", 0, nil)
	downloads.SetTimeout(cfg.DownloadTimeout)
	extractor := tarball.NewExtractor(downloads, tarball.Options{
		WorkDir:  cfg.WorkDir,
		Prefix:   appName + "-" + uuid.NewString()[:8],
		Attempts: cfg.Retries,
		Logger:   c.Logger,
	})

	return resolve.New(c.Logger,
		resolve.NewRegistryStage(registry, c.Logger),
		resolve.NewSourceHostStage(gh, c.Logger),
		resolve.NewArchiveStage(extractor),
	)
}
