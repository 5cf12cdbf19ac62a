package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/licensefinder/internal/config"
)

// options holds the flag values of the root command.
type options struct {
	verbose         bool
	configPath      string
	registry        string
	githubAPI       string
	githubToken     string
	timeout         time.Duration
	downloadTimeout time.Duration
	retries         int
	workDir         string
	noCache         bool
}

func (o *options) register(cmd *cobra.Command) {
	def := config.Default()
	f := cmd.Flags()

	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "enable verbose logging")
	f.StringVarP(&o.configPath, "config", "c", "", "TOML or YAML config file")
	f.StringVar(&o.registry, "registry", def.Registry, "npm registry base URL")
	f.StringVar(&o.githubAPI, "github-api", def.GitHubAPI, "GitHub API base URL")
	f.StringVar(&o.githubToken, "github-token", "", "GitHub token (default $"+config.TokenEnv+")")
	f.DurationVar(&o.timeout, "timeout", def.Timeout, "timeout per registry or GitHub request")
	f.DurationVar(&o.downloadTimeout, "download-timeout", def.DownloadTimeout, "timeout per tarball download")
	f.IntVar(&o.retries, "retries", def.Retries, "attempts per request on transient failures")
	f.StringVar(&o.workDir, "work-dir", "", "parent directory for temporary tarball extraction (default system temp)")
	f.BoolVar(&o.noCache, "no-cache", false, "disable the per-run lookup memo")
}

// apply overlays explicitly set flags onto cfg, so flags win over the
// config file and the environment.
func (o *options) apply(flags *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if flags.Changed(name) {
			fn()
		}
	}
	set("registry", func() { cfg.Registry = o.registry })
	set("github-api", func() { cfg.GitHubAPI = o.githubAPI })
	set("github-token", func() { cfg.GitHubToken = o.githubToken })
	set("timeout", func() { cfg.Timeout = o.timeout })
	set("download-timeout", func() { cfg.DownloadTimeout = o.downloadTimeout })
	set("retries", func() { cfg.Retries = o.retries })
	set("work-dir", func() { cfg.WorkDir = o.workDir })
	set("no-cache", func() { cfg.NoCache = o.noCache })
}
