// Package config holds the licensefinder run settings and loads them from
// an optional TOML or YAML file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/licensefinder/pkg/errors"
	"github.com/matzehuels/licensefinder/pkg/integrations/github"
	"github.com/matzehuels/licensefinder/pkg/integrations/npm"
)

// TokenEnv is read when no GitHub token is configured.
const TokenEnv = "GITHUB_TOKEN"

// Defaults.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultDownloadTimeout = 60 * time.Second
	DefaultRetries         = 3
)

// Config holds the settings of one run.
type Config struct {
	Registry        string        `toml:"registry" yaml:"registry"`
	GitHubAPI       string        `toml:"github_api" yaml:"github_api"`
	GitHubToken     string        `toml:"github_token" yaml:"github_token"`
	Timeout         time.Duration `toml:"timeout" yaml:"timeout"`
	DownloadTimeout time.Duration `toml:"download_timeout" yaml:"download_timeout"`
	Retries         int           `toml:"retries" yaml:"retries"`
	WorkDir         string        `toml:"work_dir" yaml:"work_dir"`
	NoCache         bool          `toml:"no_cache" yaml:"no_cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Registry:        npm.DefaultBaseURL,
		GitHubAPI:       github.DefaultBaseURL,
		Timeout:         DefaultTimeout,
		DownloadTimeout: DefaultDownloadTimeout,
		Retries:         DefaultRetries,
	}
}

// Load returns the defaults overlaid with the file at path, chosen by
// extension (.toml, .yaml, .yml). An empty path loads no file. The
// environment token is applied last when no token was configured.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv(TokenEnv)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}

// Validate checks URLs, timeouts and retry counts.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.Registry); err != nil {
		return err
	}
	if err := errors.ValidateURL(c.GitHubAPI); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	if c.DownloadTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "download_timeout must be positive, got %s", c.DownloadTimeout)
	}
	if c.Retries < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "retries must be at least 1, got %d", c.Retries)
	}
	if c.WorkDir != "" {
		if err := errors.ValidatePath(c.WorkDir); err != nil {
			return err
		}
	}
	return nil
}
