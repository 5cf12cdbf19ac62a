package resolve

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/licensefinder/pkg/integrations"
	"github.com/matzehuels/licensefinder/pkg/integrations/npm"
	"github.com/matzehuels/licensefinder/pkg/license"
)

// Registry fetches published package metadata.
type Registry interface {
	FetchPackage(ctx context.Context, name string) (*npm.PackageInfo, error)
}

// SourceHost looks up the license of the repository behind a homepage.
type SourceHost interface {
	Endpoint(homepage string) string
	FetchLicense(ctx context.Context, homepage string) (string, error)
}

// Archive reads the license declared inside a package tarball.
type Archive interface {
	License(ctx context.Context, key, url string) (string, error)
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}

// RegistryStage queries the npm registry.
type RegistryStage struct {
	client Registry
	logger *log.Logger
}

// NewRegistryStage creates a RegistryStage.
func NewRegistryStage(client Registry, logger *log.Logger) *RegistryStage {
	return &RegistryStage{client: client, logger: orDiscard(logger)}
}

func (*RegistryStage) Name() string { return "registry" }

func (r *RegistryStage) Resolve(ctx context.Context, s *State) Outcome {
	r.logger.Info("Querying npm registry", "pkg", s.Name)
	info, err := r.client.FetchPackage(ctx, s.Name)
	if errors.Is(err, integrations.ErrNotFound) {
		r.logger.Info("Package not found on npm registry", "pkg", s.Name)
		return skip(err)
	}
	if err != nil {
		return failed(err)
	}

	if info.HomePage != "" {
		s.Homepage = info.HomePage
	}
	if s.Tarball == "" && info.Tarball != "" {
		s.Tarball = info.Tarball
	}
	if license.IsKnown(info.License) {
		return resolved(info.License)
	}
	return notApplicable
}

// SourceHostStage queries the GitHub license API for the current homepage.
type SourceHostStage struct {
	client SourceHost
	logger *log.Logger
}

// NewSourceHostStage creates a SourceHostStage.
func NewSourceHostStage(client SourceHost, logger *log.Logger) *SourceHostStage {
	return &SourceHostStage{client: client, logger: orDiscard(logger)}
}

func (*SourceHostStage) Name() string { return "github" }

func (g *SourceHostStage) Resolve(ctx context.Context, s *State) Outcome {
	if s.Homepage == "" {
		return notApplicable
	}
	endpoint := g.client.Endpoint(s.Homepage)
	g.logger.Info("Querying GitHub API for license information", "pkg", s.Name, "url", endpoint)

	lic, err := g.client.FetchLicense(ctx, s.Homepage)
	if errors.Is(err, integrations.ErrNotFound) {
		g.logger.Warn("GitHub repository not found", "pkg", s.Name, "url", endpoint)
		return notApplicable
	}
	if err != nil {
		return failed(err)
	}
	if !license.IsKnown(lic) {
		return notApplicable
	}
	g.logger.Info("License found on GitHub", "pkg", s.Name, "license", lic)
	return resolved(lic)
}

// ArchiveStage inspects the package tarball.
type ArchiveStage struct {
	archive Archive
}

// NewArchiveStage creates an ArchiveStage.
func NewArchiveStage(archive Archive) *ArchiveStage {
	return &ArchiveStage{archive: archive}
}

func (*ArchiveStage) Name() string { return "tarball" }

func (a *ArchiveStage) Resolve(ctx context.Context, s *State) Outcome {
	if s.Tarball == "" {
		return notApplicable
	}
	lic, err := a.archive.License(ctx, s.Dep.Key, s.Tarball)
	if err != nil {
		return failed(err)
	}
	if !license.IsKnown(lic) {
		return notApplicable
	}
	return resolved(lic)
}
