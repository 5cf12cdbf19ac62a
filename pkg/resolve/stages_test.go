package resolve

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matzehuels/licensefinder/pkg/integrations"
	"github.com/matzehuels/licensefinder/pkg/integrations/github"
	"github.com/matzehuels/licensefinder/pkg/integrations/npm"
	"github.com/matzehuels/licensefinder/pkg/license"
)

type fakeRegistry struct {
	info *npm.PackageInfo
	err  error
}

func (f fakeRegistry) FetchPackage(context.Context, string) (*npm.PackageInfo, error) {
	return f.info, f.err
}

type fakeSourceHost struct {
	lic   string
	err   error
	calls int
}

func (f *fakeSourceHost) Endpoint(homepage string) string {
	return github.LicenseEndpoint(github.DefaultBaseURL, homepage)
}

func (f *fakeSourceHost) FetchLicense(context.Context, string) (string, error) {
	f.calls++
	return f.lic, f.err
}

type fakeArchive struct {
	lic      string
	err      error
	key, url string
}

func (f *fakeArchive) License(_ context.Context, key, url string) (string, error) {
	f.key, f.url = key, url
	return f.lic, f.err
}

func TestRegistryStage(t *testing.T) {
	tests := []struct {
		name        string
		reg         fakeRegistry
		tarball     string
		want        Kind
		wantLic     string
		wantHome    string
		wantTarball string
	}{
		{
			name:     "license found",
			reg:      fakeRegistry{info: &npm.PackageInfo{License: "MIT", HomePage: "https://h"}},
			want:     Resolved,
			wantLic:  "MIT",
			wantHome: "https://h",
		},
		{
			name:        "no license fills links",
			reg:         fakeRegistry{info: &npm.PackageInfo{HomePage: "https://h", Tarball: "https://reg/x.tgz"}},
			want:        NotApplicable,
			wantHome:    "https://h",
			wantTarball: "https://reg/x.tgz",
		},
		{
			name:        "lockfile tarball preferred",
			reg:         fakeRegistry{info: &npm.PackageInfo{Tarball: "https://reg/x.tgz"}},
			tarball:     "https://lock/x.tgz",
			want:        NotApplicable,
			wantHome:    "https://lockfile.home",
			wantTarball: "https://lock/x.tgz",
		},
		{
			name:     "unknown license is not resolved",
			reg:      fakeRegistry{info: &npm.PackageInfo{License: license.Unknown}},
			want:     NotApplicable,
			wantHome: "https://lockfile.home",
		},
		{
			name:     "not found skips",
			reg:      fakeRegistry{err: fmt.Errorf("%w: npm package x", integrations.ErrNotFound)},
			want:     Skip,
			wantHome: "https://lockfile.home",
		},
		{
			name:     "network error fails",
			reg:      fakeRegistry{err: integrations.ErrNetwork},
			want:     Failed,
			wantHome: "https://lockfile.home",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{Name: "x", Homepage: "https://lockfile.home", Tarball: tt.tarball}
			out := NewRegistryStage(tt.reg, nil).Resolve(context.Background(), s)
			if out.Kind != tt.want || out.License != tt.wantLic {
				t.Errorf("Resolve() = %v %q, want %v %q", out.Kind, out.License, tt.want, tt.wantLic)
			}
			if s.Homepage != tt.wantHome || s.Tarball != tt.wantTarball {
				t.Errorf("state = %+v", s)
			}
		})
	}
}

func TestSourceHostStage(t *testing.T) {
	tests := []struct {
		name      string
		homepage  string
		host      fakeSourceHost
		want      Kind
		wantCalls int
	}{
		{name: "no homepage", want: NotApplicable},
		{name: "resolved", homepage: "https://github.com/o/r", host: fakeSourceHost{lic: "MIT"}, want: Resolved, wantCalls: 1},
		{name: "noassertion", homepage: "https://github.com/o/r", host: fakeSourceHost{lic: license.Unknown}, want: NotApplicable, wantCalls: 1},
		{name: "repo missing", homepage: "https://github.com/o/r", host: fakeSourceHost{lic: license.Unknown, err: integrations.ErrNotFound}, want: NotApplicable, wantCalls: 1},
		{name: "other error", homepage: "https://example.com", host: fakeSourceHost{lic: license.Unknown, err: integrations.ErrNetwork}, want: Failed, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := tt.host
			out := NewSourceHostStage(&host, nil).Resolve(context.Background(), &State{Name: "x", Homepage: tt.homepage})
			if out.Kind != tt.want {
				t.Errorf("Resolve() kind = %v, want %v", out.Kind, tt.want)
			}
			if out.Kind != Resolved && out.License != "" {
				t.Errorf("unresolved outcome carries license %q", out.License)
			}
			if host.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", host.calls, tt.wantCalls)
			}
		})
	}
}

func TestArchiveStage(t *testing.T) {
	t.Run("no tarball", func(t *testing.T) {
		a := &fakeArchive{lic: "MIT"}
		if out := NewArchiveStage(a).Resolve(context.Background(), &State{}); out.Kind != NotApplicable {
			t.Errorf("Resolve() = %v, want NotApplicable", out.Kind)
		}
		if a.url != "" {
			t.Error("archive fetched without a tarball URL")
		}
	})

	t.Run("passes full key", func(t *testing.T) {
		a := &fakeArchive{lic: "BSD-2-Clause"}
		s := &State{Tarball: "https://r/u.tgz"}
		s.Dep.Key = "node_modules/@a/util"
		out := NewArchiveStage(a).Resolve(context.Background(), s)
		if out.Kind != Resolved || out.License != "BSD-2-Clause" {
			t.Errorf("Resolve() = %+v", out)
		}
		if a.key != "node_modules/@a/util" || a.url != "https://r/u.tgz" {
			t.Errorf("archive called with %q, %q", a.key, a.url)
		}
	})

	t.Run("failure", func(t *testing.T) {
		a := &fakeArchive{lic: license.Unknown, err: errors.New("gunzip: invalid header")}
		out := NewArchiveStage(a).Resolve(context.Background(), &State{Tarball: "https://r/u.tgz"})
		if out.Kind != Failed || out.Err == nil {
			t.Errorf("Resolve() = %+v, want Failed", out)
		}
	})
}
