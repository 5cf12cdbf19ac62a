package npm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/licensefinder/pkg/cache"
	"github.com/matzehuels/licensefinder/pkg/integrations"
)

func packument(name string, top map[string]any, latest map[string]any) map[string]any {
	doc := map[string]any{
		"name":      name,
		"dist-tags": map[string]string{"latest": "1.0.0"},
		"versions":  map[string]any{"1.0.0": latest},
	}
	for k, v := range top {
		doc[k] = v
	}
	return doc
}

func TestFetchPackage(t *testing.T) {
	tests := []struct {
		name        string
		top         map[string]any
		latest      map[string]any
		wantLicense string
		wantHome    string
		wantTarball string
	}{
		{
			name:        "top-level string license",
			top:         map[string]any{"license": "ISC", "homepage": "https://github.com/o/r#readme"},
			latest:      map[string]any{"dist": map[string]string{"tarball": "https://r/t.tgz"}},
			wantLicense: "ISC",
			wantHome:    "https://github.com/o/r#readme",
			wantTarball: "https://r/t.tgz",
		},
		{
			name:        "object license on latest version",
			latest:      map[string]any{"license": map[string]string{"type": "MIT", "url": "x"}, "homepage": "https://h"},
			wantLicense: "MIT",
			wantHome:    "https://h",
		},
		{
			name:        "legacy licenses array",
			top:         map[string]any{"licenses": []map[string]string{{"type": "MIT"}, {"type": "Apache-2.0"}}},
			latest:      map[string]any{},
			wantLicense: "MIT,Apache-2.0",
		},
		{
			name:   "nothing useful",
			latest: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/left-pad" {
					http.NotFound(w, r)
					return
				}
				json.NewEncoder(w).Encode(packument("left-pad", tt.top, tt.latest))
			}))
			defer server.Close()

			c := NewClient(Options{BaseURL: server.URL})
			info, err := c.FetchPackage(context.Background(), "left-pad")
			if err != nil {
				t.Fatalf("FetchPackage() error: %v", err)
			}
			if info.License != tt.wantLicense {
				t.Errorf("License = %q, want %q", info.License, tt.wantLicense)
			}
			if info.HomePage != tt.wantHome {
				t.Errorf("HomePage = %q, want %q", info.HomePage, tt.wantHome)
			}
			if info.Tarball != tt.wantTarball {
				t.Errorf("Tarball = %q, want %q", info.Tarball, tt.wantTarball)
			}
			if info.Version != "1.0.0" {
				t.Errorf("Version = %q, want 1.0.0", info.Version)
			}
		})
	}
}

func TestFetchPackage_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL})
	_, err := c.FetchPackage(context.Background(), "does-not-exist")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchPackage() error = %v, want ErrNotFound", err)
	}
}

func TestFetchPackage_ServerErrorIsNotNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL, Retries: 2, RetryDelay: time.Millisecond})
	_, err := c.FetchPackage(context.Background(), "flaky")
	if err == nil {
		t.Fatal("FetchPackage() should fail on 502")
	}
	if errors.Is(err, integrations.ErrNotFound) {
		t.Error("502 must not be reported as not found")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 attempts", calls.Load())
	}
}

func TestFetchPackage_ScopedName(t *testing.T) {
	var rawPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(packument("@types/node", map[string]any{"license": "MIT"}, map[string]any{}))
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL})
	info, err := c.FetchPackage(context.Background(), "@types/node")
	if err != nil {
		t.Fatalf("FetchPackage() error: %v", err)
	}
	if rawPath != "/@types%2Fnode" {
		t.Errorf("request path = %q, want /@types%%2Fnode", rawPath)
	}
	if info.License != "MIT" {
		t.Errorf("License = %q, want MIT", info.License)
	}
}

func TestFetchPackage_Memoized(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(packument("debug", map[string]any{"license": "MIT"}, map[string]any{}))
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL, Cache: cache.NewMemoryCache()})
	for range 3 {
		if _, err := c.FetchPackage(context.Background(), "debug"); err != nil {
			t.Fatalf("FetchPackage() error: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("registry calls = %d, want 1", calls.Load())
	}
}

func TestFetchPackage_EmptyName(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1"})
	if _, err := c.FetchPackage(context.Background(), "  "); err == nil {
		t.Error("FetchPackage(\"\") should fail")
	}
}

func TestEscapeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"express", "express"},
		{"@types/node", "@types%2Fnode"},
		{"@babel/core", "@babel%2Fcore"},
	}
	for _, tt := range tests {
		if got := EscapeName(tt.in); got != tt.want {
			t.Errorf("EscapeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(Options{})
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	c = NewClient(Options{BaseURL: "https://npm.example.com/"})
	if c.baseURL != "https://npm.example.com" {
		t.Errorf("baseURL = %q, trailing slash not trimmed", c.baseURL)
	}
}
