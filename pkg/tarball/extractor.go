// Package tarball downloads npm package tarballs and reads the license
// declared in their embedded package.json.
package tarball

import (
	"archive/tar"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/licensefinder/pkg/httputil"
	"github.com/matzehuels/licensefinder/pkg/license"
)

const (
	manifestName = "package.json"

	// DefaultMaxManifestSize caps the size of an extracted package.json.
	DefaultMaxManifestSize = 4 << 20
)

var (
	// ErrNoManifest is returned when the archive has no top-level package.json.
	ErrNoManifest = errors.New("no package.json in tarball")

	// ErrInvalidManifest is returned when package.json cannot be decoded.
	ErrInvalidManifest = errors.New("invalid package.json")

	// ErrNoLicense is returned when package.json declares no license.
	ErrNoLicense = errors.New("no license declared in package.json")

	// ErrManifestTooLarge is returned when package.json exceeds the size cap.
	ErrManifestTooLarge = errors.New("package.json too large")
)

// Downloader streams a URL into w.
type Downloader interface {
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

// Options configures an [Extractor].
type Options struct {
	// WorkDir is the parent of the per-package scratch directories.
	// Empty means os.TempDir().
	WorkDir string

	// Prefix starts every scratch directory name, e.g. "licensefinder-1a2b3c4d".
	Prefix string

	// Attempts and RetryDelay control download retries on transient errors.
	Attempts   int
	RetryDelay time.Duration

	// MaxManifestSize overrides [DefaultMaxManifestSize].
	MaxManifestSize int64

	Logger *log.Logger
}

// Extractor resolves licenses from package tarballs.
type Extractor struct {
	client     Downloader
	workDir    string
	prefix     string
	attempts   int
	retryDelay time.Duration
	maxSize    int64
	logger     *log.Logger
}

// NewExtractor creates an Extractor that downloads through client.
func NewExtractor(client Downloader, opts Options) *Extractor {
	e := &Extractor{
		client:     client,
		workDir:    opts.WorkDir,
		prefix:     opts.Prefix,
		attempts:   max(opts.Attempts, 1),
		retryDelay: opts.RetryDelay,
		maxSize:    opts.MaxManifestSize,
		logger:     opts.Logger,
	}
	if e.prefix == "" {
		e.prefix = "licensefinder"
	}
	if e.retryDelay <= 0 {
		e.retryDelay = time.Second
	}
	if e.maxSize <= 0 {
		e.maxSize = DefaultMaxManifestSize
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// License downloads the tarball at url for the dependency identified by
// key and returns the license its package.json declares.
//
// All files live in a scratch directory that is removed before License
// returns, whatever the outcome.
func (e *Extractor) License(ctx context.Context, key, url string) (string, error) {
	dir, err := e.scratchDir(key)
	if err != nil {
		return license.Unknown, err
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.Warn("Failed to remove scratch directory", "dir", dir, "err", err)
		}
	}()

	archive := filepath.Join(dir, sanitize(baseName(key))+".tgz")
	e.logger.Info("Downloading tarball", "pkg", key, "url", url)
	if err := e.download(ctx, url, archive); err != nil {
		return license.Unknown, fmt.Errorf("download %s: %w", url, err)
	}

	e.logger.Debug("Extracting package.json", "pkg", key, "dir", dir)
	manifest, err := extractManifest(archive, dir, e.maxSize)
	if err != nil {
		return license.Unknown, err
	}

	lic, err := readLicense(manifest)
	if err != nil {
		return license.Unknown, err
	}
	e.logger.Info("License found in package.json", "pkg", key, "license", lic)
	return lic, nil
}

func (e *Extractor) download(ctx context.Context, url, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	err = httputil.Retry(ctx, e.attempts, e.retryDelay, func() error {
		if err := f.Truncate(0); err != nil {
			return err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		_, err := e.client.Download(ctx, url, f)
		return err
	})
	if err != nil {
		return err
	}
	return f.Close()
}

// scratchDir creates a directory unique to this call whose name is derived
// from the full dependency key, so scoped packages sharing a base name
// (@a/util, @b/util) are kept apart even in listings.
func (e *Extractor) scratchDir(key string) (string, error) {
	if e.workDir != "" {
		if err := os.MkdirAll(e.workDir, 0o755); err != nil {
			return "", err
		}
	}
	pattern := fmt.Sprintf("%s-%s-%016x-", e.prefix, sanitize(baseName(key)), xxhash.Sum64String(key))
	return os.MkdirTemp(e.workDir, pattern)
}

// extractManifest writes the first top-level package.json of the gzipped
// tarball at archive into dir and returns its path.
func extractManifest(archive, dir string, maxSize int64) (string, error) {
	f, err := os.Open(archive)
	if err != nil {
		return "", err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("gunzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return "", ErrNoManifest
		}
		if err != nil {
			return "", fmt.Errorf("read tar: %w", err)
		}
		top, ok := manifestEntry(hdr)
		if !ok {
			continue
		}
		if hdr.Size > maxSize {
			return "", fmt.Errorf("%w: %d bytes", ErrManifestTooLarge, hdr.Size)
		}
		return writeEntry(tr, filepath.Join(dir, top), maxSize)
	}
}

// manifestEntry reports whether hdr is a regular file named
// <top>/package.json and returns the sanitized top directory. npm packs
// into "package/", but some publishers use other names.
func manifestEntry(hdr *tar.Header) (string, bool) {
	if !hdr.FileInfo().Mode().IsRegular() {
		return "", false
	}
	name := path.Clean(strings.TrimPrefix(hdr.Name, "./"))
	top, file, ok := strings.Cut(name, "/")
	if !ok || file != manifestName || top == "" || top == ".." || top == "." {
		return "", false
	}
	return sanitize(top), true
}

func writeEntry(r io.Reader, dir string, maxSize int64) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, manifestName)
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(r, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", manifestName, err)
	}
	if n > maxSize {
		return "", ErrManifestTooLarge
	}
	return dst, out.Close()
}

func readLicense(manifest string) (string, error) {
	data, err := os.ReadFile(manifest)
	if err != nil {
		return "", err
	}
	var pkg struct {
		License  any `json:"license"`
		Licenses any `json:"licenses"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	lic := license.Declared(pkg.License, pkg.Licenses)
	if !license.IsKnown(lic) {
		return "", ErrNoLicense
	}
	return lic, nil
}

func baseName(key string) string {
	if key == "" {
		return "package"
	}
	return path.Base(key)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(s, "_")
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}
