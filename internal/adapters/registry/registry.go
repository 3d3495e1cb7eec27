// Package registry fetches compiler module images.
package registry

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
)

const httpClientTimeout = 30 * time.Second

// New returns the registry for location: an http(s) URL, a file:// URL or a
// local directory. An empty location yields a registry that always fails with
// domain.ErrRegistryNotConfigured.
func New(location string, logger ports.Logger) (ports.Registry, error) {
	if location == "" {
		return unconfigured{}, nil
	}

	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return NewHTTP(location, &http.Client{Timeout: httpClientTimeout}, logger), nil
		case "file":
			return NewDir(u.Path), nil
		}
	}
	if strings.Contains(location, "://") {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unsupported registry URL"), "url", location)
	}
	return NewDir(location), nil
}

// HTTP fetches images with GET <base>/<identifier>.
type HTTP struct {
	base   string
	client *http.Client
	logger ports.Logger
}

// NewHTTP creates an HTTP registry rooted at base.
func NewHTTP(base string, client *http.Client, logger ports.Logger) *HTTP {
	return &HTTP{
		base:   strings.TrimSuffix(base, "/"),
		client: client,
		logger: logger,
	}
}

// FetchCompiler downloads the image published under identifier.
func (r *HTTP) FetchCompiler(ctx context.Context, identifier string) ([]byte, error) {
	target := r.base + "/" + strings.TrimPrefix(identifier, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create registry request"), "url", target)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "registry request failed"), "url", target)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, zerr.With(zerr.Wrap(domain.ErrCompilerNotFound, "registry lookup"), "identifier", identifier)
	case resp.StatusCode != http.StatusOK:
		return nil, zerr.With(zerr.With(zerr.New("unexpected registry response"), "url", target), "status", resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read registry response"), "url", target)
	}

	r.logger.Debug("fetched compiler", "identifier", identifier, "size", len(image), "elapsed", time.Since(start))
	return image, nil
}

// Dir reads images from <root>/<identifier>.
type Dir struct {
	root string
}

// NewDir creates a registry backed by a local directory.
func NewDir(root string) *Dir {
	return &Dir{root: filepath.Clean(root)}
}

// FetchCompiler reads the image stored under identifier.
func (r *Dir) FetchCompiler(ctx context.Context, identifier string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := filepath.FromSlash(strings.TrimPrefix(identifier, "/"))
	if !filepath.IsLocal(rel) {
		return nil, zerr.With(zerr.Wrap(domain.ErrCompilerNotFound, "invalid identifier"), "identifier", identifier)
	}

	path := filepath.Join(r.root, rel)
	image, err := os.ReadFile(path) //nolint:gosec // identifier is validated to stay below root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrCompilerNotFound, "registry lookup"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read compiler image"), "path", path)
	}
	return image, nil
}

type unconfigured struct{}

func (unconfigured) FetchCompiler(context.Context, string) ([]byte, error) {
	return nil, domain.ErrRegistryNotConfigured
}

var (
	_ ports.Registry = (*HTTP)(nil)
	_ ports.Registry = (*Dir)(nil)
	_ ports.Registry = unconfigured{}
)
