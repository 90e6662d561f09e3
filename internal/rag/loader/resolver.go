package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

// Resolver maps a user-supplied source (local path or http(s) URL) to a
// readable local file. Downloads share one pooled client so repeated URL
// ingests reuse connections.
type Resolver struct {
	client *http.Client
}

func NewResolver() *Resolver {
	return &Resolver{
		client: &http.Client{
			Timeout: config.DownloadTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		},
	}
}

// Resolve returns a local path for source, the canonical source string to
// record in the index, and a cleanup func that removes any temp download.
// The canonical source for a URL is the URL itself, never the temp path.
func (r *Resolver) Resolve(ctx context.Context, source string) (local string, canonical string, cleanup func(), err error) {
	cleanup = func() {}

	if IsURL(source) {
		local, err = r.download(ctx, source)
		if err != nil {
			return "", "", cleanup, err
		}
		tmp := local
		return local, source, func() {
			if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				logger.Warn("Resolve", "failed removing temp download", rmErr)
			}
		}, nil
	}

	info, err := os.Stat(source)
	if errors.Is(err, os.ErrNotExist) {
		return "", "", cleanup, fmt.Errorf("%w: %s", docModel.ErrNotFound, source)
	}
	if err != nil {
		return "", "", cleanup, fmt.Errorf("stat %s: %w", source, err)
	}
	if info.IsDir() {
		return "", "", cleanup, fmt.Errorf("%s is a directory: %w", source, docModel.ErrUnsupportedType)
	}
	return source, filepath.Clean(source), cleanup, nil
}

// IsURL reports whether source should be fetched over http rather than
// read from disk. The URL itself stays the canonical dedup key.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// download fetches the URL into a temp file whose extension matches the
// URL path, so the extension dispatch keeps working on the local copy.
func (r *Resolver) download(ctx context.Context, rawURL string) (string, error) {
	logger.Debug("download", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", docModel.ErrNotFound, rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	u, _ := url.Parse(rawURL)
	ext := path.Ext(u.Path)

	tmp, err := os.CreateTemp("", "knowledge-download-*"+ext)
	if err != nil {
		return "", fmt.Errorf("creating temp download: %w", err)
	}
	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, config.ProviderDownloadsLimit)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("saving download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing download: %w", err)
	}
	return tmp.Name(), nil
}
