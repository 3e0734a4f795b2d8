package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/civsearch/civsearch"
)

// DefaultDownloadTimeout bounds a single file download.
const DefaultDownloadTimeout = 30 * time.Second

var _ civsearch.Downloader = (*Downloader)(nil)

// Downloader streams remote files into a scratch directory.
// Each download is an isolated failure domain.
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a new Downloader. If client is nil a client with
// DefaultDownloadTimeout is used.
func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: DefaultDownloadTimeout}
	}
	return &Downloader{client: client}
}

// Download streams the file at rawURL into dir and returns the local path.
// The local name is the URL's base name prefixed with a hash of the full URL
// so files with identical names from different paths cannot collide.
func (d *Downloader) Download(ctx context.Context, rawURL string, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", civsearch.Errorf(civsearch.EINVALID, "invalid file URL %q", rawURL)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		base = "download"
	}
	local := filepath.Join(dir, fmt.Sprintf("%x-%s", xxhash.Sum64String(rawURL), base))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	f, err := os.Create(local)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(local)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(local)
		return "", err
	}

	return local, nil
}
