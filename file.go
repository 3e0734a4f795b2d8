package civsearch

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// SupportedFileExts lists the downloadable document extensions recognized
// during crawling. Links ending in one of these are queued for download and
// conversion instead of being crawled.
var SupportedFileExts = []string{".pdf", ".xml", ".docx", ".xlsx", ".csv", ".html", ".htm"}

// IsFileLink reports whether rawURL points at a supported document type.
// The check ignores query strings and fragments.
func IsFileLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, supported := range SupportedFileExts {
		if ext == supported {
			return true
		}
	}
	return false
}

// Downloader retrieves remote files to local storage.
type Downloader interface {
	// Download streams the file at url into dir and returns the local path.
	Download(ctx context.Context, url string, dir string) (string, error)
}

// FileConverter converts a downloaded document to plain or markdown text.
// Each file is an isolated failure domain: a conversion error affects only
// that file.
type FileConverter interface {
	Convert(ctx context.Context, path string) (string, error)
}
