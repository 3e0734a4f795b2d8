package mock

import (
	"context"

	"github.com/civsearch/civsearch"
)

var _ civsearch.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of civsearch.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url, dir string) (string, error)
}

func (d *Downloader) Download(ctx context.Context, url, dir string) (string, error) {
	return d.DownloadFn(ctx, url, dir)
}

var _ civsearch.FileConverter = (*FileConverter)(nil)

// FileConverter is a mock implementation of civsearch.FileConverter.
type FileConverter struct {
	ConvertFn func(ctx context.Context, path string) (string, error)
}

func (c *FileConverter) Convert(ctx context.Context, path string) (string, error) {
	return c.ConvertFn(ctx, path)
}
