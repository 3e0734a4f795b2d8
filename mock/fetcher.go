package mock

import (
	"context"

	"github.com/civsearch/civsearch"
)

var _ civsearch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of civsearch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ civsearch.BytesFetcher = (*BytesFetcher)(nil)

// BytesFetcher is a mock implementation of civsearch.BytesFetcher.
type BytesFetcher struct {
	FetchBytesFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *BytesFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return f.FetchBytesFn(ctx, url)
}
