package mock

import (
	"context"

	"github.com/civsearch/civsearch"
)

var _ civsearch.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of civsearch.VectorStore.
type VectorStore struct {
	EnsureIndexFn func(ctx context.Context, name string) error
	InsertFn      func(ctx context.Context, name string, entries []civsearch.IndexEntry) error
	SearchFn      func(ctx context.Context, name string, vector []float32, topK int, section string) ([]civsearch.SearchMatch, error)
	SectionsFn    func(ctx context.Context, name string) ([]string, error)
}

func (s *VectorStore) EnsureIndex(ctx context.Context, name string) error {
	return s.EnsureIndexFn(ctx, name)
}

func (s *VectorStore) Insert(ctx context.Context, name string, entries []civsearch.IndexEntry) error {
	return s.InsertFn(ctx, name, entries)
}

func (s *VectorStore) Search(ctx context.Context, name string, vector []float32, topK int, section string) ([]civsearch.SearchMatch, error) {
	return s.SearchFn(ctx, name, vector, topK, section)
}

func (s *VectorStore) Sections(ctx context.Context, name string) ([]string, error) {
	return s.SectionsFn(ctx, name)
}
