package mock

import (
	"context"

	"github.com/civsearch/civsearch"
)

var _ civsearch.RegistryService = (*RegistryService)(nil)

// RegistryService is a mock implementation of civsearch.RegistryService.
type RegistryService struct {
	ListFn     func(ctx context.Context) ([]civsearch.IndexInfo, error)
	RegisterFn func(ctx context.Context, info civsearch.IndexInfo) error
}

func (s *RegistryService) List(ctx context.Context) ([]civsearch.IndexInfo, error) {
	return s.ListFn(ctx)
}

func (s *RegistryService) Register(ctx context.Context, info civsearch.IndexInfo) error {
	return s.RegisterFn(ctx, info)
}
