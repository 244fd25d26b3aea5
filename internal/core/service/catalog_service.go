package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/woodtong/storefront/internal/core/domain"
	"github.com/woodtong/storefront/internal/core/ports"
)

type catalogService struct {
	repo ports.CatalogRepository
	log  zerolog.Logger
}

// NewCatalogService returns a CatalogService over the given repository.
func NewCatalogService(repo ports.CatalogRepository, log zerolog.Logger) ports.CatalogService {
	return &catalogService{repo: repo, log: log}
}

func (s *catalogService) List(ctx context.Context) ([]domain.Furniture, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalogue: %w", err)
	}
	return items, nil
}

// Update applies an inline edit from the admin panel. An update with no
// fields set is a no-op, reported as not-updated rather than an error.
func (s *catalogService) Update(ctx context.Context, id string, update domain.FurnitureUpdate) (bool, error) {
	if update.Empty() {
		return false, nil
	}
	if err := s.repo.UpdateFields(ctx, id, update); err != nil {
		return false, fmt.Errorf("update furniture: %w", err)
	}
	return true, nil
}
