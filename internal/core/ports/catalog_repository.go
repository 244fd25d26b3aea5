package ports

import (
	"context"

	"github.com/woodtong/storefront/internal/core/domain"
)

// CatalogRepository persists furniture items.
type CatalogRepository interface {
	List(ctx context.Context) ([]domain.Furniture, error)
	FindByID(ctx context.Context, id string) (*domain.Furniture, error)
	// UpdateFields applies a partial edit; unset fields are left as-is.
	UpdateFields(ctx context.Context, id string, update domain.FurnitureUpdate) error
}

// CatalogService exposes the storefront catalogue and the admin inline editor.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Furniture, error)
	// Update applies a partial edit. An empty update reports false without
	// touching the store.
	Update(ctx context.Context, id string, update domain.FurnitureUpdate) (bool, error)
}
