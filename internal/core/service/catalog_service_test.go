package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/woodtong/storefront/internal/core/domain"
)

type stubCatalogRepo struct {
	items   []domain.Furniture
	updates map[string]domain.FurnitureUpdate
	err     error
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{updates: make(map[string]domain.FurnitureUpdate)}
}

func (r *stubCatalogRepo) List(_ context.Context) ([]domain.Furniture, error) {
	return r.items, r.err
}

func (r *stubCatalogRepo) FindByID(_ context.Context, id string) (*domain.Furniture, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i], nil
		}
	}
	return nil, domain.ErrFurnitureNotFound
}

func (r *stubCatalogRepo) UpdateFields(_ context.Context, id string, update domain.FurnitureUpdate) error {
	if r.err != nil {
		return r.err
	}
	r.updates[id] = update
	return nil
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestCatalogService_Update_Partial(t *testing.T) {
	repo := newStubCatalogRepo()
	svc := NewCatalogService(repo, zerolog.Nop())

	updated, err := svc.Update(context.Background(), "m1", domain.FurnitureUpdate{
		Price: f64Ptr(249.99),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !updated {
		t.Fatalf("expected update to apply")
	}
	got := repo.updates["m1"]
	if got.Price == nil || *got.Price != 249.99 || got.Name != nil || got.Category != nil {
		t.Fatalf("expected only price to change, got %+v", got)
	}
}

func TestCatalogService_Update_EmptyIsNoOp(t *testing.T) {
	repo := newStubCatalogRepo()
	svc := NewCatalogService(repo, zerolog.Nop())

	updated, err := svc.Update(context.Background(), "m1", domain.FurnitureUpdate{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated {
		t.Fatalf("empty update must report not-updated")
	}
	if len(repo.updates) != 0 {
		t.Fatalf("empty update must not touch the repository")
	}
}

func TestCatalogService_Update_NotFound(t *testing.T) {
	repo := newStubCatalogRepo()
	repo.err = domain.ErrFurnitureNotFound
	svc := NewCatalogService(repo, zerolog.Nop())

	_, err := svc.Update(context.Background(), "ghost", domain.FurnitureUpdate{Name: strPtr("Oak Table")})
	if !errors.Is(err, domain.ErrFurnitureNotFound) {
		t.Fatalf("expected ErrFurnitureNotFound, got %v", err)
	}
}
