package handler

import "github.com/woodtong/storefront/internal/core/domain"

// toDomainUpdate converts the wire payload into the typed partial update the
// core works with.
func toDomainUpdate(req furnitureUpdateRequest) domain.FurnitureUpdate {
	return domain.FurnitureUpdate{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
	}
}
