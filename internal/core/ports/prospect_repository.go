package ports

import (
	"context"

	"github.com/woodtong/storefront/internal/core/domain"
)

// ProspectRepository persists captured leads.
type ProspectRepository interface {
	Insert(ctx context.Context, prospect *domain.Prospect) error
}

// ProspectService captures storefront leads with duplicate suppression.
type ProspectService interface {
	// Register stores a new prospect. It returns false when the email was
	// already captured recently (the coupon has been sent before).
	Register(ctx context.Context, fullName, email, phone string) (bool, error)
}
