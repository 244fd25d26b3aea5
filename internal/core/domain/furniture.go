package domain

import (
	"errors"
	"time"
)

var ErrFurnitureNotFound = errors.New("furniture item not found")

// Furniture is a single catalogue item shown on the storefront and edited
// inline from the admin panel.
type Furniture struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FurnitureUpdate is a partial edit; nil fields are left untouched.
type FurnitureUpdate struct {
	Name     *string
	Category *string
	Price    *float64
}

// Empty reports whether the update carries no changes at all.
func (u FurnitureUpdate) Empty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil
}
