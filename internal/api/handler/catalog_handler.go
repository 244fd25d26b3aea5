package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/woodtong/storefront/internal/core/ports"
)

type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type furnitureUpdateRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Category *string  `json:"category,omitempty" validate:"omitempty,min=1"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}

type furnitureUpdateResponse struct {
	Updated bool   `json:"updated"`
	Message string `json:"message"`
}

// List returns the storefront catalogue. Public.
func (h *CatalogHandler) List(c echo.Context) error {
	items, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Update applies an inline edit from the admin panel. Only the fields present
// in the payload change; an empty payload is reported as not-updated.
func (h *CatalogHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req furnitureUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	updated, err := h.catalog.Update(c.Request().Context(), id, toDomainUpdate(req))
	if err != nil {
		return err
	}

	if !updated {
		return c.JSON(http.StatusOK, furnitureUpdateResponse{Updated: false, Message: "no changes to apply"})
	}
	return c.JSON(http.StatusOK, furnitureUpdateResponse{Updated: true, Message: "inventory updated"})
}
