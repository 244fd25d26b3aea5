package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/woodtong/storefront/internal/api/metrics"
	"github.com/woodtong/storefront/internal/core/ports"
)

type ProspectHandler struct {
	prospects ports.ProspectService
}

func NewProspectHandler(prospects ports.ProspectService) *ProspectHandler {
	return &ProspectHandler{prospects: prospects}
}

type prospectRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=7"`
}

type prospectResponse struct {
	Created bool   `json:"created"`
	Message string `json:"message"`
}

// Register captures a lead from the storefront coupon modal. Resubmitting the
// same email is idempotent: the coupon was already sent, so the call still
// succeeds.
//
// @Summary      Capture a storefront lead
// @Tags         prospects
// @Accept       json
// @Produce      json
// @Param        body  body      prospectRequest  true  "Prospect details"
// @Success      200   {object}  prospectResponse
// @Success      201   {object}  prospectResponse
// @Failure      400   {object}  map[string]string
// @Router       /prospects [post]
func (h *ProspectHandler) Register(c echo.Context) error {
	var req prospectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	created, err := h.prospects.Register(c.Request().Context(), req.FullName, req.Email, req.Phone)
	if err != nil {
		return err
	}

	if !created {
		metrics.ProspectsCapturedTotal.WithLabelValues("duplicate").Inc()
		return c.JSON(http.StatusOK, prospectResponse{Created: false, Message: "coupon already sent"})
	}

	metrics.ProspectsCapturedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, prospectResponse{Created: true, Message: "coupon sent"})
}
