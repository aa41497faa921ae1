package handlers

import (
	"adsouq/internal/services/schema"
	"adsouq/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type SchemaHandler struct {
	schemas schema.Service
}

func NewSchemaHandler(schemas schema.Service) *SchemaHandler {
	if schemas == nil {
		panic("schema service is required")
	}
	return &SchemaHandler{schemas: schemas}
}

// GetCategorySchema returns the field definitions clients need to render a
// posting form for one category.
func (h *SchemaHandler) GetCategorySchema(c *fiber.Ctx) error {
	snap, err := h.schemas.GetCategorySchema(c.Context(), c.Params("key"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.StatusOK, snap)
}
