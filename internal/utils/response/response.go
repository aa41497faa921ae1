// Package response standardizes the JSON envelope and the mapping from
// domain errors to HTTP statuses, so handlers never hand-pick status codes.
package response

import (
	stdErrors "errors"
	"log"

	domainErrors "adsouq/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Success sends data wrapped in the standard success envelope.
func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Error sends an error envelope with a machine-readable code.
func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// BadRequest reports a malformed request body or parameters.
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message)
}

// FromError maps a service error to its HTTP response. Validation errors
// carry the whole per-field map; unknown errors become an opaque 500 so
// internals never leak to clients.
func FromError(c *fiber.Ctx, err error) error {
	var vErr *domainErrors.ValidationError
	if stdErrors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"code":    "VALIDATION_FAILED",
				"message": "one or more fields are invalid",
				"fields":  vErr.Fields,
			},
		})
	}

	var dErr *domainErrors.DomainError
	if stdErrors.As(err, &dErr) {
		return Error(c, statusForCode(dErr.Code), dErr.Code, dErr.Message)
	}

	log.Printf("unhandled error: %v", err)
	return Error(c, fiber.StatusInternalServerError, "INTERNAL", "internal server error")
}

func statusForCode(code string) int {
	switch code {
	case "AD_NOT_FOUND", "CATEGORY_NOT_FOUND", "QR_NOT_PROVISIONED":
		return fiber.StatusNotFound
	case "FORBIDDEN":
		return fiber.StatusForbidden
	case "QR_ALREADY_ASSIGNED", "AD_HAS_QR", "AD_ARCHIVED", "CODE_GENERATION_EXHAUSTED":
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}
