// Package middleware holds the Fiber middleware shared by protected routes.
package middleware

import (
	"strings"

	"adsouq/internal/config"
	"adsouq/internal/models"
	"adsouq/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected validates the Bearer token and stores the caller's identity in
// locals. Tokens are minted by the identity service; this API only verifies.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return response.Unauthorized(c, "missing authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return response.Unauthorized(c, "malformed authorization header")
		}

		claims := &models.UserClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.GetEnv("JWT_SECRET", "")), nil
		})
		if err != nil || !token.Valid {
			return response.Unauthorized(c, "invalid or expired token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("userRole", claims.Role)
		return c.Next()
	}
}

// UserID reads the authenticated user ID set by Protected.
func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}
