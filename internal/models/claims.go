package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload issued by the identity service. The API only
// consumes it; it never mints tokens itself.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
}
