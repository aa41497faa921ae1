package models

import "gorm.io/gorm"

// User is the seller account that owns ads. Registration, OTP delivery and
// session management live in a separate identity service; this table only
// anchors ownership foreign keys and the data carried in JWT claims.
type User struct {
	gorm.Model
	Name       string `gorm:"size:120" json:"name"`
	Phone      string `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Email      string `gorm:"size:120" json:"email,omitempty"`
	IsVerified bool   `gorm:"not null;default:false" json:"is_verified"`
}
