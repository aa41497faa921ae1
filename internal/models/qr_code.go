package models

import (
	"time"

	"gorm.io/gorm"
)

// QRCode is one pre-printed sticker. Rows are provisioned in batches long
// before any ad exists, then claimed and activated by ad owners.
//
// AdID carries a unique index so the Ad→QR direction is enforced by the
// database as well as by the lifecycle check (Postgres keeps multiple NULLs,
// so unbound codes coexist). IsActivated is monotonic: once true it never
// reverts.
type QRCode struct {
	gorm.Model
	Code        string     `gorm:"size:24;uniqueIndex;not null" json:"code"`
	Batch       string     `gorm:"size:64;index" json:"batch,omitempty"`
	AdID        *uint      `gorm:"uniqueIndex" json:"ad_id,omitempty"`
	Ad          *Ad        `json:"-"`
	IsAssigned  bool       `gorm:"not null;default:false" json:"is_assigned"`
	IsActivated bool       `gorm:"not null;default:false" json:"is_activated"`
	ScansCount  int        `gorm:"not null;default:0" json:"scans_count"`
	FirstScanAt *time.Time `json:"first_scan_at,omitempty"`
	LastScanAt  *time.Time `json:"last_scan_at,omitempty"`
}

// QRScanLog is an append-only audit record. One row per landing-page hit and
// per activation call, whatever the outcome; rows are never mutated.
type QRScanLog struct {
	gorm.Model
	QRCodeID  uint      `gorm:"not null;index" json:"-"`
	AdID      *uint     `gorm:"index" json:"ad_id,omitempty"`
	ScannedAt time.Time `gorm:"not null;index" json:"scanned_at"`
	IP        string    `gorm:"size:45" json:"ip,omitempty"`
	UserAgent string    `gorm:"size:500" json:"user_agent,omitempty"`
	Referrer  string    `gorm:"size:500" json:"referrer,omitempty"`
}
