package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ad statuses. draft and published flip back and forth; archived is a
// terminal soft delete and the row is never reused.
const (
	AdStatusDraft     = "draft"
	AdStatusPublished = "published"
	AdStatusArchived  = "archived"
)

// Media kinds.
const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

// Ad is a classified listing: core attributes live in columns, everything
// category-specific hangs off AdFieldValue rows. Code is the human-readable
// identifier printed in public URLs; globally unique and immutable.
type Ad struct {
	gorm.Model
	OwnerID     uint       `gorm:"not null;index" json:"-"`
	Owner       User       `json:"-"`
	Code        string     `gorm:"size:16;uniqueIndex;not null" json:"code"`
	CategoryID  uint       `gorm:"not null" json:"-"`
	Category    AdCategory `json:"category"`
	Title       string     `gorm:"size:200" json:"title"`
	Price       *float64   `json:"price,omitempty"`
	City        string     `gorm:"size:100" json:"city"`
	Status      string     `gorm:"size:12;not null;default:'draft';index" json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	Values []AdFieldValue `json:"-"`
	Media  []AdMedia      `json:"-"`
}

// AdFieldValue stores one dynamic attribute value for an ad. Value is JSONB
// and may hold a string, number, bool or list, already validated against the
// field definition at the write boundary. Locale is empty for the default
// value; localized overrides use the same (ad, field) pair.
type AdFieldValue struct {
	gorm.Model
	AdID    uint            `gorm:"uniqueIndex:idx_ad_field_values_ad_field_locale;not null;index:idx_ad_field_values_ad_field" json:"-"`
	FieldID uint            `gorm:"uniqueIndex:idx_ad_field_values_ad_field_locale;not null;index:idx_ad_field_values_ad_field" json:"-"`
	Field   FieldDefinition `json:"-"`
	Locale  string          `gorm:"size:5;uniqueIndex:idx_ad_field_values_ad_field_locale" json:"locale,omitempty"`
	Value   datatypes.JSON  `gorm:"type:jsonb" json:"value"`
}

// AdMedia references hosted media by URL. Many images, at most one video per
// ad; file storage itself is an external service.
type AdMedia struct {
	gorm.Model
	AdID       uint   `gorm:"not null;index" json:"-"`
	Kind       string `gorm:"size:5;not null;index" json:"kind"`
	URL        string `gorm:"size:500;not null" json:"url"`
	OrderIndex int    `gorm:"not null;default:0" json:"order_index"`
}
