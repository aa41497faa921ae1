package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Field type keys. A closed set: categories compose their schemas from these,
// they are not user-extensible at runtime.
const (
	FieldTypeText        = "text"
	FieldTypeTextarea    = "textarea"
	FieldTypeNumber      = "number"
	FieldTypeDate        = "date"
	FieldTypeSelect      = "select"
	FieldTypeMultiselect = "multiselect"
	FieldTypeCurrency    = "currency"
	FieldTypeBoolean     = "boolean"
)

// FieldType is an input kind descriptor (text, select, boolean, ...) with
// optional per-type UI/validation hints such as a numeric step.
type FieldType struct {
	gorm.Model
	Key    string         `gorm:"size:32;uniqueIndex;not null" json:"key"`
	Name   string         `gorm:"size:50;not null" json:"name"`
	Config datatypes.JSON `gorm:"type:jsonb" json:"config,omitempty"`
}

// AdCategory is a named bucket of ads sharing one attribute schema,
// e.g. "cars".
type AdCategory struct {
	gorm.Model
	Key    string `gorm:"size:64;uniqueIndex;not null" json:"key"`
	NameEn string `gorm:"size:80;not null" json:"name_en"`
	NameAr string `gorm:"size:80" json:"name_ar,omitempty"`
}

// FieldDefinition declares one dynamic attribute of a category: key, input
// type, constraints and choice list. Choices is either a plain string array
// or a list of {value, label_en, label_ar, parent_value} objects; Validation
// is a {minimum, maximum, depends_on} object. Both are regenerated by
// external sync jobs, so consumers always work from a snapshot.
type FieldDefinition struct {
	gorm.Model
	CategoryID    uint           `gorm:"uniqueIndex:idx_field_defs_category_key;not null" json:"-"`
	Category      AdCategory     `json:"-"`
	Key           string         `gorm:"size:64;uniqueIndex:idx_field_defs_category_key;not null" json:"key"`
	TypeID        uint           `gorm:"not null" json:"-"`
	Type          FieldType      `json:"type"`
	LabelEn       string         `gorm:"size:120;not null" json:"label_en"`
	LabelAr       string         `gorm:"size:120" json:"label_ar,omitempty"`
	Required      bool           `gorm:"not null;default:false" json:"required"`
	OrderIndex    int            `gorm:"not null;default:0;index" json:"order_index"`
	VisiblePublic bool           `gorm:"not null;default:true" json:"visible_public"`
	Choices       datatypes.JSON `gorm:"type:jsonb" json:"choices,omitempty"`
	Validation    datatypes.JSON `gorm:"type:jsonb" json:"validation,omitempty"`
	PlaceholderEn string         `gorm:"size:120" json:"placeholder_en,omitempty"`
	PlaceholderAr string         `gorm:"size:120" json:"placeholder_ar,omitempty"`
}
