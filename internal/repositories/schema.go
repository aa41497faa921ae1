package repositories

import (
	"context"
	"errors"

	"adsouq/internal/models"
	"adsouq/internal/services/schema"

	"gorm.io/gorm"
)

// SchemaRepository is the GORM-backed implementation of schema.Repository.
type SchemaRepository struct {
	db *gorm.DB
}

func NewSchemaRepository(db *gorm.DB) schema.Repository {
	return &SchemaRepository{db: db}
}

func (r *SchemaRepository) CategoryByKey(ctx context.Context, key string) (*models.AdCategory, error) {
	var cat models.AdCategory
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *SchemaRepository) FieldsForCategory(ctx context.Context, categoryID uint) ([]models.FieldDefinition, error) {
	var defs []models.FieldDefinition
	err := r.db.WithContext(ctx).
		Preload("Type").
		Where("category_id = ?", categoryID).
		Order("order_index, key").
		Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}
