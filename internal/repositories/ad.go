package repositories

import (
	"context"
	"errors"

	"adsouq/internal/models"
	"adsouq/internal/services/ad"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdRepository is the GORM-backed implementation of ad.Repository.
type AdRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) ad.Repository {
	return &AdRepository{db: db}
}

func (r *AdRepository) WithinTransaction(ctx context.Context, fn func(ad.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AdRepository{db: tx})
	})
}

func (r *AdRepository) CreateAd(ctx context.Context, adRow *models.Ad) error {
	return r.db.WithContext(ctx).Create(adRow).Error
}

func (r *AdRepository) SaveAd(ctx context.Context, adRow *models.Ad) error {
	return r.db.WithContext(ctx).Save(adRow).Error
}

func (r *AdRepository) AdByID(ctx context.Context, id uint) (*models.Ad, error) {
	var adRow models.Ad
	err := r.db.WithContext(ctx).First(&adRow, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &adRow, nil
}

func (r *AdRepository) AdDetailByID(ctx context.Context, id uint) (*models.Ad, error) {
	var adRow models.Ad
	err := r.detailQuery(ctx).First(&adRow, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &adRow, nil
}

func (r *AdRepository) PublishedAdByCode(ctx context.Context, code string) (*models.Ad, error) {
	var adRow models.Ad
	err := r.detailQuery(ctx).
		Where("code = ? AND status = ?", code, models.AdStatusPublished).
		First(&adRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &adRow, nil
}

func (r *AdRepository) AdsByOwner(ctx context.Context, ownerID uint) ([]models.Ad, error) {
	var ads []models.Ad
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index")
		}).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&ads).Error
	if err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *AdRepository) AdCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Ad{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AdRepository) UpsertFieldValues(ctx context.Context, values []models.AdFieldValue) error {
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ad_id"}, {Name: "field_id"}, {Name: "locale"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&values).Error
}

func (r *AdRepository) ReplaceMedia(ctx context.Context, adID uint, kind string, media []models.AdMedia) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("ad_id = ? AND kind = ?", adID, kind).
		Unscoped().
		Delete(&models.AdMedia{}).Error; err != nil {
		return err
	}
	if len(media) == 0 {
		return nil
	}
	return tx.Create(&media).Error
}

func (r *AdRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Values.Field").
		Preload("Values.Field.Type").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index")
		})
}
