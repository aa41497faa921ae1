package repositories

import (
	"context"
	"errors"
	"time"

	"adsouq/internal/models"
	"adsouq/internal/services/sticker"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QRCodeRepository is the GORM-backed implementation of sticker.Store. The
// ForUpdate lookups use SELECT ... FOR UPDATE, so they are only meaningful
// inside WithinTransaction.
type QRCodeRepository struct {
	db *gorm.DB
}

func NewQRCodeRepository(db *gorm.DB) sticker.Store {
	return &QRCodeRepository{db: db}
}

func (r *QRCodeRepository) WithinTransaction(ctx context.Context, fn func(sticker.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&QRCodeRepository{db: tx})
	})
}

func (r *QRCodeRepository) QRCodeForUpdate(ctx context.Context, code string) (*models.QRCode, error) {
	var qr models.QRCode
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&qr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *QRCodeRepository) OtherQRCodeForAd(ctx context.Context, adID, excludeID uint) (*models.QRCode, error) {
	var qr models.QRCode
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ad_id = ? AND id <> ?", adID, excludeID).
		First(&qr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *QRCodeRepository) SaveQRCode(ctx context.Context, qr *models.QRCode) error {
	return r.db.WithContext(ctx).Save(qr).Error
}

func (r *QRCodeRepository) AdByID(ctx context.Context, id uint) (*models.Ad, error) {
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

func (r *QRCodeRepository) PublishAd(ctx context.Context, adRow *models.Ad, at time.Time) error {
	adRow.Status = models.AdStatusPublished
	adRow.PublishedAt = &at
	return r.db.WithContext(ctx).
		Model(adRow).
		Updates(map[string]interface{}{
			"status":       models.AdStatusPublished,
			"published_at": at,
		}).Error
}

func (r *QRCodeRepository) AppendScanLog(ctx context.Context, entry *models.QRScanLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *QRCodeRepository) BumpScanCounters(ctx context.Context, qrID uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.QRCode{}).
		Where("id = ?", qrID).
		Updates(map[string]interface{}{
			"scans_count":   gorm.Expr("scans_count + 1"),
			"first_scan_at": gorm.Expr("COALESCE(first_scan_at, ?)", at),
			"last_scan_at":  at,
		}).Error
}
