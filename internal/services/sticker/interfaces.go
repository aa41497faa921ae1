package sticker

import (
	"context"
	"time"

	"adsouq/internal/models"
)

// Store is the persistence seam for the QR lifecycle. Implementations must
// provide real row locking: QRCodeForUpdate and OtherQRCodeForAd take an
// exclusive lock that lasts until the surrounding transaction commits.
// Lookups return (nil, nil) when the row does not exist.
type Store interface {
	// WithinTransaction runs fn against a transaction-bound store; row locks
	// taken inside fn are held until it returns.
	WithinTransaction(ctx context.Context, fn func(Store) error) error

	// QRCodeForUpdate loads a QR row by code with an exclusive lock.
	QRCodeForUpdate(ctx context.Context, code string) (*models.QRCode, error)
	// OtherQRCodeForAd finds any QR row other than excludeID already bound
	// to the ad, also under lock. Backs the Ad→QR uniqueness invariant.
	OtherQRCodeForAd(ctx context.Context, adID, excludeID uint) (*models.QRCode, error)
	SaveQRCode(ctx context.Context, qr *models.QRCode) error

	AdByID(ctx context.Context, id uint) (*models.Ad, error)
	PublishAd(ctx context.Context, ad *models.Ad, at time.Time) error

	AppendScanLog(ctx context.Context, entry *models.QRScanLog) error
	// BumpScanCounters increments scans_count and maintains first/last scan
	// timestamps atomically in the database, never read-modify-write in Go.
	BumpScanCounters(ctx context.Context, qrID uint, at time.Time) error
}

// PublicURLBuilder turns an ad code into the externally visible URL. The
// base domain is deployment configuration, so the builder is injected.
type PublicURLBuilder func(adCode string) string
