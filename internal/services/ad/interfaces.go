package ad

import (
	"context"

	"adsouq/internal/models"
	"adsouq/internal/services/schema"
)

// Repository is the persistence seam for ad writes and reads. Lookups return
// (nil, nil) when the row does not exist; the service maps that to domain
// errors.
type Repository interface {
	// WithinTransaction runs fn against a transaction-bound repository.
	// Everything fn writes commits or rolls back as one unit.
	WithinTransaction(ctx context.Context, fn func(Repository) error) error

	CreateAd(ctx context.Context, ad *models.Ad) error
	SaveAd(ctx context.Context, ad *models.Ad) error
	AdByID(ctx context.Context, id uint) (*models.Ad, error)
	// AdDetailByID loads the ad with category, field values (and their
	// definitions) and media.
	AdDetailByID(ctx context.Context, id uint) (*models.Ad, error)
	PublishedAdByCode(ctx context.Context, code string) (*models.Ad, error)
	AdsByOwner(ctx context.Context, ownerID uint) ([]models.Ad, error)
	AdCodeExists(ctx context.Context, code string) (bool, error)

	// UpsertFieldValues writes the given rows, replacing values that already
	// exist for the same (ad, field, locale).
	UpsertFieldValues(ctx context.Context, values []models.AdFieldValue) error
	// ReplaceMedia swaps out all media rows of one kind for an ad.
	ReplaceMedia(ctx context.Context, adID uint, kind string, media []models.AdMedia) error
}

// SchemaSource provides category schema snapshots.
type SchemaSource interface {
	GetCategorySchema(ctx context.Context, categoryKey string) (*schema.Snapshot, error)
}

// CodeGenerator produces candidate human-readable ad codes. Callers retry on
// collision, so the generator does not need global uniqueness itself.
type CodeGenerator func() (string, error)
