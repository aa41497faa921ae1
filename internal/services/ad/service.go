// Package ad owns the ad aggregate: creation and mutation of listings with
// their dynamic attribute values, and the draft/published/archived status
// transitions. All writes for one ad commit atomically, so a listing never
// ends up with half of its attributes persisted.
package ad

import (
	"context"
	"encoding/json"
	"time"

	domainErrors "adsouq/internal/errors"
	"adsouq/internal/models"
	"adsouq/internal/services/schema"
	"adsouq/internal/validation"

	"gorm.io/datatypes"
)

// Service defines the ad aggregate operations. Every mutating call is
// attributed to an owner; touching somebody else's ad fails with Forbidden.
type Service interface {
	Create(ctx context.Context, ownerID uint, in CreateAdInput) (*AdDetail, error)
	Update(ctx context.Context, ownerID, adID uint, in UpdateAdInput) (*AdDetail, error)
	Publish(ctx context.Context, ownerID, adID uint) error
	Unpublish(ctx context.Context, ownerID, adID uint) error
	Archive(ctx context.Context, ownerID, adID uint) error
	MyAds(ctx context.Context, ownerID uint) ([]AdDetail, error)
	PublicByCode(ctx context.Context, code string) (*PublicAd, error)
}

type service struct {
	repo    Repository
	schemas SchemaSource
	codeGen CodeGenerator
}

// NewService creates a new ad service instance.
func NewService(repo Repository, schemas SchemaSource, codeGen CodeGenerator) Service {
	if repo == nil {
		panic("ad repository is required")
	}
	if schemas == nil {
		panic("schema source is required")
	}
	if codeGen == nil {
		panic("code generator is required")
	}
	return &service{repo: repo, schemas: schemas, codeGen: codeGen}
}

func (s *service) Create(ctx context.Context, ownerID uint, in CreateAdInput) (*AdDetail, error) {
	snap, err := s.schemas.GetCategorySchema(ctx, in.CategoryKey)
	if err != nil {
		return nil, err
	}

	errs := map[string]string{}
	if in.Title == "" {
		errs["title"] = validation.ReasonMissingRequired
	}
	if in.City == "" {
		errs["city"] = validation.ReasonMissingRequired
	}
	if in.Price != nil && *in.Price < 0 {
		errs["price"] = "range: must be at least 0"
	}
	if len(in.Images) > MaxImages {
		errs["images"] = "too many images"
	}

	fields := validation.BuildFields(snap.Fields)
	normalized, fieldErrs := validation.Validate(fields, in.Values)
	for k, v := range fieldErrs {
		errs[k] = v
	}
	if len(errs) > 0 {
		return nil, domainErrors.NewValidationError(errs)
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	adRow := &models.Ad{
		OwnerID:    ownerID,
		Code:       code,
		CategoryID: snap.Category.ID,
		Title:      in.Title,
		Price:      in.Price,
		City:       in.City,
		Status:     models.AdStatusDraft,
	}

	err = s.repo.WithinTransaction(ctx, func(tx Repository) error {
		if err := tx.CreateAd(ctx, adRow); err != nil {
			return err
		}
		values, err := buildFieldValues(adRow.ID, snap, normalized)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			if err := tx.UpsertFieldValues(ctx, values); err != nil {
				return err
			}
		}
		if len(in.Images) > 0 {
			if err := tx.ReplaceMedia(ctx, adRow.ID, models.MediaKindImage, imageRows(adRow.ID, in.Images)); err != nil {
				return err
			}
		}
		if in.Video != "" {
			if err := tx.ReplaceMedia(ctx, adRow.ID, models.MediaKindVideo, videoRow(adRow.ID, in.Video)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	detail := &AdDetail{
		ID:        adRow.ID,
		Code:      adRow.Code,
		Category:  snap.Category.Key,
		Title:     adRow.Title,
		Price:     adRow.Price,
		City:      adRow.City,
		Status:    adRow.Status,
		CreatedAt: adRow.CreatedAt,
		Values:    normalized,
		Images:    in.Images,
	}
	if in.Video != "" {
		v := in.Video
		detail.Video = &v
	}
	return detail, nil
}

func (s *service) Update(ctx context.Context, ownerID, adID uint, in UpdateAdInput) (*AdDetail, error) {
	adRow, err := s.ownedAd(ctx, ownerID, adID)
	if err != nil {
		return nil, err
	}

	snap, err := s.schemas.GetCategorySchema(ctx, adRow.Category.Key)
	if err != nil {
		return nil, err
	}

	errs := map[string]string{}
	if in.Title != nil && *in.Title == "" {
		errs["title"] = validation.ReasonMissingRequired
	}
	if in.City != nil && *in.City == "" {
		errs["city"] = validation.ReasonMissingRequired
	}
	if in.Price != nil && *in.Price < 0 {
		errs["price"] = "range: must be at least 0"
	}
	if in.Images != nil && len(*in.Images) > MaxImages {
		errs["images"] = "too many images"
	}

	var normalized map[string]any
	if len(in.Values) > 0 {
		fields := validation.BuildFields(snap.Fields)
		var fieldErrs map[string]string
		normalized, fieldErrs = validation.ValidatePartial(fields, in.Values)
		for k, v := range fieldErrs {
			errs[k] = v
		}
	}
	if len(errs) > 0 {
		return nil, domainErrors.NewValidationError(errs)
	}

	if in.Title != nil {
		adRow.Title = *in.Title
	}
	if in.Price != nil {
		adRow.Price = in.Price
	}
	if in.City != nil {
		adRow.City = *in.City
	}

	err = s.repo.WithinTransaction(ctx, func(tx Repository) error {
		if err := tx.SaveAd(ctx, adRow); err != nil {
			return err
		}
		if len(normalized) > 0 {
			values, err := buildFieldValues(adRow.ID, snap, normalized)
			if err != nil {
				return err
			}
			if err := tx.UpsertFieldValues(ctx, values); err != nil {
				return err
			}
		}
		if in.Images != nil {
			if err := tx.ReplaceMedia(ctx, adRow.ID, models.MediaKindImage, imageRows(adRow.ID, *in.Images)); err != nil {
				return err
			}
		}
		if in.Video != nil {
			var rows []models.AdMedia
			if *in.Video != "" {
				rows = videoRow(adRow.ID, *in.Video)
			}
			if err := tx.ReplaceMedia(ctx, adRow.ID, models.MediaKindVideo, rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fresh, err := s.repo.AdDetailByID(ctx, adRow.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, domainErrors.ErrAdNotFound
	}
	detail := detailFromModel(fresh)
	return &detail, nil
}

func (s *service) Publish(ctx context.Context, ownerID, adID uint) error {
	adRow, err := s.ownedAdRow(ctx, ownerID, adID)
	if err != nil {
		return err
	}
	if adRow.Status == models.AdStatusPublished {
		return nil
	}
	now := time.Now()
	adRow.Status = models.AdStatusPublished
	adRow.PublishedAt = &now
	return s.repo.SaveAd(ctx, adRow)
}

func (s *service) Unpublish(ctx context.Context, ownerID, adID uint) error {
	adRow, err := s.ownedAdRow(ctx, ownerID, adID)
	if err != nil {
		return err
	}
	adRow.Status = models.AdStatusDraft
	adRow.PublishedAt = nil
	return s.repo.SaveAd(ctx, adRow)
}

func (s *service) Archive(ctx context.Context, ownerID, adID uint) error {
	adRow, err := s.repo.AdByID(ctx, adID)
	if err != nil {
		return err
	}
	if adRow == nil {
		return domainErrors.ErrAdNotFound
	}
	if adRow.OwnerID != ownerID {
		return domainErrors.ErrForbidden
	}
	if adRow.Status == models.AdStatusArchived {
		return nil
	}
	adRow.Status = models.AdStatusArchived
	return s.repo.SaveAd(ctx, adRow)
}

func (s *service) MyAds(ctx context.Context, ownerID uint) ([]AdDetail, error) {
	ads, err := s.repo.AdsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]AdDetail, 0, len(ads))
	for i := range ads {
		out = append(out, detailFromModel(&ads[i]))
	}
	return out, nil
}

func (s *service) PublicByCode(ctx context.Context, code string) (*PublicAd, error) {
	adRow, err := s.repo.PublishedAdByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if adRow == nil {
		return nil, domainErrors.ErrAdNotFound
	}

	values := make(map[string]any)
	for i := range adRow.Values {
		v := &adRow.Values[i]
		if !v.Field.VisiblePublic {
			continue
		}
		values[v.Field.Key] = decodeValue(v.Value)
	}

	images, video := splitMedia(adRow.Media)
	return &PublicAd{
		Code:        adRow.Code,
		Category:    adRow.Category.Key,
		Title:       adRow.Title,
		Price:       adRow.Price,
		City:        adRow.City,
		PublishedAt: adRow.PublishedAt,
		Values:      values,
		Images:      images,
		Video:       video,
	}, nil
}

// ownedAd loads the full detail row and enforces ownership and the terminal
// archived state.
func (s *service) ownedAd(ctx context.Context, ownerID, adID uint) (*models.Ad, error) {
	adRow, err := s.repo.AdDetailByID(ctx, adID)
	if err != nil {
		return nil, err
	}
	return checkOwned(adRow, ownerID)
}

func (s *service) ownedAdRow(ctx context.Context, ownerID, adID uint) (*models.Ad, error) {
	adRow, err := s.repo.AdByID(ctx, adID)
	if err != nil {
		return nil, err
	}
	return checkOwned(adRow, ownerID)
}

func checkOwned(adRow *models.Ad, ownerID uint) (*models.Ad, error) {
	if adRow == nil {
		return nil, domainErrors.ErrAdNotFound
	}
	if adRow.OwnerID != ownerID {
		return nil, domainErrors.ErrForbidden
	}
	if adRow.Status == models.AdStatusArchived {
		return nil, domainErrors.ErrAdArchived
	}
	return adRow, nil
}

func (s *service) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.codeGen()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.AdCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", domainErrors.ErrCodeGenerationExhausted
}

func buildFieldValues(adID uint, snap *schema.Snapshot, normalized map[string]any) ([]models.AdFieldValue, error) {
	byKey := make(map[string]uint, len(snap.Fields))
	for _, f := range snap.Fields {
		byKey[f.Key] = f.ID
	}
	values := make([]models.AdFieldValue, 0, len(normalized))
	for key, val := range normalized {
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		values = append(values, models.AdFieldValue{
			AdID:    adID,
			FieldID: byKey[key],
			Value:   datatypes.JSON(raw),
		})
	}
	return values, nil
}

func imageRows(adID uint, urls []string) []models.AdMedia {
	rows := make([]models.AdMedia, 0, len(urls))
	for i, u := range urls {
		rows = append(rows, models.AdMedia{AdID: adID, Kind: models.MediaKindImage, URL: u, OrderIndex: i})
	}
	return rows
}

func videoRow(adID uint, url string) []models.AdMedia {
	return []models.AdMedia{{AdID: adID, Kind: models.MediaKindVideo, URL: url}}
}

func detailFromModel(adRow *models.Ad) AdDetail {
	values := make(map[string]any, len(adRow.Values))
	for i := range adRow.Values {
		v := &adRow.Values[i]
		values[v.Field.Key] = decodeValue(v.Value)
	}
	images, video := splitMedia(adRow.Media)
	return AdDetail{
		ID:          adRow.ID,
		Code:        adRow.Code,
		Category:    adRow.Category.Key,
		Title:       adRow.Title,
		Price:       adRow.Price,
		City:        adRow.City,
		Status:      adRow.Status,
		CreatedAt:   adRow.CreatedAt,
		PublishedAt: adRow.PublishedAt,
		Values:      values,
		Images:      images,
		Video:       video,
	}
}

func splitMedia(media []models.AdMedia) ([]string, *string) {
	images := make([]string, 0, len(media))
	var video *string
	for i := range media {
		m := &media[i]
		switch m.Kind {
		case models.MediaKindImage:
			images = append(images, m.URL)
		case models.MediaKindVideo:
			if video == nil {
				u := m.URL
				video = &u
			}
		}
	}
	return images, video
}

func decodeValue(raw datatypes.JSON) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
