// Package schema serves category schema snapshots: the category row plus its
// ordered field definitions. Read-only; definitions are seeded and resynced
// by out-of-band tooling, so every request works from an immutable snapshot
// and never observes a half-updated choice list.
package schema

import (
	"context"
	"encoding/json"
	"log"
	"time"

	domainErrors "adsouq/internal/errors"
	"adsouq/internal/models"
)

// Snapshot is one category's schema at a point in time.
type Snapshot struct {
	Category models.AdCategory        `json:"category"`
	Fields   []models.FieldDefinition `json:"fields"`
}

// Repository is the persistence seam for schema reads.
type Repository interface {
	// CategoryByKey returns nil when the key is unknown.
	CategoryByKey(ctx context.Context, key string) (*models.AdCategory, error)
	// FieldsForCategory returns definitions ordered by (order_index, key)
	// with their field types loaded.
	FieldsForCategory(ctx context.Context, categoryID uint) ([]models.FieldDefinition, error)
}

// Cache stores serialized snapshots. Get reports a miss through the bool.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
}

// CacheKey builds the cache key for one category's schema snapshot. Seed
// tooling uses the same key to invalidate entries after a resync.
func CacheKey(categoryKey string) string {
	return "schema:" + categoryKey
}

// Service exposes schema snapshots to the rest of the application.
type Service interface {
	GetCategorySchema(ctx context.Context, categoryKey string) (*Snapshot, error)
}

type service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
}

// NewService creates a new schema service. cache may be nil in tests and
// tooling; snapshots are then always read from the database.
func NewService(repo Repository, cache Cache, ttl time.Duration) Service {
	if repo == nil {
		panic("schema repository is required")
	}
	return &service{repo: repo, cache: cache, ttl: ttl}
}

func (s *service) GetCategorySchema(ctx context.Context, categoryKey string) (*Snapshot, error) {
	if snap := s.fromCache(ctx, categoryKey); snap != nil {
		return snap, nil
	}

	cat, err := s.repo.CategoryByKey(ctx, categoryKey)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domainErrors.ErrCategoryNotFound
	}

	fields, err := s.repo.FieldsForCategory(ctx, cat.ID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Category: *cat, Fields: fields}
	s.toCache(ctx, categoryKey, snap)
	return snap, nil
}

func (s *service) fromCache(ctx context.Context, key string) *Snapshot {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, CacheKey(key))
	if err != nil {
		log.Printf("schema cache read failed for %s: %v", key, err)
		return nil
	}
	if !ok {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		log.Printf("schema cache entry for %s is corrupt: %v", key, err)
		return nil
	}
	return &snap
}

func (s *service) toCache(ctx context.Context, key string, snap *Snapshot) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, CacheKey(key), string(data), s.ttl); err != nil {
		log.Printf("schema cache write failed for %s: %v", key, err)
	}
}
