package schema

import (
	"context"
	"testing"
	"time"

	domainErrors "adsouq/internal/errors"
	"adsouq/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSchemaRepo struct {
	category *models.AdCategory
	fields   []models.FieldDefinition
	calls    int
}

func (r *fakeSchemaRepo) CategoryByKey(ctx context.Context, key string) (*models.AdCategory, error) {
	r.calls++
	if r.category == nil || r.category.Key != key {
		return nil, nil
	}
	return r.category, nil
}

func (r *fakeSchemaRepo) FieldsForCategory(ctx context.Context, categoryID uint) ([]models.FieldDefinition, error) {
	return r.fields, nil
}

type fakeCache struct {
	entries map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func carsRepo() *fakeSchemaRepo {
	cat := &models.AdCategory{Key: "cars", NameEn: "Cars"}
	cat.ID = 7
	field := models.FieldDefinition{Key: "make", Required: true}
	field.ID = 100
	return &fakeSchemaRepo{category: cat, fields: []models.FieldDefinition{field}}
}

func TestGetCategorySchema(t *testing.T) {
	repo := carsRepo()
	svc := NewService(repo, nil, time.Minute)

	snap, err := svc.GetCategorySchema(context.Background(), "cars")
	require.NoError(t, err)
	assert.Equal(t, "cars", snap.Category.Key)
	require.Len(t, snap.Fields, 1)
	assert.Equal(t, "make", snap.Fields[0].Key)
}

func TestGetCategorySchemaUnknown(t *testing.T) {
	svc := NewService(carsRepo(), nil, time.Minute)

	_, err := svc.GetCategorySchema(context.Background(), "boats")
	assert.ErrorIs(t, err, domainErrors.ErrCategoryNotFound)
}

func TestGetCategorySchemaUsesCache(t *testing.T) {
	repo := carsRepo()
	cache := newFakeCache()
	svc := NewService(repo, cache, time.Minute)

	_, err := svc.GetCategorySchema(context.Background(), "cars")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Contains(t, cache.entries, CacheKey("cars"))

	snap, err := svc.GetCategorySchema(context.Background(), "cars")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second read served from cache")
	assert.Equal(t, "cars", snap.Category.Key)
}

func TestGetCategorySchemaCorruptCacheFallsThrough(t *testing.T) {
	repo := carsRepo()
	cache := newFakeCache()
	cache.entries[CacheKey("cars")] = "{not json"

	svc := NewService(repo, cache, time.Minute)
	snap, err := svc.GetCategorySchema(context.Background(), "cars")
	require.NoError(t, err)
	assert.Equal(t, "cars", snap.Category.Key)
	assert.Equal(t, 1, repo.calls, "corrupt entry forces a database read")
}
