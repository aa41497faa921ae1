package sticker

import (
	"context"
	"sync"
	"testing"
	"time"

	domainErrors "adsouq/internal/errors"
	"adsouq/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store. A single mutex held for the whole
// transaction stands in for row locking, which gives the same serialization
// the service expects from the database.
type fakeStore struct {
	mu   sync.Mutex
	qrs  map[string]*models.QRCode
	ads  map[uint]*models.Ad
	logs []models.QRScanLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		qrs: map[string]*models.QRCode{},
		ads: map[uint]*models.Ad{},
	}
}

func (s *fakeStore) addQR(code string) *models.QRCode {
	qr := &models.QRCode{Code: code}
	qr.ID = uint(len(s.qrs) + 1)
	s.qrs[code] = qr
	return qr
}

func (s *fakeStore) addAd(id, ownerID uint, status string) *models.Ad {
	adRow := &models.Ad{OwnerID: ownerID, Code: "AM-TEST01", Status: status}
	adRow.ID = id
	s.ads[id] = adRow
	return adRow
}

func (s *fakeStore) WithinTransaction(ctx context.Context, fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot for rollback.
	qrs := make(map[string]*models.QRCode, len(s.qrs))
	for k, v := range s.qrs {
		clone := *v
		qrs[k] = &clone
	}
	ads := make(map[uint]*models.Ad, len(s.ads))
	for k, v := range s.ads {
		clone := *v
		ads[k] = &clone
	}
	logCount := len(s.logs)

	err := fn(s)
	if err != nil {
		s.qrs = qrs
		s.ads = ads
		s.logs = s.logs[:logCount]
	}
	return err
}

func (s *fakeStore) QRCodeForUpdate(ctx context.Context, code string) (*models.QRCode, error) {
	qr, ok := s.qrs[code]
	if !ok {
		return nil, nil
	}
	clone := *qr
	return &clone, nil
}

func (s *fakeStore) OtherQRCodeForAd(ctx context.Context, adID, excludeID uint) (*models.QRCode, error) {
	for _, qr := range s.qrs {
		if qr.AdID != nil && *qr.AdID == adID && qr.ID != excludeID {
			clone := *qr
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SaveQRCode(ctx context.Context, qr *models.QRCode) error {
	clone := *qr
	s.qrs[qr.Code] = &clone
	return nil
}

func (s *fakeStore) AdByID(ctx context.Context, id uint) (*models.Ad, error) {
	adRow, ok := s.ads[id]
	if !ok {
		return nil, nil
	}
	clone := *adRow
	return &clone, nil
}

func (s *fakeStore) PublishAd(ctx context.Context, adRow *models.Ad, at time.Time) error {
	stored := s.ads[adRow.ID]
	stored.Status = models.AdStatusPublished
	stored.PublishedAt = &at
	adRow.Status = models.AdStatusPublished
	adRow.PublishedAt = &at
	return nil
}

func (s *fakeStore) AppendScanLog(ctx context.Context, entry *models.QRScanLog) error {
	s.logs = append(s.logs, *entry)
	return nil
}

func (s *fakeStore) BumpScanCounters(ctx context.Context, qrID uint, at time.Time) error {
	for _, qr := range s.qrs {
		if qr.ID != qrID {
			continue
		}
		qr.ScansCount++
		if qr.FirstScanAt == nil {
			t := at
			qr.FirstScanAt = &t
		}
		t := at
		qr.LastScanAt = &t
	}
	return nil
}

func testURLs(adCode string) string {
	return "https://ads.example/ads/" + adCode
}

func newTestService(store *fakeStore) Service {
	return NewService(store, testURLs, nil)
}

func TestClaim(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addAd(5, 1, models.AdStatusDraft)

	svc := newTestService(store)
	require.NoError(t, svc.Claim(context.Background(), 1, 5, "STICKER1"))

	qr := store.qrs["STICKER1"]
	require.NotNil(t, qr.AdID)
	assert.Equal(t, uint(5), *qr.AdID)
	assert.True(t, qr.IsAssigned)
	assert.False(t, qr.IsActivated, "claim must not activate")
	assert.Equal(t, models.AdStatusDraft, store.ads[5].Status, "claim must not publish")
}

func TestClaimIdempotentForSameAd(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addAd(5, 1, models.AdStatusDraft)

	svc := newTestService(store)
	require.NoError(t, svc.Claim(context.Background(), 1, 5, "STICKER1"))
	require.NoError(t, svc.Claim(context.Background(), 1, 5, "STICKER1"))
}

func TestClaimConflicts(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addQR("STICKER2")
	store.addAd(5, 1, models.AdStatusDraft)
	store.addAd(6, 1, models.AdStatusDraft)

	svc := newTestService(store)
	require.NoError(t, svc.Claim(context.Background(), 1, 5, "STICKER1"))

	// Same sticker, different ad.
	err := svc.Claim(context.Background(), 1, 6, "STICKER1")
	assert.ErrorIs(t, err, domainErrors.ErrQRAlreadyAssigned)

	// Different sticker, same ad.
	err = svc.Claim(context.Background(), 1, 5, "STICKER2")
	assert.ErrorIs(t, err, domainErrors.ErrAdAlreadyHasQR)
}

func TestClaimUnknownCode(t *testing.T) {
	store := newFakeStore()
	store.addAd(5, 1, models.AdStatusDraft)

	err := newTestService(store).Claim(context.Background(), 1, 5, "NOPE")
	assert.ErrorIs(t, err, domainErrors.ErrQRNotProvisioned)
}

func TestClaimForeignAd(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addAd(5, 2, models.AdStatusDraft)

	err := newTestService(store).Claim(context.Background(), 1, 5, "STICKER1")
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
}

func TestActivatePublishesDraft(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addAd(5, 1, models.AdStatusDraft)

	svc := newTestService(store)
	result, err := svc.Activate(context.Background(), 1, 5, "STICKER1", ScanMeta{IP: "10.0.0.1"})
	require.NoError(t, err)

	assert.False(t, result.AlreadyActive)
	assert.Equal(t, "https://ads.example/ads/AM-TEST01", result.PublicURL)

	qr := store.qrs["STICKER1"]
	assert.True(t, qr.IsAssigned)
	assert.True(t, qr.IsActivated)
	assert.Equal(t, 1, qr.ScansCount)
	require.NotNil(t, qr.FirstScanAt)

	adRow := store.ads[5]
	assert.Equal(t, models.AdStatusPublished, adRow.Status)
	require.NotNil(t, adRow.PublishedAt)

	require.Len(t, store.logs, 1)
	assert.Equal(t, "10.0.0.1", store.logs[0].IP)
}

func TestActivateRetryIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addAd(5, 1, models.AdStatusDraft)

	svc := newTestService(store)
	first, err := svc.Activate(context.Background(), 1, 5, "STICKER1", ScanMeta{})
	require.NoError(t, err)
	second, err := svc.Activate(context.Background(), 1, 5, "STICKER1", ScanMeta{})
	require.NoError(t, err)

	assert.False(t, first.AlreadyActive)
	assert.True(t, second.AlreadyActive)
	assert.Equal(t, first.PublicURL, second.PublicURL)

	// Both attempts hit the audit trail and the counters.
	assert.Equal(t, 2, store.qrs["STICKER1"].ScansCount)
	assert.Len(t, store.logs, 2)
}

func TestActivateRejectsSecondStickerForAd(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addQR("STICKER2")
	store.addAd(5, 1, models.AdStatusDraft)

	svc := newTestService(store)
	_, err := svc.Activate(context.Background(), 1, 5, "STICKER1", ScanMeta{})
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), 1, 5, "STICKER2", ScanMeta{})
	assert.ErrorIs(t, err, domainErrors.ErrAdAlreadyHasQR)

	// The failed attempt must leave no trace.
	assert.False(t, store.qrs["STICKER2"].IsActivated)
	assert.Len(t, store.logs, 1)
}

func TestActivateArchivedAd(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addAd(5, 1, models.AdStatusArchived)

	_, err := newTestService(store).Activate(context.Background(), 1, 5, "STICKER1", ScanMeta{})
	assert.ErrorIs(t, err, domainErrors.ErrAdNotFound)
}

func TestActivateConcurrent(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addAd(5, 1, models.AdStatusDraft)

	svc := newTestService(store)

	const n = 32
	var wg sync.WaitGroup
	results := make([]*ActivationResult, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Activate(context.Background(), 1, 5, "STICKER1", ScanMeta{})
		}(i)
	}
	wg.Wait()

	firstCount := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		if !results[i].AlreadyActive {
			firstCount++
		}
	}
	assert.Equal(t, 1, firstCount, "exactly one caller wins the first activation")
	assert.Equal(t, n, store.qrs["STICKER1"].ScansCount)
	assert.Len(t, store.logs, n)
	assert.Equal(t, models.AdStatusPublished, store.ads[5].Status)
}

func TestRecordScanOutcomes(t *testing.T) {
	store := newFakeStore()
	store.addQR("STICKER1")
	store.addAd(5, 1, models.AdStatusDraft)

	svc := newTestService(store)

	// Unassigned sticker.
	result, err := svc.RecordScan(context.Background(), "STICKER1", ScanMeta{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotAssigned, result.Outcome)
	assert.Empty(t, result.PublicURL)

	// Claimed but not activated.
	require.NoError(t, svc.Claim(context.Background(), 1, 5, "STICKER1"))
	result, err = svc.RecordScan(context.Background(), "STICKER1", ScanMeta{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotActivated, result.Outcome)

	// Activated.
	_, err = svc.Activate(context.Background(), 1, 5, "STICKER1", ScanMeta{})
	require.NoError(t, err)
	result, err = svc.RecordScan(context.Background(), "STICKER1", ScanMeta{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeActive, result.Outcome)
	assert.Equal(t, "https://ads.example/ads/AM-TEST01", result.PublicURL)

	// Every hit landed in the audit log: 3 scans plus the activation.
	assert.Len(t, store.logs, 4)
	assert.Equal(t, 4, store.qrs["STICKER1"].ScansCount)
}

func TestRecordScanUnknownCode(t *testing.T) {
	store := newFakeStore()
	_, err := newTestService(store).RecordScan(context.Background(), "NOPE", ScanMeta{})
	assert.ErrorIs(t, err, domainErrors.ErrQRNotProvisioned)
	assert.Empty(t, store.logs, "nothing is logged for unprovisioned codes")
}
