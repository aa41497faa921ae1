// Package sticker enacts the QR sticker lifecycle: Unbound → Bound → Active,
// one-directional. Activation binds one physical code to exactly one ad,
// flips it active exactly once and publishes the ad, all inside a single
// locked transaction, so concurrent scans cannot both believe they are
// first. Every hit is appended to the scan audit log.
package sticker

import (
	"context"
	"log"
	"time"

	domainErrors "adsouq/internal/errors"
	"adsouq/internal/models"
)

// Service defines the QR lifecycle operations.
type Service interface {
	// Claim binds a provisioned code to the caller's ad without activating
	// or publishing anything. Idempotent when already bound to the same ad.
	Claim(ctx context.Context, ownerID, adID uint, code string) error
	// Activate is the first-scan transition: bind if needed, set activated,
	// publish the ad, log the scan. Safe to retry; repeated calls succeed.
	Activate(ctx context.Context, ownerID, adID uint, code string, meta ScanMeta) (*ActivationResult, error)
	// RecordScan handles an unauthenticated landing-page hit: always logs
	// and counts it, then reports which outcome applies.
	RecordScan(ctx context.Context, code string, meta ScanMeta) (*ScanResult, error)
}

type service struct {
	store   Store
	urls    PublicURLBuilder
	metrics MetricsCollector
}

// NewService creates a new sticker lifecycle service.
func NewService(store Store, urls PublicURLBuilder, metrics MetricsCollector) Service {
	if store == nil {
		panic("sticker store is required")
	}
	if urls == nil {
		panic("public URL builder is required")
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	return &service{store: store, urls: urls, metrics: metrics}
}

func (s *service) Claim(ctx context.Context, ownerID, adID uint, code string) error {
	return s.store.WithinTransaction(ctx, func(tx Store) error {
		qr, err := tx.QRCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if qr == nil {
			return domainErrors.ErrQRNotProvisioned
		}

		adRow, err := s.ownedAd(ctx, tx, ownerID, adID)
		if err != nil {
			return err
		}

		if qr.AdID != nil {
			if *qr.AdID != adRow.ID {
				return domainErrors.ErrQRAlreadyAssigned
			}
			// Already claimed by this ad.
			return nil
		}

		other, err := tx.OtherQRCodeForAd(ctx, adRow.ID, qr.ID)
		if err != nil {
			return err
		}
		if other != nil {
			return domainErrors.ErrAdAlreadyHasQR
		}

		qr.AdID = &adRow.ID
		qr.IsAssigned = true
		return tx.SaveQRCode(ctx, qr)
	})
}

func (s *service) Activate(ctx context.Context, ownerID, adID uint, code string, meta ScanMeta) (*ActivationResult, error) {
	var result *ActivationResult

	err := s.store.WithinTransaction(ctx, func(tx Store) error {
		// The lock is taken before any state is read; everything below is
		// decided under it.
		qr, err := tx.QRCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if qr == nil {
			return domainErrors.ErrQRNotProvisioned
		}

		adRow, err := s.ownedAd(ctx, tx, ownerID, adID)
		if err != nil {
			return err
		}

		if qr.AdID != nil && *qr.AdID != adRow.ID {
			return domainErrors.ErrQRAlreadyAssigned
		}

		now := time.Now()

		if qr.AdID != nil && qr.IsActivated && adRow.Status == models.AdStatusPublished {
			// Flaky clients retry; the retry must not error.
			if err := s.logScan(ctx, tx, qr, &adRow.ID, now, meta); err != nil {
				return err
			}
			result = &ActivationResult{PublicURL: s.urls(adRow.Code), AlreadyActive: true}
			return nil
		}

		// The QR→Ad foreign key cannot express "one sticker per ad", so the
		// reverse direction is checked here, under the same lock.
		other, err := tx.OtherQRCodeForAd(ctx, adRow.ID, qr.ID)
		if err != nil {
			return err
		}
		if other != nil {
			return domainErrors.ErrAdAlreadyHasQR
		}

		if qr.AdID == nil {
			qr.AdID = &adRow.ID
			qr.IsAssigned = true
		}
		qr.IsActivated = true
		if err := tx.SaveQRCode(ctx, qr); err != nil {
			return err
		}

		if adRow.Status != models.AdStatusPublished {
			if err := tx.PublishAd(ctx, adRow, now); err != nil {
				return err
			}
		}

		if err := s.logScan(ctx, tx, qr, &adRow.ID, now, meta); err != nil {
			return err
		}

		result = &ActivationResult{PublicURL: s.urls(adRow.Code)}
		return nil
	})
	if err != nil {
		s.metrics.RecordActivation(outcomeLabel(err))
		return nil, err
	}

	if result.AlreadyActive {
		s.metrics.RecordActivation("already_active")
	} else {
		s.metrics.RecordActivation("activated")
		log.Printf("QR %s activated, ad %d published", code, adID)
	}
	return result, nil
}

func (s *service) RecordScan(ctx context.Context, code string, meta ScanMeta) (*ScanResult, error) {
	var result *ScanResult

	err := s.store.WithinTransaction(ctx, func(tx Store) error {
		// Locked too, so the audit log order for one code is arrival order.
		qr, err := tx.QRCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if qr == nil {
			return domainErrors.ErrQRNotProvisioned
		}

		if err := s.logScan(ctx, tx, qr, qr.AdID, time.Now(), meta); err != nil {
			return err
		}

		if qr.AdID == nil {
			result = &ScanResult{Outcome: OutcomeNotAssigned}
			return nil
		}
		if !qr.IsActivated {
			result = &ScanResult{Outcome: OutcomeNotActivated}
			return nil
		}

		adRow, err := tx.AdByID(ctx, *qr.AdID)
		if err != nil {
			return err
		}
		if adRow == nil {
			return domainErrors.ErrAdNotFound
		}
		result = &ScanResult{Outcome: OutcomeActive, PublicURL: s.urls(adRow.Code)}
		return nil
	})
	if err != nil {
		s.metrics.RecordScan(outcomeLabel(err))
		return nil, err
	}

	s.metrics.RecordScan(string(result.Outcome))
	return result, nil
}

func (s *service) ownedAd(ctx context.Context, tx Store, ownerID, adID uint) (*models.Ad, error) {
	adRow, err := tx.AdByID(ctx, adID)
	if err != nil {
		return nil, err
	}
	if adRow == nil {
		return nil, domainErrors.ErrAdNotFound
	}
	if adRow.OwnerID != ownerID {
		return nil, domainErrors.ErrForbidden
	}
	if adRow.Status == models.AdStatusArchived {
		// Archived ads are gone for lifecycle purposes; they never republish.
		return nil, domainErrors.ErrAdNotFound
	}
	return adRow, nil
}

func (s *service) logScan(ctx context.Context, tx Store, qr *models.QRCode, adID *uint, at time.Time, meta ScanMeta) error {
	entry := &models.QRScanLog{
		QRCodeID:  qr.ID,
		AdID:      adID,
		ScannedAt: at,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}
	if err := tx.AppendScanLog(ctx, entry); err != nil {
		return err
	}
	return tx.BumpScanCounters(ctx, qr.ID, at)
}

func outcomeLabel(err error) string {
	if derr, ok := err.(*domainErrors.DomainError); ok {
		return derr.Code
	}
	return "error"
}
