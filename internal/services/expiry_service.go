// internal/services/expiry_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuentasgo/backoffice/internal/expiry"
	"github.com/cuentasgo/backoffice/internal/models"
)

// ExpirationCandidateSource lists the purchases the sweeper evaluates.
type ExpirationCandidateSource interface {
	ExpirationCandidates(ctx context.Context) ([]models.Purchase, error)
}

// PurchaseTransitioner is the sweeper's only write path into purchase state.
type PurchaseTransitioner interface {
	Transition(ctx context.Context, purchaseID uuid.UUID, input TransitionInput) (*TransitionResult, error)
}

// StockMarker flips an expired purchase's stock account out of circulation.
type StockMarker interface {
	MarkStockExpired(ctx context.Context, stockAccountID uuid.UUID) error
}

// ExpiryService is the scheduler collaborator that expires delivered
// purchases once their stock account's remaining days reach zero. All status
// mutation goes through the settlement engine; re-sweeping an already
// expired purchase is a no-op there, so the sweep needs no bookkeeping of
// its own.
type ExpiryService struct {
	candidates ExpirationCandidateSource
	settlement PurchaseTransitioner
	stock      StockMarker
	interval   time.Duration
}

func NewExpiryService(candidates ExpirationCandidateSource, settlement PurchaseTransitioner, stock StockMarker, interval time.Duration) *ExpiryService {
	return &ExpiryService{
		candidates: candidates,
		settlement: settlement,
		stock:      stock,
		interval:   interval,
	}
}

// Sweep finds delivered purchases whose stock account is due today or
// overdue and transitions each to vencido. Items are processed sequentially
// and one failure never stops the sweep.
func (s *ExpiryService) Sweep(ctx context.Context, now time.Time) (BulkResult, error) {
	candidates, err := s.candidates.ExpirationCandidates(ctx)
	if err != nil {
		return BulkResult{}, err
	}

	var result BulkResult
	for i := range candidates {
		purchase := &candidates[i]
		if purchase.StockAccount == nil || purchase.StockAccount.ExpirationDate == "" {
			continue
		}

		days, err := expiry.DaysRemaining(purchase.StockAccount.ExpirationDate, now)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"purchase_id":     purchase.ID,
				"expiration_date": purchase.StockAccount.ExpirationDate,
			}).WithError(err).Warn("Skipping purchase with unparseable expiration date")
			continue
		}
		if days > 0 {
			continue
		}

		if _, err := s.settlement.Transition(ctx, purchase.ID, TransitionInput{Target: models.PurchaseStatusExpired}); err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, BulkFailure{PurchaseID: purchase.ID, Error: err.Error()})
			continue
		}
		result.SuccessCount++

		if err := s.stock.MarkStockExpired(ctx, purchase.StockAccount.ID); err != nil {
			logrus.WithField("stock_account_id", purchase.StockAccount.ID).
				WithError(err).Warn("Failed to mark stock account expired")
		}
	}

	if result.SuccessCount > 0 || result.FailedCount > 0 {
		logrus.WithFields(logrus.Fields{
			"expired": result.SuccessCount,
			"failed":  result.FailedCount,
		}).Info("Expiration sweep completed")
	}

	return result, nil
}

// Run sweeps on the configured interval until the context is cancelled. An
// in-flight sweep runs to completion; cancellation only stops scheduling.
func (s *ExpiryService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logrus.WithField("interval", s.interval).Info("Expiration sweeper started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Expiration sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, time.Now()); err != nil {
				logrus.WithError(err).Error("Expiration sweep failed")
			}
		}
	}
}
