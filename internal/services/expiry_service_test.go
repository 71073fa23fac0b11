// internal/services/expiry_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuentasgo/backoffice/internal/models"
)

type stubCandidateSource struct {
	purchases []models.Purchase
	err       error
}

func (s *stubCandidateSource) ExpirationCandidates(_ context.Context) ([]models.Purchase, error) {
	return s.purchases, s.err
}

// stubTransitioner records which purchases got transitioned and can fail for
// chosen ids.
type stubTransitioner struct {
	calls   []uuid.UUID
	failFor map[uuid.UUID]error
}

func (s *stubTransitioner) Transition(_ context.Context, purchaseID uuid.UUID, _ TransitionInput) (*TransitionResult, error) {
	if err, ok := s.failFor[purchaseID]; ok {
		return nil, err
	}
	s.calls = append(s.calls, purchaseID)
	return &TransitionResult{}, nil
}

type stubStockMarker struct {
	marked []uuid.UUID
	err    error
}

func (s *stubStockMarker) MarkStockExpired(_ context.Context, stockAccountID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.marked = append(s.marked, stockAccountID)
	return nil
}

func deliveredPurchase(expirationDate string) models.Purchase {
	stock := &models.StockAccount{ExpirationDate: expirationDate}
	stock.ID = uuid.New()

	p := models.Purchase{
		SellerID:       uuid.New(),
		Status:         models.PurchaseStatusDelivered,
		StockAccountID: &stock.ID,
		StockAccount:   stock,
	}
	p.ID = uuid.New()
	return p
}

func TestSweepExpiresOnlyDueStock(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	overdue := deliveredPurchase("2025-06-10")
	dueToday := deliveredPurchase("2025-06-15")
	future := deliveredPurchase("2025-06-20")

	source := &stubCandidateSource{purchases: []models.Purchase{overdue, dueToday, future}}
	trans := &stubTransitioner{}
	marker := &stubStockMarker{}
	svc := NewExpiryService(source, trans, marker, time.Hour)

	result, err := svc.Sweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Zero(t, result.FailedCount)
	assert.Equal(t, []uuid.UUID{overdue.ID, dueToday.ID}, trans.calls)
	assert.Equal(t, []uuid.UUID{overdue.StockAccount.ID, dueToday.StockAccount.ID}, marker.marked)
}

func TestSweepSkipsUnparseableAndMissingDates(t *testing.T) {
	garbage := deliveredPurchase("sin fecha")
	noStock := deliveredPurchase("")
	noStock.StockAccount = nil

	source := &stubCandidateSource{purchases: []models.Purchase{garbage, noStock}}
	trans := &stubTransitioner{}
	svc := NewExpiryService(source, trans, &stubStockMarker{}, time.Hour)

	result, err := svc.Sweep(context.Background(), time.Now())

	require.NoError(t, err)
	// Neither a success nor a failure: skipped entirely.
	assert.Zero(t, result.SuccessCount)
	assert.Zero(t, result.FailedCount)
	assert.Empty(t, trans.calls)
}

func TestSweepContinuesPastTransitionFailures(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	first := deliveredPurchase("2025-06-01")
	second := deliveredPurchase("2025-06-02")
	third := deliveredPurchase("2025-06-03")

	source := &stubCandidateSource{purchases: []models.Purchase{first, second, third}}
	trans := &stubTransitioner{failFor: map[uuid.UUID]error{second.ID: errors.New("write failed")}}
	marker := &stubStockMarker{}
	svc := NewExpiryService(source, trans, marker, time.Hour)

	result, err := svc.Sweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, second.ID, result.Failures[0].PurchaseID)
	// A failed transition never marks the stock.
	assert.Equal(t, []uuid.UUID{first.StockAccount.ID, third.StockAccount.ID}, marker.marked)
}

func TestSweepPropagatesCandidateListingError(t *testing.T) {
	source := &stubCandidateSource{err: errors.New("database unavailable")}
	svc := NewExpiryService(source, &stubTransitioner{}, &stubStockMarker{}, time.Hour)

	_, err := svc.Sweep(context.Background(), time.Now())

	assert.Error(t, err)
}
