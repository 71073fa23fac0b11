// internal/services/settlement_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuentasgo/backoffice/internal/lifecycle"
	"github.com/cuentasgo/backoffice/internal/models"
)

// stubPurchaseStore keeps purchases in memory and can fail the Nth update
// call, which is how the rollback paths are exercised.
type stubPurchaseStore struct {
	purchases    map[uuid.UUID]*models.Purchase
	updateCalls  int
	failUpdateAt int // 1-based; 0 means never fail
}

func newStubStore(purchases ...*models.Purchase) *stubPurchaseStore {
	store := &stubPurchaseStore{purchases: make(map[uuid.UUID]*models.Purchase)}
	for _, p := range purchases {
		store.purchases[p.ID] = p
	}
	return store
}

func (s *stubPurchaseStore) GetByID(_ context.Context, id uuid.UUID) (*models.Purchase, error) {
	p, ok := s.purchases[id]
	if !ok {
		return nil, lifecycle.ErrPurchaseNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *stubPurchaseStore) UpdateStatus(_ context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Purchase, error) {
	s.updateCalls++
	if s.failUpdateAt > 0 && s.updateCalls == s.failUpdateAt {
		return nil, errors.New("write failed")
	}

	p, ok := s.purchases[id]
	if !ok {
		return nil, lifecycle.ErrPurchaseNotFound
	}

	if v, ok := updates["status"]; ok {
		p.Status = v.(models.PurchaseStatus)
	}
	if v, ok := updates["refund_amount"]; ok {
		p.RefundAmount = v.(float64)
	}
	if v, ok := updates["support_response"]; ok {
		p.SupportResponse = v.(string)
	}

	copied := *p
	return &copied, nil
}

type ledgerCall struct {
	userID uuid.UUID
	amount float64
}

// stubLedger records increments and fails on demand.
type stubLedger struct {
	err   error
	calls []ledgerCall
}

func (l *stubLedger) IncrementBalance(_ context.Context, userID uuid.UUID, amount float64) error {
	if l.err != nil {
		return l.err
	}
	l.calls = append(l.calls, ledgerCall{userID: userID, amount: amount})
	return nil
}

func supportPurchase(refundAmount float64) *models.Purchase {
	p := &models.Purchase{
		SellerID:     uuid.New(),
		Price:        30.0,
		Status:       models.PurchaseStatusSupport,
		RefundAmount: refundAmount,
	}
	p.ID = uuid.New()
	return p
}

func TestTransitionPurchaseNotFound(t *testing.T) {
	svc := NewSettlementService(newStubStore(), &stubLedger{}, nil)

	_, err := svc.Transition(context.Background(), uuid.New(), TransitionInput{Target: models.PurchaseStatusResolved})

	assert.ErrorIs(t, err, lifecycle.ErrPurchaseNotFound)
}

func TestTransitionInvalidNeverTouchesLedgerOrStore(t *testing.T) {
	p := supportPurchase(10.0)
	p.Status = models.PurchaseStatusResolved
	store := newStubStore(p)
	ledger := &stubLedger{}
	svc := NewSettlementService(store, ledger, nil)

	// resuelto -> reembolsado is not in the transition table.
	_, err := svc.Transition(context.Background(), p.ID, TransitionInput{Target: models.PurchaseStatusRefunded})

	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	assert.Empty(t, ledger.calls)
	assert.Zero(t, store.updateCalls)
}

func TestTransitionRefundWithZeroAmountFailsBeforeAnyWrite(t *testing.T) {
	p := supportPurchase(0)
	store := newStubStore(p)
	ledger := &stubLedger{}
	svc := NewSettlementService(store, ledger, nil)

	_, err := svc.Transition(context.Background(), p.ID, TransitionInput{Target: models.PurchaseStatusRefunded})

	assert.ErrorIs(t, err, lifecycle.ErrInsufficientRefundAmount)
	assert.Empty(t, ledger.calls)
	assert.Zero(t, store.updateCalls)
}

func TestTransitionRefundSuccess(t *testing.T) {
	p := supportPurchase(25.0)
	store := newStubStore(p)
	ledger := &stubLedger{}
	svc := NewSettlementService(store, ledger, nil)

	res, err := svc.Transition(context.Background(), p.ID, TransitionInput{Target: models.PurchaseStatusRefunded})

	require.NoError(t, err)
	assert.True(t, res.RefundProcessed)
	assert.Equal(t, 25.0, res.RefundAmount)
	assert.Equal(t, models.PurchaseStatusRefunded, res.Purchase.Status)

	require.Len(t, ledger.calls, 1)
	assert.Equal(t, p.SellerID, ledger.calls[0].userID)
	assert.Equal(t, 25.0, ledger.calls[0].amount)
}

func TestTransitionRefundAmountOverride(t *testing.T) {
	p := supportPurchase(0)
	store := newStubStore(p)
	ledger := &stubLedger{}
	svc := NewSettlementService(store, ledger, nil)

	amount := 12.5
	res, err := svc.Transition(context.Background(), p.ID, TransitionInput{
		Target:       models.PurchaseStatusRefunded,
		RefundAmount: &amount,
	})

	require.NoError(t, err)
	assert.Equal(t, 12.5, res.RefundAmount)
	assert.Equal(t, 12.5, store.purchases[p.ID].RefundAmount)
	require.Len(t, ledger.calls, 1)
	assert.Equal(t, 12.5, ledger.calls[0].amount)
}

func TestTransitionNonRefundTargetIgnoresRefundOverride(t *testing.T) {
	p := supportPurchase(0)
	store := newStubStore(p)
	ledger := &stubLedger{}
	svc := NewSettlementService(store, ledger, nil)

	amount := 50.0
	res, err := svc.Transition(context.Background(), p.ID, TransitionInput{
		Target:       models.PurchaseStatusResolved,
		RefundAmount: &amount,
	})

	require.NoError(t, err)
	assert.False(t, res.RefundProcessed)
	assert.Zero(t, res.RefundAmount)
	// The override never lands outside the refund path.
	assert.Zero(t, store.purchases[p.ID].RefundAmount)
	assert.Empty(t, ledger.calls)
}

func TestTransitionLedgerFailureRestoresPriorStatus(t *testing.T) {
	p := supportPurchase(25.0)
	store := newStubStore(p)
	ledger := &stubLedger{err: errors.New("ledger unavailable")}
	svc := NewSettlementService(store, ledger, nil)

	_, err := svc.Transition(context.Background(), p.ID, TransitionInput{Target: models.PurchaseStatusRefunded})

	assert.ErrorIs(t, err, lifecycle.ErrRefundFailed)
	assert.Equal(t, models.PurchaseStatusSupport, store.purchases[p.ID].Status)
	// Status write plus the compensating restore.
	assert.Equal(t, 2, store.updateCalls)
}

func TestTransitionRollbackFailureIsDistinct(t *testing.T) {
	p := supportPurchase(25.0)
	store := newStubStore(p)
	store.failUpdateAt = 2 // first write lands, the compensating restore fails
	ledger := &stubLedger{err: errors.New("ledger unavailable")}
	svc := NewSettlementService(store, ledger, nil)

	_, err := svc.Transition(context.Background(), p.ID, TransitionInput{Target: models.PurchaseStatusRefunded})

	assert.ErrorIs(t, err, lifecycle.ErrRollbackFailed)
	assert.NotErrorIs(t, err, lifecycle.ErrRefundFailed)
	// The inconsistency is visible: status stayed reembolsado with no credit.
	assert.Equal(t, models.PurchaseStatusRefunded, store.purchases[p.ID].Status)
}

func TestTransitionWithoutRefundSkipsLedger(t *testing.T) {
	p := supportPurchase(25.0)
	store := newStubStore(p)
	ledger := &stubLedger{}
	svc := NewSettlementService(store, ledger, nil)

	response := "credentials reissued"
	res, err := svc.Transition(context.Background(), p.ID, TransitionInput{
		Target:          models.PurchaseStatusResolved,
		SupportResponse: &response,
	})

	require.NoError(t, err)
	assert.False(t, res.RefundProcessed)
	assert.Zero(t, res.RefundAmount)
	assert.Empty(t, ledger.calls)
	assert.Equal(t, models.PurchaseStatusResolved, store.purchases[p.ID].Status)
	assert.Equal(t, response, store.purchases[p.ID].SupportResponse)
}

func TestTransitionExpiredIsIdempotent(t *testing.T) {
	p := supportPurchase(0)
	p.Status = models.PurchaseStatusExpired
	store := newStubStore(p)
	svc := NewSettlementService(store, &stubLedger{}, nil)

	res, err := svc.Transition(context.Background(), p.ID, TransitionInput{Target: models.PurchaseStatusExpired})

	require.NoError(t, err)
	assert.False(t, res.RefundProcessed)
	assert.Zero(t, store.updateCalls)
}

func TestBulkTransitionContinuesPastFailures(t *testing.T) {
	first := supportPurchase(10.0)
	third := supportPurchase(30.0)
	store := newStubStore(first, third)
	ledger := &stubLedger{}
	svc := NewSettlementService(store, ledger, nil)

	missing := uuid.New()
	result := svc.BulkTransition(context.Background(),
		[]uuid.UUID{first.ID, missing, third.ID},
		models.PurchaseStatusRefunded)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, 40.0, result.TotalRefunded)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, missing, result.Failures[0].PurchaseID)

	// Sequential processing: ledger credits land in submission order.
	require.Len(t, ledger.calls, 2)
	assert.Equal(t, first.SellerID, ledger.calls[0].userID)
	assert.Equal(t, third.SellerID, ledger.calls[1].userID)
}

func TestBulkTransitionCountsOnlyRefundedAmounts(t *testing.T) {
	refunded := supportPurchase(15.0)
	resolved := supportPurchase(99.0)
	resolved.Status = models.PurchaseStatusExpired
	store := newStubStore(refunded, resolved)
	svc := NewSettlementService(store, &stubLedger{}, nil)

	// vencido -> reembolsado is illegal, so only the first id refunds.
	result := svc.BulkTransition(context.Background(),
		[]uuid.UUID{refunded.ID, resolved.ID},
		models.PurchaseStatusRefunded)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, 15.0, result.TotalRefunded)
}
