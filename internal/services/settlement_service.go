// internal/services/settlement_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cuentasgo/backoffice/internal/lifecycle"
	"github.com/cuentasgo/backoffice/internal/models"
)

// PurchaseStore is the settlement engine's view of purchase persistence:
// point lookup and partial update by id returning the updated record.
type PurchaseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Purchase, error)
}

// WalletLedger is the balance-holding collaborator, reachable only through an
// atomic increment. The operation is server-side atomic in a single round
// trip; the engine never reads a balance to write it back.
type WalletLedger interface {
	IncrementBalance(ctx context.Context, userID uuid.UUID, amount float64) error
}

// SettlementService orchestrates guarded purchase status transitions and the
// wallet credit a refund implies. The purchase record and the wallet balance
// live in independently-updatable resources with no shared transaction
// boundary, so the refund path persists the status first, treats the ledger
// call as the commit point, and compensates by restoring the prior status
// when the ledger call fails.
type SettlementService struct {
	purchases PurchaseStore
	ledger    WalletLedger
	db        *gorm.DB
}

// TransitionInput carries the target state plus the optional fields an
// operator sets while resolving a support case.
type TransitionInput struct {
	Target          models.PurchaseStatus `json:"target" validate:"required"`
	RefundAmount    *float64              `json:"refund_amount,omitempty" validate:"omitempty,gt=0"`
	SupportResponse *string               `json:"support_response,omitempty"`
}

type TransitionResult struct {
	Purchase        *models.Purchase `json:"purchase"`
	RefundProcessed bool             `json:"refund_processed"`
	RefundAmount    float64          `json:"refund_amount"`
}

type BulkFailure struct {
	PurchaseID uuid.UUID `json:"purchase_id"`
	Error      string    `json:"error"`
}

type BulkResult struct {
	SuccessCount  int           `json:"success_count"`
	FailedCount   int           `json:"failed_count"`
	TotalRefunded float64       `json:"total_refunded"`
	Failures      []BulkFailure `json:"failures,omitempty"`
}

// NewSettlementService wires the engine to its collaborators. db is used
// only for audit logging and may be nil in tests.
func NewSettlementService(purchases PurchaseStore, ledger WalletLedger, db *gorm.DB) *SettlementService {
	return &SettlementService{
		purchases: purchases,
		ledger:    ledger,
		db:        db,
	}
}

// Transition moves one purchase to the target state.
//
// The refund path is a two-step sequence: persist the status change, then
// credit the seller's wallet. On a ledger failure the prior status is
// restored; if that compensating write also fails the purchase is left
// reading reembolsado with no matching credit, which is surfaced as the
// distinct lifecycle.ErrRollbackFailed and logged for manual reconciliation.
func (s *SettlementService) Transition(ctx context.Context, purchaseID uuid.UUID, input TransitionInput) (*TransitionResult, error) {
	purchase, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	// Re-expiring an already expired purchase is a no-op, which keeps the
	// expiration sweeper idempotent without extra bookkeeping.
	if input.Target == models.PurchaseStatusExpired && purchase.Status == models.PurchaseStatusExpired {
		return &TransitionResult{Purchase: purchase}, nil
	}

	// The amount override exists so an operator can set the refund in the
	// same request that moves to reembolsado. On any other target it is
	// ignored entirely; refund_amount stays meaningful only for purchases
	// refunded or en route to it.
	refundAmount := purchase.RefundAmount
	overriding := input.Target == models.PurchaseStatusRefunded && input.RefundAmount != nil
	if overriding {
		refundAmount = *input.RefundAmount
	}

	if err := lifecycle.ValidateTransition(purchase.Status, input.Target, refundAmount); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": input.Target}
	if overriding {
		updates["refund_amount"] = *input.RefundAmount
	}
	if input.SupportResponse != nil {
		updates["support_response"] = *input.SupportResponse
	}

	if !lifecycle.ImpliesRefund(input.Target, refundAmount) {
		updated, err := s.purchases.UpdateStatus(ctx, purchaseID, updates)
		if err != nil {
			return nil, fmt.Errorf("failed to update purchase status: %w", err)
		}

		go s.createAuditLog(purchaseID, purchase.Status, input.Target, 0)

		return &TransitionResult{Purchase: updated}, nil
	}

	return s.settleRefund(ctx, purchase, updates, refundAmount)
}

func (s *SettlementService) settleRefund(ctx context.Context, purchase *models.Purchase, updates map[string]interface{}, refundAmount float64) (*TransitionResult, error) {
	priorStatus := purchase.Status

	updated, err := s.purchases.UpdateStatus(ctx, purchase.ID, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase status: %w", err)
	}

	if err := s.ledger.IncrementBalance(ctx, purchase.SellerID, refundAmount); err != nil {
		// Compensating write: restore the status that was already persisted.
		if _, rbErr := s.purchases.UpdateStatus(ctx, purchase.ID, map[string]interface{}{"status": priorStatus}); rbErr != nil {
			logrus.WithFields(logrus.Fields{
				"purchase_id":   purchase.ID,
				"seller_id":     purchase.SellerID,
				"prior_status":  priorStatus,
				"refund_amount": refundAmount,
				"ledger_error":  err.Error(),
				"restore_error": rbErr.Error(),
			}).Error("Refund rollback failed, purchase needs manual reconciliation")

			return nil, fmt.Errorf("%w: ledger: %v, restore: %v", lifecycle.ErrRollbackFailed, err, rbErr)
		}

		logrus.WithFields(logrus.Fields{
			"purchase_id":   purchase.ID,
			"seller_id":     purchase.SellerID,
			"refund_amount": refundAmount,
		}).WithError(err).Warn("Refund ledger credit failed, status restored")

		return nil, fmt.Errorf("%w: %v", lifecycle.ErrRefundFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"purchase_id":   purchase.ID,
		"seller_id":     purchase.SellerID,
		"refund_amount": refundAmount,
	}).Info("Refund settled")

	go s.createAuditLog(purchase.ID, priorStatus, models.PurchaseStatusRefunded, refundAmount)

	return &TransitionResult{
		Purchase:        updated,
		RefundProcessed: true,
		RefundAmount:    refundAmount,
	}, nil
}

// BulkTransition applies Transition across many purchase ids. Processing is
// sequential on purpose: it keeps ledger increments serialized when several
// purchases share a beneficiary. A per-item failure is counted and the batch
// continues; TotalRefunded accumulates only the amounts of successful refund
// transitions.
func (s *SettlementService) BulkTransition(ctx context.Context, ids []uuid.UUID, target models.PurchaseStatus) BulkResult {
	var result BulkResult

	for _, id := range ids {
		res, err := s.Transition(ctx, id, TransitionInput{Target: target})
		if err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, BulkFailure{PurchaseID: id, Error: err.Error()})
			continue
		}

		result.SuccessCount++
		if res.RefundProcessed {
			result.TotalRefunded += res.RefundAmount
		}
	}

	return result
}

func (s *SettlementService) createAuditLog(purchaseID uuid.UUID, from, to models.PurchaseStatus, refundAmount float64) {
	if s.db == nil {
		return
	}

	newValues := models.JSONB{"status": to}
	if refundAmount > 0 {
		newValues["refund_amount"] = refundAmount
	}

	auditLog := &models.AuditLog{
		Action:       "PURCHASE_TRANSITION",
		ResourceType: "purchase",
		ResourceID:   &purchaseID,
		OldValues:    models.JSONB{"status": from},
		NewValues:    newValues,
	}

	if err := s.db.Create(auditLog).Error; err != nil {
		logrus.WithError(err).Error("Failed to create audit log")
	}
}
