// internal/lifecycle/statemachine.go

// Package lifecycle holds the purchase status transition rules. The package
// is pure: it validates transitions and nothing else. The settlement engine
// in internal/services is the only component that acts on its verdicts.
package lifecycle

import (
	"fmt"

	"github.com/cuentasgo/backoffice/internal/models"
)

// transitions is the full table of legal status changes. A pair absent from
// this table is rejected; callers can never force an arbitrary state.
// pedido_entregado -> vencido is the expiration sweeper's only entry point.
var transitions = map[models.PurchaseStatus][]models.PurchaseStatus{
	models.PurchaseStatusSupport:   {models.PurchaseStatusRefunded, models.PurchaseStatusResolved},
	models.PurchaseStatusRefunded:  {models.PurchaseStatusResolved},
	models.PurchaseStatusResolved:  {models.PurchaseStatusSupport},
	models.PurchaseStatusExpired:   {models.PurchaseStatusResolved},
	models.PurchaseStatusDelivered: {models.PurchaseStatusSupport, models.PurchaseStatusResolved, models.PurchaseStatusExpired},
}

// CanTransition reports whether the (from, to) pair is in the table.
func CanTransition(from, to models.PurchaseStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the legal target states for the given status. The
// returned slice is a copy and safe to mutate.
func AllowedTargets(from models.PurchaseStatus) []models.PurchaseStatus {
	targets := transitions[from]
	out := make([]models.PurchaseStatus, len(targets))
	copy(out, targets)
	return out
}

// ValidateTransition checks that the requested status change is legal and,
// for transitions into reembolsado, that the purchase carries a positive
// refund amount. It holds no state and produces no side effects.
func ValidateTransition(from, to models.PurchaseStatus, refundAmount float64) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, from, to)
	}

	if to == models.PurchaseStatusRefunded && refundAmount <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInsufficientRefundAmount, refundAmount)
	}

	return nil
}

// ImpliesRefund reports whether a transition into target moves money: only
// reembolsado credits the seller's wallet.
func ImpliesRefund(target models.PurchaseStatus, refundAmount float64) bool {
	return target == models.PurchaseStatusRefunded && refundAmount > 0
}
