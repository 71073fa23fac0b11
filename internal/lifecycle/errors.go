// internal/lifecycle/errors.go
package lifecycle

import "errors"

// ErrPurchaseNotFound is returned when no purchase exists for the given id.
var ErrPurchaseNotFound = errors.New("purchase not found")

// ErrInvalidTransition is returned when the requested status change is not in
// the transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInsufficientRefundAmount is returned when a transition to reembolsado is
// requested but the purchase carries no positive refund amount.
var ErrInsufficientRefundAmount = errors.New("refund amount must be greater than zero")

// ErrRefundFailed is returned when the wallet credit failed after the status
// change was persisted and the status was successfully restored. Retryable.
var ErrRefundFailed = errors.New("refund failed, status restored")

// ErrRollbackFailed is returned when the wallet credit failed and the
// compensating status restore also failed. The purchase now reads
// reembolsado with no matching wallet credit; this requires manual
// reconciliation, not a retry.
var ErrRollbackFailed = errors.New("refund failed and status rollback failed")
