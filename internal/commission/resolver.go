// internal/commission/resolver.go

// Package commission resolves time-versioned commission configuration and
// computes commission figures from it. Rate changes append a new
// CommissionConfig snapshot; the snapshot that applies to an event is the
// latest one taken at or before the event time. Arithmetic stays exact
// (shopspring/decimal) until a caller asks for a display value.
package commission

import (
	"errors"
	"time"

	"github.com/cuentasgo/backoffice/internal/models"
)

// ErrNoConfig is returned when there are no snapshots to resolve against.
var ErrNoConfig = errors.New("no commission configuration available")

// Resolve returns the snapshot effective at eventTime: the latest one with
// CreatedAt <= eventTime. When every snapshot postdates the event, the
// oldest snapshot is returned instead of failing, matching how historical
// reports behave for events that predate the first recorded rate. Input
// order is never assumed; the slice is scanned in full on every call.
func Resolve(snapshots []models.CommissionConfig, eventTime time.Time) (*models.CommissionConfig, error) {
	if len(snapshots) == 0 {
		return nil, ErrNoConfig
	}

	var effective *models.CommissionConfig
	var oldest *models.CommissionConfig

	for i := range snapshots {
		s := &snapshots[i]

		if oldest == nil || s.CreatedAt.Before(oldest.CreatedAt) {
			oldest = s
		}

		if s.CreatedAt.After(eventTime) {
			continue
		}
		if effective == nil || s.CreatedAt.After(effective.CreatedAt) {
			effective = s
		}
	}

	if effective == nil {
		return oldest, nil
	}
	return effective, nil
}
