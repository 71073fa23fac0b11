// internal/services/commission_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cuentasgo/backoffice/internal/commission"
	"github.com/cuentasgo/backoffice/internal/models"
)

// CommissionService manages the append-only commission configuration and
// exposes point-in-time quoting and reporting over it.
type CommissionService struct {
	db *gorm.DB
}

// CommissionEvent is one commission-bearing occurrence submitted for
// reporting: a publication or a withdrawal with its base amount and when it
// happened. The snapshot effective at OccurredAt prices it.
type CommissionEvent struct {
	Kind       commission.Kind `json:"kind" validate:"required"`
	BaseAmount float64         `json:"base_amount" validate:"gte=0"`
	OccurredAt time.Time       `json:"occurred_at" validate:"required"`
}

func NewCommissionService(db *gorm.DB) *CommissionService {
	return &CommissionService{db: db}
}

// Snapshots returns every configuration snapshot, newest first.
func (s *CommissionService) Snapshots(ctx context.Context) ([]models.CommissionConfig, error) {
	var snapshots []models.CommissionConfig
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch commission configs: %w", err)
	}

	return snapshots, nil
}

// Append records a new configuration snapshot. Existing snapshots are never
// touched; history stays intact for point-in-time resolution.
func (s *CommissionService) Append(ctx context.Context, publicationFee, withdrawalPercent float64, adminID *uuid.UUID) (*models.CommissionConfig, error) {
	if publicationFee < 0 {
		return nil, fmt.Errorf("publication fee cannot be negative")
	}
	if withdrawalPercent < 0 || withdrawalPercent > 100 {
		return nil, fmt.Errorf("withdrawal percent must be between 0 and 100")
	}

	snapshot := &models.CommissionConfig{
		PublicationFee:    publicationFee,
		WithdrawalPercent: withdrawalPercent,
		UpdatedBy:         adminID,
	}

	if err := s.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, fmt.Errorf("failed to append commission config: %w", err)
	}

	go s.createAuditLog(snapshot, adminID)

	return snapshot, nil
}

// EffectiveAt resolves the snapshot governing an event at the given time.
func (s *CommissionService) EffectiveAt(ctx context.Context, at time.Time) (*models.CommissionConfig, error) {
	snapshots, err := s.Snapshots(ctx)
	if err != nil {
		return nil, err
	}

	return commission.Resolve(snapshots, at)
}

// Quote computes the commission for a single hypothetical event.
func (s *CommissionService) Quote(ctx context.Context, kind commission.Kind, baseAmount float64, at time.Time) (commission.Record, error) {
	snapshots, err := s.Snapshots(ctx)
	if err != nil {
		return commission.Record{}, err
	}

	return commission.Calculate(snapshots, kind, baseAmount, at)
}

// Report prices each submitted event against the snapshot effective at its
// own time and aggregates the results.
func (s *CommissionService) Report(ctx context.Context, events []CommissionEvent) (commission.Summary, []commission.Record, error) {
	snapshots, err := s.Snapshots(ctx)
	if err != nil {
		return commission.Summary{}, nil, err
	}

	records := make([]commission.Record, 0, len(events))
	for _, e := range events {
		rec, err := commission.Calculate(snapshots, e.Kind, e.BaseAmount, e.OccurredAt)
		if err != nil {
			return commission.Summary{}, nil, fmt.Errorf("failed to price event at %s: %w", e.OccurredAt.Format(time.RFC3339), err)
		}
		records = append(records, rec)
	}

	return commission.Aggregate(records), records, nil
}

func (s *CommissionService) createAuditLog(snapshot *models.CommissionConfig, adminID *uuid.UUID) {
	auditLog := &models.AuditLog{
		UserID:       adminID,
		Action:       "APPEND_COMMISSION_CONFIG",
		ResourceType: "commission_config",
		ResourceID:   &snapshot.ID,
		NewValues: models.JSONB{
			"publication_fee":    snapshot.PublicationFee,
			"withdrawal_percent": snapshot.WithdrawalPercent,
		},
	}

	if err := s.db.Create(auditLog).Error; err != nil {
		logrus.WithError(err).Error("Failed to create audit log")
	}
}
