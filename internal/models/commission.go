// internal/models/commission.go
package models

import (
	"github.com/google/uuid"
)

// CommissionConfig is an append-only, timestamped snapshot of the platform's
// commission rates. Configuration changes append a new row; existing rows are
// never updated in place. The snapshot effective for an event at time T is
// the latest one with CreatedAt <= T.
type CommissionConfig struct {
	BaseModel
	// PublicationFee is a flat currency amount charged per published stock
	// account, not a percentage.
	PublicationFee float64 `json:"publication_fee" gorm:"type:decimal(10,2);not null"`
	// WithdrawalPercent is the commission percentage applied to withdrawals,
	// e.g. 5 means 5%.
	WithdrawalPercent float64    `json:"withdrawal_percent" gorm:"type:decimal(5,2);not null"`
	UpdatedBy         *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
}
