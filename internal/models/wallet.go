// internal/models/wallet.go
package models

import (
	"github.com/google/uuid"
)

// WalletBalance holds a seller's refundable balance. The balance column is
// mutated only through the wallet service's atomic increment; nothing else
// reads-then-writes it.
type WalletBalance struct {
	BaseModel
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Balance float64   `json:"balance" gorm:"type:decimal(12,2);not null;default:0"`
}
