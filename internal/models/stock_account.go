// internal/models/stock_account.go
package models

import (
	"github.com/google/uuid"
)

// StockAccount is a time-limited access credential a seller has published for
// resale. ExpirationDate is stored as a date-only string ("2025-01-31");
// upstream sources attach unreliable time and timezone information, so only
// the Y-M-D components are ever compared. See internal/expiry.
type StockAccount struct {
	BaseModel
	SellerID       uuid.UUID   `json:"seller_id" gorm:"type:uuid;not null;index"`
	ServiceName    string      `json:"service_name" gorm:"size:100;not null;index"`
	AccountEmail   string      `json:"account_email" gorm:"size:255;not null"`
	AccountPIN     string      `json:"account_pin,omitempty" gorm:"size:50"`
	Profile        string      `json:"profile,omitempty" gorm:"size:100"`
	DurationDays   int         `json:"duration_days" gorm:"not null;default:30"`
	ExpirationDate string      `json:"expiration_date" gorm:"size:10;index"`
	Status         StockStatus `json:"status" gorm:"type:varchar(20);default:'disponible';index"`
}
