// internal/models/purchase.go
package models

import (
	"github.com/google/uuid"
)

// Purchase is a sold access credential tracked through the
// support/refund/expiration lifecycle. Rows are created by the sales flow;
// status and refund fields are mutated only through the settlement engine.
type Purchase struct {
	BaseModel
	SellerID       uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	BuyerName      string         `json:"buyer_name" gorm:"size:255"`
	BuyerEmail     string         `json:"buyer_email" gorm:"size:255;index"`
	BuyerPhone     string         `json:"buyer_phone" gorm:"size:50"`
	StockAccountID *uuid.UUID     `json:"stock_account_id" gorm:"type:uuid;index"`
	Price          float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Status         PurchaseStatus `json:"status" gorm:"type:varchar(20);default:'pedido_entregado';index"`
	// RefundAmount is only meaningful for (or en route to) reembolsado.
	RefundAmount    float64 `json:"refund_amount" gorm:"type:decimal(10,2);default:0"`
	SupportSubject  string  `json:"support_subject,omitempty" gorm:"size:255"`
	SupportMessage  string  `json:"support_message,omitempty" gorm:"type:text"`
	SupportResponse string  `json:"support_response,omitempty" gorm:"type:text"`

	// Relationships
	StockAccount *StockAccount `json:"stock_account,omitempty" gorm:"foreignKey:StockAccountID"`
}
