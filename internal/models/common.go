// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums

// PurchaseStatus values are stored exactly as the legacy admin panel wrote
// them, in Spanish. Do not rename without a data migration.
type PurchaseStatus string

const (
	PurchaseStatusSupport   PurchaseStatus = "soporte"
	PurchaseStatusRefunded  PurchaseStatus = "reembolsado"
	PurchaseStatusResolved  PurchaseStatus = "resuelto"
	PurchaseStatusExpired   PurchaseStatus = "vencido"
	PurchaseStatusDelivered PurchaseStatus = "pedido_entregado"
)

// Valid reports whether s is one of the known lifecycle states.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusSupport, PurchaseStatusRefunded, PurchaseStatusResolved,
		PurchaseStatusExpired, PurchaseStatusDelivered:
		return true
	}
	return false
}

type StockStatus string

const (
	StockStatusAvailable StockStatus = "disponible"
	StockStatusSold      StockStatus = "vendida"
	StockStatusExpired   StockStatus = "vencida"
)
