// internal/services/purchase_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cuentasgo/backoffice/internal/lifecycle"
	"github.com/cuentasgo/backoffice/internal/models"
)

// PurchaseService is the gorm-backed PurchaseStore plus the read surface the
// admin panel consumes.
type PurchaseService struct {
	db *gorm.DB
}

type AdminPurchaseFilter struct {
	Status        *models.PurchaseStatus `json:"status,omitempty"`
	SellerID      *uuid.UUID             `json:"seller_id,omitempty"`
	BuyerEmail    string                 `json:"buyer_email,omitempty"`
	CreatedAfter  *time.Time             `json:"created_after,omitempty"`
	CreatedBefore *time.Time             `json:"created_before,omitempty"`
}

func NewPurchaseService(db *gorm.DB) *PurchaseService {
	return &PurchaseService{db: db}
}

func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := s.db.WithContext(ctx).First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &purchase, nil
}

// GetWithStock loads a purchase together with its linked stock account, for
// the expiration display endpoint.
func (s *PurchaseService) GetWithStock(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := s.db.WithContext(ctx).Preload("StockAccount").First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &purchase, nil
}

// UpdateStatus applies a partial update by id and returns the updated
// record. There is deliberately no optimistic-concurrency guard: concurrent
// transitions against the same id race at the database and the later write
// wins, accepted for low concurrent-edit administrative usage.
func (s *PurchaseService) UpdateStatus(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Purchase, error) {
	result := s.db.WithContext(ctx).Model(&models.Purchase{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, lifecycle.ErrPurchaseNotFound
	}

	return s.GetByID(ctx, id)
}

// GetPurchases lists purchases for the admin panel with optional filters.
func (s *PurchaseService) GetPurchases(ctx context.Context, filter AdminPurchaseFilter) ([]models.Purchase, error) {
	query := s.db.WithContext(ctx).Model(&models.Purchase{}).Preload("StockAccount")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.BuyerEmail != "" {
		query = query.Where("buyer_email = ?", filter.BuyerEmail)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var purchases []models.Purchase
	if err := query.Order("created_at DESC").Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch purchases: %w", err)
	}

	return purchases, nil
}

// ExpirationCandidates returns delivered purchases whose linked stock
// account carries an expiration date, for the sweeper to evaluate.
func (s *PurchaseService) ExpirationCandidates(ctx context.Context) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.WithContext(ctx).
		Preload("StockAccount").
		Where("status = ? AND stock_account_id IS NOT NULL", models.PurchaseStatusDelivered).
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expiration candidates: %w", err)
	}

	return purchases, nil
}

// MarkStockExpired flips a stock account to vencida once its linked purchase
// has expired.
func (s *PurchaseService) MarkStockExpired(ctx context.Context, stockAccountID uuid.UUID) error {
	err := s.db.WithContext(ctx).Model(&models.StockAccount{}).
		Where("id = ?", stockAccountID).
		Update("status", models.StockStatusExpired).Error
	if err != nil {
		return fmt.Errorf("failed to mark stock account expired: %w", err)
	}

	return nil
}
