// internal/services/wallet_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cuentasgo/backoffice/internal/models"
)

// ErrWalletNotFound is returned by balance lookups for users without a
// wallet row. IncrementBalance never returns it; crediting a missing wallet
// creates it.
var ErrWalletNotFound = errors.New("wallet not found")

// WalletService is the gorm-backed ledger. The balance column is only ever
// touched through IncrementBalance's single-statement upsert, so the
// settlement engine never holds a stale balance.
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// IncrementBalance credits amount to the user's balance in one atomic round
// trip: insert the wallet row, or on conflict add to the existing balance
// server-side.
func (s *WalletService) IncrementBalance(ctx context.Context, userID uuid.UUID, amount float64) error {
	wallet := models.WalletBalance{
		UserID:  userID,
		Balance: amount,
	}
	wallet.ID = uuid.New()

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":    gorm.Expr("wallet_balances.balance + ?", amount),
			"updated_at": time.Now(),
		}),
	}).Create(&wallet).Error
	if err != nil {
		return fmt.Errorf("failed to increment balance for user %s: %w", userID, err)
	}

	return nil
}

// GetBalance returns the user's wallet row.
func (s *WalletService) GetBalance(ctx context.Context, userID uuid.UUID) (*models.WalletBalance, error) {
	var wallet models.WalletBalance
	if err := s.db.WithContext(ctx).First(&wallet, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &wallet, nil
}
