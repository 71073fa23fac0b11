// internal/handlers/wallet.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cuentasgo/backoffice/internal/services"
	"github.com/cuentasgo/backoffice/internal/utils"
)

type WalletHandler struct {
	walletService *services.WalletService
}

func NewWalletHandler(walletService *services.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GET /admin/wallets/:user_id
//
// Read-only: balances are mutated only by the settlement engine's refund
// path, never through the API.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	wallet, err := h.walletService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrWalletNotFound) {
			utils.NotFoundResponse(c, "Wallet not found")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"wallet": wallet,
	})
}
