// internal/handlers/purchase.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cuentasgo/backoffice/internal/expiry"
	"github.com/cuentasgo/backoffice/internal/lifecycle"
	"github.com/cuentasgo/backoffice/internal/models"
	"github.com/cuentasgo/backoffice/internal/services"
	"github.com/cuentasgo/backoffice/internal/utils"
)

type PurchaseHandler struct {
	purchaseService   *services.PurchaseService
	settlementService *services.SettlementService
}

func NewPurchaseHandler(purchaseService *services.PurchaseService, settlementService *services.SettlementService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService:   purchaseService,
		settlementService: settlementService,
	}
}

// GET /admin/purchases
func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	filter := services.AdminPurchaseFilter{}

	if status := c.Query("status"); status != "" {
		s := models.PurchaseStatus(status)
		if !s.Valid() {
			utils.BadRequestResponse(c, "Unknown status", nil)
			return
		}
		filter.Status = &s
	}

	if sellerID := c.Query("seller_id"); sellerID != "" {
		id, err := uuid.Parse(sellerID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid seller ID", nil)
			return
		}
		filter.SellerID = &id
	}

	filter.BuyerEmail = c.Query("buyer_email")

	if createdAfter := c.Query("created_after"); createdAfter != "" {
		if t, err := time.Parse("2006-01-02", createdAfter); err == nil {
			filter.CreatedAfter = &t
		}
	}
	if createdBefore := c.Query("created_before"); createdBefore != "" {
		if t, err := time.Parse("2006-01-02", createdBefore); err == nil {
			filter.CreatedBefore = &t
		}
	}

	purchases, err := h.purchaseService.GetPurchases(c.Request.Context(), filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"purchases": purchases,
	})
}

// GET /admin/purchases/:id
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid purchase ID", nil)
		return
	}

	purchase, err := h.purchaseService.GetWithStock(c.Request.Context(), purchaseID)
	if err != nil {
		if errors.Is(err, lifecycle.ErrPurchaseNotFound) {
			utils.NotFoundResponse(c, "Purchase not found")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"purchase":        purchase,
		"allowed_targets": lifecycle.AllowedTargets(purchase.Status),
	})
}

// PUT /admin/purchases/:id/status
func (h *PurchaseHandler) UpdatePurchaseStatus(c *gin.Context) {
	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid purchase ID", nil)
		return
	}

	var req services.TransitionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.settlementService.Transition(c.Request.Context(), purchaseID, req)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /admin/purchases/bulk-status
func (h *PurchaseHandler) BulkUpdateStatus(c *gin.Context) {
	var req struct {
		IDs    []uuid.UUID           `json:"ids" validate:"required,min=1"`
		Target models.PurchaseStatus `json:"target" validate:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result := h.settlementService.BulkTransition(c.Request.Context(), req.IDs, req.Target)

	utils.SuccessResponse(c, result)
}

// GET /admin/purchases/:id/expiration
func (h *PurchaseHandler) GetPurchaseExpiration(c *gin.Context) {
	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid purchase ID", nil)
		return
	}

	purchase, err := h.purchaseService.GetWithStock(c.Request.Context(), purchaseID)
	if err != nil {
		if errors.Is(err, lifecycle.ErrPurchaseNotFound) {
			utils.NotFoundResponse(c, "Purchase not found")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if purchase.StockAccount == nil || purchase.StockAccount.ExpirationDate == "" {
		utils.NotFoundResponse(c, "Purchase has no linked stock account with an expiration date")
		return
	}

	days, err := expiry.DaysRemaining(purchase.StockAccount.ExpirationDate, time.Now())
	if err != nil {
		utils.UnprocessableResponse(c, "INVALID_EXPIRATION_DATE", err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"expiration_date": purchase.StockAccount.ExpirationDate,
		"days_remaining":  days,
		"due":             days <= 0,
	})
}

// respondTransitionError maps the settlement error taxonomy to HTTP status
// codes. ErrRollbackFailed gets its own code so operators can tell a state
// needing manual reconciliation from a retryable failure.
func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrPurchaseNotFound):
		utils.NotFoundResponse(c, "Purchase not found")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		utils.UnprocessableResponse(c, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, lifecycle.ErrInsufficientRefundAmount):
		utils.UnprocessableResponse(c, "INSUFFICIENT_REFUND_AMOUNT", err.Error())
	case errors.Is(err, lifecycle.ErrRollbackFailed):
		utils.ErrorResponse(c, http.StatusInternalServerError, "ROLLBACK_FAILED", err.Error(), nil)
	case errors.Is(err, lifecycle.ErrRefundFailed):
		utils.ErrorResponse(c, http.StatusBadGateway, "REFUND_FAILED", err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
