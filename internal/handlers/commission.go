// internal/handlers/commission.go
package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cuentasgo/backoffice/internal/commission"
	"github.com/cuentasgo/backoffice/internal/services"
	"github.com/cuentasgo/backoffice/internal/utils"
)

type CommissionHandler struct {
	commissionService *services.CommissionService
}

func NewCommissionHandler(commissionService *services.CommissionService) *CommissionHandler {
	return &CommissionHandler{
		commissionService: commissionService,
	}
}

// GET /admin/commission-configs
func (h *CommissionHandler) GetConfigs(c *gin.Context) {
	snapshots, err := h.commissionService.Snapshots(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"configs": snapshots,
	})
}

// POST /admin/commission-configs
func (h *CommissionHandler) AppendConfig(c *gin.Context) {
	var req struct {
		PublicationFee    float64    `json:"publication_fee" validate:"gte=0"`
		WithdrawalPercent float64    `json:"withdrawal_percent" validate:"gte=0,lte=100"`
		UpdatedBy         *uuid.UUID `json:"updated_by,omitempty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	snapshot, err := h.commissionService.Append(c.Request.Context(), req.PublicationFee, req.WithdrawalPercent, req.UpdatedBy)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"config": snapshot,
	})
}

// GET /admin/commissions/quote?kind=withdrawal&amount=200&at=2025-01-15T00:00:00Z
func (h *CommissionHandler) Quote(c *gin.Context) {
	kind := commission.Kind(c.Query("kind"))
	if !kind.Valid() {
		utils.BadRequestResponse(c, "kind must be publication or withdrawal", nil)
		return
	}

	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount < 0 {
		utils.BadRequestResponse(c, "amount must be a non-negative number", nil)
		return
	}

	at := time.Now()
	if atParam := c.Query("at"); atParam != "" {
		parsed, err := time.Parse(time.RFC3339, atParam)
		if err != nil {
			utils.BadRequestResponse(c, "at must be RFC 3339", nil)
			return
		}
		at = parsed
	}

	record, err := h.commissionService.Quote(c.Request.Context(), kind, amount, at)
	if err != nil {
		if errors.Is(err, commission.ErrNoConfig) {
			utils.NotFoundResponse(c, "No commission configuration available")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"record":     record,
		"commission": record.DisplayCommission(),
		"percent":    record.DisplayPercent(),
	})
}

// POST /admin/commissions/report
func (h *CommissionHandler) Report(c *gin.Context) {
	var req struct {
		Events []services.CommissionEvent `json:"events" validate:"required,dive"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	summary, records, err := h.commissionService.Report(c.Request.Context(), req.Events)
	if err != nil {
		if errors.Is(err, commission.ErrNoConfig) {
			utils.NotFoundResponse(c, "No commission configuration available")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"summary": summary,
		"records": records,
	})
}
