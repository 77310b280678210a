package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/http/middleware"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/http/validation"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/payouts"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/transactions"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/money"
)

type PayoutHandler struct {
	Logger *slog.Logger
	Svc    *payouts.Service
}

func NewPayoutHandler(logger *slog.Logger, svc *payouts.Service) *PayoutHandler {
	return &PayoutHandler{Logger: logger, Svc: svc}
}

type createPayoutRequest struct {
	PixKey      string  `json:"pix_key" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	ReferenceID string  `json:"reference_id" binding:"omitempty,max=64"`
	Provider    string  `json:"provider" binding:"omitempty,oneof=asaas pagbank"`
}

// POST /api/v1/pix/transfers
func (h *PayoutHandler) Create(c *gin.Context) {
	var req createPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Dados inválidos.", validation.FromBindError(err, &req)))
		return
	}

	res, err := h.Svc.Create(c.Request.Context(), payouts.CreateInput{
		PixKey:      req.PixKey,
		Amount:      req.Amount,
		Description: req.Description,
		ReferenceID: req.ReferenceID,
		Provider:    req.Provider,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	status := http.StatusCreated
	if res.Existing {
		// replay idempotente devolve a transação original
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"transaction": transactionJSON(res.Transaction),
		"provider":    res.Provider,
		"existing":    res.Existing,
	})
}

// GET /api/v1/pix/transfers/:reference
func (h *PayoutHandler) Get(c *gin.Context) {
	record, err := h.Svc.GetStatus(c.Request.Context(), c.Param("reference"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": transactionJSON(record)})
}

// GET /api/v1/admin/pix/transfers
func (h *PayoutHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	items := make([]gin.H, 0, len(out))
	for _, t := range out {
		items = append(items, transactionJSON(t))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": items, "count": len(items)})
}

func transactionJSON(t transactions.TransactionLog) gin.H {
	out := gin.H{
		"reference_id": t.ReferenceID,
		"pix_key":      t.PixKey,
		"amount":       money.FromCents(t.AmountCents),
		"status":       t.Status,
		"provider":     t.Provider,
		"created_at":   t.CreatedAt,
		"updated_at":   t.UpdatedAt,
	}
	if t.Description != nil {
		out["description"] = *t.Description
	}
	if t.ProviderTransactionID != nil {
		out["provider_transaction_id"] = *t.ProviderTransactionID
	}
	if t.ErrorMessage != nil {
		out["error_message"] = *t.ErrorMessage
	}
	return out
}
