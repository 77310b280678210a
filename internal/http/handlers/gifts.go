package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/http/middleware"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/http/validation"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/gifts"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/qrcode"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/money"
)

type GiftHandler struct {
	Logger *slog.Logger
	Svc    *gifts.Service
	QR     *qrcode.Generator
}

func NewGiftHandler(logger *slog.Logger, svc *gifts.Service, qr *qrcode.Generator) *GiftHandler {
	return &GiftHandler{Logger: logger, Svc: svc, QR: qr}
}

type createGiftRequest struct {
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	Message     *string    `json:"message" binding:"omitempty,max=500"`
	PIN         string     `json:"pin" binding:"required,min=4,max=32"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Provider    string     `json:"provider" binding:"omitempty,oneof=asaas pagbank"`
	Description *string    `json:"description" binding:"omitempty,max=200"`
}

// POST /api/v1/gifts
func (h *GiftHandler) Create(c *gin.Context) {
	var req createGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Dados inválidos.", validation.FromBindError(err, &req)))
		return
	}

	ip := c.ClientIP()
	res, err := h.Svc.CreateGift(c.Request.Context(), gifts.CreateGiftInput{
		Amount:      req.Amount,
		Message:     req.Message,
		PIN:         req.PIN,
		ExpiresAt:   req.ExpiresAt,
		Provider:    req.Provider,
		Description: req.Description,
		IP:          &ip,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	payload := gin.H{
		"gift": giftJSON(res.Gift),
		// o PIN só aparece aqui: quem cria precisa repassar ao presenteado
		"pin": res.PIN,
	}
	if h.QR != nil {
		payload["redeem_url"] = h.QR.RedeemURL(res.Gift.ReferenceID)
	}
	c.JSON(http.StatusCreated, payload)
}

// GET /api/v1/gifts/:reference
func (h *GiftHandler) Get(c *gin.Context) {
	view, err := h.Svc.GetGiftStatus(c.Request.Context(), c.Param("reference"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	payload := gin.H{"gift": giftJSON(view.Gift)}
	if view.PaymentStatus != nil {
		payload["payment_status"] = *view.PaymentStatus
	}
	if view.ProviderRef != nil {
		payload["provider_ref"] = *view.ProviderRef
	}
	c.JSON(http.StatusOK, payload)
}

type pinRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// POST /api/v1/gifts/:reference/pin
// Checagem sem efeitos, para a UI liberar o formulário de resgate.
func (h *GiftHandler) ValidatePin(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Dados inválidos.", validation.FromBindError(err, &req)))
		return
	}

	gift, err := h.Svc.ValidatePin(c.Request.Context(), c.Param("reference"), req.PIN)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "gift": giftJSON(gift)})
}

type redeemRequest struct {
	PIN         string  `json:"pin" binding:"required"`
	PixKey      string  `json:"pix_key" binding:"required"`
	Description *string `json:"description" binding:"omitempty,max=200"`
}

// POST /api/v1/gifts/:reference/redeem
func (h *GiftHandler) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Dados inválidos.", validation.FromBindError(err, &req)))
		return
	}

	ip := c.ClientIP()
	res, err := h.Svc.RedeemGift(c.Request.Context(), gifts.RedeemGiftInput{
		ReferenceID: c.Param("reference"),
		PIN:         req.PIN,
		PixKey:      req.PixKey,
		Description: req.Description,
		IP:          &ip,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": res.Provider,
		"transfer": gin.H{
			"reference_id": res.Transfer.ReferenceID,
			"status":       res.Transfer.Status,
			"amount":       money.FromCents(res.Transfer.AmountCents),
			"pix_key":      res.Transfer.PixKey,
			"created_at":   res.Transfer.CreatedAt,
		},
	})
}

// GET /api/v1/gifts/:reference/qrcode
func (h *GiftHandler) QRCode(c *gin.Context) {
	if h.QR == nil {
		middleware.Fail(c, apperr.NotFoundErr("QR code indisponível."))
		return
	}
	// existência primeiro: QR de gift inexistente seria lixo imprimível
	reference := c.Param("reference")
	if _, err := h.Svc.GetGiftStatus(c.Request.Context(), reference); err != nil {
		middleware.Fail(c, err)
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))
	png, err := h.QR.PNG(reference, size)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GET /api/v1/admin/gifts
func (h *GiftHandler) List(c *gin.Context) {
	out, err := h.Svc.ListGifts(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	items := make([]gin.H, 0, len(out))
	for _, g := range out {
		item := giftJSON(g)
		// visão administrativa: o id interno só aparece aqui
		item["id"] = g.ID
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"gifts": items, "count": len(items)})
}

// GET /api/v1/admin/gifts/summary
func (h *GiftHandler) Summary(c *gin.Context) {
	sum, err := h.Svc.GetSummary(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":        sum.Total,
		"active":       sum.Active,
		"redeemed":     sum.Redeemed,
		"expired":      sum.Expired,
		"total_amount": money.FromCents(sum.TotalAmountCents),
	})
}

// giftJSON é a forma pública do gift: o reference_id é o único identificador
// exposto; o id interno fica fora de qualquer resposta não administrativa.
func giftJSON(g gifts.Gift) gin.H {
	out := gin.H{
		"reference_id": g.ReferenceID,
		"amount":       money.FromCents(g.AmountCents),
		"status":       g.Status,
		"created_at":   g.CreatedAt,
	}
	if g.Message != nil {
		out["message"] = *g.Message
	}
	if g.ExpiresAt != nil {
		out["expires_at"] = *g.ExpiresAt
	}
	return out
}
