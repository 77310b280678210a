package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/http/middleware"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/http/validation"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/pix"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/qrcode"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/money"
)

// QRCodeHandler gera QRs de payout avulso: um link imprimível que cai na
// rota de transferência com chave, valor e descrição já preenchidos.
type QRCodeHandler struct {
	Logger      *slog.Logger
	QR          *qrcode.Generator
	MinPixCents int64
	MaxPixCents int64
}

func NewQRCodeHandler(logger *slog.Logger, qr *qrcode.Generator, minCents, maxCents int64) *QRCodeHandler {
	return &QRCodeHandler{Logger: logger, QR: qr, MinPixCents: minCents, MaxPixCents: maxCents}
}

type generateQRRequest struct {
	PixKey      string  `json:"pix_key" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description *string `json:"description" binding:"omitempty,max=200"`
}

// POST /api/v1/qrcode/generate
func (h *QRCodeHandler) Generate(c *gin.Context) {
	var req generateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Dados inválidos.", validation.FromBindError(err, &req)))
		return
	}

	payout, err := h.payoutRequest(req.PixKey, req.Amount, req.Description)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	dataURL, err := h.QR.PayoutDataURL(payout, 0)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"qrcode": dataURL,
		"url":    h.QR.PayoutURL(payout),
	})
}

// GET /api/v1/qrcode/image?pix_key=...&amount=...&description=...
func (h *QRCodeHandler) Image(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("pix_key e amount são obrigatórios.", nil))
		return
	}

	var desc *string
	if d := c.Query("description"); d != "" {
		desc = &d
	}
	payout, err := h.payoutRequest(c.Query("pix_key"), amount, desc)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))
	png, err := h.QR.PayoutPNG(payout, size)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.Header("Content-Disposition", `inline; filename="qrcode.png"`)
	c.Data(http.StatusOK, "image/png", png)
}

func (h *QRCodeHandler) payoutRequest(key string, amount float64, desc *string) (qrcode.PayoutRequest, error) {
	if err := pix.ValidateKey(key); err != nil {
		return qrcode.PayoutRequest{}, err
	}
	if err := pix.ValidateAmount(amount, h.MinPixCents, h.MaxPixCents); err != nil {
		return qrcode.PayoutRequest{}, err
	}
	cents, _ := money.ToCents(amount) // ValidateAmount já garantiu a precisão
	out := qrcode.PayoutRequest{PixKey: key, AmountCents: cents}
	if desc != nil {
		out.Description = pix.SanitizeDescription(*desc)
	}
	return out, nil
}
