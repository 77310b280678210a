package qrcode

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Generator monta QR codes apontando para a página de resgate de um gift
// ou para uma requisição de payout pré-preenchida.
type Generator struct {
	baseURL string
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// RedeemURL é o link embutido no QR: a página pública de resgate.
func (g *Generator) RedeemURL(referenceID string) string {
	return fmt.Sprintf("%s/resgatar/%s", g.baseURL, referenceID)
}

// PNG devolve a imagem crua; size <= 0 usa o default.
func (g *Generator) PNG(referenceID string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	return qr.Encode(g.RedeemURL(referenceID), qr.Medium, size)
}

// DataURL devolve o PNG como data URI, pronto para um <img src>.
func (g *Generator) DataURL(referenceID string, size int) (string, error) {
	png, err := g.PNG(referenceID, size)
	if err != nil {
		return "", err
	}
	return dataURI(png), nil
}

// PayoutRequest descreve a transferência embutida num QR impresso: quem
// escaneia cai na rota de payout com os campos já preenchidos.
type PayoutRequest struct {
	PixKey      string
	AmountCents int64
	Description string
}

// PayoutURL monta o link de payout com os parâmetros na query string;
// o valor vai em reais decimais.
func (g *Generator) PayoutURL(req PayoutRequest) string {
	q := url.Values{}
	q.Set("pix_key", req.PixKey)
	q.Set("amount", strconv.FormatFloat(float64(req.AmountCents)/100, 'f', 2, 64))
	if req.Description != "" {
		q.Set("description", req.Description)
	}
	return g.baseURL + "/api/v1/pix/transfers?" + q.Encode()
}

// PayoutPNG devolve a imagem crua do QR de payout; size <= 0 usa o default.
func (g *Generator) PayoutPNG(req PayoutRequest, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	return qr.Encode(g.PayoutURL(req), qr.Medium, size)
}

// PayoutDataURL devolve o QR de payout como data URI.
func (g *Generator) PayoutDataURL(req PayoutRequest, size int) (string, error) {
	png, err := g.PayoutPNG(req, size)
	if err != nil {
		return "", err
	}
	return dataURI(png), nil
}

func dataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
