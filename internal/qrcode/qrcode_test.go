package qrcode

import (
	"bytes"
	"strings"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRedeemURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://giftpix.example.com", "https://giftpix.example.com/resgatar/abc-123"},
		{"https://giftpix.example.com/", "https://giftpix.example.com/resgatar/abc-123"},
	}
	for _, tc := range tests {
		g := NewGenerator(tc.base)
		if got := g.RedeemURL("abc-123"); got != tc.want {
			t.Errorf("RedeemURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestPNG(t *testing.T) {
	g := NewGenerator("https://giftpix.example.com")

	png, err := g.PNG("abc-123", 0)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("saída não é PNG")
	}

	big, err := g.PNG("abc-123", 512)
	if err != nil {
		t.Fatalf("PNG 512: %v", err)
	}
	if len(big) <= len(png)/4 {
		t.Errorf("PNG maior deveria ter mais bytes (default=%d, 512=%d)", len(png), len(big))
	}
}

func TestPayoutURL(t *testing.T) {
	g := NewGenerator("https://giftpix.example.com/")

	got := g.PayoutURL(PayoutRequest{
		PixKey:      "fulano@exemplo.com.br",
		AmountCents: 30000,
		Description: "presente de natal",
	})
	want := "https://giftpix.example.com/api/v1/pix/transfers?" +
		"amount=300.00&description=presente+de+natal&pix_key=fulano%40exemplo.com.br"
	if got != want {
		t.Errorf("PayoutURL = %q, want %q", got, want)
	}

	// sem descrição o parâmetro some da query
	got = g.PayoutURL(PayoutRequest{PixKey: "12345678901", AmountCents: 1050})
	want = "https://giftpix.example.com/api/v1/pix/transfers?amount=10.50&pix_key=12345678901"
	if got != want {
		t.Errorf("PayoutURL sem descrição = %q, want %q", got, want)
	}
}

func TestPayoutPNGAndDataURL(t *testing.T) {
	g := NewGenerator("https://giftpix.example.com")
	req := PayoutRequest{PixKey: "12345678901", AmountCents: 5000}

	png, err := g.PayoutPNG(req, 0)
	if err != nil {
		t.Fatalf("PayoutPNG: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("saída não é PNG")
	}

	uri, err := g.PayoutDataURL(req, 0)
	if err != nil {
		t.Fatalf("PayoutDataURL: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("prefixo inesperado: %q", uri[:32])
	}
}

func TestDataURL(t *testing.T) {
	g := NewGenerator("https://giftpix.example.com")
	uri, err := g.DataURL("abc-123", 0)
	if err != nil {
		t.Fatalf("DataURL: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("prefixo inesperado: %q", uri[:32])
	}
}
