package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPagBankCreatePixTransfer(t *testing.T) {
	var gotReq pagBankTransferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transfers" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("authorization header: got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(pagBankTransferResponse{
			ID:          "TRF-1",
			ReferenceID: gotReq.ReferenceID,
			Status:      "COMPLETED",
			Amount:      gotReq.Amount,
			CreatedAt:   "2026-08-30T10:00:00-03:00",
			Destination: gotReq.Destination,
			Description: gotReq.Description,
		})
	}))
	defer srv.Close()

	p := NewPagBank(srv.URL, "tok-1", nil)
	res, err := p.CreatePixTransfer(context.Background(), TransferRequest{
		PixKey:      "12345678901",
		AmountCents: 5000,
		Description: "GiftPix",
		ReferenceID: "ref-9",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// centavos na ida, centavos de volta
	if gotReq.Amount.Value != 5000 {
		t.Errorf("submitted cents: got %d", gotReq.Amount.Value)
	}
	if gotReq.Destination.Type != "PIX" {
		t.Errorf("destination type: got %q", gotReq.Destination.Type)
	}
	if res.AmountCents != 5000 {
		t.Errorf("amount round trip: got %d", res.AmountCents)
	}
	if res.Status != StatusCompleted {
		t.Errorf("status: got %s", res.Status)
	}
	if res.PixKey != "12345678901" {
		t.Errorf("pix key round trip: got %q", res.PixKey)
	}
}

func TestPagBankStatusTable(t *testing.T) {
	tests := []struct {
		native string
		want   Status
	}{
		{"PENDING", StatusPending},
		{"PROCESSING", StatusPending},
		{"COMPLETED", StatusCompleted},
		{"CANCELLED", StatusFailed},
		{"FAILED", StatusFailed},
		{"UNKNOWN", StatusPending},
	}
	for _, tt := range tests {
		if got := pagBankStatus(tt.native); got != tt.want {
			t.Errorf("pagBankStatus(%q) = %s, want %s", tt.native, got, tt.want)
		}
	}
}

func TestPagBankErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error_code":"insufficient_funds","message":"Saldo insuficiente"}`))
	}))
	defer srv.Close()

	p := NewPagBank(srv.URL, "tok", nil)
	_, err := p.CreatePixTransfer(context.Background(), TransferRequest{PixKey: "a@b.com", AmountCents: 100})

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.StatusCode != http.StatusUnprocessableEntity || pe.ErrorCode != "insufficient_funds" {
		t.Errorf("got %+v", pe)
	}
}

func TestPagBankCheckBalanceBestEffort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewPagBank(srv.URL, "tok", nil)
	if got := p.CheckBalance(context.Background()); got != 0 {
		t.Errorf("expected 0 on failure, got %d", got)
	}
}
