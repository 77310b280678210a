package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAsaasCreatePixTransfer(t *testing.T) {
	var gotReq asaasTransferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/transfers" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("access_token"); got != "key-123" {
			t.Errorf("missing access_token header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(asaasTransferResponse{
			ID:                "tra_1",
			DateCreated:       "2026-08-30",
			Value:             gotReq.Value,
			Status:            "PENDING",
			PixAddressKey:     gotReq.PixAddressKey,
			Description:       gotReq.Description,
			ExternalReference: gotReq.ExternalReference,
		})
	}))
	defer srv.Close()

	a := NewAsaas(srv.URL, "key-123", nil)
	res, err := a.CreatePixTransfer(context.Background(), TransferRequest{
		PixKey:      "a@b.com",
		AmountCents: 5025,
		Description: "Presente",
		ReferenceID: "ref-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.PixAddressKeyType != "EMAIL" {
		t.Errorf("key type tag: got %q, want EMAIL", gotReq.PixAddressKeyType)
	}
	if gotReq.Value != 50.25 {
		t.Errorf("submitted value: got %v, want 50.25", gotReq.Value)
	}

	// lei de ida e volta: status/valor/chave normalizados sobrevivem
	if res.Status != StatusPending {
		t.Errorf("status: got %s", res.Status)
	}
	if res.AmountCents != 5025 {
		t.Errorf("amount: got %d", res.AmountCents)
	}
	if res.PixKey != "a@b.com" {
		t.Errorf("pix key: got %q", res.PixKey)
	}
	if res.ID != "tra_1" || res.ReferenceID != "ref-1" {
		t.Errorf("ids: got %+v", res)
	}
}

func TestAsaasKeyTypeFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req asaasTransferRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.PixAddressKeyType != "EVP" {
			t.Errorf("expected EVP fallback, got %q", req.PixAddressKeyType)
		}
		json.NewEncoder(w).Encode(asaasTransferResponse{ID: "tra_2", Status: "PENDING"})
	}))
	defer srv.Close()

	a := NewAsaas(srv.URL, "k", nil)
	if _, err := a.CreatePixTransfer(context.Background(), TransferRequest{PixKey: "something-odd"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAsaasStatusTable(t *testing.T) {
	tests := []struct {
		native string
		want   Status
	}{
		{"PENDING", StatusPending},
		{"BANK_PROCESSING", StatusProcessing},
		{"DONE", StatusCompleted},
		{"CANCELLED", StatusFailed},
		{"FAILED", StatusFailed},
		{"REFUNDED", StatusRefunded},
		{"SOMETHING_NEW", StatusPending},
	}
	for _, tt := range tests {
		if got := asaasStatus(tt.native); got != tt.want {
			t.Errorf("asaasStatus(%q) = %s, want %s", tt.native, got, tt.want)
		}
	}
}

func TestAsaasErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"code":"invalid_value","description":"Valor inválido"}]}`))
	}))
	defer srv.Close()

	a := NewAsaas(srv.URL, "k", nil)
	_, err := a.CreatePixTransfer(context.Background(), TransferRequest{PixKey: "a@b.com", AmountCents: 100})
	if err == nil {
		t.Fatal("expected error")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if pe.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d", pe.StatusCode)
	}
	if pe.ErrorCode != "invalid_value" {
		t.Errorf("error code: got %q", pe.ErrorCode)
	}
	if pe.Message != "Valor inválido" {
		t.Errorf("message: got %q", pe.Message)
	}
	if pe.Details == nil {
		t.Error("expected raw details")
	}
}

func TestAsaasNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // porta fechada => erro de rede

	a := NewAsaas(srv.URL, "k", nil)
	_, err := a.GetTransferStatus(context.Background(), "tra_1")

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.StatusCode != 0 {
		t.Errorf("expected no http status, got %d", pe.StatusCode)
	}
	if pe.Err == nil {
		t.Error("expected wrapped transport error")
	}
}
