package payouts

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/transactions"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/providers"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
)

type fakeProvider struct {
	name          string
	transferCalls int
	transferErr   error
	statusState   providers.Status
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) CreatePixTransfer(_ context.Context, req providers.TransferRequest) (providers.TransferResult, error) {
	f.transferCalls++
	if f.transferErr != nil {
		return providers.TransferResult{}, f.transferErr
	}
	return providers.TransferResult{
		ID:          "tr_payout_1",
		ReferenceID: req.ReferenceID,
		Status:      providers.StatusPending,
		AmountCents: req.AmountCents,
		CreatedAt:   time.Now().Format(time.RFC3339),
		PixKey:      req.PixKey,
	}, nil
}

func (f *fakeProvider) GetTransferStatus(_ context.Context, id string) (providers.TransferResult, error) {
	state := f.statusState
	if state == "" {
		state = providers.StatusPending
	}
	return providers.TransferResult{ID: id, Status: state}, nil
}

func newTestService(t *testing.T) (*Service, *fakeProvider) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "payouts.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&transactions.TransactionLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	prov := &fakeProvider{name: "pagbank"}
	svc := NewService(transactions.NewRepo(db), providers.NewRegistry("pagbank", prov),
		Options{MinPixCents: 100, MaxPixCents: 1_000_000}, nil)
	return svc, prov
}

func TestCreatePayout(t *testing.T) {
	svc, prov := newTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateInput{
		PixKey: "fulano@exemplo.com.br",
		Amount: 125.40,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Existing {
		t.Error("Existing = true em payout novo")
	}
	if res.Provider != "pagbank" {
		t.Errorf("provider = %q, want pagbank", res.Provider)
	}
	if res.Transaction.AmountCents != 12540 {
		t.Errorf("amount_cents = %d, want 12540", res.Transaction.AmountCents)
	}
	if res.Transaction.Status != transactions.StatusPending {
		t.Errorf("status = %q, want pending", res.Transaction.Status)
	}
	if res.Transaction.ReferenceID == "" {
		t.Error("reference_id vazio")
	}
	if res.Transaction.ProviderTransactionID == nil || *res.Transaction.ProviderTransactionID != "tr_payout_1" {
		t.Errorf("provider_transaction_id = %v, want tr_payout_1", res.Transaction.ProviderTransactionID)
	}
	if prov.transferCalls != 1 {
		t.Errorf("transferCalls = %d, want 1", prov.transferCalls)
	}
}

func TestCreatePayoutIdempotent(t *testing.T) {
	svc, prov := newTestService(t)
	ctx := context.Background()

	in := CreateInput{
		PixKey:      "12345678901",
		Amount:      50.00,
		ReferenceID: "pedido-42",
	}
	first, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("primeiro Create: %v", err)
	}

	second, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !second.Existing {
		t.Error("Existing = false no replay")
	}
	if second.Transaction.ReferenceID != first.Transaction.ReferenceID {
		t.Errorf("reference_id divergente: %q vs %q",
			second.Transaction.ReferenceID, first.Transaction.ReferenceID)
	}
	if prov.transferCalls != 1 {
		t.Errorf("transferCalls = %d, want 1 (replay não chega ao PSP)", prov.transferCalls)
	}
}

func TestCreatePayoutValidation(t *testing.T) {
	svc, prov := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateInput
	}{
		{"chave inválida", CreateInput{PixKey: "###", Amount: 50}},
		{"valor zero", CreateInput{PixKey: "12345678901", Amount: 0}},
		{"acima do máximo", CreateInput{PixKey: "12345678901", Amount: 99999}},
		{"provider desconhecido", CreateInput{PixKey: "12345678901", Amount: 50, Provider: "nubank"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			if !apperr.IsKind(err, apperr.Invalid) {
				t.Errorf("err = %v, want invalid", err)
			}
		})
	}
	if prov.transferCalls != 0 {
		t.Errorf("transferCalls = %d, want 0", prov.transferCalls)
	}
}

func TestCreatePayoutProviderFailure(t *testing.T) {
	svc, prov := newTestService(t)
	ctx := context.Background()
	prov.transferErr = &providers.ProviderError{Provider: "pagbank", Message: "saldo insuficiente", StatusCode: 400}

	_, err := svc.Create(ctx, CreateInput{
		PixKey: "12345678901", Amount: 80, ReferenceID: "falha-1",
	})
	var perr *providers.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %T %v, want *providers.ProviderError", err, err)
	}
	if !apperr.IsKind(err, apperr.Provider) {
		t.Errorf("falha do PSP deveria sair com kind provider: %v", err)
	}

	// a transação fica registrada como failed
	record, gerr := svc.GetStatus(ctx, "falha-1")
	if gerr != nil {
		t.Fatalf("GetStatus: %v", gerr)
	}
	if record.Status != transactions.StatusFailed {
		t.Errorf("status = %q, want failed", record.Status)
	}
	if record.ErrorMessage == nil {
		t.Error("error_message deveria estar preenchido")
	}

	// replay do mesmo reference_id não repete a chamada
	res, rerr := svc.Create(ctx, CreateInput{
		PixKey: "12345678901", Amount: 80, ReferenceID: "falha-1",
	})
	if rerr != nil {
		t.Fatalf("replay: %v", rerr)
	}
	if !res.Existing || res.Transaction.Status != transactions.StatusFailed {
		t.Errorf("replay = {existing: %v, status: %q}, want {true, failed}", res.Existing, res.Transaction.Status)
	}
	if prov.transferCalls != 1 {
		t.Errorf("transferCalls = %d, want 1", prov.transferCalls)
	}
}

func TestGetStatusRefresh(t *testing.T) {
	svc, prov := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{
		PixKey: "12345678901", Amount: 30, ReferenceID: "ref-status",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	prov.statusState = providers.StatusCompleted
	record, err := svc.GetStatus(ctx, "ref-status")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if record.Status != transactions.StatusCompleted {
		t.Errorf("status = %q, want completed", record.Status)
	}

	// persiste: nova leitura sem refresh já devolve completed
	again, err := svc.GetStatus(ctx, "ref-status")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if again.Status != transactions.StatusCompleted {
		t.Errorf("status persistido = %q, want completed", again.Status)
	}
}

func TestGetStatusNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetStatus(context.Background(), "nao-existe")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func TestListPayouts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, ref := range []string{"a", "b", "c"} {
		if _, err := svc.Create(ctx, CreateInput{
			PixKey: "12345678901", Amount: 10, ReferenceID: ref,
		}); err != nil {
			t.Fatalf("Create %s: %v", ref, err)
		}
	}
	out, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("len = %d, want 3", len(out))
	}
}
