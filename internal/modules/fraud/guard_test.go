package fraud

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/sysconfig"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
)

func newTestGuard(t *testing.T) (*Guard, *Repo, *gorm.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "fraud.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&FraudEvent{}, &FraudBlock{}, &sysconfig.SystemConfig{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewRepo(db)
	return NewGuard(repo, sysconfig.NewRepo(db), nil), repo, db
}

func strptr(s string) *string { return &s }

func seedConfig(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	row := sysconfig.SystemConfig{
		ID: uuid.NewString(), Key: key, Value: value,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed config %s: %v", key, err)
	}
}

// backdate move os eventos de um ip para fora da janela
func backdate(t *testing.T, db *gorm.DB, ip string, age time.Duration) {
	t.Helper()
	old := time.Now().Add(-age)
	if err := db.Model(&FraudEvent{}).Where("ip = ?", ip).
		Update("created_at", old).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
}

func TestCheckGiftCreationDailyCap(t *testing.T) {
	guard, _, db := newTestGuard(t)
	ctx := context.Background()
	ip := strptr("10.0.0.1")

	// teto de valor diário alto para isolar o limite de quantidade
	seedConfig(t, db, "gifts_value_per_day_limit", "1000000")

	for i := 0; i < defaultGiftsPerDay; i++ {
		if err := guard.CheckGiftCreation(ctx, ip, 5000); err != nil {
			t.Fatalf("gift %d dentro do limite: %v", i+1, err)
		}
		guard.MarkGiftCreated(ctx, ip, nil, 5000)
	}

	err := guard.CheckGiftCreation(ctx, ip, 5000)
	if !apperr.IsKind(err, apperr.Invalid) {
		t.Fatalf("acima do limite diário: err = %v, want invalid", err)
	}

	// eventos de ontem não contam
	backdate(t, db, *ip, 25*time.Hour)
	if err := guard.CheckGiftCreation(ctx, ip, 5000); err != nil {
		t.Fatalf("após janela expirar: %v", err)
	}
}

func TestCheckGiftCreationValuePerGift(t *testing.T) {
	guard, _, _ := newTestGuard(t)
	ctx := context.Background()
	ip := strptr("10.0.0.2")

	// teto default por gift: R$ 1000,00
	if err := guard.CheckGiftCreation(ctx, ip, 100_000); err != nil {
		t.Fatalf("no teto: %v", err)
	}
	err := guard.CheckGiftCreation(ctx, ip, 100_001)
	if !apperr.IsKind(err, apperr.Invalid) {
		t.Fatalf("acima do teto por gift: err = %v, want invalid", err)
	}
}

func TestCheckGiftCreationValueVelocity(t *testing.T) {
	guard, _, _ := newTestGuard(t)
	ctx := context.Background()
	ip := strptr("10.0.0.3")

	// cada marcador pesa metade do teto por gift (R$ 500,00); com três
	// marcadores, R$ 600,00 estoura o teto diário de R$ 2000,00
	for i := 0; i < 3; i++ {
		guard.MarkGiftCreated(ctx, ip, nil, 50_000)
	}
	err := guard.CheckGiftCreation(ctx, ip, 60_000)
	if !apperr.IsKind(err, apperr.Invalid) {
		t.Fatalf("velocidade de valor: err = %v, want invalid", err)
	}
	if err := guard.CheckGiftCreation(ctx, ip, 10_000); err != nil {
		t.Fatalf("valor menor dentro do teto diário: %v", err)
	}
}

func TestCheckGiftCreationConfigOverride(t *testing.T) {
	guard, _, db := newTestGuard(t)
	ctx := context.Background()
	ip := strptr("10.0.0.4")

	seedConfig(t, db, "gifts_per_day_limit", "1")

	if err := guard.CheckGiftCreation(ctx, ip, 1000); err != nil {
		t.Fatalf("primeiro gift: %v", err)
	}
	guard.MarkGiftCreated(ctx, ip, nil, 1000)

	err := guard.CheckGiftCreation(ctx, ip, 1000)
	if !apperr.IsKind(err, apperr.Invalid) {
		t.Fatalf("limite rebaixado via config: err = %v, want invalid", err)
	}
}

func TestCheckGiftCreationNoIP(t *testing.T) {
	guard, _, _ := newTestGuard(t)
	// sem ip não há janela para contar; só o teto por gift se aplica
	if err := guard.CheckGiftCreation(context.Background(), nil, 5000); err != nil {
		t.Fatalf("sem ip: %v", err)
	}
	err := guard.CheckGiftCreation(context.Background(), nil, 200_000)
	if !apperr.IsKind(err, apperr.Invalid) {
		t.Fatalf("teto por gift sem ip: err = %v, want invalid", err)
	}
}

func TestCheckRedeemAttemptCapAndBlock(t *testing.T) {
	guard, repo, _ := newTestGuard(t)
	ctx := context.Background()
	ip := strptr("10.0.1.1")
	gift := strptr("gift-1")

	for i := 0; i < defaultRedeemAttempts; i++ {
		if err := guard.CheckRedeem(ctx, ip, gift); err != nil {
			t.Fatalf("tentativa %d: %v", i+1, err)
		}
		guard.MarkRedeemAttempt(ctx, ip, gift)
	}

	err := guard.CheckRedeem(ctx, ip, gift)
	if !apperr.IsKind(err, apperr.Invalid) {
		t.Fatalf("acima do limite: err = %v, want invalid", err)
	}

	// estourar o limite instala um bloqueio temporário do ip
	blocked, berr := repo.IsBlocked(ctx, EntityIP, *ip, time.Now())
	if berr != nil {
		t.Fatalf("IsBlocked: %v", berr)
	}
	if !blocked {
		t.Error("ip deveria estar bloqueado após abuso")
	}

	// o bloqueio vale mesmo para outro gift
	err = guard.CheckRedeem(ctx, ip, strptr("gift-2"))
	if !apperr.IsKind(err, apperr.Invalid) {
		t.Fatalf("ip bloqueado, outro gift: err = %v, want invalid", err)
	}
}

func TestCheckRedeemGiftBlock(t *testing.T) {
	guard, repo, _ := newTestGuard(t)
	ctx := context.Background()

	if err := repo.Block(ctx, EntityGift, "gift-x", "manual", time.Hour); err != nil {
		t.Fatalf("Block: %v", err)
	}

	err := guard.CheckRedeem(ctx, strptr("10.0.1.2"), strptr("gift-x"))
	if !apperr.IsKind(err, apperr.Invalid) {
		t.Fatalf("gift bloqueado: err = %v, want invalid", err)
	}
}

func TestBlockExpiry(t *testing.T) {
	guard, repo, _ := newTestGuard(t)
	ctx := context.Background()
	ip := strptr("10.0.1.3")

	if err := repo.Block(ctx, EntityIP, *ip, "teste", -time.Minute); err != nil {
		t.Fatalf("Block: %v", err)
	}
	// bloqueio já expirado não barra nada
	if err := guard.CheckRedeem(ctx, ip, strptr("gift-y")); err != nil {
		t.Fatalf("bloqueio expirado: %v", err)
	}
	if err := guard.CheckGiftCreation(ctx, ip, 1000); err != nil {
		t.Fatalf("bloqueio expirado (criação): %v", err)
	}
}

func TestCountEventsWindow(t *testing.T) {
	_, repo, db := newTestGuard(t)
	ctx := context.Background()
	ip := strptr("10.0.2.1")

	for i := 0; i < 3; i++ {
		if err := repo.RecordEvent(ctx, EventParams{EventType: EventRedeemAttempt, IP: ip}); err != nil {
			t.Fatalf("RecordEvent: %v", err)
		}
	}
	backdate(t, db, *ip, 2*time.Hour)
	if err := repo.RecordEvent(ctx, EventParams{EventType: EventRedeemAttempt, IP: ip}); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	n, err := repo.CountEvents(ctx, CountFilter{
		EventType: EventRedeemAttempt,
		IP:        ip,
		Since:     time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if n != 1 {
		t.Errorf("eventos na janela = %d, want 1", n)
	}
}
