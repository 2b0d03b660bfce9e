package memory

import (
	"context"
	"errors"
	"testing"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

func ptr[T any](v T) *T {
	return &v
}

func testToken(id string, createdAt int64) *domain.Token {
	return &domain.Token{
		TokenID:           id,
		Name:              "Token " + id,
		Symbol:            "TKN",
		TotalSupply:       1_000_000,
		CirculatingSupply: 10_000,
		CurrentPrice:      0.002,
		CurveK:            4,
		InitialInvestment: 2000,
		Destiny:           domain.DestinySurvival,
		Status:            domain.TokenStatusActive,
		CreatedAt:         createdAt,
	}
}

func testTrader(id, tokenID string) *domain.Trader {
	return &domain.Trader{
		TraderID:  id,
		TokenID:   tokenID,
		Archetype: domain.ArchetypeRetail,
		IsActive:  true,
		CreatedAt: 1000,
	}
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore()

	if err := store.Insert(ctx, testToken("b", 2000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, testToken("a", 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, testToken("a", 1000)); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	got, err := store.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	got.CirculatingSupply = 999
	again, _ := store.GetByID(ctx, "a")
	if again.CirculatingSupply != 10_000 {
		t.Errorf("store returned shared pointer, supply = %v", again.CirculatingSupply)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	dead := testToken("b", 2000)
	dead.Status = domain.TokenStatusDead
	dead.TerminatedAt = ptr(int64(5000))
	if err := store.Update(ctx, dead); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := store.Update(ctx, testToken("missing", 0)); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	active, _ := store.GetByStatus(ctx, domain.TokenStatusActive)
	if len(active) != 1 || active[0].TokenID != "a" {
		t.Errorf("unexpected active tokens: %+v", active)
	}
	deadTokens, _ := store.GetByStatus(ctx, domain.TokenStatusDead)
	if len(deadTokens) != 1 || *deadTokens[0].TerminatedAt != 5000 {
		t.Errorf("unexpected dead tokens: %+v", deadTokens)
	}
}

func TestTraderStore(t *testing.T) {
	ctx := context.Background()
	store := NewTraderStore()

	batch := []*domain.Trader{testTrader("t2", "tok"), testTrader("t1", "tok"), testTrader("x1", "other")}
	if err := store.InsertBulk(ctx, batch); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	dup := []*domain.Trader{testTrader("t3", "tok"), testTrader("t3", "tok")}
	if err := store.InsertBulk(ctx, dup); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	all, _ := store.GetByTokenID(ctx, "tok")
	if len(all) != 2 {
		t.Fatalf("expected batch to fail atomically, got %d traders", len(all))
	}
	if all[0].TraderID != "t1" || all[1].TraderID != "t2" {
		t.Errorf("unexpected order: %s, %s", all[0].TraderID, all[1].TraderID)
	}

	upd := all[0]
	upd.Holdings = 500
	upd.IsActive = false
	if err := store.Update(ctx, upd); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	active, _ := store.GetActiveByTokenID(ctx, "tok")
	if len(active) != 1 || active[0].TraderID != "t2" {
		t.Errorf("unexpected active traders: %+v", active)
	}

	n, err := store.DeactivateByTokenID(ctx, "tok")
	if err != nil {
		t.Fatalf("DeactivateByTokenID failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deactivated, got %d", n)
	}
	other, _ := store.GetActiveByTokenID(ctx, "other")
	if len(other) != 1 {
		t.Errorf("other token traders must stay active")
	}
}

func TestPriceHistoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewPriceHistoryStore()

	for seq, ts := range []int64{3000, 1000, 2000} {
		p := &domain.PricePoint{TokenID: "tok", Seq: int64(seq + 1), TimestampMs: ts, Price: 0.1}
		if err := store.Insert(ctx, p); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := store.Insert(ctx, &domain.PricePoint{TokenID: "tok", Seq: 1}); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	points, _ := store.GetByTokenID(ctx, "tok")
	if len(points) != 3 || points[0].Seq != 1 || points[2].Seq != 3 {
		t.Errorf("unexpected points: %+v", points)
	}

	ranged, _ := store.GetByTimeRange(ctx, "tok", 1000, 2000)
	if len(ranged) != 2 {
		t.Errorf("expected 2 points in range, got %d", len(ranged))
	}
}

func TestEventRecordStore(t *testing.T) {
	ctx := context.Background()
	store := NewEventRecordStore()

	r := &domain.EventRecord{RecordID: "r1", TokenID: "tok", EventType: domain.EventWhaleBuy, Timestamp: 2000}
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	_ = store.Insert(ctx, &domain.EventRecord{RecordID: "r0", TokenID: "tok", EventType: domain.EventCoinCreated, Timestamp: 1000})

	records, _ := store.GetByTokenID(ctx, "tok")
	if len(records) != 2 || records[0].EventType != domain.EventCoinCreated {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestTimelineStore(t *testing.T) {
	ctx := context.Background()
	store := NewTimelineStore()

	timeline := []domain.ScheduledEvent{
		{TokenID: "tok", Seq: 0, EventType: domain.EventSniperAttack, TriggerAt: 1000},
		{TokenID: "tok", Seq: 1, EventType: domain.EventCoinDeath, TriggerAt: 2000},
	}
	if err := store.Save(ctx, "tok", timeline); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "tok", timeline); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	if _, err := store.GetByTokenID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := store.MarkExecuted(ctx, "tok", 0, 1500); err != nil {
		t.Fatalf("MarkExecuted failed: %v", err)
	}
	if err := store.MarkExecuted(ctx, "tok", 0, 9999); err != nil {
		t.Fatalf("second MarkExecuted failed: %v", err)
	}
	if err := store.MarkExecuted(ctx, "tok", 5, 1500); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	got, _ := store.GetByTokenID(ctx, "tok")
	if !got[0].Executed || *got[0].ExecutedAt != 1500 {
		t.Errorf("entry 0 not marked once: %+v", got[0])
	}
	if got[1].Executed {
		t.Errorf("entry 1 must stay pending")
	}
	if timeline[0].Executed {
		t.Errorf("Save must copy the caller's slice")
	}

	if err := store.Save(ctx, "empty", nil); err != nil {
		t.Fatalf("Save empty failed: %v", err)
	}
	empty, err := store.GetByTokenID(ctx, "empty")
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty timeline, got %v, %v", empty, err)
	}
}

func TestLedger_ApplyTrade(t *testing.T) {
	ctx := context.Background()
	set := NewSet()

	tok := testToken("tok", 1000)
	if err := set.Tokens.Insert(ctx, tok); err != nil {
		t.Fatalf("Insert token failed: %v", err)
	}
	tr := testTrader("t1", "tok")
	if err := set.Traders.InsertBulk(ctx, []*domain.Trader{tr}); err != nil {
		t.Fatalf("Insert trader failed: %v", err)
	}

	tok.CirculatingSupply = 20_000
	tok.TransactionCount = 1
	tr.Holdings = 10_000
	w := storage.TradeWrite{
		Token:  tok,
		Trader: tr,
		Price:  &domain.PricePoint{TokenID: "tok", Seq: 1, TimestampMs: 2000},
		Record: &domain.TradeRecord{TradeID: "trade-1", TokenID: "tok", TraderID: "t1", TimestampMs: 2000},
	}
	if err := set.Ledger.ApplyTrade(ctx, w); err != nil {
		t.Fatalf("ApplyTrade failed: %v", err)
	}

	gotTok, _ := set.Tokens.GetByID(ctx, "tok")
	if gotTok.CirculatingSupply != 20_000 || gotTok.TransactionCount != 1 {
		t.Errorf("token not updated: %+v", gotTok)
	}

	// Second write collides on the trade id; nothing may change
	tok.CirculatingSupply = 30_000
	tr.Holdings = 20_000
	w.Price = &domain.PricePoint{TokenID: "tok", Seq: 2, TimestampMs: 3000}
	if err := set.Ledger.ApplyTrade(ctx, w); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	gotTok, _ = set.Tokens.GetByID(ctx, "tok")
	if gotTok.CirculatingSupply != 20_000 {
		t.Errorf("token changed by failed write: %v", gotTok.CirculatingSupply)
	}
	traders, _ := set.Traders.GetByTokenID(ctx, "tok")
	if traders[0].Holdings != 10_000 {
		t.Errorf("trader changed by failed write: %v", traders[0].Holdings)
	}
	points, _ := set.PriceHistory.GetByTokenID(ctx, "tok")
	if len(points) != 1 {
		t.Errorf("expected 1 price point, got %d", len(points))
	}

	w.Token = testToken("ghost", 0)
	if err := set.Ledger.ApplyTrade(ctx, w); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
