package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
	"memelaunch-sim/internal/storage/memory"
)

func setupTestData(t *testing.T) storage.Set {
	ctx := context.Background()
	stores := memory.NewSet()

	tokens := []*domain.Token{
		{TokenID: "a", TotalSupply: 1000, CirculatingSupply: 500, Destiny: domain.DestinySurvival, Status: domain.TokenStatusActive, TransactionCount: 10, CreatedAt: 1000},
		{TokenID: "b", TotalSupply: 1000, CirculatingSupply: 0, Destiny: domain.DestinyDeath5Min, Status: domain.TokenStatusDead, TransactionCount: 4, CreatedAt: 2000},
		{TokenID: "c", TotalSupply: 1000, CirculatingSupply: 1000, Destiny: domain.DestinyGraduated, Status: domain.TokenStatusGraduated, TransactionCount: 30, CreatedAt: 3000},
	}
	for _, tok := range tokens {
		if err := stores.Tokens.Insert(ctx, tok); err != nil {
			t.Fatalf("Insert token failed: %v", err)
		}
	}

	traders := []*domain.Trader{
		{TraderID: "t1", TokenID: "a", Archetype: domain.ArchetypeBot, IsActive: true},
		{TraderID: "t2", TokenID: "a", Archetype: domain.ArchetypeBot, IsActive: true},
		{TraderID: "t3", TokenID: "a", Archetype: domain.ArchetypeWhale, IsActive: false},
		{TraderID: "t4", TokenID: "b", Archetype: domain.ArchetypeRetail, IsActive: false},
	}
	if err := stores.Traders.InsertBulk(ctx, traders); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	return stores
}

func TestGenerator_Summarize(t *testing.T) {
	stores := setupTestData(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s, err := NewGenerator(stores.Tokens, stores.Traders).
		WithClock(func() time.Time { return fixed }).
		Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if !s.GeneratedAt.Equal(fixed) {
		t.Errorf("GeneratedAt = %v, want %v", s.GeneratedAt, fixed)
	}
	if s.TotalTokens != 3 || s.ActiveTokens != 1 || s.DeadTokens != 1 || s.GraduatedTokens != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.AverageProgress != 0.5 {
		t.Errorf("AverageProgress = %f, want 0.5", s.AverageProgress)
	}
	if s.TotalTransactions != 44 {
		t.Errorf("TotalTransactions = %d, want 44", s.TotalTransactions)
	}
	if s.ActiveAgents[domain.ArchetypeBot] != 2 {
		t.Errorf("active bots = %d, want 2", s.ActiveAgents[domain.ArchetypeBot])
	}
	if s.ActiveAgents[domain.ArchetypeWhale] != 0 {
		t.Errorf("inactive whale counted")
	}
	if len(s.ActiveAgents) != len(domain.AllArchetypes) {
		t.Errorf("expected every archetype in ActiveAgents, got %d", len(s.ActiveAgents))
	}
	if s.TotalActiveAgents() != 2 {
		t.Errorf("TotalActiveAgents = %d, want 2", s.TotalActiveAgents())
	}

	if len(s.Destinies) != len(domain.AllDestinies) {
		t.Fatalf("expected %d destiny rows, got %d", len(domain.AllDestinies), len(s.Destinies))
	}
	if s.Destinies[0].Destiny != domain.DestinyGraduated || s.Destinies[0].Graduated != 1 {
		t.Errorf("unexpected GRADUATED row: %+v", s.Destinies[0])
	}
	if s.Destinies[1].Dead != 1 {
		t.Errorf("unexpected DEATH_5MIN row: %+v", s.Destinies[1])
	}
}

func TestGenerator_SummarizeEmpty(t *testing.T) {
	stores := memory.NewSet()
	s, err := NewGenerator(stores.Tokens, stores.Traders).Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.TotalTokens != 0 || s.AverageProgress != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
}

func TestRenderPriceHistoryCSV(t *testing.T) {
	points := []*domain.PricePoint{
		{TokenID: "a", Seq: 0, TimestampMs: 1000, Price: 0.002, Volume: 100, MarketCap: 100, CirculatingSupply: 50000},
		{TokenID: "a", Seq: 1, TimestampMs: 2000, Price: 0.0021, Volume: 5, MarketCap: 110, CirculatingSupply: 52000, Side: domain.TradeSideBuy},
	}

	csv := RenderPriceHistoryCSV(points)
	lines := strings.Split(strings.TrimSpace(csv), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "token_id,seq,timestamp_ms,side,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "a,0,1000,launch,") {
		t.Errorf("unexpected launch row: %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "a,1,2000,buy,0.0021000000,") {
		t.Errorf("unexpected trade row: %s", lines[2])
	}
}

func TestRenderTradesCSV(t *testing.T) {
	trades := []*domain.TradeRecord{
		{TradeID: "x", TokenID: "a", TraderID: "t1", Archetype: domain.ArchetypeBot, Side: domain.TradeSideSell, TimestampMs: 5, Amount: 10},
	}

	lines := strings.Split(strings.TrimSpace(RenderTradesCSV(trades)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "x,a,t1,BOT,sell,5,10.00,") {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestRenderMarkdown(t *testing.T) {
	stores := setupTestData(t)
	s, err := NewGenerator(stores.Tokens, stores.Traders).Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	md := RenderMarkdown(s)
	for _, want := range []string{"# Market Summary", "| Total | 3 |", "| Average Progress | 50.00% |", "| BOT | 2 |", "| GRADUATED | 1 | 0 | 0 | 1 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
