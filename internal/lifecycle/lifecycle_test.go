package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memelaunch-sim/internal/domain"
)

const now int64 = 1_700_000_000_000

func ptr[T any](v T) *T {
	return &v
}

func activeToken() *domain.Token {
	return &domain.Token{
		TokenID:           "tok",
		TotalSupply:       1_000_000,
		CirculatingSupply: 200_000,
		Status:            domain.TokenStatusActive,
		CreatedAt:         now - 30*60_000,
		LastTradeAt:       ptr(now - 60_000),
		TransactionCount:  20,
	}
}

func TestEvaluate(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name   string
		mutate func(*domain.Token)
		want   *Transition
	}{
		{
			name:   "healthy token stays active",
			mutate: func(*domain.Token) {},
		},
		{
			name:   "rug pull flag kills",
			mutate: func(tok *domain.Token) { tok.Flags.RugPull = true },
			want:   &Transition{To: domain.TokenStatusDead, Reason: ReasonRugPull},
		},
		{
			name:   "rug pull wins over graduation",
			mutate: func(tok *domain.Token) { tok.Flags.RugPull = true; tok.CirculatingSupply = tok.TotalSupply },
			want:   &Transition{To: domain.TokenStatusDead, Reason: ReasonRugPull},
		},
		{
			name:   "starved",
			mutate: func(tok *domain.Token) { tok.CirculatingSupply = 5_000; tok.TransactionCount = 11 },
			want:   &Transition{To: domain.TokenStatusDead, Reason: ReasonStarved},
		},
		{
			name:   "low progress with few transactions survives",
			mutate: func(tok *domain.Token) { tok.CirculatingSupply = 5_000; tok.TransactionCount = 10 },
		},
		{
			name:   "inactive",
			mutate: func(tok *domain.Token) { tok.LastTradeAt = ptr(now - 11*60_000); tok.TransactionCount = 6 },
			want:   &Transition{To: domain.TokenStatusDead, Reason: ReasonInactive},
		},
		{
			name:   "quiet with few transactions survives",
			mutate: func(tok *domain.Token) { tok.LastTradeAt = ptr(now - 11*60_000); tok.TransactionCount = 5 },
		},
		{
			name:   "organic graduation",
			mutate: func(tok *domain.Token) { tok.CirculatingSupply = tok.TotalSupply },
			want:   &Transition{To: domain.TokenStatusGraduated, Reason: ReasonGraduated},
		},
		{
			name:   "terminal tokens never transition",
			mutate: func(tok *domain.Token) { tok.Status = domain.TokenStatusDead; tok.Flags.RugPull = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := activeToken()
			tt.mutate(tok)

			got, ok := rules.Evaluate(tok, now)
			if tt.want == nil {
				assert.False(t, ok, "unexpected transition %+v", got)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want.To, got.To)
			assert.Equal(t, tt.want.Reason, got.Reason)
			assert.NotEmpty(t, got.Note)
		})
	}
}

func TestEvaluate_Notes(t *testing.T) {
	rules := DefaultRules()

	tok := activeToken()
	tok.CirculatingSupply = 100
	got, _ := rules.Evaluate(tok, now)
	assert.Equal(t, "Bonding curve progress dropped below 1%", got.Note)

	tok = activeToken()
	tok.LastTradeAt = ptr(now - time.Hour.Milliseconds())
	got, _ = rules.Evaluate(tok, now)
	assert.Equal(t, "No trading activity for 10 minutes", got.Note)
}

func TestApply_OneWay(t *testing.T) {
	tok := activeToken()

	require.NoError(t, Apply(tok, Transition{To: domain.TokenStatusGraduated, Note: "done"}, now))
	assert.Equal(t, domain.TokenStatusGraduated, tok.Status)
	assert.Equal(t, now, *tok.TerminatedAt)
	assert.Equal(t, "done", tok.TerminalReason)

	err := Apply(tok, Transition{To: domain.TokenStatusDead}, now+1)
	assert.ErrorIs(t, err, ErrTerminal)
	assert.Equal(t, domain.TokenStatusGraduated, tok.Status)
}

func TestApply_RejectsNonTerminalTarget(t *testing.T) {
	tok := activeToken()
	assert.Error(t, Apply(tok, Transition{To: domain.TokenStatusActive}, now))
}

func TestForScheduledEvent(t *testing.T) {
	tr, ok := ForScheduledEvent(domain.EventCoinDeath)
	require.True(t, ok)
	assert.Equal(t, domain.TokenStatusDead, tr.To)
	assert.Equal(t, "Scheduled death event", tr.Note)

	_, ok = ForScheduledEvent(domain.EventWhaleBuy)
	assert.False(t, ok)

	assert.Equal(t, domain.EventCoinGraduation, AuditEvent(domain.TokenStatusGraduated))
	assert.Equal(t, domain.EventCoinDeath, AuditEvent(domain.TokenStatusDead))
}
