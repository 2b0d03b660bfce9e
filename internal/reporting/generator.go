// Package reporting summarizes the simulated market and exports its history.
package reporting

import (
	"context"
	"fmt"
	"time"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/storage"
)

// Generator produces summaries from stored data.
type Generator struct {
	tokenStore  storage.TokenStore
	traderStore storage.TraderStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new summary generator.
func NewGenerator(tokenStore storage.TokenStore, traderStore storage.TraderStore) *Generator {
	return &Generator{
		tokenStore:  tokenStore,
		traderStore: traderStore,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Summarize computes the market summary across every token.
func (g *Generator) Summarize(ctx context.Context) (*Summary, error) {
	s := &Summary{
		GeneratedAt:  g.now(),
		ActiveAgents: make(map[domain.Archetype]int, len(domain.AllArchetypes)),
	}
	for _, a := range domain.AllArchetypes {
		s.ActiveAgents[a] = 0
	}

	rows := make(map[domain.Destiny]*DestinyRow, len(domain.AllDestinies))
	for _, d := range domain.AllDestinies {
		rows[d] = &DestinyRow{Destiny: d}
	}

	var progressSum float64
	for _, status := range []domain.TokenStatus{domain.TokenStatusActive, domain.TokenStatusDead, domain.TokenStatusGraduated} {
		tokens, err := g.tokenStore.GetByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("load %s tokens: %w", status, err)
		}

		for _, tok := range tokens {
			s.TotalTokens++
			progressSum += tok.Progress()
			s.TotalTransactions += tok.TransactionCount

			row := rows[tok.Destiny]
			if row != nil {
				row.Tokens++
			}

			switch status {
			case domain.TokenStatusActive:
				s.ActiveTokens++
				if row != nil {
					row.Active++
				}
				if err := g.countAgents(ctx, tok.TokenID, s.ActiveAgents); err != nil {
					return nil, err
				}
			case domain.TokenStatusDead:
				s.DeadTokens++
				if row != nil {
					row.Dead++
				}
			case domain.TokenStatusGraduated:
				s.GraduatedTokens++
				if row != nil {
					row.Graduated++
				}
			}
		}
	}

	if s.TotalTokens > 0 {
		s.AverageProgress = progressSum / float64(s.TotalTokens)
	}
	for _, d := range domain.AllDestinies {
		s.Destinies = append(s.Destinies, *rows[d])
	}
	return s, nil
}

// countAgents adds the active agents of a token. Agents of terminal tokens are
// always inactive, so only active tokens are visited.
func (g *Generator) countAgents(ctx context.Context, tokenID string, counts map[domain.Archetype]int) error {
	agents, err := g.traderStore.GetActiveByTokenID(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("load agents of %s: %w", tokenID, err)
	}
	for _, a := range agents {
		counts[a.Archetype]++
	}
	return nil
}
