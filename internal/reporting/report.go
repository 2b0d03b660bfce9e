package reporting

import (
	"time"

	"memelaunch-sim/internal/domain"
)

// Summary is the market-wide snapshot served at /stats and printed by simulate.
type Summary struct {
	GeneratedAt time.Time `json:"generated_at"`

	// Token counts
	TotalTokens     int `json:"total_tokens"`
	ActiveTokens    int `json:"active_tokens"`
	DeadTokens      int `json:"dead_tokens"`
	GraduatedTokens int `json:"graduated_tokens"`

	AverageProgress   float64 `json:"average_progress"` // over all tokens, in [0,1]
	TotalTransactions int64   `json:"total_transactions"`

	// Active agents per archetype, every archetype present
	ActiveAgents map[domain.Archetype]int `json:"active_agents"`

	// Outcomes per destiny, sorted by destiny draw order
	Destinies []DestinyRow `json:"destinies"`
}

// DestinyRow counts token outcomes for one destiny.
type DestinyRow struct {
	Destiny   domain.Destiny `json:"destiny"`
	Tokens    int            `json:"tokens"`
	Active    int            `json:"active"`
	Dead      int            `json:"dead"`
	Graduated int            `json:"graduated"`
}

// TotalActiveAgents sums ActiveAgents.
func (s *Summary) TotalActiveAgents() int {
	n := 0
	for _, c := range s.ActiveAgents {
		n += c
	}
	return n
}
