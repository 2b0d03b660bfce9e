package reporting

import (
	"fmt"
	"strings"
	"time"

	"memelaunch-sim/internal/domain"
)

// RenderMarkdown renders a summary as Markdown string.
func RenderMarkdown(s *Summary) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Market Summary\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339)))

	// Tokens
	sb.WriteString("## Tokens\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total | %d |\n", s.TotalTokens))
	sb.WriteString(fmt.Sprintf("| Active | %d |\n", s.ActiveTokens))
	sb.WriteString(fmt.Sprintf("| Dead | %d |\n", s.DeadTokens))
	sb.WriteString(fmt.Sprintf("| Graduated | %d |\n", s.GraduatedTokens))
	sb.WriteString(fmt.Sprintf("| Average Progress | %.2f%% |\n", s.AverageProgress*100))
	sb.WriteString(fmt.Sprintf("| Total Transactions | %d |\n", s.TotalTransactions))
	sb.WriteString("\n")

	// Outcomes
	sb.WriteString("## Outcomes by Destiny\n\n")
	sb.WriteString("| Destiny | Tokens | Active | Dead | Graduated |\n")
	sb.WriteString("|---------|--------|--------|------|-----------|\n")
	for _, row := range s.Destinies {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d |\n",
			row.Destiny, row.Tokens, row.Active, row.Dead, row.Graduated))
	}
	sb.WriteString("\n")

	// Agents
	sb.WriteString("## Active Agents\n\n")
	sb.WriteString("| Archetype | Active |\n")
	sb.WriteString("|-----------|--------|\n")
	for _, a := range domain.AllArchetypes {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", a, s.ActiveAgents[a]))
	}

	return sb.String()
}
