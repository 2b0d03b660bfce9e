package reporting

import (
	"fmt"
	"strings"

	"memelaunch-sim/internal/domain"
)

// RenderPriceHistoryCSV renders a token's price history as CSV string.
func RenderPriceHistoryCSV(points []*domain.PricePoint) string {
	var sb strings.Builder

	// Header
	sb.WriteString("token_id,seq,timestamp_ms,side,price,volume,market_cap,circulating_supply\n")

	// Rows
	for _, p := range points {
		side := string(p.Side)
		if side == "" {
			side = "launch"
		}
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%s,%.10f,%.6f,%.6f,%.2f\n",
			p.TokenID,
			p.Seq,
			p.TimestampMs,
			side,
			p.Price,
			p.Volume,
			p.MarketCap,
			p.CirculatingSupply,
		))
	}

	return sb.String()
}

// RenderTradesCSV renders trade records as CSV string.
func RenderTradesCSV(trades []*domain.TradeRecord) string {
	var sb strings.Builder

	sb.WriteString("trade_id,token_id,trader_id,archetype,side,timestamp_ms,amount,average_price,total,price_after,progress_after\n")

	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%d,%.2f,%.10f,%.6f,%.10f,%.6f\n",
			t.TradeID,
			t.TokenID,
			t.TraderID,
			t.Archetype,
			t.Side,
			t.TimestampMs,
			t.Amount,
			t.AveragePrice,
			t.Total,
			t.PriceAfter,
			t.ProgressAfter,
		))
	}

	return sb.String()
}
