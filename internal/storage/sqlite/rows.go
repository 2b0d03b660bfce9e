package sqlite

import "memelaunch-sim/internal/domain"

type tokenRow struct {
	TokenID           string  `db:"token_id"`
	Name              string  `db:"name"`
	Symbol            string  `db:"symbol"`
	MintAddress       string  `db:"mint_address"`
	TotalSupply       float64 `db:"total_supply"`
	CirculatingSupply float64 `db:"circulating_supply"`
	CurrentPrice      float64 `db:"current_price"`
	MarketCap         float64 `db:"market_cap"`
	CurveK            float64 `db:"curve_k"`
	InitialInvestment float64 `db:"initial_investment"`
	Destiny           string  `db:"destiny"`
	Status            string  `db:"status"`
	FlagSniperAttack  bool    `db:"flag_sniper_attack"`
	FlagWhaleBuy      bool    `db:"flag_whale_buy"`
	FlagRugPull       bool    `db:"flag_rug_pull"`
	FlagPanicSell     bool    `db:"flag_panic_sell"`
	FlagFomoBuy       bool    `db:"flag_fomo_buy"`
	FlagViralMoment   bool    `db:"flag_viral_moment"`
	TransactionCount  int64   `db:"transaction_count"`
	CreatedAt         int64   `db:"created_at"`
	LastTradeAt       *int64  `db:"last_trade_at"`
	TerminatedAt      *int64  `db:"terminated_at"`
	TerminalReason    string  `db:"terminal_reason"`
}

func toTokenRow(t *domain.Token) tokenRow {
	return tokenRow{
		TokenID:           t.TokenID,
		Name:              t.Name,
		Symbol:            t.Symbol,
		MintAddress:       t.MintAddress,
		TotalSupply:       t.TotalSupply,
		CirculatingSupply: t.CirculatingSupply,
		CurrentPrice:      t.CurrentPrice,
		MarketCap:         t.MarketCap,
		CurveK:            t.CurveK,
		InitialInvestment: t.InitialInvestment,
		Destiny:           string(t.Destiny),
		Status:            string(t.Status),
		FlagSniperAttack:  t.Flags.SniperAttack,
		FlagWhaleBuy:      t.Flags.WhaleBuy,
		FlagRugPull:       t.Flags.RugPull,
		FlagPanicSell:     t.Flags.PanicSell,
		FlagFomoBuy:       t.Flags.FomoBuy,
		FlagViralMoment:   t.Flags.ViralMoment,
		TransactionCount:  t.TransactionCount,
		CreatedAt:         t.CreatedAt,
		LastTradeAt:       t.LastTradeAt,
		TerminatedAt:      t.TerminatedAt,
		TerminalReason:    t.TerminalReason,
	}
}

func (r tokenRow) toDomain() *domain.Token {
	return &domain.Token{
		TokenID:           r.TokenID,
		Name:              r.Name,
		Symbol:            r.Symbol,
		MintAddress:       r.MintAddress,
		TotalSupply:       r.TotalSupply,
		CirculatingSupply: r.CirculatingSupply,
		CurrentPrice:      r.CurrentPrice,
		MarketCap:         r.MarketCap,
		CurveK:            r.CurveK,
		InitialInvestment: r.InitialInvestment,
		Destiny:           domain.Destiny(r.Destiny),
		Status:            domain.TokenStatus(r.Status),
		Flags: domain.EventFlags{
			SniperAttack: r.FlagSniperAttack,
			WhaleBuy:     r.FlagWhaleBuy,
			RugPull:      r.FlagRugPull,
			PanicSell:    r.FlagPanicSell,
			FomoBuy:      r.FlagFomoBuy,
			ViralMoment:  r.FlagViralMoment,
		},
		TransactionCount: r.TransactionCount,
		CreatedAt:        r.CreatedAt,
		LastTradeAt:      r.LastTradeAt,
		TerminatedAt:     r.TerminatedAt,
		TerminalReason:   r.TerminalReason,
	}
}

type traderRow struct {
	TraderID            string  `db:"trader_id"`
	TokenID             string  `db:"token_id"`
	Archetype           string  `db:"archetype"`
	Handle              string  `db:"handle"`
	WalletAddress       string  `db:"wallet_address"`
	Holdings            float64 `db:"holdings"`
	TotalBought         float64 `db:"total_bought"`
	TotalSold           float64 `db:"total_sold"`
	Balance             float64 `db:"balance"`
	TargetProfitPercent float64 `db:"target_profit_percent"`
	TradeCount          int64   `db:"trade_count"`
	IsActive            bool    `db:"is_active"`
	CreatedAt           int64   `db:"created_at"`
	LastTradeAt         *int64  `db:"last_trade_at"`
}

func toTraderRow(t *domain.Trader) traderRow {
	return traderRow{
		TraderID:            t.TraderID,
		TokenID:             t.TokenID,
		Archetype:           string(t.Archetype),
		Handle:              t.Handle,
		WalletAddress:       t.WalletAddress,
		Holdings:            t.Holdings,
		TotalBought:         t.TotalBought,
		TotalSold:           t.TotalSold,
		Balance:             t.Balance,
		TargetProfitPercent: t.TargetProfitPercent,
		TradeCount:          t.TradeCount,
		IsActive:            t.IsActive,
		CreatedAt:           t.CreatedAt,
		LastTradeAt:         t.LastTradeAt,
	}
}

func (r traderRow) toDomain() *domain.Trader {
	return &domain.Trader{
		TraderID:            r.TraderID,
		TokenID:             r.TokenID,
		Archetype:           domain.Archetype(r.Archetype),
		Handle:              r.Handle,
		WalletAddress:       r.WalletAddress,
		Holdings:            r.Holdings,
		TotalBought:         r.TotalBought,
		TotalSold:           r.TotalSold,
		Balance:             r.Balance,
		TargetProfitPercent: r.TargetProfitPercent,
		TradeCount:          r.TradeCount,
		IsActive:            r.IsActive,
		CreatedAt:           r.CreatedAt,
		LastTradeAt:         r.LastTradeAt,
	}
}

type pricePointRow struct {
	TokenID           string  `db:"token_id"`
	Seq               int64   `db:"seq"`
	TimestampMs       int64   `db:"timestamp_ms"`
	Price             float64 `db:"price"`
	Volume            float64 `db:"volume"`
	MarketCap         float64 `db:"market_cap"`
	CirculatingSupply float64 `db:"circulating_supply"`
	Side              string  `db:"side"`
}

func (r pricePointRow) toDomain() *domain.PricePoint {
	return &domain.PricePoint{
		TokenID:           r.TokenID,
		Seq:               r.Seq,
		TimestampMs:       r.TimestampMs,
		Price:             r.Price,
		Volume:            r.Volume,
		MarketCap:         r.MarketCap,
		CirculatingSupply: r.CirculatingSupply,
		Side:              domain.TradeSide(r.Side),
	}
}

type eventRecordRow struct {
	RecordID      string  `db:"record_id"`
	TokenID       string  `db:"token_id"`
	EventType     string  `db:"event_type"`
	Note          string  `db:"note"`
	ImpactPercent float64 `db:"impact_percent"`
	TimestampMs   int64   `db:"timestamp_ms"`
}

type tradeRecordRow struct {
	TradeID       string  `db:"trade_id"`
	TokenID       string  `db:"token_id"`
	TraderID      string  `db:"trader_id"`
	Archetype     string  `db:"archetype"`
	Side          string  `db:"side"`
	Amount        float64 `db:"amount"`
	AveragePrice  float64 `db:"average_price"`
	Total         float64 `db:"total"`
	PriceAfter    float64 `db:"price_after"`
	ProgressAfter float64 `db:"progress_after"`
	TimestampMs   int64   `db:"timestamp_ms"`
}

func (r tradeRecordRow) toDomain() *domain.TradeRecord {
	return &domain.TradeRecord{
		TradeID:       r.TradeID,
		TokenID:       r.TokenID,
		TraderID:      r.TraderID,
		Archetype:     domain.Archetype(r.Archetype),
		Side:          domain.TradeSide(r.Side),
		Amount:        r.Amount,
		AveragePrice:  r.AveragePrice,
		Total:         r.Total,
		PriceAfter:    r.PriceAfter,
		ProgressAfter: r.ProgressAfter,
		TimestampMs:   r.TimestampMs,
	}
}

type timelineEntryRow struct {
	TokenID    string `db:"token_id"`
	Seq        int    `db:"seq"`
	EventType  string `db:"event_type"`
	TriggerAt  int64  `db:"trigger_at"`
	Executed   bool   `db:"executed"`
	ExecutedAt *int64 `db:"executed_at"`
}
