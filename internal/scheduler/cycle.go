package scheduler

import (
	"context"
	"errors"
	"fmt"

	"memelaunch-sim/internal/bondingcurve"
	"memelaunch-sim/internal/clock"
	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/events"
	"memelaunch-sim/internal/idhash"
	"memelaunch-sim/internal/lifecycle"
	"memelaunch-sim/internal/observability"
	"memelaunch-sim/internal/storage"
	"memelaunch-sim/internal/trader"
)

// Skipped trade reasons.
const (
	skipNoSupply   = "no_supply"
	skipNoHoldings = "no_holdings"
	skipStorage    = "storage"
)

// cycle runs one unit of work for a token:
//  1. execute due events in trigger order
//  2. offer each active agent one decision
//  3. re-evaluate lifecycle transitions
func (s *Scheduler) cycle(ctx context.Context, e *entry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil
	}

	nowMs := clock.UnixMs(s.clock.Now())

	tok, err := s.stores.Tokens.GetByID(ctx, e.tokenID)
	if err != nil {
		observability.RecordStorageError("load_token")
		return fmt.Errorf("load token: %w", err)
	}
	if tok.Status.IsTerminal() {
		s.log("token %s: already %s, deregistering", tok.TokenID, tok.Status)
		s.deregister(e)
		return nil
	}

	// Phase 1: events
	if s.executeDueEvents(ctx, e, tok, nowMs) {
		return nil
	}

	// Phase 2: agents
	if !tok.Flags.RugPull {
		if err := s.runAgents(ctx, tok, nowMs); err != nil {
			return err
		}
	}

	// Phase 3: lifecycle
	if tr, ok := s.rules.Evaluate(tok, nowMs); ok {
		s.terminate(ctx, e, tok, tr, nowMs)
	}
	return nil
}

// executeDueEvents executes every pending entry whose trigger time has passed.
// It reports true when a terminal event ended the token.
func (s *Scheduler) executeDueEvents(ctx context.Context, e *entry, tok *domain.Token, nowMs int64) bool {
	for i := range e.timeline {
		ev := &e.timeline[i]
		if ev.Executed {
			continue
		}
		if ev.TriggerAt > nowMs {
			break
		}

		s.markExecuted(ctx, e, ev, nowMs)
		observability.RecordEvent(string(ev.EventType))

		if ev.EventType.IsTerminal() {
			tr, _ := lifecycle.ForScheduledEvent(ev.EventType)
			// organic graduation preempts a scheduled end
			if g, ok := lifecycle.Graduation(tok); ok {
				tr = g
			}
			s.terminate(ctx, e, tok, tr, nowMs)
			return true
		}
		s.executeEvent(ctx, tok, ev.EventType, nowMs)
	}
	return false
}

func (s *Scheduler) markExecuted(ctx context.Context, e *entry, ev *domain.ScheduledEvent, nowMs int64) {
	ev.Executed = true
	at := nowMs
	ev.ExecutedAt = &at
	e.pending.Store(int32(events.Pending(e.timeline)))

	if err := s.stores.Timelines.MarkExecuted(ctx, e.tokenID, ev.Seq, nowMs); err != nil {
		observability.RecordStorageError("mark_executed")
		s.log("token %s: mark event %d executed: %v", e.tokenID, ev.Seq, err)
	}
}

// executeEvent applies a flag-setting event.
func (s *Scheduler) executeEvent(ctx context.Context, tok *domain.Token, t domain.EventType, nowMs int64) {
	if !events.SetFlag(tok, t) {
		s.log("token %s: skipping unknown event %q", tok.TokenID, t)
		return
	}
	if err := s.stores.Tokens.Update(ctx, tok); err != nil {
		observability.RecordStorageError("update_token")
		s.log("token %s: persist %s flag: %v", tok.TokenID, t, err)
	}
	s.audit(ctx, tok.TokenID, t, events.Note(t), nowMs)

	if t == domain.EventRugPull {
		n, err := s.stores.Traders.DeactivateByTokenID(ctx, tok.TokenID)
		if err != nil {
			observability.RecordStorageError("deactivate_traders")
			s.log("token %s: deactivate traders after rug pull: %v", tok.TokenID, err)
		} else {
			s.log("token %s: rug pull, %d agents deactivated", tok.TokenID, n)
		}
	}

	u := domain.NewMarketUpdate(domain.UpdateKindEvent, tok, nowMs)
	u.EventType = t
	u.Note = events.Note(t)
	s.notify(ctx, u)
}

// audit appends one event record. A record already written for the same
// token, type and time is treated as done.
func (s *Scheduler) audit(ctx context.Context, tokenID string, t domain.EventType, note string, nowMs int64) {
	rec := &domain.EventRecord{
		RecordID:      idhash.ComputeEventRecordID(tokenID, t, nowMs),
		TokenID:       tokenID,
		EventType:     t,
		Note:          note,
		ImpactPercent: events.Impact(t),
		Timestamp:     nowMs,
	}
	if err := s.stores.Events.Insert(ctx, rec); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		observability.RecordStorageError("insert_event_record")
		s.log("token %s: audit %s: %v", tokenID, t, err)
	}
}

// runAgents offers each active agent of tok one decision.
func (s *Scheduler) runAgents(ctx context.Context, tok *domain.Token, nowMs int64) error {
	agents, err := s.stores.Traders.GetActiveByTokenID(ctx, tok.TokenID)
	if err != nil {
		observability.RecordStorageError("load_traders")
		return fmt.Errorf("load traders: %w", err)
	}
	if len(agents) == 0 {
		return nil
	}

	curve, err := bondingcurve.New(tok.InitialInvestment, tok.TotalSupply, tok.CurveK, s.market.Slices)
	if err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	mood := s.assessMood(ctx, tok.TokenID, nowMs)

	for i, t := range agents {
		if i > 0 {
			if err := s.clock.Sleep(ctx, s.agentDelay); err != nil {
				return nil
			}
		}
		s.offerDecision(ctx, curve, tok, t, mood, nowMs)
	}
	return nil
}

func (s *Scheduler) assessMood(ctx context.Context, tokenID string, nowMs int64) trader.Mood {
	if !s.sentimentEnabled {
		return trader.NeutralMood()
	}
	recent, err := s.stores.Trades.GetByTimeRange(ctx, tokenID, nowMs-trader.SentimentWindowMs, nowMs)
	if err != nil {
		observability.RecordStorageError("load_trades")
		s.log("token %s: load recent trades: %v", tokenID, err)
		return trader.NeutralMood()
	}
	return trader.AssessMood(recent, nowMs)
}

func (s *Scheduler) offerDecision(ctx context.Context, curve bondingcurve.Curve, tok *domain.Token, t *domain.Trader, mood trader.Mood, nowMs int64) {
	d := trader.Decide(s.rand, t, tok, nowMs, mood)

	var side domain.TradeSide
	var priced bondingcurve.Trade
	switch d.Action {
	case trader.ActionBuy:
		amount, ok := trader.BuySize(s.rand, t.Archetype, tok)
		if !ok {
			observability.RecordSkippedTrade(skipNoSupply)
			return
		}
		side = domain.TradeSideBuy
		priced = curve.Buy(tok.CirculatingSupply, amount)
	case trader.ActionSell:
		amount, ok := trader.SellSize(s.rand, t.Holdings)
		if !ok || tok.CirculatingSupply <= 0 {
			observability.RecordSkippedTrade(skipNoHoldings)
			return
		}
		side = domain.TradeSideSell
		priced = curve.Sell(tok.CirculatingSupply, amount)
	default:
		return
	}

	if err := s.applyTrade(ctx, tok, t, side, priced, nowMs); err != nil {
		observability.RecordSkippedTrade(skipStorage)
		observability.RecordStorageError("apply_trade")
		s.log("token %s: trader %s %s: %v", tok.TokenID, t.TraderID, side, err)
	}
}

// applyTrade writes a priced trade through the ledger and, once stored,
// copies the new state into tok and t.
// The write is not cancelled by ctx so a stop never leaves a half-applied trade.
func (s *Scheduler) applyTrade(ctx context.Context, tok *domain.Token, t *domain.Trader, side domain.TradeSide, priced bondingcurve.Trade, nowMs int64) error {
	if priced.Amount <= 0 {
		return fmt.Errorf("empty %s", side)
	}

	nextTok := tok.Clone()
	nextTok.CirculatingSupply = priced.NewSupply
	nextTok.CurrentPrice = priced.NewPrice
	nextTok.MarketCap = priced.NewMarketCap
	nextTok.TransactionCount++
	nextTok.LastTradeAt = &nowMs

	nextTrader := t.Clone()
	switch side {
	case domain.TradeSideBuy:
		nextTrader.Holdings += priced.Amount
		nextTrader.TotalBought += priced.Amount
		nextTrader.Balance -= priced.Total
	case domain.TradeSideSell:
		nextTrader.Holdings -= priced.Amount
		nextTrader.TotalSold += priced.Amount
		nextTrader.Balance += priced.Total
		if nextTrader.Holdings <= 0 {
			nextTrader.Holdings = 0
			nextTrader.IsActive = false
		}
	}
	nextTrader.TradeCount++
	nextTrader.LastTradeAt = &nowMs

	seq := nextTok.TransactionCount
	point := &domain.PricePoint{
		TokenID:           tok.TokenID,
		Seq:               seq,
		TimestampMs:       nowMs,
		Price:             priced.NewPrice,
		Volume:            priced.Total,
		MarketCap:         priced.NewMarketCap,
		CirculatingSupply: priced.NewSupply,
		Side:              side,
	}
	record := &domain.TradeRecord{
		TradeID:       idhash.ComputeTradeID(tok.TokenID, t.TraderID, side, seq),
		TokenID:       tok.TokenID,
		TraderID:      t.TraderID,
		Archetype:     t.Archetype,
		Side:          side,
		Amount:        priced.Amount,
		AveragePrice:  priced.AveragePrice,
		Total:         priced.Total,
		PriceAfter:    priced.NewPrice,
		ProgressAfter: priced.NewProgress,
		TimestampMs:   nowMs,
	}

	writeCtx := context.WithoutCancel(ctx)
	err := s.stores.Ledger.ApplyTrade(writeCtx, storage.TradeWrite{
		Token:  nextTok,
		Trader: nextTrader,
		Price:  point,
		Record: record,
	})
	if err != nil {
		return fmt.Errorf("apply trade: %w", err)
	}
	*tok = *nextTok
	*t = *nextTrader

	if s.mirror != nil {
		if err := s.mirror.MirrorTrade(writeCtx, point, record); err != nil {
			observability.RecordMirrorError()
			s.log("token %s: mirror trade %s: %v", tok.TokenID, record.TradeID, err)
		}
	}

	observability.RecordTrade(string(side), string(t.Archetype), priced.Total)
	u := domain.NewMarketUpdate(domain.UpdateKindTrade, tok, nowMs)
	u.Trade = record
	s.notify(ctx, u)
	return nil
}

// terminate moves tok to its terminal state, retires its agents and deregisters it.
// The caller holds e.mu.
func (s *Scheduler) terminate(ctx context.Context, e *entry, tok *domain.Token, tr lifecycle.Transition, nowMs int64) {
	writeCtx := context.WithoutCancel(ctx)

	if err := lifecycle.Apply(tok, tr, nowMs); err != nil {
		s.log("token %s: transition to %s: %v", tok.TokenID, tr.To, err)
		s.deregister(e)
		return
	}
	if err := s.stores.Tokens.Update(writeCtx, tok); err != nil {
		observability.RecordStorageError("update_token")
		s.log("token %s: persist %s status: %v", tok.TokenID, tr.To, err)
	}
	if _, err := s.stores.Traders.DeactivateByTokenID(writeCtx, tok.TokenID); err != nil {
		observability.RecordStorageError("deactivate_traders")
		s.log("token %s: deactivate traders: %v", tok.TokenID, err)
	}
	s.audit(writeCtx, tok.TokenID, lifecycle.AuditEvent(tr.To), tr.Note, nowMs)

	s.deregister(e)
	observability.RecordTerminal(string(tr.To), string(tr.Reason))
	s.log("token %s: %s (%s)", tok.TokenID, tr.To, tr.Note)

	u := domain.NewMarketUpdate(domain.UpdateKindStatus, tok, nowMs)
	u.EventType = lifecycle.AuditEvent(tr.To)
	u.Note = tr.Note
	s.notify(ctx, u)
}
