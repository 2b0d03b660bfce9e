package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"memelaunch-sim/internal/bondingcurve"
	"memelaunch-sim/internal/clock"
	"memelaunch-sim/internal/destiny"
	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/events"
	"memelaunch-sim/internal/lifecycle"
	"memelaunch-sim/internal/observability"
	"memelaunch-sim/internal/storage"
	"memelaunch-sim/internal/trader"
	"memelaunch-sim/internal/wallet"
)

// LaunchRequest describes a new token. Zero supply or investment use the market defaults.
type LaunchRequest struct {
	Name              string
	Symbol            string
	TotalSupply       float64
	InitialInvestment float64
}

// Validate checks name, symbol and supply bounds.
func (r LaunchRequest) Validate(maxSupply float64) error {
	name := strings.TrimSpace(r.Name)
	if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
		return fmt.Errorf("%w: name must be 3-50 characters", ErrInvalidLaunch)
	}
	symbol := strings.TrimSpace(r.Symbol)
	if n := utf8.RuneCountInString(symbol); n < 2 || n > 10 {
		return fmt.Errorf("%w: symbol must be 2-10 characters", ErrInvalidLaunch)
	}
	if r.TotalSupply < 0 || (maxSupply > 0 && r.TotalSupply > maxSupply) {
		return fmt.Errorf("%w: total supply must be in (0, %g]", ErrInvalidLaunch, maxSupply)
	}
	if r.InitialInvestment < 0 {
		return fmt.Errorf("%w: initial investment must be positive", ErrInvalidLaunch)
	}
	return nil
}

// Launch creates a token, applies the creator pre-purchase and initializes it.
func (s *Scheduler) Launch(ctx context.Context, req LaunchRequest) (*domain.Token, error) {
	if err := req.Validate(s.market.MaxTotalSupply); err != nil {
		return nil, err
	}
	supply := req.TotalSupply
	if supply == 0 {
		supply = s.market.DefaultTotalSupply
	}
	investment := req.InitialInvestment
	if investment == 0 {
		investment = s.market.DefaultInitialInvestment
	}

	curve, err := bondingcurve.New(investment, supply, s.market.CurveK, s.market.Slices)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLaunch, err)
	}

	var pre bondingcurve.Trade
	if s.market.MinimumPrePurchase > 0 {
		amount, err := bondingcurve.MinimumPrePurchase(s.market.MinimumPrePurchase, curve.InitialPrice(), supply, curve.K)
		if err != nil {
			return nil, fmt.Errorf("%w: creator pre-purchase: %v", ErrInvalidLaunch, err)
		}
		pre = curve.Buy(0, float64(amount))
	} else {
		pre = curve.Buy(0, 0)
	}

	nowMs := clock.UnixMs(s.clock.Now())
	tok := &domain.Token{
		TokenID:           uuid.NewString(),
		Name:              strings.TrimSpace(req.Name),
		Symbol:            strings.ToUpper(strings.TrimSpace(req.Symbol)),
		MintAddress:       wallet.Generate(),
		TotalSupply:       supply,
		CirculatingSupply: pre.NewSupply,
		CurrentPrice:      pre.NewPrice,
		MarketCap:         pre.NewMarketCap,
		CurveK:            curve.K,
		InitialInvestment: investment,
		Status:            domain.TokenStatusActive,
		CreatedAt:         nowMs,
	}
	if err := s.stores.Tokens.Insert(ctx, tok); err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}

	launchPoint := &domain.PricePoint{
		TokenID:           tok.TokenID,
		Seq:               0,
		TimestampMs:       nowMs,
		Price:             pre.NewPrice,
		Volume:            pre.Total,
		MarketCap:         pre.NewMarketCap,
		CirculatingSupply: pre.NewSupply,
	}
	if err := s.stores.PriceHistory.Insert(ctx, launchPoint); err != nil {
		return nil, fmt.Errorf("insert launch price: %w", err)
	}

	s.log("launched %s (%s), supply %g, creator bought %g for %.4f",
		tok.Symbol, tok.TokenID, supply, pre.Amount, pre.Total)

	return s.InitializeToken(ctx, tok.TokenID)
}

// InitializeToken draws the destiny, creates the agents, builds the event
// timeline and registers the token. Parts that already exist are reused,
// so an existing token can be retrofitted.
func (s *Scheduler) InitializeToken(ctx context.Context, tokenID string) (*domain.Token, error) {
	tok, err := s.stores.Tokens.GetByID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if tok.Status.IsTerminal() {
		return nil, lifecycle.ErrTerminal
	}

	e, err := s.reserve(tok.TokenID, tok.CreatedAt)
	if err != nil {
		return nil, err
	}

	nowMs := clock.UnixMs(s.clock.Now())

	if tok.Destiny == "" {
		tok.Destiny = destiny.Select(s.rand)
		if err := s.stores.Tokens.Update(ctx, tok); err != nil {
			s.abandon(e)
			return nil, fmt.Errorf("persist destiny: %w", err)
		}
		observability.RecordLaunch(string(tok.Destiny))
	}

	agents, err := s.stores.Traders.GetByTokenID(ctx, tok.TokenID)
	if err != nil {
		s.abandon(e)
		return nil, fmt.Errorf("load traders: %w", err)
	}
	if len(agents) == 0 {
		agents = trader.Populate(s.rand, tok.TokenID, tok.Destiny, nowMs)
		if err := s.stores.Traders.InsertBulk(ctx, agents); err != nil {
			s.abandon(e)
			return nil, fmt.Errorf("insert traders: %w", err)
		}
	}

	timeline, err := s.stores.Timelines.GetByTokenID(ctx, tok.TokenID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		timeline = events.BuildTimeline(s.rand, tok.TokenID, tok.Destiny, tok.CreatedAt)
		if err := s.stores.Timelines.Save(ctx, tok.TokenID, timeline); err != nil {
			s.abandon(e)
			return nil, fmt.Errorf("save timeline: %w", err)
		}
		s.audit(ctx, tok.TokenID, domain.EventCoinCreated, events.CreatedNote(tok.Destiny), nowMs)
	case err != nil:
		s.abandon(e)
		return nil, fmt.Errorf("load timeline: %w", err)
	}

	e.timeline = timeline
	e.pending.Store(int32(events.Pending(timeline)))
	e.mu.Unlock()

	s.log("token %s: destiny %s, %d agents, %d scheduled events",
		tok.TokenID, tok.Destiny, len(agents), len(timeline))
	s.notify(ctx, domain.NewMarketUpdate(domain.UpdateKindStatus, tok, nowMs))
	return tok, nil
}

// Recover registers every active token found in storage using its persisted timeline.
// Tokens without a timeline are skipped unless regeneration is enabled, in which
// case a fresh timeline is drawn from the token's creation time.
// It returns the number of tokens registered.
func (s *Scheduler) Recover(ctx context.Context) (int, error) {
	tokens, err := s.stores.Tokens.GetByStatus(ctx, domain.TokenStatusActive)
	if err != nil {
		return 0, fmt.Errorf("load active tokens: %w", err)
	}

	recovered := 0
	for _, tok := range tokens {
		if s.IsRegistered(tok.TokenID) {
			continue
		}
		if tok.Destiny == "" {
			s.log("recover: token %s has no destiny, skipping", tok.TokenID)
			continue
		}

		timeline, err := s.stores.Timelines.GetByTokenID(ctx, tok.TokenID)
		if errors.Is(err, storage.ErrNotFound) {
			if !s.regenerateMissingTimelines {
				s.log("recover: token %s has no stored timeline, skipping", tok.TokenID)
				continue
			}
			timeline = events.BuildTimeline(s.rand, tok.TokenID, tok.Destiny, tok.CreatedAt)
			if err := s.stores.Timelines.Save(ctx, tok.TokenID, timeline); err != nil {
				s.log("recover: token %s: save regenerated timeline: %v", tok.TokenID, err)
				continue
			}
			s.log("recover: token %s: regenerated timeline, the first draw is lost", tok.TokenID)
		} else if err != nil {
			observability.RecordStorageError("load_timeline")
			s.log("recover: token %s: load timeline: %v", tok.TokenID, err)
			continue
		}

		e, err := s.reserve(tok.TokenID, tok.CreatedAt)
		if err != nil {
			continue
		}
		e.timeline = timeline
		e.pending.Store(int32(events.Pending(timeline)))
		e.mu.Unlock()
		recovered++
	}

	s.log("recovered %d of %d active tokens", recovered, len(tokens))
	return recovered, nil
}
