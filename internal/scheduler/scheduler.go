// Package scheduler drives the simulated market.
// It owns the registry of active tokens and advances each of them on a fixed cadence:
// due events -> agent decisions -> lifecycle checks.
package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"memelaunch-sim/internal/bondingcurve"
	"memelaunch-sim/internal/clock"
	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/feed"
	"memelaunch-sim/internal/lifecycle"
	"memelaunch-sim/internal/observability"
	"memelaunch-sim/internal/rng"
	"memelaunch-sim/internal/storage"
)

// Scheduler errors.
var (
	ErrAlreadyRunning    = errors.New("scheduler already running")
	ErrNotRegistered     = errors.New("token not registered")
	ErrAlreadyRegistered = errors.New("token already registered")
	ErrInvalidLaunch     = errors.New("invalid launch request")
)

// Default cadence.
const (
	DefaultTickInterval = 10 * time.Second
	DefaultAgentDelay   = 100 * time.Millisecond
	DefaultTokenDelay   = 200 * time.Millisecond
)

// Market holds the launch and pricing parameters.
type Market struct {
	CurveK                   float64
	Slices                   int
	DefaultTotalSupply       float64
	DefaultInitialInvestment float64
	MinimumPrePurchase       float64 // creator spend at launch, 0 disables
	MaxTotalSupply           float64
}

// DefaultMarket returns the standard launch parameters.
func DefaultMarket() Market {
	return Market{
		CurveK:                   bondingcurve.DefaultK,
		Slices:                   bondingcurve.DefaultSlices,
		DefaultTotalSupply:       1_000_000,
		DefaultInitialInvestment: 2_000,
		MinimumPrePurchase:       100,
		MaxTotalSupply:           1_000_000_000,
	}
}

// Options for creating a Scheduler.
type Options struct {
	// Required
	Stores storage.Set

	// Optional collaborators
	Clock    clock.Clock         // defaults to the wall clock
	Rand     rng.Source          // defaults to a time-seeded source
	Notifier feed.Notifier       // live market updates
	Mirror   storage.TradeMirror // analytics copy of applied trades
	Logger   *log.Logger

	// Cadence
	TickInterval time.Duration
	AgentDelay   time.Duration
	TokenDelay   time.Duration
	Workers      int // tokens processed concurrently, 1 is sequential

	Rules  lifecycle.Rules
	Market Market

	SentimentEnabled           bool
	RegenerateMissingTimelines bool
}

// Scheduler advances every registered token on each tick.
// All mutation of one token happens under that token's entry lock.
type Scheduler struct {
	stores   storage.Set
	clock    clock.Clock
	rand     rng.Source
	notifier feed.Notifier
	mirror   storage.TradeMirror
	logger   *log.Logger

	tickInterval time.Duration
	agentDelay   time.Duration
	tokenDelay   time.Duration
	workers      int
	rules        lifecycle.Rules
	market       Market

	sentimentEnabled           bool
	regenerateMissingTimelines bool

	mu      sync.Mutex
	entries map[string]*entry
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// entry is the scheduler state of one registered token.
type entry struct {
	mu        sync.Mutex
	tokenID   string
	createdAt int64
	timeline  []domain.ScheduledEvent
	removed   bool
	pending   atomic.Int32
}

// New creates a new Scheduler.
func New(opts Options) *Scheduler {
	s := &Scheduler{
		stores:                     opts.Stores,
		clock:                      opts.Clock,
		rand:                       opts.Rand,
		notifier:                   opts.Notifier,
		mirror:                     opts.Mirror,
		logger:                     opts.Logger,
		tickInterval:               opts.TickInterval,
		agentDelay:                 opts.AgentDelay,
		tokenDelay:                 opts.TokenDelay,
		workers:                    opts.Workers,
		rules:                      opts.Rules,
		market:                     opts.Market,
		sentimentEnabled:           opts.SentimentEnabled,
		regenerateMissingTimelines: opts.RegenerateMissingTimelines,
		entries:                    make(map[string]*entry),
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.rand == nil {
		s.rand = rng.New(0)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if s.tickInterval <= 0 {
		s.tickInterval = DefaultTickInterval
	}
	if s.agentDelay < 0 {
		s.agentDelay = 0
	}
	if s.tokenDelay < 0 {
		s.tokenDelay = 0
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.rules == (lifecycle.Rules{}) {
		s.rules = lifecycle.DefaultRules()
	}
	if s.market == (Market{}) {
		s.market = DefaultMarket()
	}
	return s
}

// Start begins ticking until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	ticker := s.clock.NewTicker(s.tickInterval)
	go s.loop(runCtx, ticker, s.done)

	s.log("started, tick interval %s, %d tokens registered", s.tickInterval, len(s.entries))
	return nil
}

func (s *Scheduler) loop(ctx context.Context, ticker clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.Tick(ctx)
		}
	}
}

// Stop halts the tick loop and deregisters every token.
// A trade write already in flight completes before Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	entries := s.snapshotLocked()
	s.entries = make(map[string]*entry)
	s.running = false
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	// entry locks are always taken before s.mu, never while holding it
	for _, e := range entries {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
	}

	observability.SetActiveTokens(0)
	s.log("stopped")
}

// TokenStatus reports the scheduler state of one token.
type TokenStatus struct {
	TokenID       string `json:"token_id"`
	Active        bool   `json:"active"`
	AgeSeconds    int64  `json:"age_seconds"`
	PendingEvents int    `json:"pending_events"`
}

// Status is a snapshot of the scheduler.
type Status struct {
	Running      bool          `json:"running"`
	ActiveTokens int           `json:"active_tokens"`
	Tokens       []TokenStatus `json:"tokens"`
}

// Status returns the running flag and per-token age and pending event counts.
func (s *Scheduler) Status() Status {
	nowMs := clock.UnixMs(s.clock.Now())

	s.mu.Lock()
	st := Status{Running: s.running, ActiveTokens: len(s.entries)}
	entries := s.snapshotLocked()
	s.mu.Unlock()

	st.Tokens = make([]TokenStatus, 0, len(entries))
	for _, e := range entries {
		age := nowMs - e.createdAt
		if age < 0 {
			age = 0
		}
		st.Tokens = append(st.Tokens, TokenStatus{
			TokenID:       e.tokenID,
			Active:        true,
			AgeSeconds:    age / 1000,
			PendingEvents: int(e.pending.Load()),
		})
	}
	return st
}

// Tick advances every registered token once.
// Failures are isolated per token: they are logged and never abort the tick.
func (s *Scheduler) Tick(ctx context.Context) {
	start := s.clock.Now()

	s.mu.Lock()
	entries := s.snapshotLocked()
	s.mu.Unlock()

	if s.workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for _, e := range entries {
			e := e
			g.Go(func() error {
				s.runToken(gctx, e)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, e := range entries {
			if i > 0 {
				if err := s.clock.Sleep(ctx, s.tokenDelay); err != nil {
					break
				}
			}
			s.runToken(ctx, e)
		}
	}

	s.mu.Lock()
	active := len(s.entries)
	s.mu.Unlock()

	observability.SetActiveTokens(active)
	observability.RecordTick(s.clock.Now().Sub(start), s.clock.Now())
}

func (s *Scheduler) runToken(ctx context.Context, e *entry) {
	if ctx.Err() != nil {
		return
	}
	if err := s.cycle(ctx, e); err != nil {
		s.log("token %s: cycle failed: %v", e.tokenID, err)
	}
}

// RunCycle forces one trading cycle for a registered token.
func (s *Scheduler) RunCycle(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	e, ok := s.entries[tokenID]
	s.mu.Unlock()
	if !ok {
		return ErrNotRegistered
	}
	return s.cycle(ctx, e)
}

// IsRegistered reports whether tokenID is currently scheduled.
func (s *Scheduler) IsRegistered(tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[tokenID]
	return ok
}

// reserve adds a locked placeholder entry for tokenID.
// The caller fills it in and unlocks it, or calls abandon.
func (s *Scheduler) reserve(tokenID string, createdAt int64) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[tokenID]; ok {
		return nil, ErrAlreadyRegistered
	}
	e := &entry{tokenID: tokenID, createdAt: createdAt}
	e.mu.Lock()
	s.entries[tokenID] = e
	return e, nil
}

// abandon drops a reserved entry. The caller holds e.mu.
func (s *Scheduler) abandon(e *entry) {
	e.removed = true
	s.mu.Lock()
	if s.entries[e.tokenID] == e {
		delete(s.entries, e.tokenID)
	}
	s.mu.Unlock()
	e.mu.Unlock()
}

// deregister removes e from the registry. The caller holds e.mu.
func (s *Scheduler) deregister(e *entry) {
	e.removed = true
	s.mu.Lock()
	if s.entries[e.tokenID] == e {
		delete(s.entries, e.tokenID)
	}
	s.mu.Unlock()
}

// snapshotLocked returns the registered entries ordered by creation time.
func (s *Scheduler) snapshotLocked() []*entry {
	out := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].createdAt != out[j].createdAt {
			return out[i].createdAt < out[j].createdAt
		}
		return out[i].tokenID < out[j].tokenID
	})
	return out
}

func (s *Scheduler) notify(ctx context.Context, u domain.MarketUpdate) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, u)
	}
}

func (s *Scheduler) log(format string, args ...interface{}) {
	s.logger.Printf(format, args...)
}
