package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"memelaunch-sim/internal/clock"
	"memelaunch-sim/internal/config"
	"memelaunch-sim/internal/feed"
	"memelaunch-sim/internal/lifecycle"
	"memelaunch-sim/internal/observability"
	"memelaunch-sim/internal/reporting"
	"memelaunch-sim/internal/rng"
	"memelaunch-sim/internal/scheduler"
	"memelaunch-sim/internal/storage"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the live market scheduler",
		Long: `Run recovers active tokens from storage, optionally launches new ones and
advances the market every tick until interrupted.

HTTP endpoints: /health, /metrics, /status, /stats, /feed (websocket) and
POST /tokens/{id}/cycle to force one trading cycle.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			launch, _ := cmd.Flags().GetInt("launch")
			launchEvery, _ := cmd.Flags().GetDuration("launch-every")
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			return runServer(cfg, launch, launchEvery)
		},
	}

	cmd.Flags().Int("launch", 0, "Number of tokens to launch at startup")
	cmd.Flags().Duration("launch-every", 0, "Launch one more token at this interval (0 disables)")
	cmd.Flags().String("addr", "", "HTTP listen address (overrides server.addr)")
	return cmd
}

// runServer wires the backend, feed sinks and scheduler, then blocks until a signal arrives.
func runServer(cfg *config.Config, launch int, launchEvery time.Duration) error {
	logger := log.New(os.Stdout, "[simd] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := openBackend(ctx, cfg.Storage, true, logger)
	if err != nil {
		return err
	}
	defer b.cleanup()

	// Feed sinks
	var sinks feed.Fanout
	var hub *feed.Hub
	if cfg.Feed.WebsocketEnabled {
		hub = feed.NewHub(log.New(os.Stdout, "[feed] ", log.LstdFlags))
		defer hub.Close()
		sinks = append(sinks, hub)
	}
	if cfg.Feed.NATSURL != "" {
		nc, err := feed.ConnectNATS(cfg.Feed.NATSURL)
		if err != nil {
			return fmt.Errorf("connect to nats: %w", err)
		}
		defer nc.Drain()
		sinks = append(sinks, feed.NewNATSPublisher(nc, cfg.Feed.NATSSubjectPrefix, log.New(os.Stdout, "[nats] ", log.LstdFlags)))
		logger.Printf("Publishing market updates to %s", cfg.Feed.NATSURL)
	}

	sched := scheduler.New(schedulerOptions(cfg, b, clock.Real(), sinks,
		log.New(os.Stdout, "[scheduler] ", log.LstdFlags)))

	n, err := sched.Recover(ctx)
	if err != nil {
		return fmt.Errorf("recover: %w", err)
	}
	logger.Printf("Recovered %d active tokens", n)

	for i := 0; i < launch; i++ {
		if _, err := sched.Launch(ctx, launchRequest(i)); err != nil {
			return fmt.Errorf("launch: %w", err)
		}
	}

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	if launchEvery > 0 {
		go launchLoop(ctx, sched, launchEvery, launch, logger)
	}
	go uptimeLoop(ctx)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: newMux(sched, b.stores, hub),
	}
	go func() {
		logger.Printf("Starting HTTP server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("HTTP server error: %v", err)
		}
	}()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)
	sig := <-sigCh
	logger.Printf("Received signal %v, shutting down...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP shutdown: %v", err)
	}
	cancel()

	logger.Println("Shutdown complete")
	return nil
}

// schedulerOptions maps config onto scheduler options.
func schedulerOptions(cfg *config.Config, b *backend, clk clock.Clock, notifier feed.Notifier, logger *log.Logger) scheduler.Options {
	return scheduler.Options{
		Stores:       b.stores,
		Clock:        clk,
		Rand:         rng.New(cfg.Scheduler.Seed),
		Notifier:     notifier,
		Mirror:       b.mirror,
		Logger:       logger,
		TickInterval: cfg.Scheduler.TickInterval,
		AgentDelay:   cfg.Scheduler.AgentDelay,
		TokenDelay:   cfg.Scheduler.TokenDelay,
		Workers:      cfg.Scheduler.Workers,
		Rules: lifecycle.Rules{
			StarvedProgress:         cfg.Lifecycle.StarvedProgress,
			StarvedMinTransactions:  cfg.Lifecycle.StarvedMinTransactions,
			InactivityWindow:        cfg.Lifecycle.InactivityWindow,
			InactiveMinTransactions: cfg.Lifecycle.InactiveMinTransactions,
		},
		Market: scheduler.Market{
			CurveK:                   cfg.Market.CurveK,
			Slices:                   cfg.Market.CurveSlices,
			DefaultTotalSupply:       cfg.Market.DefaultTotalSupply,
			DefaultInitialInvestment: cfg.Market.DefaultInitialInvestment,
			MinimumPrePurchase:       cfg.Market.MinimumPrePurchase,
			MaxTotalSupply:           cfg.Market.MaxTotalSupply,
		},
		SentimentEnabled:           cfg.Market.SentimentEnabled,
		RegenerateMissingTimelines: cfg.Scheduler.RegenerateMissingTimelines,
	}
}

func launchRequest(i int) scheduler.LaunchRequest {
	return scheduler.LaunchRequest{
		Name:   fmt.Sprintf("Sim Token %03d", i+1),
		Symbol: fmt.Sprintf("SIM%d", i+1),
	}
}

func launchLoop(ctx context.Context, sched *scheduler.Scheduler, every time.Duration, launched int, logger *log.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sched.Launch(ctx, launchRequest(launched)); err != nil {
				logger.Printf("Launch failed: %v", err)
				continue
			}
			launched++
		}
	}
}

func uptimeLoop(ctx context.Context) {
	const step = 15 * time.Second
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			observability.AddUptime(step)
		}
	}
}

// newMux builds the HTTP routes. hub may be nil when the websocket feed is disabled.
func newMux(sched *scheduler.Scheduler, stores storage.Set, hub *feed.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sched.Status())
	})

	generator := reporting.NewGenerator(stores.Tokens, stores.Traders)
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		summary, err := generator.Summarize(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	mux.HandleFunc("POST /tokens/{id}/cycle", func(w http.ResponseWriter, r *http.Request) {
		err := sched.RunCycle(r.Context(), r.PathValue("id"))
		switch {
		case errors.Is(err, scheduler.ErrNotRegistered):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	if hub != nil {
		mux.Handle("/feed", hub)
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

var _ feed.Publisher = (*nats.Conn)(nil)
