package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"memelaunch-sim/internal/clock"
	"memelaunch-sim/internal/config"
	"memelaunch-sim/internal/reporting"
	"memelaunch-sim/internal/scheduler"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run an offline simulation on a fake clock",
		Long: `Simulate launches tokens and advances a fake clock one tick interval at a
time until every token is dead or graduated, or the horizon is reached.
It prints the market summary when done.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tokens, _ := cmd.Flags().GetInt("tokens")
			horizon, _ := cmd.Flags().GetDuration("horizon")
			jsonOut, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			if tokens < 1 {
				return fmt.Errorf("--tokens must be at least 1")
			}

			summary, err := simulate(cmd.Context(), cfg, tokens, horizon, verbose)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprint(out, reporting.RenderMarkdown(summary))
			return nil
		},
	}

	cmd.Flags().Int("tokens", 20, "Number of tokens to launch")
	cmd.Flags().Duration("horizon", 2*time.Hour, "Maximum simulated time")
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	cmd.Flags().BoolP("verbose", "v", false, "Log scheduler activity to stderr")
	return cmd
}

// simulate runs the market to completion on a fake clock starting now.
func simulate(ctx context.Context, cfg *config.Config, tokens int, horizon time.Duration, verbose bool) (*reporting.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "[simulate] ", log.LstdFlags)
	}

	b, err := openBackend(ctx, cfg.Storage, true, logger)
	if err != nil {
		return nil, err
	}
	defer b.cleanup()

	start := time.Now().UTC()
	fake := clock.NewFake(start)

	schedLogger := log.New(io.Discard, "", 0)
	if verbose {
		schedLogger = log.New(os.Stderr, "[scheduler] ", 0)
	}
	sched := scheduler.New(schedulerOptions(cfg, b, fake, nil, schedLogger))

	for i := 0; i < tokens; i++ {
		if _, err := sched.Launch(ctx, launchRequest(i)); err != nil {
			return nil, fmt.Errorf("launch: %w", err)
		}
	}

	end := start.Add(horizon)
	ticks := 0
	for fake.Now().Before(end) && sched.Status().ActiveTokens > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fake.Advance(cfg.Scheduler.TickInterval)
		sched.Tick(ctx)
		ticks++
	}
	logger.Printf("Simulated %s in %d ticks, %d tokens still active",
		fake.Now().Sub(start), ticks, sched.Status().ActiveTokens)

	return reporting.NewGenerator(b.stores.Tokens, b.stores.Traders).
		WithClock(fake.Now).
		Summarize(ctx)
}
