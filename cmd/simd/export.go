package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"memelaunch-sim/internal/reporting"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a token's price history or trades as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tokenID, _ := cmd.Flags().GetString("token")
			kind, _ := cmd.Flags().GetString("kind")
			outPath, _ := cmd.Flags().GetString("out")
			if tokenID == "" {
				return fmt.Errorf("--token is required")
			}

			logger := log.New(os.Stderr, "[export] ", log.LstdFlags)
			ctx := cmd.Context()

			b, err := openBackend(ctx, cfg.Storage, false, logger)
			if err != nil {
				return err
			}
			defer b.cleanup()

			if _, err := b.stores.Tokens.GetByID(ctx, tokenID); err != nil {
				return fmt.Errorf("token %s: %w", tokenID, err)
			}

			var csv string
			switch kind {
			case "prices":
				points, err := b.stores.PriceHistory.GetByTokenID(ctx, tokenID)
				if err != nil {
					return fmt.Errorf("load price history: %w", err)
				}
				csv = reporting.RenderPriceHistoryCSV(points)
			case "trades":
				trades, err := b.stores.Trades.GetByTokenID(ctx, tokenID)
				if err != nil {
					return fmt.Errorf("load trades: %w", err)
				}
				csv = reporting.RenderTradesCSV(trades)
			default:
				return fmt.Errorf("invalid --kind %q (valid: prices, trades)", kind)
			}

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if _, err := io.WriteString(out, csv); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			if outPath != "" {
				logger.Printf("Wrote %s", outPath)
			}
			return nil
		},
	}

	cmd.Flags().String("token", "", "Token ID to export")
	cmd.Flags().String("kind", "prices", "What to export: prices or trades")
	cmd.Flags().StringP("out", "o", "", "Output file (stdout when empty)")
	return cmd
}
