package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/welldanyogia/webrana-mailarchive/internal/mailparse"
)

var (
	ingestCount int
	ingestSince string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Sync the configured mail store into the archive once",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mailparse.ValidateCount(ingestCount); err != nil {
			return err
		}
		var cursor *time.Time
		if ingestSince != "" {
			since, err := time.Parse(time.RFC3339, ingestSince)
			if err != nil {
				return fmt.Errorf("--since must be an RFC 3339 timestamp: %w", err)
			}
			cursor = &since
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if len(a.sources) == 0 {
			return fmt.Errorf("no mail store configured: set MAILSTORE_PROFILES_DIR or MAILSTORE_MBOX_FILES")
		}

		for _, src := range a.sources {
			result, err := a.ingest.Sync(ctx, src, ingestCount, cursor)
			if err != nil {
				return err
			}
			a.log.Info("ingest finished",
				slog.String("vendor", result.Vendor),
				slog.Int("fetched", result.Fetched),
				slog.Int("saved", result.Saved),
				slog.Int("skipped", result.Skipped),
				slog.Int("failed", result.Failed))
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestCount, "count", mailparse.All, "number of newest messages to ingest (-1 for all)")
	ingestCmd.Flags().StringVar(&ingestSince, "since", "", "only ingest messages received after this RFC 3339 time")
}
