package main

import (
	"time"

	"cloud.google.com/go/spanner"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/app/product/repo"
)

func outboxCommand() *cli.Command {
	return &cli.Command{
		Name:  "outbox",
		Usage: "maintain the outbox_events table",
		Subcommands: []*cli.Command{
			{
				Name:  "cleanup",
				Usage: "delete processed events past their retention",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "completed-retention", Usage: "retention for completed events", Value: 30 * 24 * time.Hour},
					&cli.DurationFlag{Name: "failed-retention", Usage: "retention for failed events", Value: 90 * 24 * time.Hour},
					&cli.BoolFlag{Name: "dry-run", Usage: "show what would be deleted without deleting"},
				},
				Action: outboxCleanup,
			},
		},
	}
}

func outboxCleanup(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, err := spanner.NewClient(c.Context, cfg.SpannerDatabase)
	if err != nil {
		return err
	}
	defer client.Close()

	cleaner := repo.NewOutboxCleaner(client)
	cutoffs := repo.CutoffsFor(time.Now().UTC(), c.Duration("completed-retention"), c.Duration("failed-retention"))

	log.Info("Starting outbox cleanup",
		zap.Time("completed_cutoff", cutoffs.Completed),
		zap.Time("failed_cutoff", cutoffs.Failed),
		zap.Bool("dry_run", c.Bool("dry-run")))

	if c.Bool("dry-run") {
		counts, err := cleaner.CountExpired(c.Context, cutoffs)
		if err != nil {
			return err
		}
		for status, n := range counts {
			log.Info("Would delete events", zap.String("status", status), zap.Int64("count", n))
		}
		return nil
	}

	deleted, err := cleaner.Purge(c.Context, cutoffs)
	if err != nil {
		return err
	}
	log.Info("Outbox cleanup completed", zap.Int64("deleted", deleted))
	return nil
}
