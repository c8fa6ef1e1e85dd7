package main

import (
	"github.com/urfave/cli/v2"

	"github.com/light-bringer/decant-catalog/internal/pkg/migrate"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply migrations/*.sql to SPANNER_DATABASE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "migrations",
				Usage: "directory containing migration SQL files",
				Value: "migrations",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			project, instance, database, err := cfg.SpannerIDs()
			if err != nil {
				return err
			}

			m := &migrate.Migrator{
				ProjectID:  project,
				InstanceID: instance,
				DatabaseID: database,
				Dir:        c.String("migrations"),
				Logger:     log,
			}
			return m.Run(c.Context)
		},
	}
}
