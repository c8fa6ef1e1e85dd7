// Command catalogctl runs admin tasks against the catalog database:
// schema migrations, catalog-wide discounts and outbox cleanup.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/config"
	"github.com/light-bringer/decant-catalog/internal/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "catalogctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "catalogctl",
		Usage: "administer the decant catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "optional .env file loaded before the environment",
				Value: ".env",
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			discountCommand(),
			outboxCommand(),
		},
	}
}

// setup loads configuration and builds the logger shared by every command.
func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
