package main

import (
	"context"
	"os"

	"github.com/amosley/joinboard/internal/auth"
	"github.com/amosley/joinboard/internal/services"
	"github.com/amosley/joinboard/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var source services.Source
	if config.Source.BaseURL != "" {
		source = services.NewFirebaseSource(config.Source.BaseURL, nil, config.Source.RequestRate)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Source: source,
		Hasher: auth.NewBcryptHasher(config.Auth.BcryptCost),
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "joinboard",
		Usage:    "Migrate the legacy task board into SQLite and serve its API",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
