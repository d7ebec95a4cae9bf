package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/amosley/joinboard/internal/auth"
	"github.com/amosley/joinboard/internal/server"
	"github.com/amosley/joinboard/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the task board HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required to serve the API", shared.ErrMissingConfig)
	}

	port := config.Server.Port
	if p := cmd.Int("port"); p != 0 {
		port = int(p)
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	issuer := auth.NewTokenIssuer(config.Auth.JWTSecret, time.Duration(config.Auth.TokenHours)*time.Hour)
	api := server.NewAPI(db, issuer, server.APIOpts{Hasher: r.hasher, Logger: r.logger})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("serving task board API", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}
