// Package api assembles the Svitlo service: storage backend selection,
// fallback responder, webhook transport and dispatcher, plus the run loop
// with graceful shutdown.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/svitlo-ai/svitlo/internal/dispatch"
	"github.com/svitlo-ai/svitlo/internal/genai"
	"github.com/svitlo-ai/svitlo/internal/messaging"
	"github.com/svitlo-ai/svitlo/internal/store"
)

// DefaultAddr is the default webhook listen address.
const DefaultAddr = ":8080"

// Opts holds API server configuration.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the webhook listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Run wires all modules and blocks until SIGINT/SIGTERM.
func Run(storeOpts []store.Option, genaiOpts []genai.Option, dispatchOpts []dispatch.Option, apiOpts []Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := Opts{Addr: DefaultAddr}
	for _, opt := range apiOpts {
		opt(&cfg)
	}

	st, err := BuildStore(storeOpts...)
	if err != nil {
		return fmt.Errorf("failed to build store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	if responder, err := genai.NewClient(genaiOpts...); err != nil {
		// The fallback responder is optional; without it unmatched messages
		// get the command hint.
		slog.Warn("Fallback responder disabled", "error", err)
	} else {
		dispatchOpts = append(dispatchOpts, dispatch.WithResponder(responder))
	}

	msg := messaging.NewWebhookService(cfg.Addr)
	d := dispatch.NewDispatcher(st, msg, dispatchOpts...)

	if err := msg.Start(ctx); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	d.Run(ctx)
	slog.Info("Svitlo running", "addr", cfg.Addr)

	<-ctx.Done()
	slog.Info("Shutting down")
	if err := msg.Stop(); err != nil {
		slog.Error("Transport shutdown failed", "error", err)
	}
	return nil
}

// BuildStore selects the storage backend from options: Postgres for
// postgres DSNs, SQLite for file paths, in-memory when no DSN is set.
func BuildStore(opts ...store.Option) (store.Store, error) {
	var cfg store.Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Warn("No database DSN configured, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(cfg.DSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return store.NewPostgresStore(opts...)
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", cfg.DSN)
	return store.NewSQLiteStore(opts...)
}
