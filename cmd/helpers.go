package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/adtech-insider/insight-cli/internal/analyze"
	"github.com/adtech-insider/insight-cli/internal/store"
	"github.com/adtech-insider/insight-cli/pkg/anthropic"
)

// openStore builds the configured store backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "sqlite", "":
		s, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = s
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
		if err != nil {
			return nil, err
		}
		st = s
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// newAnalyzer wires the Anthropic client into an analyzer. Without an API
// key the analyzer still works and serves deterministic fallbacks.
func newAnalyzer() *analyze.Analyzer {
	var client anthropic.Client
	if cfg.Anthropic.Key != "" {
		client = anthropic.NewClient(cfg.Anthropic.Key)
	}

	cache := analyze.NewCache(time.Duration(cfg.Analyze.CacheTTLMinutes) * time.Minute)
	return analyze.New(client, cache, analyze.Config{
		Model:             cfg.Anthropic.Model,
		MaxTokens:         cfg.Anthropic.MaxTokens,
		Year:              cfg.Analyze.Year,
		RequestsPerMinute: cfg.Analyze.RequestsPerMinute,
	})
}
