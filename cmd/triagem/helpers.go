package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/abarros/triagem/internal/config"
	"github.com/abarros/triagem/internal/engine"
	"github.com/abarros/triagem/internal/model"
	"github.com/abarros/triagem/internal/service"
	"github.com/abarros/triagem/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/triagem/triagem.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// savingsPolicy reads the configured unit amount, falling back to the default.
func savingsPolicy() model.SavingsPolicy {
	policy := model.DefaultSavingsPolicy()
	if amount := viper.GetFloat64("savings.unit_amount"); amount > 0 {
		policy.UnitAmount = amount
	}
	return policy
}

// screenerConfig reads the lookup concurrency limit.
func screenerConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if n := viper.GetInt("screening.max_concurrent_lookups"); n > 0 {
		cfg.MaxConcurrentLookups = n
	}
	return cfg
}

func newScreener(store service.Storage) *engine.Screener {
	return engine.NewScreenerWithConfig(store, savingsPolicy(), screenerConfig())
}
