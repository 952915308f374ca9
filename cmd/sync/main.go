// Command sync runs one full sync cycle against the configured Up account
// and exits. Exit status is non-zero for a terminal store error or when a
// phase was skipped, so cron jobs notice degraded cycles.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/finwatch/uptrack/internal/config"
	"github.com/finwatch/uptrack/internal/logger"
	"github.com/finwatch/uptrack/internal/store"
	engine "github.com/finwatch/uptrack/internal/sync"
	"github.com/finwatch/uptrack/internal/upbank"
)

func main() {
	log := logger.New()

	skipPing := flag.Bool("skip-ping", false, "Skip the API ping check before syncing")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall timeout for the sync cycle")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.Up.Token == "" {
		log.Fatal().Msg("No Up API token configured (set UPTRACK_UP_TOKEN)")
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	client := upbank.NewClient(cfg.Up.BaseURL, cfg.Up.Token)
	if !*skipPing {
		if err := client.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("API ping failed; check the token")
		}
	}

	eng := engine.New(client, store.NewAccountRepo(db), store.NewTransactionRepo(db))

	result, err := eng.Sync(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync terminated on a store error")
	}

	log.Info().
		Str("run_id", result.RunID).
		Interface("accounts", result.Accounts).
		Interface("transactions", result.Transactions).
		Msg("Sync cycle complete")

	if result.Failed() {
		if result.AccountsError != nil {
			log.Error().Err(result.AccountsError).Msg("Accounts phase skipped")
		}
		if result.TransactionsError != nil {
			log.Error().Err(result.TransactionsError).Msg("Transactions phase skipped")
		}
		os.Exit(1)
	}
}
