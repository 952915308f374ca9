// Command api serves the dashboard read API over the synced store and
// accepts sync-run requests, which a single background worker executes one
// at a time.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/finwatch/uptrack/internal/api"
	"github.com/finwatch/uptrack/internal/config"
	"github.com/finwatch/uptrack/internal/jobs"
	"github.com/finwatch/uptrack/internal/jobs/inmemory"
	"github.com/finwatch/uptrack/internal/logger"
	"github.com/finwatch/uptrack/internal/store"
	engine "github.com/finwatch/uptrack/internal/sync"
	"github.com/finwatch/uptrack/internal/upbank"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	accounts := store.NewAccountRepo(db)
	transactions := store.NewTransactionRepo(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	// Sync endpoints are enabled only when a token is configured; the read
	// API works either way.
	var publisher jobs.Publisher
	var jobStore jobs.JobStore
	if cfg.Up.Token != "" {
		client := upbank.NewClient(cfg.Up.BaseURL, cfg.Up.Token)
		eng := engine.New(client, accounts, transactions)

		memStore := inmemory.NewStore()
		queue := inmemory.NewQueue(10, memStore)
		handler := func(ctx context.Context, job *jobs.SyncJob) error {
			result, err := eng.Sync(ctx)
			job.Result = &result
			if err != nil {
				return err
			}
			if result.Failed() {
				if result.AccountsError != nil {
					job.Error = result.AccountsError.Error()
				} else {
					job.Error = result.TransactionsError.Error()
				}
			}
			return nil
		}
		if err := queue.Start(ctx, handler); err != nil {
			log.Fatal().Err(err).Msg("Failed to start sync worker")
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = queue.Stop(stopCtx)
		}()

		publisher = queue
		jobStore = memStore
	} else {
		log.Warn().Msg("No Up API token configured - sync endpoints disabled")
	}

	server := api.NewServer(accounts, transactions, publisher, jobStore, log)
	httpServer := &http.Server{
		Addr:    cfg.API.Addr,
		Handler: server.Router(),
	}

	go func() {
		log.Info().Str("addr", cfg.API.Addr).Msg("Dashboard API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
