// Command export dumps the accounts and transactions tables to CSV files
// and optionally uploads them to a GCS bucket.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/finwatch/uptrack/internal/config"
	"github.com/finwatch/uptrack/internal/export"
	"github.com/finwatch/uptrack/internal/logger"
	"github.com/finwatch/uptrack/internal/store"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	outDir := flag.String("out", cfg.Export.Dir, "Directory to write CSV files into")
	bucket := flag.String("bucket", cfg.Export.Bucket, "GCS bucket to upload exports to (empty = no upload)")
	flag.Parse()

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	accountsPath, err := export.WriteAccountsCSV(ctx, store.NewAccountRepo(db), *outDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to export accounts")
	}
	log.Info().Str("path", accountsPath).Msg("Wrote accounts CSV")

	transactionsPath, err := export.WriteTransactionsCSV(ctx, store.NewTransactionRepo(db), *outDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to export transactions")
	}
	log.Info().Str("path", transactionsPath).Msg("Wrote transactions CSV")

	if *bucket != "" {
		for _, p := range []string{accountsPath, transactionsPath} {
			if err := export.UploadFile(ctx, *bucket, p); err != nil {
				log.Fatal().Err(err).Str("path", p).Msg("Failed to upload export")
			}
			log.Info().Str("path", p).Str("bucket", *bucket).Msg("Uploaded export")
		}
	}
}
