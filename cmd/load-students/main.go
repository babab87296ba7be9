package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/survey-analytics/internal/config"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/ingest"
	"github.com/stemsi/survey-analytics/internal/logger"
	"github.com/stemsi/survey-analytics/internal/repository"
)

const summaryErrors = 10

func main() {
	truncate := flag.Bool("truncate", false, "delete all students, metrics, departments and hobbies before loading")
	batchSize := flag.Int("batch-size", ingest.DefaultBatchSize, "rows per COPY batch")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-truncate] [-batch-size N] <csv_path>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	loader := ingest.NewLoader(
		database.NewTxRunner(pool, log),
		repository.NewIngestRepository(pool),
		log,
	)

	report, err := loader.Load(ctx, path, ingest.Options{Truncate: *truncate, BatchSize: *batchSize})
	if err != nil {
		var missing *ingest.MissingColumnsError
		switch {
		case errors.Is(err, ingest.ErrFileNotFound):
			fmt.Fprintf(os.Stderr, "File not found: %s\n", path)
		case errors.As(err, &missing):
			fmt.Fprintf(os.Stderr, "%v\n", missing)
		default:
			fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Print(report.Summary(summaryErrors))

	// The report is informational; a Redis outage must not fail a finished load.
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, load report not stored")
		return
	}
	if rdb != nil {
		defer rdb.Close()
	}
	if err := ingest.NewReportStore(rdb).Save(ctx, report); err != nil {
		log.Warn().Err(err).Msg("Failed to store load report")
	}
}
