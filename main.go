package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"steam-promo-scraper/config"
	"steam-promo-scraper/scraper/steam"
	"steam-promo-scraper/services"
	"steam-promo-scraper/storage"
	"steam-promo-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	runID := uuid.NewString()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Steam Promotions Scraper starting (run %s) ===", runID)
	logger.Info("Config: rounds: %d | wait: %v | run timeout: %v | extract: %s | output: %s",
		cfg.LoadRounds, cfg.WaitTimeout, cfg.RunTimeout, cfg.ExtractMode, cfg.CSVOutputPath)

	if cfg.SkipScrape {
		logger.Info("SKIP_SCRAPE set, analysing existing dataset only")
	} else if err := scrape(ctx, cfg, runID, logger); err != nil {
		logger.Error("Scrape failed: %v", err)
		stop()
		os.Exit(1)
	}

	records, err := services.ReadDataset(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to read dataset: %v", err)
		stop()
		os.Exit(1)
	}

	offers := services.NewOfferParser(logger).Parse(records)
	filter := services.Filter{
		MinDiscount: cfg.FilterMinDiscount,
		MaxPrice:    cfg.FilterMaxPrice,
		Sentiment:   cfg.FilterSentiment,
		Tags:        cfg.FilterTags,
	}
	logger.Debug("Known tags: %v", services.UniqueTags(offers))

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(offers, filter)
	insightSvc.Print(report)

	fmt.Printf("  Done. Dataset → %s\n\n", cfg.CSVOutputPath)
}

// scrape runs one ingestion. The CSV file is the dataset of record; the
// optional Postgres and Redis mirrors are skipped when they cannot connect.
func scrape(ctx context.Context, cfg *config.Config, runID string, logger *utils.Logger) error {
	writer := storage.NewFanOut(storage.NewCSVWriter(cfg.CSVOutputPath, logger), logger)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Warn("Failed to close writers: %v", err)
		}
	}()

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DatabaseURL, runID, logger)
		if err != nil {
			logger.Warn("PostgreSQL mirror disabled: %v", err)
		} else {
			writer.AddMirror("postgres", pgWriter)
		}
	}

	if cfg.RedisAddr != "" {
		publisher, err := storage.NewStreamPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLen, runID, logger)
		if err != nil {
			logger.Warn("Redis mirror disabled: %v", err)
		} else {
			writer.AddMirror("redis", publisher)
		}
	}

	summary, err := steam.New(cfg, logger).Run(ctx, runID, writer)
	if err != nil {
		return err
	}

	logger.Info("Scraped %d records in %s (%d load rounds, %d clicks, %d duplicated links)",
		len(summary.Records), summary.Duration, summary.Load.Rounds, summary.Load.Clicks, summary.Duplicates)
	return nil
}
