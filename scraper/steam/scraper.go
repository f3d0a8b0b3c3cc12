package steam

import (
	"context"
	"fmt"
	"time"

	"steam-promo-scraper/browser"
	"steam-promo-scraper/config"
	"steam-promo-scraper/models"
	"steam-promo-scraper/storage"
	"steam-promo-scraper/utils"
)

// Opener starts a browser session logging through logger.
type Opener func(ctx context.Context, logger *utils.Logger) (Page, error)

// RunSummary describes one completed run.
type RunSummary struct {
	RunID      string
	Records    []*models.Record
	Load       LoadStats
	Duplicates int
	Duration   time.Duration
}

// Scraper runs the whole ingestion: open, navigate, load, extract, write.
type Scraper struct {
	cfg    *config.Config
	open   Opener
	logger *utils.Logger
	sleep  func(time.Duration)
}

// New creates a Scraper that drives a real Chrome instance.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	opts := browser.Options{
		ChromeBin:    browser.FindChromeBinary(cfg.ChromeBin),
		Headless:     cfg.Headless,
		WindowWidth:  cfg.WindowWidth,
		WindowHeight: cfg.WindowHeight,
		UserAgent:    cfg.UserAgent,
		WaitTimeout:  cfg.WaitTimeout,
	}
	if opts.ChromeBin == "" {
		logger.Warn("[scraper] Chrome binary not found, relying on chromedp defaults")
	} else {
		logger.Info("[scraper] Using Chrome at: %s", opts.ChromeBin)
	}

	return NewWithOpener(cfg, logger, func(ctx context.Context, log *utils.Logger) (Page, error) {
		session, err := browser.NewSession(ctx, opts, log.With("component", "browser"))
		if err != nil {
			return nil, err
		}
		return session, nil
	})
}

// NewWithOpener creates a Scraper around a custom session opener.
func NewWithOpener(cfg *config.Config, logger *utils.Logger, open Opener) *Scraper {
	return &Scraper{cfg: cfg, open: open, logger: logger}
}

// Run performs one full-refresh ingestion and writes the dataset to w.
// The browser session is released exactly once, whatever the outcome.
func (s *Scraper) Run(ctx context.Context, runID string, w storage.RecordWriter) (*RunSummary, error) {
	start := time.Now()
	log := s.logger.With("run_id", runID)

	navigator := NewNavigator(s.cfg, log)
	loader := NewLoader(s.cfg, log)
	if s.sleep != nil {
		loader.sleep = s.sleep
	}
	extractor := NewExtractor(s.cfg.StoreURL, log)

	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	log.Info("[scraper] Starting browser session")
	page, err := s.open(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}
	defer page.Release()

	if err := navigator.Navigate(ctx, page); err != nil {
		return nil, err
	}

	stats, err := loader.Load(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("incremental load: %w", err)
	}

	src, err := s.itemSource(ctx, page, log)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}

	records, err := extractor.Extract(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("extract records: %w", err)
	}

	dups := DuplicateLinks(records)
	for link, n := range dups {
		log.Warn("[scraper] Link seen %d times: %s", n, link)
	}

	if err := w.Write(records); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}

	summary := &RunSummary{
		RunID:      runID,
		Records:    records,
		Load:       stats,
		Duplicates: len(dups),
		Duration:   time.Since(start),
	}
	log.Info("[scraper] Done: %d records, %d duplicated links, %s",
		len(records), summary.Duplicates, summary.Duration.Round(time.Millisecond))
	return summary, nil
}

// itemSource picks where items are read from: a static snapshot of the page,
// or the live page itself.
func (s *Scraper) itemSource(ctx context.Context, page Page, log *utils.Logger) (ItemSource, error) {
	if s.cfg.ExtractMode == config.ExtractSnapshot {
		log.Info("[scraper] Extracting from a static snapshot of the page")
		return page.Snapshot(ctx)
	}

	if _, ok, err := page.QueryOptional(ctx, ListingLocator, nil); err != nil {
		return nil, err
	} else if !ok {
		log.Warn("[scraper] Listing region is gone, no items will be found")
	}
	return page, nil
}
