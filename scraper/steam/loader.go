package steam

import (
	"context"
	"errors"
	"fmt"
	"time"

	"steam-promo-scraper/browser"
	"steam-promo-scraper/config"
	"steam-promo-scraper/utils"
)

// LoadStats describes how far incremental loading went.
type LoadStats struct {
	Rounds    int  // rounds started
	Clicks    int  // successful "load more" clicks
	Exhausted bool // the control disappeared before the round limit
}

// Loader reveals paginated items by scrolling and clicking "load more".
type Loader struct {
	loadMore      browser.Locator
	rounds        int
	revealScrolls int
	finalScrolls  int
	scrollPause   time.Duration
	expandPause   time.Duration
	logger        *utils.Logger
	sleep         func(time.Duration)
}

// NewLoader creates a Loader from cfg.
func NewLoader(cfg *config.Config, logger *utils.Logger) *Loader {
	return &Loader{
		loadMore:      browser.TextContains("button", cfg.LoadMoreLabel),
		rounds:        cfg.LoadRounds,
		revealScrolls: cfg.RevealScrolls,
		finalScrolls:  cfg.FinalScrolls,
		scrollPause:   cfg.ScrollPause,
		expandPause:   cfg.ExpandPause,
		logger:        logger.With("component", "loader"),
		sleep:         time.Sleep,
	}
}

// Load runs at most the configured number of reveal/expand rounds followed by
// one final reveal. A missing "load more" control ends the rounds early and
// is not an error.
func (l *Loader) Load(ctx context.Context, page Page) (LoadStats, error) {
	var stats LoadStats
	l.logger.Info("[loader] Incremental load: %d rounds planned", l.rounds)

	for round := 1; round <= l.rounds; round++ {
		stats.Rounds = round
		l.logger.Info("[loader] Round %d/%d", round, l.rounds)

		if err := l.reveal(ctx, page, l.revealScrolls); err != nil {
			return stats, err
		}

		more, err := l.expand(ctx, page)
		if err != nil {
			return stats, err
		}
		if !more {
			stats.Exhausted = true
			break
		}
		stats.Clicks++
		l.sleep(l.expandPause)
	}

	l.logger.Info("[loader] Final reveal")
	if err := l.reveal(ctx, page, l.finalScrolls); err != nil {
		return stats, err
	}

	l.logger.Info("[loader] Done: %d rounds, %d clicks, exhausted=%t", stats.Rounds, stats.Clicks, stats.Exhausted)
	return stats, nil
}

func (l *Loader) reveal(ctx context.Context, page Page, scrolls int) error {
	for i := 1; i <= scrolls; i++ {
		if err := page.RunScript(ctx, ScrollToBottomScript); err != nil {
			return fmt.Errorf("scroll %d/%d: %w", i, scrolls, err)
		}
		l.logger.Debug("[loader] Scroll %d/%d", i, scrolls)
		l.sleep(l.scrollPause)
	}
	return nil
}

// expand clicks the "load more" control. It reports false when the control
// is gone, which is how the end of the listing shows up.
func (l *Loader) expand(ctx context.Context, page Page) (bool, error) {
	el, err := page.WaitClickable(ctx, l.loadMore)
	if err == nil {
		err = page.Click(ctx, el)
	}
	if err == nil {
		l.logger.Info("[loader] \"load more\" clicked")
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if errors.Is(err, browser.ErrElementNotFound) {
		l.logger.Warn("[loader] \"load more\" not found, end of listing reached")
	} else {
		l.logger.Warn("[loader] \"load more\" unusable, stopping: %v", err)
	}
	return false, nil
}
