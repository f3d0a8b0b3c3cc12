package steam

import (
	"context"
	"fmt"

	"steam-promo-scraper/browser"
	"steam-promo-scraper/config"
	"steam-promo-scraper/utils"
)

// StepError reports the navigation step that could not be completed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("navigation step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

type navStep struct {
	name string
	loc  browser.Locator
}

// Navigator walks from the store's entry page to the promotions listing.
type Navigator struct {
	entryURL string
	steps    []navStep
	logger   *utils.Logger
}

// NewNavigator builds the fixed step sequence from cfg.
func NewNavigator(cfg *config.Config, logger *utils.Logger) *Navigator {
	return &Navigator{
		entryURL: cfg.StoreURL,
		steps: []navStep{
			{name: "accept consent", loc: browser.CSS(cfg.ConsentSelector)},
			{name: "open browse menu", loc: browser.TextContains("button", cfg.BrowseLabel)},
			{name: "open specials", loc: browser.CSS(fmt.Sprintf("a[href*=%s]", cssString(cfg.SpecialsHref)))},
		},
		logger: logger.With("component", "navigator"),
	}
}

// Navigate runs every step in order, then waits for the listing region of the
// promotions page. The first failure is returned as a *StepError; nothing is
// retried.
func (n *Navigator) Navigate(ctx context.Context, page Page) error {
	n.logger.Info("[navigator] Loading %s", n.entryURL)
	if err := page.Navigate(ctx, n.entryURL); err != nil {
		return &StepError{Step: "load entry page", Err: err}
	}

	for _, step := range n.steps {
		el, err := page.WaitClickable(ctx, step.loc)
		if err != nil {
			return &StepError{Step: step.name, Err: err}
		}
		if err := page.Click(ctx, el); err != nil {
			return &StepError{Step: step.name, Err: err}
		}
		n.logger.Debug("[navigator] %s: clicked %s", step.name, step.loc)
	}

	// The last click starts a page load; the listing belongs to the new document.
	if err := page.WaitPresent(ctx, ListingLocator); err != nil {
		return &StepError{Step: "wait for listing", Err: err}
	}

	n.logger.Info("[navigator] Reached promotions listing")
	return nil
}

// cssString quotes s for use inside a CSS attribute selector.
func cssString(s string) string {
	out := make([]rune, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(append(out, '"'))
}
