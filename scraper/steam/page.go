package steam

import (
	"context"

	"steam-promo-scraper/browser"
)

// Page is the part of a browser session the pipeline drives.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitClickable(ctx context.Context, loc browser.Locator) (browser.Element, error)
	WaitPresent(ctx context.Context, loc browser.Locator) error
	Click(ctx context.Context, el browser.Element) error
	RunScript(ctx context.Context, code string) error
	QueryAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error)
	QueryOptional(ctx context.Context, loc browser.Locator, scope browser.Element) (browser.Element, bool, error)
	Snapshot(ctx context.Context) (browser.Element, error)
	Release()
}

var _ Page = (*browser.Session)(nil)
