package steam

import (
	"context"
	"errors"
	"time"

	"steam-promo-scraper/browser"
	"steam-promo-scraper/config"
	"steam-promo-scraper/models"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreURL:        "https://store.steampowered.com",
		ConsentSelector: "#acceptAllButton",
		BrowseLabel:     "Parcourir",
		SpecialsHref:    "specials",
		LoadMoreLabel:   "Afficher plus",
		LoadRounds:      3,
		RevealScrolls:   2,
		FinalScrolls:    3,
		WaitTimeout:     time.Second,
		ExtractMode:     config.ExtractLive,
	}
}

// fakePage records every call made by the pipeline.
type fakePage struct {
	navigateErr error
	navigated   []string

	// wait decides the outcome of WaitClickable; nil means always clickable.
	wait  func(loc browser.Locator) error
	waits []browser.Locator

	// present decides the outcome of WaitPresent; nil means always present.
	present  func(loc browser.Locator) error
	presents []browser.Locator

	clickErr error
	clicks   []browser.Locator

	scriptErr error
	scripts   int

	// root backs the live queries.
	root      browser.Element
	rootErr   error
	queries   []browser.Locator
	snapshot  browser.Element
	snapshots int

	released int
}

var _ Page = (*fakePage)(nil)

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return p.navigateErr
}

func (p *fakePage) WaitClickable(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	p.waits = append(p.waits, loc)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.wait != nil {
		if err := p.wait(loc); err != nil {
			return nil, err
		}
	}
	return &fakeElement{loc: loc}, nil
}

func (p *fakePage) WaitPresent(ctx context.Context, loc browser.Locator) error {
	p.presents = append(p.presents, loc)
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.present != nil {
		return p.present(loc)
	}
	return nil
}

func (p *fakePage) Click(_ context.Context, el browser.Element) error {
	if p.clickErr != nil {
		return p.clickErr
	}
	p.clicks = append(p.clicks, el.(*fakeElement).loc)
	return nil
}

func (p *fakePage) RunScript(ctx context.Context, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.scripts++
	return p.scriptErr
}

func (p *fakePage) QueryAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	p.queries = append(p.queries, loc)
	if p.rootErr != nil {
		return nil, p.rootErr
	}
	return p.root.QueryAll(ctx, loc)
}

func (p *fakePage) QueryOptional(ctx context.Context, loc browser.Locator, scope browser.Element) (browser.Element, bool, error) {
	p.queries = append(p.queries, loc)
	if scope == nil {
		if p.rootErr != nil {
			return nil, false, p.rootErr
		}
		scope = p.root
	}
	return scope.QueryOptional(ctx, loc)
}

func (p *fakePage) Snapshot(_ context.Context) (browser.Element, error) {
	p.snapshots++
	return p.snapshot, nil
}

func (p *fakePage) Release() { p.released++ }

func notFound(loc browser.Locator) error {
	return &browser.WaitTimeoutError{Locator: loc, Timeout: time.Second, Err: context.DeadlineExceeded}
}

// fakeElement is a hand-built DOM node.
type fakeElement struct {
	loc      browser.Locator
	attrs    map[string]string
	text     string
	textErr  error
	children map[browser.Locator][]browser.Element
	errs     map[browser.Locator]error
}

func (e *fakeElement) QueryAll(_ context.Context, loc browser.Locator) ([]browser.Element, error) {
	if err := e.errs[loc]; err != nil {
		return nil, err
	}
	return e.children[loc], nil
}

func (e *fakeElement) QueryOptional(ctx context.Context, loc browser.Locator) (browser.Element, bool, error) {
	all, err := e.QueryAll(ctx, loc)
	if err != nil || len(all) == 0 {
		return nil, false, err
	}
	return all[0], true, nil
}

func (e *fakeElement) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *fakeElement) Text(_ context.Context) (string, error) {
	return e.text, e.textErr
}

func (e *fakeElement) TextContent(_ context.Context) (string, error) {
	return e.text, e.textErr
}

type recordingWriter struct {
	writes [][]*models.Record
	err    error
}

func (w *recordingWriter) Write(records []*models.Record) error {
	w.writes = append(w.writes, records)
	return w.err
}

func (w *recordingWriter) Close() error { return nil }

var errBoom = errors.New("boom")
