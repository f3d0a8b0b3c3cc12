package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"steam-promo-scraper/utils"
)

// Options configures the browser process and the bounded waits.
type Options struct {
	ChromeBin    string
	Headless     bool
	WindowWidth  int
	WindowHeight int
	UserAgent    string
	// WaitTimeout bounds every WaitClickable call.
	WaitTimeout time.Duration
	// QueryTimeout bounds reads on already located elements.
	QueryTimeout time.Duration
}

// Session owns one controlled browser tab. It is not safe for concurrent use.
type Session struct {
	ctx     context.Context
	release func()
	once    sync.Once
	opts    Options
	logger  *utils.Logger
}

// NewSession starts the browser and opens a tab. The caller must call Release.
func NewSession(ctx context.Context, opts Options, logger *utils.Logger) (*Session, error) {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = opts.WaitTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.ChromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &Session{
		ctx:    tabCtx,
		opts:   opts,
		logger: logger,
		release: func() {
			cancelTab()
			cancelAlloc()
		},
	}

	// An empty Run starts the browser so a missing binary fails here.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Release()
		return nil, fmt.Errorf("browser: start: %w", err)
	}
	logger.Debug("[browser] session started (headless=%t)", opts.Headless)
	return s, nil
}

// Release tears the browser down. It is safe to call more than once.
func (s *Session) Release() {
	s.once.Do(func() {
		s.release()
		s.logger.Debug("[browser] session released")
	})
}

// scoped derives a context that runs against the browser tab, expires after
// timeout and is cancelled together with the caller's ctx.
func (s *Session) scoped(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancelRun := context.WithCancel(s.ctx)
	cancel := cancelRun
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		cancel = func() {
			cancelTimeout()
			cancelRun()
		}
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// Navigate loads url in the session's tab.
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.scoped(ctx, 0)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

// WaitClickable waits until loc matches a visible, enabled element and
// returns it. Expiry of Options.WaitTimeout yields a *WaitTimeoutError.
func (s *Session) WaitClickable(ctx context.Context, loc Locator) (Element, error) {
	runCtx, cancel := s.scoped(ctx, s.opts.WaitTimeout)
	defer cancel()

	by := queryOption(loc, false)
	var nodes []*cdp.Node
	err := chromedp.Run(runCtx,
		chromedp.WaitVisible(loc.Query, by),
		chromedp.WaitEnabled(loc.Query, by),
		chromedp.Nodes(loc.Query, &nodes, by),
	)
	switch {
	case err == nil && len(nodes) > 0:
		return &nodeElement{s: s, node: nodes[0], root: false}, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err == nil, errors.Is(err, context.DeadlineExceeded), errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return nil, &WaitTimeoutError{Locator: loc, Timeout: s.opts.WaitTimeout, Err: err}
	default:
		return nil, fmt.Errorf("browser: wait for %s: %w", loc, err)
	}
}

// WaitPresent waits until loc matches an element of the current document,
// visible or not. Expiry of Options.WaitTimeout yields a *WaitTimeoutError.
func (s *Session) WaitPresent(ctx context.Context, loc Locator) error {
	runCtx, cancel := s.scoped(ctx, s.opts.WaitTimeout)
	defer cancel()

	err := chromedp.Run(runCtx, chromedp.WaitReady(loc.Query, queryOption(loc, false)))
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return &WaitTimeoutError{Locator: loc, Timeout: s.opts.WaitTimeout, Condition: "present", Err: err}
	default:
		return fmt.Errorf("browser: wait for %s: %w", loc, err)
	}
}

// Click clicks an element obtained from this session.
func (s *Session) Click(ctx context.Context, el Element) error {
	n, ok := el.(*nodeElement)
	if !ok || n.s != s {
		return ErrForeignElement
	}
	runCtx, cancel := s.scoped(ctx, s.opts.WaitTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.MouseClickNode(n.node)); err != nil {
		return fmt.Errorf("browser: click: %w", err)
	}
	return nil
}

// RunScript evaluates code in the page, discarding its result.
func (s *Session) RunScript(ctx context.Context, code string) error {
	runCtx, cancel := s.scoped(ctx, s.opts.QueryTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Evaluate(code, nil)); err != nil {
		return fmt.Errorf("browser: run script: %w", err)
	}
	return nil
}

// Root returns the document element of the live page.
func (s *Session) Root(ctx context.Context) (Element, error) {
	runCtx, cancel := s.scoped(ctx, s.opts.QueryTimeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(runCtx, chromedp.Nodes("html", &nodes, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("browser: document root: %w", err)
	}
	return &nodeElement{s: s, node: nodes[0], root: true}, nil
}

// Snapshot captures the current DOM as static HTML and parses it.
func (s *Session) Snapshot(ctx context.Context) (Element, error) {
	runCtx, cancel := s.scoped(ctx, s.opts.QueryTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("browser: snapshot: %w", err)
	}
	s.logger.Debug("[browser] snapshot captured (%d bytes)", len(html))
	return NewSnapshot(strings.NewReader(html))
}

// QueryAll returns every element on the page matching loc.
func (s *Session) QueryAll(ctx context.Context, loc Locator) ([]Element, error) {
	root, err := s.Root(ctx)
	if err != nil {
		return nil, err
	}
	return root.QueryAll(ctx, loc)
}

// QueryOptional returns the first element matching loc inside scope, or the
// whole page when scope is nil.
func (s *Session) QueryOptional(ctx context.Context, loc Locator, scope Element) (Element, bool, error) {
	if scope == nil {
		root, err := s.Root(ctx)
		if err != nil {
			return nil, false, err
		}
		scope = root
	}
	return scope.QueryOptional(ctx, loc)
}

func queryOption(loc Locator, all bool) chromedp.QueryOption {
	switch {
	case loc.Kind == KindXPath:
		return chromedp.BySearch
	case all:
		return chromedp.ByQueryAll
	default:
		return chromedp.ByQuery
	}
}

// nodeElement is a live DOM node.
type nodeElement struct {
	s    *Session
	node *cdp.Node
	root bool
}

func (e *nodeElement) ids() []cdp.NodeID { return []cdp.NodeID{e.node.NodeID} }

func (e *nodeElement) QueryAll(ctx context.Context, loc Locator) ([]Element, error) {
	opts := []chromedp.QueryOption{queryOption(loc, true), chromedp.AtLeast(0)}
	switch {
	case loc.Kind == KindCSS:
		opts = append(opts, chromedp.FromNode(e.node))
	case !e.root:
		// XPath searches always run against the whole document.
		return nil, fmt.Errorf("scoped %s: %w", loc, ErrUnsupportedLocator)
	}

	runCtx, cancel := e.s.scoped(ctx, e.s.opts.QueryTimeout)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(runCtx, chromedp.Nodes(loc.Query, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("browser: query %s: %w", loc, err)
	}
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &nodeElement{s: e.s, node: n})
	}
	return out, nil
}

func (e *nodeElement) QueryOptional(ctx context.Context, loc Locator) (Element, bool, error) {
	all, err := e.QueryAll(ctx, loc)
	if err != nil || len(all) == 0 {
		return nil, false, err
	}
	return all[0], true, nil
}

func (e *nodeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	runCtx, cancel := e.s.scoped(ctx, e.s.opts.QueryTimeout)
	defer cancel()

	var (
		value string
		ok    bool
	)
	if err := chromedp.Run(runCtx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID)); err != nil {
		return "", false, fmt.Errorf("browser: attribute %q: %w", name, err)
	}
	return value, ok, nil
}

func (e *nodeElement) Text(ctx context.Context) (string, error) {
	return e.property(ctx, "innerText")
}

func (e *nodeElement) TextContent(ctx context.Context) (string, error) {
	return e.property(ctx, "textContent")
}

// property reads a JavaScript property, which unlike chromedp.Text does not
// wait for the node to become visible.
func (e *nodeElement) property(ctx context.Context, name string) (string, error) {
	runCtx, cancel := e.s.scoped(ctx, e.s.opts.QueryTimeout)
	defer cancel()

	var value string
	if err := chromedp.Run(runCtx, chromedp.JavascriptAttribute(e.ids(), name, &value, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("browser: read %s: %w", name, err)
	}
	return value, nil
}
