package browser

import (
	"context"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

// NewSnapshot parses static HTML into a root Element. Snapshots support CSS
// locators only.
func NewSnapshot(r io.Reader) (Element, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: parse html: %w", err)
	}
	return &selectionElement{sel: doc.Selection}, nil
}

type selectionElement struct {
	sel *goquery.Selection
}

func (e *selectionElement) QueryAll(_ context.Context, loc Locator) ([]Element, error) {
	if loc.Kind != KindCSS {
		return nil, fmt.Errorf("snapshot %s: %w", loc, ErrUnsupportedLocator)
	}
	found := e.sel.Find(loc.Query)
	out := make([]Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &selectionElement{sel: s})
	})
	return out, nil
}

func (e *selectionElement) QueryOptional(_ context.Context, loc Locator) (Element, bool, error) {
	if loc.Kind != KindCSS {
		return nil, false, fmt.Errorf("snapshot %s: %w", loc, ErrUnsupportedLocator)
	}
	first := e.sel.Find(loc.Query).First()
	if first.Length() == 0 {
		return nil, false, nil
	}
	return &selectionElement{sel: first}, true, nil
}

func (e *selectionElement) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

// Text has no layout to work from, so it is the text content.
func (e *selectionElement) Text(_ context.Context) (string, error) {
	return e.sel.Text(), nil
}

func (e *selectionElement) TextContent(_ context.Context) (string, error) {
	return e.sel.Text(), nil
}
