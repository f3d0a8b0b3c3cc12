package browser

import (
	"context"
	"fmt"
	"strings"
)

// LocatorKind selects the query language of a Locator.
type LocatorKind int

const (
	KindCSS LocatorKind = iota
	KindXPath
)

// Locator identifies elements independently of the engine that evaluates it.
type Locator struct {
	Kind  LocatorKind
	Query string
}

// CSS returns a CSS selector locator.
func CSS(query string) Locator { return Locator{Kind: KindCSS, Query: query} }

// XPath returns an XPath locator.
func XPath(query string) Locator { return Locator{Kind: KindXPath, Query: query} }

// TextContains matches the first <tag> element in document order whose text
// contains text. Only that element is selected: waits require every node a
// locator returns to be ready.
func TextContains(tag, text string) Locator {
	return XPath(fmt.Sprintf("(//%s[contains(., %s)])[1]", tag, XPathLiteral(text)))
}

func (l Locator) String() string {
	if l.Kind == KindXPath {
		return "xpath:" + l.Query
	}
	return "css:" + l.Query
}

// XPathLiteral quotes s as an XPath string literal.
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// Element is an opaque handle into a rendered or snapshotted DOM.
// Handles from a live Session are valid only while the session is alive.
type Element interface {
	// QueryAll returns every descendant matching loc, possibly none. It never waits.
	QueryAll(ctx context.Context, loc Locator) ([]Element, error)
	// QueryOptional returns the first descendant matching loc, if any.
	QueryOptional(ctx context.Context, loc Locator) (Element, bool, error)
	// Attribute returns the named attribute and whether it is present.
	Attribute(ctx context.Context, name string) (string, bool, error)
	// Text returns the rendered text of the element.
	Text(ctx context.Context) (string, error)
	// TextContent returns the raw text content of the element and its descendants.
	TextContent(ctx context.Context) (string, error)
}
