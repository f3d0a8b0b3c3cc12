package browser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPathLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Parcourir", "'Parcourir'"},
		{"Afficher plus", "'Afficher plus'"},
		{"l'offre", `"l'offre"`},
		{`l'offre "du" jour`, `concat('l', "'", 'offre "du" jour')`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, XPathLiteral(tt.in), "XPathLiteral(%q)", tt.in)
	}
}

func TestTextContains(t *testing.T) {
	loc := TextContains("button", "Afficher plus")
	assert.Equal(t, KindXPath, loc.Kind)
	assert.Equal(t, "(//button[contains(., 'Afficher plus')])[1]", loc.Query)
	assert.Equal(t, "xpath:(//button[contains(., 'Afficher plus')])[1]", loc.String())
	assert.Equal(t, "css:#acceptAllButton", CSS("#acceptAllButton").String())
}

func TestWaitTimeoutErrorMatchesNotFound(t *testing.T) {
	err := error(&WaitTimeoutError{Locator: CSS("#x"), Timeout: 10 * time.Second, Err: context.DeadlineExceeded})

	assert.True(t, errors.Is(err, ErrElementNotFound))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "css:#x not clickable within 10s", err.Error())

	var wt *WaitTimeoutError
	assert.True(t, errors.As(err, &wt))

	present := &WaitTimeoutError{Locator: CSS("div.list"), Timeout: time.Second, Condition: "present"}
	assert.Equal(t, "css:div.list not present within 1s", present.Error())
	assert.ErrorIs(t, present, ErrElementNotFound)
}

const snapshotHTML = `<html><body>
<div class="sale_item_browser">
  <div class="card"><img alt="Game A"><a href="/app/1?snr=x">A</a></div>
  <div class="card"><a href="/app/2">B</a></div>
</div>
</body></html>`

func TestSnapshotQueries(t *testing.T) {
	ctx := context.Background()
	root, err := NewSnapshot(strings.NewReader(snapshotHTML))
	require.NoError(t, err)

	cards, err := root.QueryAll(ctx, CSS("div.sale_item_browser div.card"))
	require.NoError(t, err)
	require.Len(t, cards, 2)

	img, ok, err := cards[0].QueryOptional(ctx, CSS("img"))
	require.NoError(t, err)
	require.True(t, ok)
	alt, present, err := img.Attribute(ctx, "alt")
	assert.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "Game A", alt)

	_, present, err = img.Attribute(ctx, "aria-label")
	assert.NoError(t, err)
	assert.False(t, present)

	_, ok, err = cards[1].QueryOptional(ctx, CSS("img"))
	assert.NoError(t, err)
	assert.False(t, ok)

	text, err := cards[1].TextContent(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "B", strings.TrimSpace(text))

	none, err := root.QueryAll(ctx, CSS("table"))
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestSnapshotRejectsXPath(t *testing.T) {
	root, err := NewSnapshot(strings.NewReader(snapshotHTML))
	require.NoError(t, err)

	_, err = root.QueryAll(context.Background(), TextContains("button", "Afficher plus"))
	assert.ErrorIs(t, err, ErrUnsupportedLocator)

	_, _, err = root.QueryOptional(context.Background(), XPath("//img"))
	assert.ErrorIs(t, err, ErrUnsupportedLocator)
}

func TestFindChromeBinaryOverride(t *testing.T) {
	assert.Equal(t, "/custom/chrome", FindChromeBinary("/custom/chrome"))
}
