package steam

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"steam-promo-scraper/browser"
	"steam-promo-scraper/models"
	"steam-promo-scraper/utils"
)

var (
	errMissingAttribute = errors.New("attribute missing")
	errBlankValue       = errors.New("blank value")
)

// ItemSource enumerates elements. Both a live Page and a snapshot Element
// satisfy it.
type ItemSource interface {
	QueryAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error)
}

// Extractor turns listing items into Records.
type Extractor struct {
	base   *url.URL
	logger *utils.Logger
}

// NewExtractor creates an Extractor resolving relative links against storeURL.
func NewExtractor(storeURL string, logger *utils.Logger) *Extractor {
	base, err := url.Parse(storeURL)
	if err != nil || !base.IsAbs() {
		base = nil
	}
	return &Extractor{base: base, logger: logger.With("component", "extractor")}
}

// Extract enumerates the items of the listing region in DOM order and extracts
// one Record per item. Only a failure to enumerate the items is returned;
// field failures are replaced by fallbacks.
func (x *Extractor) Extract(ctx context.Context, src ItemSource) ([]*models.Record, error) {
	items, err := src.QueryAll(ctx, ItemLocator)
	if err != nil {
		return nil, fmt.Errorf("enumerate items: %w", err)
	}
	x.logger.Info("[extractor] Found %d items in listing region", len(items))

	records := make([]*models.Record, 0, len(items))
	for i, item := range items {
		rec := x.ExtractRecord(ctx, item)
		x.logger.Debug("[extractor] #%d %s | %s | %s | %s", i+1, rec.Title, rec.PriceInfo, rec.ReviewSummary, rec.Tags)
		records = append(records, rec)
	}
	return records, nil
}

// ExtractRecord reads the six fields of one item. Each field is read on its
// own and falls back independently, so the result is always fully populated.
func (x *Extractor) ExtractRecord(ctx context.Context, item browser.Element) *models.Record {
	title, err := attrOf(ctx, item, TitleLocator, "alt")
	rec := &models.Record{Title: x.coalesce("title", title, err, models.FallbackTitle)}

	price, err := attrOf(ctx, item, PriceLocator, "aria-label")
	rec.PriceInfo = x.coalesce("price", price, err, models.FallbackPrice)

	review, err := attrOf(ctx, item, ReviewLocator, "aria-label")
	rec.ReviewSummary = x.coalesce("review", review, err, models.FallbackReview)

	desc, err := textOf(ctx, item, DescriptionLocator)
	rec.ShortDescription = x.coalesce("description", desc, err, models.FallbackDescription)

	tags, err := tagsOf(ctx, item)
	rec.Tags = formatTags(tags, err)
	if err != nil {
		x.logger.Debug("[extractor] tags: %v", err)
	}

	link, err := x.linkOf(ctx, item)
	rec.Link = x.coalesce("link", link, err, models.FallbackLink)

	return rec
}

func (x *Extractor) coalesce(field, value string, err error, fallback string) string {
	if err != nil {
		x.logger.Debug("[extractor] %s unavailable: %v", field, err)
		return fallback
	}
	return value
}

// formatTags joins tag names, telling an empty tag list apart from a failed lookup.
func formatTags(tags []string, err error) string {
	switch {
	case err != nil:
		return models.FallbackTagsError
	case len(tags) == 0:
		return models.FallbackNoTags
	default:
		return strings.Join(tags, ", ")
	}
}

func attrOf(ctx context.Context, item browser.Element, loc browser.Locator, name string) (string, error) {
	el, err := find(ctx, item, loc)
	if err != nil {
		return "", err
	}
	v, ok, err := el.Attribute(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s on %s: %w", name, loc, errMissingAttribute)
	}
	if err := checkBlank(v, loc); err != nil {
		return "", err
	}
	return v, nil
}

func textOf(ctx context.Context, item browser.Element, loc browser.Locator) (string, error) {
	el, err := find(ctx, item, loc)
	if err != nil {
		return "", err
	}
	v, err := el.Text(ctx)
	if err != nil {
		return "", err
	}
	v = strings.TrimSpace(v)
	if err := checkBlank(v, loc); err != nil {
		return "", err
	}
	return v, nil
}

func tagsOf(ctx context.Context, item browser.Element) ([]string, error) {
	els, err := item.QueryAll(ctx, TagLocator)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.TextContent(ctx)
		if err != nil {
			return nil, err
		}
		if t := strings.TrimSpace(text); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (x *Extractor) linkOf(ctx context.Context, item browser.Element) (string, error) {
	href, err := attrOf(ctx, item, LinkLocator, "href")
	if err != nil {
		return "", err
	}
	href = strings.TrimSpace(href)
	if x.base != nil {
		if ref, err := url.Parse(href); err == nil && !ref.IsAbs() {
			href = x.base.ResolveReference(ref).String()
		}
	}
	return StripQuery(href), nil
}

// StripQuery drops everything from the first '?' on.
func StripQuery(link string) string {
	before, _, _ := strings.Cut(link, "?")
	return before
}

func find(ctx context.Context, item browser.Element, loc browser.Locator) (browser.Element, error) {
	el, ok, err := item.QueryOptional(ctx, loc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", loc, browser.ErrElementNotFound)
	}
	return el, nil
}

// checkBlank rejects values holding only whitespace. The value itself is
// stored as read.
func checkBlank(v string, loc browser.Locator) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s: %w", loc, errBlankValue)
	}
	return nil
}

// DuplicateLinks returns the links that occur on more than one record with
// their counts. Records are never removed; the result is only reported.
func DuplicateLinks(records []*models.Record) map[string]int {
	seen := utils.NewURLSet()
	for _, r := range records {
		if r.Link != models.FallbackLink {
			seen.Add(r.Link)
		}
	}
	return seen.Repeated()
}
