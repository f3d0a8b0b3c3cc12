package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"steam-promo-scraper/models"
	"steam-promo-scraper/utils"
)

// NoTag is the placeholder a tag filter slot holds when unused.
const NoTag = "Aucun"

var (
	// netPriceRegexp captures the price after "à", e.g. "Prix réduit à 12,49€"
	netPriceRegexp = regexp.MustCompile(`à\s*([\d,]+)`)
	// discountRegexp captures the first percentage, e.g. "-40%"
	discountRegexp = regexp.MustCompile(`(\d+)\s*%`)
)

// OfferParser turns dataset records into Offers.
type OfferParser struct {
	logger *utils.Logger
}

// NewOfferParser creates an OfferParser with the given logger.
func NewOfferParser(logger *utils.Logger) *OfferParser {
	return &OfferParser{logger: logger}
}

// Parse converts every record. Records are never dropped.
func (p *OfferParser) Parse(records []*models.Record) []*models.Offer {
	offers := make([]*models.Offer, 0, len(records))
	unpriced := 0
	for _, r := range records {
		o := ParseOffer(r)
		if !o.HasPrice {
			unpriced++
		}
		offers = append(offers, o)
	}
	p.logger.Info("[offers] Parsed %d offers (%d without a net price)", len(offers), unpriced)
	return offers
}

// ParseOffer derives the numeric values of a record.
// Examples:
//
//	"-50% ... Prix réduit à 12,25€" → price 12.25, discount 50
//	"Pas de prix / Gratuit"         → no price, discount 0
func ParseOffer(r *models.Record) *models.Offer {
	o := &models.Offer{
		Record:  r,
		Review:  strings.ToLower(r.ReviewSummary),
		TagList: splitTags(r.Tags),
	}
	o.NetPrice, o.HasPrice = parseNetPrice(r.PriceInfo)
	o.Discount = parseDiscount(r.PriceInfo)
	return o
}

func parseNetPrice(raw string) (float64, bool) {
	match := netPriceRegexp.FindStringSubmatch(raw)
	if len(match) < 2 {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

func parseDiscount(raw string) float64 {
	match := discountRegexp.FindStringSubmatch(raw)
	if len(match) < 2 {
		return 0
	}
	val, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return val
}

// splitTags splits the comma-joined tag column. Fallback texts yield no tags.
func splitTags(raw string) []string {
	if raw == models.FallbackNoTags || raw == models.FallbackTagsError {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// UniqueTags returns the sorted distinct tags over all offers.
func UniqueTags(offers []*models.Offer) []string {
	set := make(map[string]struct{})
	for _, o := range offers {
		for _, t := range o.TagList {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Filter selects offers the way a bargain hunter would.
type Filter struct {
	MinDiscount float64
	MaxPrice    float64
	Sentiment   string   // substring of the review summary, e.g. "positives"
	Tags        []string // each must appear in the tag column; NoTag is ignored
}

// Match reports whether o passes every criterion. Offers without a net price
// never pass the price cap.
func (f Filter) Match(o *models.Offer) bool {
	if o.Discount < f.MinDiscount {
		return false
	}
	if !o.HasPrice || o.NetPrice > f.MaxPrice {
		return false
	}
	if !strings.Contains(o.Review, strings.ToLower(f.Sentiment)) {
		return false
	}
	tags := strings.ToLower(o.Record.Tags)
	for _, t := range f.Tags {
		if t == "" || t == NoTag {
			continue
		}
		if !strings.Contains(tags, strings.ToLower(t)) {
			return false
		}
	}
	return true
}

func (f Filter) String() string {
	active := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t != "" && t != NoTag {
			active = append(active, t)
		}
	}
	s := fmt.Sprintf("discount >= %.0f%%, price <= %.2f€, reviews ~ %q", f.MinDiscount, f.MaxPrice, f.Sentiment)
	if len(active) > 0 {
		s += ", tags: " + strings.Join(active, ", ")
	}
	return s
}
