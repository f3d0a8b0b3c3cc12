package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"steam-promo-scraper/models"
	"steam-promo-scraper/utils"
)

const topDiscounts = 5

type InsightService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger, out: os.Stdout}
}

func (s *InsightService) Generate(offers []*models.Offer, filter Filter) *models.InsightReport {
	report := &models.InsightReport{
		TagCounts:     make(map[string]int),
		FilterSummary: filter.String(),
	}

	if len(offers) == 0 {
		return report
	}

	report.TotalOffers = len(offers)

	var priced []*models.Offer
	var discounted []*models.Offer

	for _, o := range offers {
		if o.HasPrice {
			priced = append(priced, o)
		}
		if o.Discount > 0 {
			discounted = append(discounted, o)
		}
		for _, t := range o.TagList {
			report.TagCounts[t]++
		}
		if filter.Match(o) {
			report.Matches = append(report.Matches, o)
		}
	}

	// Price stats (only offers with a net price)
	report.PricedOffers = len(priced)
	if len(priced) > 0 {
		report.MinPrice = priced[0].NetPrice
		report.MaxPrice = priced[0].NetPrice
		var total float64
		for _, o := range priced {
			total += o.NetPrice
			if o.NetPrice < report.MinPrice {
				report.MinPrice = o.NetPrice
			}
			if o.NetPrice > report.MaxPrice {
				report.MaxPrice = o.NetPrice
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	// Top discounts, dataset order kept between equal discounts
	sort.SliceStable(discounted, func(i, j int) bool {
		return discounted[i].Discount > discounted[j].Discount
	})
	if len(discounted) > topDiscounts {
		report.TopDiscounts = discounted[:topDiscounts]
	} else {
		report.TopDiscounts = discounted
	}

	s.logger.Debug("[insights] %d offers, %d priced, %d matches", report.TotalOffers, report.PricedOffers, len(report.Matches))
	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	w := s.out
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🎯 STEAM PROMOTIONS INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Offers in dataset      : \033[1m%d\033[0m\n", r.TotalOffers)
	fmt.Fprintf(w, "  Offers with a price    : \033[1m%d\033[0m\n", r.PricedOffers)
	fmt.Fprintln(w)

	// Price Stats
	fmt.Fprintf(w, "\033[1;33m  Net Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedOffers > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m%.2f€\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m%.2f€\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m%.2f€\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	// ── TOP DISCOUNTS ─────────────────────────────────────────────────────
	fmt.Fprintf(w, "\033[1;33m  Top %d Discounts\033[0m\n", topDiscounts)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopDiscounts) == 0 {
		fmt.Fprintf(w, "  No discounted offers found\n")
	} else {
		for i, o := range r.TopDiscounts {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;31m-%.0f%%\033[0m\n",
				i+1, truncate(o.Record.Title, 38), o.Discount)
		}
	}
	fmt.Fprintln(w)

	// Tag frequency
	fmt.Fprintf(w, "\033[1;33m  Offers by Tag\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TagCounts) == 0 {
		fmt.Fprintf(w, "  No tag data\n")
	} else {
		for _, tc := range sortedTagCounts(r.TagCounts, 10) {
			bar := strings.Repeat("█", tc.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(tc.tag, 28), bar, tc.count)
		}
	}
	fmt.Fprintln(w)

	// Filter matches
	fmt.Fprintf(w, "\033[1;33m  Matching Offers\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Filter: %s\n", r.FilterSummary)
	if len(r.Matches) == 0 {
		fmt.Fprintf(w, "  Aucun jeu ne correspond à vos critères.\n")
	} else {
		for _, o := range r.Matches {
			fmt.Fprintf(w, "  %s\n", truncate(o.Record.Title, 50))
			fmt.Fprintf(w, "    💰 %.2f€ | Réduction : -%.0f%%\n", o.NetPrice, o.Discount)
			fmt.Fprintf(w, "    %s\n", o.Record.Link)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

type tagCount struct {
	tag   string
	count int
}

// sortedTagCounts orders tags by count descending then name, keeping at most limit.
func sortedTagCounts(counts map[string]int, limit int) []tagCount {
	out := make([]tagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, tagCount{tag, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].tag < out[j].tag
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
