package services

import (
	"reflect"
	"testing"

	"steam-promo-scraper/models"
	"steam-promo-scraper/utils"
)

func TestParseOfferPrice(t *testing.T) {
	tests := []struct {
		raw       string
		wantPrice float64
		wantOK    bool
		wantDisc  float64
	}{
		{"-40% Prix normal 20,82€ Prix réduit à 12,49€", 12.49, true, 40},
		{"Prix réduit à 5€", 5, true, 0},
		{"-75 % Prix réduit à  2,49€", 2.49, true, 75},
		{models.FallbackPrice, 0, false, 0},
		{"Gratuit", 0, false, 0},
		{"", 0, false, 0},
		{"à 1,2,3€", 0, false, 0},
	}

	for _, tt := range tests {
		o := ParseOffer(&models.Record{PriceInfo: tt.raw})
		if o.NetPrice != tt.wantPrice || o.HasPrice != tt.wantOK {
			t.Errorf("ParseOffer(%q) price = %.2f, %t; want %.2f, %t", tt.raw, o.NetPrice, o.HasPrice, tt.wantPrice, tt.wantOK)
		}
		if o.Discount != tt.wantDisc {
			t.Errorf("ParseOffer(%q) discount = %.0f; want %.0f", tt.raw, o.Discount, tt.wantDisc)
		}
	}
}

func TestParseOfferReviewAndTags(t *testing.T) {
	o := ParseOffer(&models.Record{ReviewSummary: "Évaluations TRÈS positives", Tags: "Action, Rogue-like,  ,RPG"})
	if o.Review != "évaluations très positives" {
		t.Errorf("Review = %q", o.Review)
	}
	if want := []string{"Action", "Rogue-like", "RPG"}; !reflect.DeepEqual(o.TagList, want) {
		t.Errorf("TagList = %v; want %v", o.TagList, want)
	}

	for _, fallback := range []string{models.FallbackNoTags, models.FallbackTagsError} {
		if tags := ParseOffer(&models.Record{Tags: fallback}).TagList; len(tags) != 0 {
			t.Errorf("TagList for %q = %v; want none", fallback, tags)
		}
	}
}

func TestOfferParserKeepsEveryRecord(t *testing.T) {
	p := NewOfferParser(utils.NopLogger())
	offers := p.Parse(sampleRecords())
	if len(offers) != len(sampleRecords()) {
		t.Fatalf("got %d offers, want %d", len(offers), len(sampleRecords()))
	}
	if offers[0].Record.Title != "Hades" {
		t.Errorf("order not preserved: first offer is %q", offers[0].Record.Title)
	}
}

func TestUniqueTags(t *testing.T) {
	offers := NewOfferParser(utils.NopLogger()).Parse(sampleRecords())
	want := []string{"Action", "Aventure", "Indépendant", "Plateformes", "RPG", "Rogue-like"}
	if got := UniqueTags(offers); !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueTags = %v; want %v", got, want)
	}
}

func TestFilterMatch(t *testing.T) {
	offers := NewOfferParser(utils.NopLogger()).Parse(sampleRecords())
	hades, celeste, dredge, free := offers[0], offers[1], offers[2], offers[3]

	base := Filter{MinDiscount: 10, MaxPrice: 35, Sentiment: "positives"}

	tests := []struct {
		name   string
		filter Filter
		offer  *models.Offer
		want   bool
	}{
		{"all criteria met", base, hades, true},
		{"discount too small", Filter{MinDiscount: 60, MaxPrice: 35, Sentiment: "positives"}, hades, false},
		{"too expensive", Filter{MinDiscount: 10, MaxPrice: 10, Sentiment: "positives"}, hades, false},
		{"price cap is inclusive", Filter{MinDiscount: 0, MaxPrice: 12.25, Sentiment: "positives"}, hades, true},
		{"sentiment mismatch", base, dredge, false},
		{"sentiment is case-insensitive", Filter{MinDiscount: 10, MaxPrice: 35, Sentiment: "Moyennes"}, dredge, true},
		{"unpriced never matches", Filter{MinDiscount: 0, MaxPrice: 1000, Sentiment: ""}, free, false},
		{"tag present", Filter{MinDiscount: 10, MaxPrice: 35, Sentiment: "positives", Tags: []string{"rpg"}}, hades, true},
		{"tag missing", Filter{MinDiscount: 10, MaxPrice: 35, Sentiment: "positives", Tags: []string{"Plateformes"}}, hades, false},
		{"placeholder tag ignored", Filter{MinDiscount: 10, MaxPrice: 35, Sentiment: "positives", Tags: []string{NoTag, NoTag}}, celeste, true},
	}

	for _, tt := range tests {
		if got := tt.filter.Match(tt.offer); got != tt.want {
			t.Errorf("%s: Match = %t; want %t", tt.name, got, tt.want)
		}
	}
}

func TestFilterString(t *testing.T) {
	f := Filter{MinDiscount: 10, MaxPrice: 35, Sentiment: "positives", Tags: []string{NoTag, "RPG"}}
	want := `discount >= 10%, price <= 35.00€, reviews ~ "positives", tags: RPG`
	if got := f.String(); got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}
