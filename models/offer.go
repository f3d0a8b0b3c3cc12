package models

// Offer is a Record with the numeric values the analysis needs.
type Offer struct {
	Record   *Record
	NetPrice float64
	HasPrice bool
	Discount float64
	Review   string // lower-cased review summary
	TagList  []string
}

// InsightReport holds the computed analytics over a dataset.
type InsightReport struct {
	TotalOffers   int
	PricedOffers  int
	AveragePrice  float64
	MinPrice      float64
	MaxPrice      float64
	TopDiscounts  []*Offer
	TagCounts     map[string]int
	Matches       []*Offer
	FilterSummary string
}
