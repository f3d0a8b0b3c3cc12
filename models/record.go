package models

// Fallback values written when a field's source element is absent or unreadable.
const (
	FallbackTitle       = "Titre inconnu"
	FallbackPrice       = "Pas de prix / Gratuit"
	FallbackReview      = "Pas d'évaluation"
	FallbackDescription = "Pas de résumé disponible"
	FallbackNoTags      = "Aucun tag"
	FallbackTagsError   = "Erreur récupération tags"
	FallbackLink        = "Pas de lien trouvé"
)

// DatasetHeader is the fixed column order of the persisted dataset.
var DatasetHeader = []string{"Titre", "Infos Prix", "Avis", "Résumé", "Tags", "Lien"}

// Record is one promotional item as extracted from the listing page.
// Every field is always set, either to the extracted value or to its fallback.
type Record struct {
	Title            string `json:"title"`
	PriceInfo        string `json:"price_info"`
	ReviewSummary    string `json:"review_summary"`
	ShortDescription string `json:"short_description"`
	Tags             string `json:"tags"`
	Link             string `json:"link"`
}

// Row returns the record's values in DatasetHeader order.
func (r *Record) Row() []string {
	return []string{r.Title, r.PriceInfo, r.ReviewSummary, r.ShortDescription, r.Tags, r.Link}
}

// RecordFromRow is the inverse of Row.
func RecordFromRow(row []string) *Record {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return &Record{
		Title:            get(0),
		PriceInfo:        get(1),
		ReviewSummary:    get(2),
		ShortDescription: get(3),
		Tags:             get(4),
		Link:             get(5),
	}
}
