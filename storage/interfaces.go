package storage

import "steam-promo-scraper/models"

// RecordWriter is the interface any dataset backend must satisfy.
// Write replaces whatever a previous run stored.
type RecordWriter interface {
	Write(records []*models.Record) error
	Close() error
}
