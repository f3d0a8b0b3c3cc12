package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"steam-promo-scraper/models"
	"steam-promo-scraper/utils"
)

// CSVWriter persists the dataset as a UTF-8 CSV file.
type CSVWriter struct {
	path   string
	logger *utils.Logger
}

// NewCSVWriter creates a CSVWriter targeting path. Nothing is written until Write.
func NewCSVWriter(path string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{path: path, logger: logger.With("component", "csv")}
}

// Path returns the target file.
func (c *CSVWriter) Path() string { return c.path }

// Write replaces the file with the header row followed by one row per record.
// Rows go to a temporary file in the same directory which is then renamed
// over the target, so readers see either the previous file or the new one.
func (c *CSVWriter) Write(records []*models.Record) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("csv: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(models.DatasetHeader); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("csv: write row %q: %w", r.Title, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csv: close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("csv: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("csv: replace %q: %w", c.path, err)
	}

	c.logger.Info("[csv] Dataset written to %s (%d rows)", c.path, len(records))
	return nil
}

// Close is a no-op; every Write is self-contained.
func (c *CSVWriter) Close() error { return nil }
