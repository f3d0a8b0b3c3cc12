package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"

	"steam-promo-scraper/models"
)

// ReadDataset loads a dataset file written by storage.CSVWriter.
func ReadDataset(path string) ([]*models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	return ParseDataset(f)
}

// ParseDataset reads the header and rows of a dataset. A header that differs
// from models.DatasetHeader is rejected.
func ParseDataset(r io.Reader) ([]*models.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(models.DatasetHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	if !slices.Equal(header, models.DatasetHeader) {
		return nil, fmt.Errorf("dataset: unexpected header %q", header)
	}

	records := make([]*models.Record, 0)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		records = append(records, models.RecordFromRow(row))
	}
}
