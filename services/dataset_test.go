package services

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"steam-promo-scraper/storage"
	"steam-promo-scraper/utils"
)

func TestReadDatasetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jeux_steam.csv")
	if err := storage.NewCSVWriter(path, utils.NopLogger()).Write(sampleRecords()); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadDataset(path)
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if !reflect.DeepEqual(got, sampleRecords()) {
		t.Errorf("ReadDataset returned %d records that differ from what was written", len(got))
	}
}

func TestParseDatasetHeaderOnly(t *testing.T) {
	got, err := ParseDataset(strings.NewReader("Titre,Infos Prix,Avis,Résumé,Tags,Lien\n"))
	if err != nil {
		t.Fatalf("ParseDataset: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty, non-nil slice, got %v", got)
	}
}

func TestParseDatasetRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"wrong header": "Title,Price,Reviews,Summary,Tags,Link\n",
		"short row":    "Titre,Infos Prix,Avis,Résumé,Tags,Lien\nHades,12€\n",
	}
	for name, input := range tests {
		if _, err := ParseDataset(strings.NewReader(input)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestReadDatasetMissingFile(t *testing.T) {
	if _, err := ReadDataset(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
