package storage

import (
	"errors"

	"steam-promo-scraper/models"
	"steam-promo-scraper/utils"
)

// FanOut writes to a primary writer whose failure is fatal, then to mirrors
// whose failures are only logged.
type FanOut struct {
	primary RecordWriter
	mirrors map[string]RecordWriter
	order   []string
	logger  *utils.Logger
}

// NewFanOut creates a FanOut around primary.
func NewFanOut(primary RecordWriter, logger *utils.Logger) *FanOut {
	return &FanOut{primary: primary, mirrors: make(map[string]RecordWriter), logger: logger}
}

// AddMirror registers an optional secondary writer.
func (f *FanOut) AddMirror(name string, w RecordWriter) {
	if _, exists := f.mirrors[name]; !exists {
		f.order = append(f.order, name)
	}
	f.mirrors[name] = w
}

// Write returns only the primary writer's error. Mirrors are skipped when
// the primary fails so they never get ahead of the dataset file.
func (f *FanOut) Write(records []*models.Record) error {
	if err := f.primary.Write(records); err != nil {
		return err
	}
	for _, name := range f.order {
		if err := f.mirrors[name].Write(records); err != nil {
			f.logger.Error("[storage] %s mirror write failed: %v", name, err)
		}
	}
	return nil
}

// Close closes every writer and joins their errors.
func (f *FanOut) Close() error {
	errs := []error{f.primary.Close()}
	for _, name := range f.order {
		errs = append(errs, f.mirrors[name].Close())
	}
	return errors.Join(errs...)
}
