package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"steam-promo-scraper/models"
	"steam-promo-scraper/utils"
)

const recordColumns = 8

// PostgresWriter mirrors the dataset into PostgreSQL.
type PostgresWriter struct {
	db     *sql.DB
	runID  string
	logger *utils.Logger
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn, runID string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID, logger: logger.With("component", "postgres")}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS promo_records (
			position          INTEGER     PRIMARY KEY,
			title             TEXT        NOT NULL,
			price_info        TEXT        NOT NULL,
			review_summary    TEXT        NOT NULL,
			short_description TEXT        NOT NULL,
			tags              TEXT        NOT NULL,
			link              TEXT        NOT NULL,
			run_id            TEXT        NOT NULL,
			scraped_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_promo_records_link ON promo_records(link);
	`)
	return err
}

// Write replaces the table content with records inside one transaction.
// Duplicate links are kept, each row keyed by its position.
func (pw *PostgresWriter) Write(records []*models.Record) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM promo_records"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))
		if err := pw.insertBatch(tx, i, records[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	pw.logger.Info("[postgres] Mirrored %d records (run %s)", len(records), pw.runID)
	return nil
}

func (pw *PostgresWriter) insertBatch(tx *sql.Tx, offset int, batch []*models.Record) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*recordColumns)

	for idx, r := range batch {
		base := idx * recordColumns
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			offset+idx, r.Title, r.PriceInfo, r.ReviewSummary, r.ShortDescription, r.Tags, r.Link, pw.runID)
	}

	query := fmt.Sprintf(`
		INSERT INTO promo_records
			(position, title, price_info, review_summary, short_description, tags, link, run_id)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch at %d: %w", offset, err)
	}
	return nil
}

// FetchAll retrieves the stored records in extraction order.
func (pw *PostgresWriter) FetchAll() ([]*models.Record, error) {
	rows, err := pw.db.Query(`
		SELECT title, price_info, review_summary, short_description, tags, link
		FROM promo_records
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		r := &models.Record{}
		if err := rows.Scan(&r.Title, &r.PriceInfo, &r.ReviewSummary, &r.ShortDescription, &r.Tags, &r.Link); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
