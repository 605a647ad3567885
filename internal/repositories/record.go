package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/services"
	"github.com/desertthunder/moviefight/internal/shared"
)

var _ services.RecordCacher = (*RecordRepository)(nil)

// RecordRepository caches full movie records by normalized title.
//
// Records are stored as JSON so fields added to [models.MovieRecord] need no migration.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository with the given database connection
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// GetRecord returns the cached record for title.
//
// A record older than maxAge is treated as missing; a non-positive maxAge never expires.
// Returns [shared.ErrCacheMiss] when nothing usable is stored.
func (r *RecordRepository) GetRecord(title string, maxAge time.Duration) (*models.MovieRecord, error) {
	var (
		payload   string
		fetchedAt time.Time
	)

	err := r.db.QueryRow(
		`SELECT payload, fetched_at FROM movie_records WHERE title_key = ?`,
		shared.NormalizeTitle(title),
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	if maxAge > 0 && time.Since(fetchedAt) > maxAge {
		return nil, shared.ErrCacheMiss
	}

	var record models.MovieRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &record, nil
}

// PutRecord stores record under title, replacing any earlier entry.
func (r *RecordRepository) PutRecord(title string, record *models.MovieRecord) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", shared.ErrInvalidInput)
	}

	key := shared.NormalizeTitle(title)
	if key == "" {
		return fmt.Errorf("%w: empty title", shared.ErrInvalidInput)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	query := `
		INSERT INTO movie_records (title_key, imdb_id, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(title_key) DO UPDATE SET
			imdb_id = excluded.imdb_id,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`

	if _, err := r.db.Exec(query, key, record.IMDbID, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

// Purge removes entries fetched more than olderThan ago and returns how many were removed.
//
// A zero olderThan empties the cache.
func (r *RecordRepository) Purge(olderThan time.Duration) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM movie_records WHERE fetched_at <= ?`,
		time.Now().UTC().Add(-olderThan),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge records: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// Count returns the number of cached records.
func (r *RecordRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM movie_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
