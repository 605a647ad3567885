package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/shared"
)

const matchupColumns = `
	id, sequence, first_title, first_box_office, first_rating,
	second_title, second_box_office, second_rating, outcome, created_at
`

// MatchupRepository persists completed comparisons.
//
// Deletes are soft: rows keep their sequence and are hidden from Get and List.
type MatchupRepository struct {
	db *sql.DB
}

// NewMatchupRepository creates a new MatchupRepository with the given database connection
func NewMatchupRepository(db *sql.DB) *MatchupRepository {
	return &MatchupRepository{db: db}
}

// Create inserts m with a generated ID, sequence and creation time.
func (r *MatchupRepository) Create(m *models.Matchup) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "matchups")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	m.ID = shared.GenerateID()
	m.Sequence = sequence
	m.CreatedAt = time.Now().UTC()

	query := `INSERT INTO matchups (` + matchupColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		m.ID,
		m.Sequence,
		m.FirstTitle,
		m.FirstBoxOffice,
		m.FirstRating,
		m.SecondTitle,
		m.SecondBoxOffice,
		m.SecondRating,
		m.Outcome,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert matchup: %w", err)
	}

	return nil
}

// Get retrieves a matchup by ID, excluding soft-deleted rows
func (r *MatchupRepository) Get(id string) (*models.Matchup, error) {
	query := `SELECT ` + matchupColumns + ` FROM matchups WHERE id = ? AND deleted_at IS NULL`

	m, err := scanMatchup(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: matchup %s", shared.ErrRecordNotFound, id)
	}
	return m, err
}

// List returns the newest matchups first. A non-positive limit returns all of them.
func (r *MatchupRepository) List(limit int) ([]*models.Matchup, error) {
	query := `SELECT ` + matchupColumns + ` FROM matchups WHERE deleted_at IS NULL ORDER BY sequence DESC`
	args := []any{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchups: %w", err)
	}
	defer rows.Close()

	var matchups []*models.Matchup
	for rows.Next() {
		m, err := scanMatchup(rows)
		if err != nil {
			return nil, err
		}
		matchups = append(matchups, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return matchups, nil
}

// Delete soft-deletes a matchup by ID
func (r *MatchupRepository) Delete(id string) error {
	result, err := r.db.Exec(
		`UPDATE matchups SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete matchup: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: matchup %s not found or already deleted", shared.ErrRecordNotFound, id)
	}

	return nil
}

// Recorder returns a session hook that stores each completed comparison.
//
// Failures are logged; the comparison itself is never affected.
func (r *MatchupRepository) Recorder(logger *log.Logger) func(compare.Matchup) {
	return func(cm compare.Matchup) {
		if !cm.Complete() {
			return
		}
		m := cm.Record()
		if err := r.Create(&m); err != nil {
			logger.Warn("failed to record matchup", "err", err)
			return
		}
		logger.Debug("recorded matchup", "id", m.ID, "sequence", m.Sequence, "outcome", m.Outcome)
	}
}

func scanMatchup(s scanner) (*models.Matchup, error) {
	var m models.Matchup

	err := s.Scan(
		&m.ID, &m.Sequence, &m.FirstTitle, &m.FirstBoxOffice, &m.FirstRating,
		&m.SecondTitle, &m.SecondBoxOffice, &m.SecondRating, &m.Outcome, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan matchup: %w", err)
	}

	return &m, nil
}
