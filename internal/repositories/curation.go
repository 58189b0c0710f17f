package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/genmix/internal/models"
	"github.com/desertthunder/genmix/internal/shared"
)

// CurationRepository implements models.Repository[*models.CurationRun] for
// curation history.
//
// Handles run CRUD operations with soft delete support and mode-based lookups.
type CurationRepository struct {
	db *sql.DB
}

// NewCurationRepository creates a new CurationRepository with the given database connection
func NewCurationRepository(db *sql.DB) *CurationRepository {
	return &CurationRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *CurationRepository) Create(run *models.CurationRun) error {
	sequence, err := NextSequence(r.db, "curation_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO curation_runs (id, sequence, playlist_id, name, genres, mode, track_count, duration_seconds, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.PlaylistID(),
		run.Name(),
		run.GenresCSV(),
		run.Mode(),
		run.TrackCount(),
		run.DurationSeconds(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert curation run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *CurationRepository) Get(id string) (*models.CurationRun, error) {
	query := `
		SELECT id, sequence, playlist_id, name, genres, mode, track_count, duration_seconds, created_at, updated_at, deleted_at
		FROM curation_runs
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByPlaylistID retrieves the run that created the given playlist
func (r *CurationRepository) GetByPlaylistID(playlistID string) (*models.CurationRun, error) {
	query := `
		SELECT id, sequence, playlist_id, name, genres, mode, track_count, duration_seconds, created_at, updated_at, deleted_at
		FROM curation_runs
		WHERE playlist_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, playlistID))
}

// Update modifies an existing run in the database
func (r *CurationRepository) Update(run *models.CurationRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE curation_runs
		SET name = ?, genres = ?, mode = ?, track_count = ?, duration_seconds = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.Name(),
		run.GenresCSV(),
		run.Mode(),
		run.TrackCount(),
		run.DurationSeconds(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update curation run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("curation run not found or already deleted: %s", run.ID())
	}

	return nil
}

// Delete soft-deletes a run by ID
func (r *CurationRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE curation_runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete curation run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("curation run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all runs matching the given criteria, excluding soft-deleted runs
func (r *CurationRepository) List(criteria map[string]any) ([]*models.CurationRun, error) {
	query := `
		SELECT id, sequence, playlist_id, name, genres, mode, track_count, duration_seconds, created_at, updated_at, deleted_at
		FROM curation_runs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if mode, ok := criteria["mode"].(string); ok && mode != "" {
		query += " AND mode = ?"
		args = append(args, mode)
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genres LIKE ?"
		args = append(args, "%"+genre+"%")
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query curation runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.CurationRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanOne scans a single row into a [models.CurationRun]
func (r *CurationRepository) scanOne(row *sql.Row) (*models.CurationRun, error) {
	var (
		id              string
		sequence        int
		playlistID      string
		name            string
		genres          string
		mode            string
		trackCount      int
		durationSeconds int
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := row.Scan(&id, &sequence, &playlistID, &name, &genres, &mode, &trackCount, &durationSeconds, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("curation run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan curation run: %w", err)
	}

	run := models.NewCurationRun(sequence, playlistID, name, models.GenresFromCSV(genres), mode, trackCount, durationSeconds)
	run.SetID(id)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

// scanRow scans a row from [sql.Rows] into a [models.CurationRun]
func (r *CurationRepository) scanRow(rows *sql.Rows) (*models.CurationRun, error) {
	var (
		id              string
		sequence        int
		playlistID      string
		name            string
		genres          string
		mode            string
		trackCount      int
		durationSeconds int
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &playlistID, &name, &genres, &mode, &trackCount, &durationSeconds, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan curation run: %w", err)
	}

	run := models.NewCurationRun(sequence, playlistID, name, models.GenresFromCSV(genres), mode, trackCount, durationSeconds)
	run.SetID(id)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}
