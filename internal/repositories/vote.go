package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/personas/internal/models"
)

// VoteRepository persists [models.VoteRecord] rows in the votes table.
type VoteRepository struct {
	db *sql.DB
}

// NewVoteRepository creates a new [VoteRepository] with the given database connection
func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Create records a vote for personaID. Recording the same persona twice is a no-op and keeps the
// original sequence and timestamp.
func (r *VoteRepository) Create(ctx context.Context, personaID string) error {
	if personaID == "" {
		return fmt.Errorf("validation failed: persona id is required")
	}

	exists, err := r.Exists(ctx, personaID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	sequence, err := NextSequence(r.db, "votes")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `INSERT OR IGNORE INTO votes (persona_id, sequence, created_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, personaID, sequence, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

// Exists reports whether a vote for personaID has been recorded.
func (r *VoteRepository) Exists(ctx context.Context, personaID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM votes WHERE persona_id = ?)`, personaID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query vote: %w", err)
	}
	return exists, nil
}

// List returns every recorded vote, oldest first.
func (r *VoteRepository) List(ctx context.Context) ([]models.VoteRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT persona_id, sequence, created_at FROM votes ORDER BY sequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	records := []models.VoteRecord{}
	for rows.Next() {
		var record models.VoteRecord
		if err := rows.Scan(&record.PersonaID, &record.Sequence, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}
