package ledger

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/personas/internal/repositories"
)

// SQLite keeps marks in the votes table through [repositories.VoteRepository].
type SQLite struct {
	db     *sql.DB
	repo   *repositories.VoteRepository
	logger *log.Logger
}

// NewSQLite wraps a migrated database. The ledger owns db and closes it on [SQLite.Close].
func NewSQLite(db *sql.DB, logger *log.Logger) *SQLite {
	return &SQLite{db: db, repo: repositories.NewVoteRepository(db), logger: discardLogger(logger)}
}

func (s *SQLite) HasVoted(ctx context.Context, id string) bool {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		s.logger.Warn("could not read vote ledger", "id", id, "error", err)
		return false
	}
	return exists
}

func (s *SQLite) MarkVoted(ctx context.Context, id string) {
	if err := s.repo.Create(ctx, id); err != nil {
		s.logger.Warn("could not record vote", "id", id, "error", err)
	}
}

func (s *SQLite) Voted(ctx context.Context) []string {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("could not list vote ledger", "error", err)
		return []string{}
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.PersonaID)
	}
	return ids
}

func (s *SQLite) Close() error { return s.db.Close() }
