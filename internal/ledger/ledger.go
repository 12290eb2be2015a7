// package ledger remembers which personas this client has already voted on
package ledger

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/personas/internal/shared"
)

// Ledger gates repeat voting from this client.
//
// Storage failures never surface to callers: a failed read answers "not voted" and a
// failed write is dropped, both logged at warn.
type Ledger interface {
	// HasVoted reports whether id has been marked.
	HasVoted(ctx context.Context, id string) bool

	// MarkVoted records id. Marking an id twice is a no-op.
	MarkVoted(ctx context.Context, id string)

	// Voted returns every marked id, oldest first. A failed read returns an empty slice.
	Voted(ctx context.Context) []string

	// Close releases the underlying storage.
	Close() error
}

func discardLogger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}

// Open builds the ledger selected by config.Ledger.Backend.
//
// The sqlite backend opens (and migrates) the database named in config.Database.
func Open(ctx context.Context, config *shared.Config, logger *log.Logger) (Ledger, error) {
	logger = discardLogger(logger)

	switch config.Ledger.Backend {
	case shared.LedgerSQLite:
		db, err := shared.OpenLedgerDatabase(config.Database)
		if err != nil {
			return nil, err
		}
		return NewSQLite(db, logger), nil
	case shared.LedgerFile:
		return NewFile(config.Ledger.Path, logger), nil
	case shared.LedgerRedis:
		return NewRedis(ctx, config.Ledger.RedisURL, config.Ledger.Key, logger)
	case shared.LedgerMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: unknown ledger backend %q", shared.ErrInvalidConfig, config.Ledger.Backend)
	}
}
