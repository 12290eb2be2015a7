package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// File stores marks as a JSON array of ids in a single file, the same shape a browser
// keeps under its "votes" storage key.
//
// The file is read on every call so several processes see each other's marks. Missing,
// unreadable or corrupt content counts as an empty array.
type File struct {
	path   string
	logger *log.Logger
	mu     sync.Mutex
}

func NewFile(path string, logger *log.Logger) *File {
	return &File{path: path, logger: discardLogger(logger)}
}

func (f *File) HasVoted(_ context.Context, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.read(), id)
}

func (f *File) MarkVoted(_ context.Context, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := f.read()
	if slices.Contains(ids, id) {
		return
	}
	if err := f.write(append(ids, id)); err != nil {
		f.logger.Warn("could not record vote", "id", id, "path", f.path, "error", err)
	}
}

func (f *File) Voted(context.Context) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *File) Close() error { return nil }

func (f *File) read() []string {
	ids := []string{}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return ids
	}
	if err != nil {
		f.logger.Warn("could not read vote ledger", "path", f.path, "error", err)
		return ids
	}

	if err := json.Unmarshal(data, &ids); err != nil {
		f.logger.Warn("vote ledger is corrupt, treating as empty", "path", f.path, "error", err)
		return []string{}
	}
	return ids
}

// write replaces the file through a temp file and rename so readers never see half an array.
func (f *File) write(ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".votes-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}
