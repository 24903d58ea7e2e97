package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/textfetch/textfetch/internal/types"
)

// FileStore keeps records in a single JSON file. The whole file is loaded
// at open and rewritten on every mutation, which is fine for the sizes an
// interactive tool produces.
type FileStore struct {
	path    string
	records []*types.Record
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewFileStore opens (or creates) a JSON-file-backed store.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "file", Err: fmt.Errorf("create history dir: %w", err)}
	}

	s := &FileStore{
		path:   path,
		logger: logger.With("component", "file_history"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, &types.StorageError{Backend: "file", Err: err}
		}
		return s, nil
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, &types.StorageError{Backend: "file", Err: fmt.Errorf("corrupt history file %s: %w", path, err)}
		}
	}

	s.logger.Debug("history loaded", "path", path, "records", len(s.records))
	return s, nil
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) Append(rec *types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	return s.persist()
}

func (s *FileStore) List(page, perPage int) ([]*types.Record, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]*types.Record, len(s.records))
	copy(sorted, s.records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	total := len(sorted)
	start := (page - 1) * perPage
	if page < 1 || perPage < 1 || start >= total {
		return nil, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return sorted[start:end], total, nil
}

func (s *FileStore) Get(id string) (*types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return s.persist()
		}
	}
	return ErrNotFound
}

func (s *FileStore) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Records: len(s.records)}
	for _, rec := range s.records {
		stats.Bytes += rec.Bytes
		if stats.FirstAt.IsZero() || rec.CreatedAt.Before(stats.FirstAt) {
			stats.FirstAt = rec.CreatedAt
		}
		if rec.CreatedAt.After(stats.LastAt) {
			stats.LastAt = rec.CreatedAt
		}
	}
	return stats, nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("history closing", "path", s.path, "records", len(s.records))
	return s.persist()
}

// persist rewrites the whole file. Caller holds the lock.
func (s *FileStore) persist() error {
	f, err := os.Create(s.path)
	if err != nil {
		return &types.StorageError{Backend: "file", Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.records); err != nil {
		return &types.StorageError{Backend: "file", Err: fmt.Errorf("encode history: %w", err)}
	}
	return nil
}
