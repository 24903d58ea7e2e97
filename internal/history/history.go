package history

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/textfetch/textfetch/internal/config"
	"github.com/textfetch/textfetch/internal/types"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// Stats summarizes the history store contents.
type Stats struct {
	Records int       `json:"records"`
	Bytes   int64     `json:"bytes"`
	FirstAt time.Time `json:"first_at,omitzero"`
	LastAt  time.Time `json:"last_at,omitzero"`
}

// Store keeps extraction records for display and export. Stores never feed
// fetching; they are written after extraction completes.
type Store interface {
	// Append persists a record.
	Append(rec *types.Record) error

	// List returns one page of records, newest first, plus the total count.
	// Pages are 1-based.
	List(page, perPage int) ([]*types.Record, int, error)

	// Get returns a single record by id.
	Get(id string) (*types.Record, error)

	// Delete removes a record by id.
	Delete(id string) error

	// Stats summarizes the store contents.
	Stats() (Stats, error)

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the store backend identifier.
	Name() string
}

// NewStore creates the history store selected by the configuration.
func NewStore(cfg *config.HistoryConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case "none":
		return NopStore{}, nil
	case "file":
		return NewFileStore(cfg.Path, logger)
	case "mongo":
		return NewMongoStore(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", cfg.Backend)
	}
}

// NopStore discards all records. Used when history is disabled.
type NopStore struct{}

func (NopStore) Append(*types.Record) error { return nil }

func (NopStore) List(int, int) ([]*types.Record, int, error) { return nil, 0, nil }

func (NopStore) Get(string) (*types.Record, error) { return nil, ErrNotFound }

func (NopStore) Delete(string) error { return ErrNotFound }

func (NopStore) Stats() (Stats, error) { return Stats{}, nil }

func (NopStore) Close() error { return nil }

func (NopStore) Name() string { return "none" }
