package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/logging"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/db/migrations"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage"
	_ "github.com/mattn/go-sqlite3"
)

const (
	upsertSnapshotSQL = `
	INSERT INTO snapshots (key, data, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		data = excluded.data,
		updated_at = excluded.updated_at`

	selectSnapshotSQL = `SELECT data FROM snapshots WHERE key = ?`
)

// Storage keeps the snapshot as one row of a key-value table
type Storage struct {
	db  *sql.DB
	key string
}

// New opens (or creates) the database at options.Path and applies pending
// migrations
func New(ctx context.Context, options *storage.Options, logger *logging.Logger) (*Storage, error) {
	if options == nil {
		options = storage.NewOptions()
	}
	key := options.Key
	if key == "" {
		key = storage.DefaultKey
	}

	db, err := Open(ctx, options.Path, logger)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db, key: key}, nil
}

// Open opens a SQLite database and runs the bundled migrations on it
func Open(ctx context.Context, dbPath string, logger *logging.Logger) (*sql.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := migrations.NewEmbeddedMigrator(db, logger).MigrateUp(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return db, nil
}

// Save implements storage.Store
func (s *Storage) Save(ctx context.Context, snap *entities.Snapshot) error {
	data, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, upsertSnapshotSQL, s.key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("error saving snapshot: %w", err)
	}
	return nil
}

// Load implements storage.Store
func (s *Storage) Load(ctx context.Context) (*entities.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, selectSnapshotSQL, s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoSnapshot
		}
		return nil, fmt.Errorf("error loading snapshot: %w", err)
	}

	return storage.DecodeSnapshot([]byte(data))
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}
