package storage

import (
	"context"
	"errors"

	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
)

//go:generate mockgen -destination=mock/storage.go -package=mock github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage Store

// Common storage errors
var (
	ErrNoSnapshot = errors.New("no snapshot stored")
)

// Store persists the tracker snapshot
type Store interface {
	// Save replaces the stored snapshot
	Save(ctx context.Context, snap *entities.Snapshot) error

	// Load returns the stored snapshot, or ErrNoSnapshot
	Load(ctx context.Context) (*entities.Snapshot, error)

	// Close releases any held resources
	Close() error
}

// DefaultKey is the key the snapshot is stored under in keyed backends
const DefaultKey = "monopoly-tracker"

// Options represents storage configuration options
type Options struct {
	// Path is the snapshot file or SQLite database path
	Path string
	// Key names the snapshot within a keyed store
	Key string
}

// NewOptions creates a new Options with default values
func NewOptions() *Options {
	return &Options{
		Path: "session.json",
		Key:  DefaultKey,
	}
}
