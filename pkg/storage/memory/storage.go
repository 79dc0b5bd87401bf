package memory

import (
	"context"
	"sync"

	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage"
)

// Storage keeps the encoded snapshot in process memory. Nothing survives a
// restart; it is the fallback when no durable store can be opened.
type Storage struct {
	mu    sync.RWMutex
	data  []byte
	saves int
}

// New creates a new in-memory store
func New() *Storage {
	return &Storage{}
}

// Save implements storage.Store
func (s *Storage) Save(ctx context.Context, snap *entities.Snapshot) error {
	data, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.saves++
	return nil
}

// Load implements storage.Store
func (s *Storage) Load(ctx context.Context) (*entities.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, storage.ErrNoSnapshot
	}
	return storage.DecodeSnapshot(s.data)
}

// Close implements storage.Store
func (s *Storage) Close() error {
	return nil
}

// Saves returns how many snapshots have been written
func (s *Storage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Raw returns a copy of the stored bytes
func (s *Storage) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.data...)
}

// SetRaw replaces the stored bytes as-is
func (s *Storage) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}
