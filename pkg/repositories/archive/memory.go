package archive

import (
	"context"
	"sort"
	"sync"

	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	summaries map[string]*entities.SessionSummary
	mu        sync.RWMutex
	closed    bool
}

// NewMemoryRepository creates a new in-memory archive
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		summaries: make(map[string]*entities.SessionSummary),
	}
}

// IndexSummary implements Repository
func (r *MemoryRepository) IndexSummary(ctx context.Context, summary *entities.SessionSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	// Store a copy to prevent concurrent modification
	c := *summary
	c.Results = append([]entities.ResultEntry(nil), summary.Results...)
	r.summaries[summary.ID] = &c
	return nil
}

// ListSummaries implements Repository
func (r *MemoryRepository) ListSummaries(ctx context.Context, limit int) ([]*entities.SessionSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}

	list := make([]*entities.SessionSummary, 0, len(r.summaries))
	for _, s := range r.summaries {
		c := *s
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].EndTime.After(list[j].EndTime)
	})

	if limit = normaliseLimit(limit); len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// Close implements Repository
func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
