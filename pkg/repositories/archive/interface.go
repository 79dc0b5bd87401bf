package archive

import (
	"context"
	"errors"

	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
)

// DefaultListLimit is used when ListSummaries is called with a non-positive limit
const DefaultListLimit = 20

// ErrClosed is returned by a repository after Close
var ErrClosed = errors.New("archive repository closed")

// Repository is the durable, unbounded record of archived sessions. The
// in-state history keeps only the newest few; this keeps them all.
type Repository interface {
	// IndexSummary stores a summary, replacing any with the same ID
	IndexSummary(ctx context.Context, summary *entities.SessionSummary) error

	// ListSummaries returns up to limit summaries, most recently ended first
	ListSummaries(ctx context.Context, limit int) ([]*entities.SessionSummary, error)

	// Close closes any resources used by the repository
	Close() error
}

func normaliseLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
