package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/logging"
	"github.com/JSON-FX/monopoly-tracker-sub001/internal/metrics"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/repositories/archive"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage"
)

const writeTimeout = 5 * time.Second

// writer persists snapshots in the background. Only the newest pending
// snapshot is kept, so a burst of changes costs one write. Archived
// summaries are queued and forwarded in order.
type writer struct {
	store   storage.Store
	archive archive.Repository
	logger  *logging.Logger
	metrics *metrics.Collector

	mu        sync.Mutex
	pending   *entities.Snapshot
	summaries []*entities.SessionSummary
	closed    bool

	// saveMu serialises flushes so an older snapshot never overwrites a newer one
	saveMu sync.Mutex

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func newWriter(store storage.Store, repo archive.Repository, logger *logging.Logger, m *metrics.Collector) *writer {
	w := &writer{
		store:   store,
		archive: repo,
		logger:  logger,
		metrics: m,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// submit replaces the pending snapshot and queues any archived summary. It
// never blocks on I/O.
func (w *writer) submit(snap *entities.Snapshot, archived *entities.SessionSummary) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("[TRACKER] writer closed, dropping snapshot")
		return
	}
	w.pending = snap
	if archived != nil && w.archive != nil {
		w.summaries = append(w.summaries, archived)
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.wake:
			w.flush(context.Background())
		case <-w.done:
			w.flush(context.Background())
			return
		}
	}
}

// flush writes whatever is pending
func (w *writer) flush(ctx context.Context) {
	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	w.mu.Lock()
	snap := w.pending
	summaries := w.summaries
	w.pending = nil
	w.summaries = nil
	w.mu.Unlock()

	if snap != nil {
		saveCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		if err := w.store.Save(saveCtx, snap); err != nil {
			w.logger.Warn("[STORE] failed to save snapshot: %v", err)
			w.metrics.RecordPersistenceFailure(metrics.OpSave)
		}
		cancel()
	}

	for _, s := range summaries {
		archiveCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		if err := w.archive.IndexSummary(archiveCtx, s); err != nil {
			w.logger.Warn("[ARCHIVE] failed to archive session %s: %v", s.SessionID, err)
			w.metrics.RecordPersistenceFailure(metrics.OpArchive)
		}
		cancel()
	}
}

// close stops the background goroutine after a final flush
func (w *writer) close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)

	stopped := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
