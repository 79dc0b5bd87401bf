package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/logging"
	"github.com/JSON-FX/monopoly-tracker-sub001/internal/metrics"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/repositories/archive"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/services/betting"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/services/session"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Options configures a Tracker. Every field is optional.
type Options struct {
	// Store persists snapshots; defaults to an in-memory store
	Store storage.Store
	// Archive receives every archived session summary
	Archive archive.Repository
	Metrics *metrics.Collector
	Logger  *logging.Logger
	Clock   func() time.Time
	NewID   func() string
}

// Tracker owns the single state record and is the only way to change it.
// Each operation is applied to a copy under the lock and committed only if
// it succeeds.
type Tracker struct {
	mu      sync.Mutex
	state   *entities.State
	manager *session.Manager
	engine  *betting.Engine
	now     func() time.Time

	logger  *logging.Logger
	metrics *metrics.Collector
	archive archive.Repository
	writer  *writer

	listenersMu sync.RWMutex
	listeners   []Listener
}

// New creates a tracker, rehydrating from the store. A missing or unreadable
// snapshot yields a fresh inactive state.
func New(ctx context.Context, opts Options) *Tracker {
	if opts.Store == nil {
		opts.Store = memory.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	t := &Tracker{
		manager: session.NewManager(session.WithClock(opts.Clock), session.WithIDGenerator(opts.NewID)),
		engine:  betting.NewEngine(opts.Clock),
		now:     opts.Clock,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		archive: opts.Archive,
	}
	t.state = t.rehydrate(ctx, opts.Store)
	t.metrics.SetSession(t.state.Session.CurrentCapital, t.state.Session.ConsecutiveLosses)
	t.writer = newWriter(opts.Store, opts.Archive, opts.Logger, opts.Metrics)
	return t
}

func (t *Tracker) rehydrate(ctx context.Context, store storage.Store) *entities.State {
	snap, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoSnapshot) {
			t.logger.Info("[TRACKER] no saved session, starting fresh")
		} else {
			t.logger.Warn("[TRACKER] failed to load saved session, starting fresh: %v", err)
			t.metrics.RecordPersistenceFailure(metrics.OpLoad)
		}
		return entities.NewState()
	}

	st := snap.Restore()
	t.logger.Info("[TRACKER] restored session (active=%t, results=%d, history=%d)",
		st.Session.Active, st.Results.Len(), st.History.Len())
	return st
}

// OnChange registers a listener for committed changes
func (t *Tracker) OnChange(l Listener) {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()
	t.listeners = append(t.listeners, l)
}

// apply runs fn against a copy of the state. On success the copy becomes
// the state, the snapshot is handed to the writer and listeners are
// notified once the lock is released. Changes reported against an inactive
// session are validated and then dropped without notification.
func (t *Tracker) apply(kind EventKind, requireActive bool, fn func(st *entities.State) (*Event, error)) error {
	t.mu.Lock()

	next := t.state.Clone()
	wasActive := next.Session.Active
	ev, err := fn(next)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	if requireActive && !wasActive {
		t.mu.Unlock()
		t.logger.Debug("[TRACKER] ignoring %s: no active session", kind)
		return nil
	}

	t.state = next
	t.writer.submit(entities.NewSnapshot(next, t.now()), ev.Archived)

	ev.Kind = kind
	ev.Session = next.Session.Clone()
	t.mu.Unlock()

	t.record(ev)
	t.notify(*ev)
	return nil
}

func (t *Tracker) record(ev *Event) {
	switch ev.Kind {
	case EventBetWon:
		t.metrics.RecordOutcome(metrics.KindWin)
	case EventBetLost:
		t.metrics.RecordOutcome(metrics.KindLoss)
	case EventChanceMultiplier:
		t.metrics.RecordOutcome(metrics.KindMultiplier)
	case EventChanceCash:
		t.metrics.RecordOutcome(metrics.KindCash)
	case EventChanceCombo:
		t.metrics.RecordOutcome(metrics.KindCombo)
	case EventUndo:
		t.metrics.RecordUndo()
	}
	if ev.Archived != nil {
		t.metrics.RecordArchived()
		t.logger.Info("[TRACKER] archived session %s (profit %s)", ev.Archived.SessionID, ev.Archived.Profit)
	}
	t.metrics.SetSession(ev.Session.CurrentCapital, ev.Session.ConsecutiveLosses)
}

func (t *Tracker) notify(ev Event) {
	t.listenersMu.RLock()
	listeners := append([]Listener(nil), t.listeners...)
	t.listenersMu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}

// ReportBetResult settles one bet
func (t *Tracker) ReportBetResult(bet betting.Bet) error {
	kind := EventBetLost
	if bet.Won {
		kind = EventBetWon
	}
	return t.apply(kind, true, func(st *entities.State) (*Event, error) {
		return &Event{}, t.engine.SettleBet(st, bet)
	})
}

// ReportChanceMultiplier arms (or stacks) a multiplier for the next win
func (t *Tracker) ReportChanceMultiplier(value decimal.Decimal) error {
	return t.apply(EventChanceMultiplier, true, func(st *entities.State) (*Event, error) {
		return &Event{}, t.engine.ArmChanceMultiplier(st, value)
	})
}

// ReportChanceCash credits a chance cash prize
func (t *Tracker) ReportChanceCash(amount decimal.Decimal) error {
	return t.apply(EventChanceCash, true, func(st *entities.State) (*Event, error) {
		return &Event{}, t.engine.SettleChanceCash(st, amount)
	})
}

// ReportChanceCombo credits a chance round paying cash and multiplier winnings together
func (t *Tracker) ReportChanceCombo(cash, multiplierWin decimal.Decimal) error {
	return t.apply(EventChanceCombo, true, func(st *entities.State) (*Event, error) {
		return &Event{}, t.engine.SettleChanceCombo(st, cash, multiplierWin)
	})
}

// RequestUndo reverses the most recent outcome and returns its result code
func (t *Tracker) RequestUndo() (entities.ResultCode, error) {
	var undone entities.ResultCode
	err := t.apply(EventUndo, false, func(st *entities.State) (*Event, error) {
		code, err := t.engine.UndoLast(st)
		if err != nil {
			return nil, err
		}
		undone = code
		return &Event{Undone: code}, nil
	})
	return undone, err
}

// StartSession opens a new session, archiving the current one if it has outcomes
func (t *Tracker) StartSession(startingCapital, baseBet decimal.Decimal) (*entities.SessionSummary, error) {
	var archived *entities.SessionSummary
	err := t.apply(EventSessionStarted, false, func(st *entities.State) (*Event, error) {
		summary, err := t.manager.Start(st, startingCapital, baseBet)
		if err != nil {
			return nil, err
		}
		archived = summary
		return &Event{Archived: summary}, nil
	})
	return archived, err
}

// ArchiveSession pushes a summary of the open session into history and keeps
// the session running. It returns nil when there is nothing to archive.
func (t *Tracker) ArchiveSession() *entities.SessionSummary {
	var archived *entities.SessionSummary
	t.apply(EventSessionArchived, false, func(st *entities.State) (*Event, error) {
		archived = t.manager.Archive(st, time.Time{})
		return &Event{Archived: archived}, nil
	})
	return archived
}

// ClearSession archives the session if it has outcomes and deactivates it
func (t *Tracker) ClearSession() *entities.SessionSummary {
	var archived *entities.SessionSummary
	t.apply(EventSessionCleared, false, func(st *entities.State) (*Event, error) {
		archived = t.manager.Clear(st)
		return &Event{Archived: archived}, nil
	})
	return archived
}

// ResetAll drops the session and the whole history
func (t *Tracker) ResetAll() {
	t.apply(EventReset, false, func(st *entities.State) (*Event, error) {
		t.manager.ResetAll(st)
		return &Event{}, nil
	})
}

// Session returns a copy of the session state
func (t *Tracker) Session() entities.SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Session.Clone()
}

// Results returns a copy of the current result log
func (t *Tracker) Results() []entities.ResultEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Results.Entries()
}

// History returns the archived sessions, oldest first
func (t *Tracker) History() []*entities.SessionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.History.Summaries()
}

// Snapshot returns the persisted form of the current state
func (t *Tracker) Snapshot() *entities.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return entities.NewSnapshot(t.state, t.now())
}

// ArchivedSessions lists summaries from the archive repository, newest
// first. Without a repository it falls back to the in-state history.
func (t *Tracker) ArchivedSessions(ctx context.Context, limit int) ([]*entities.SessionSummary, error) {
	if t.archive == nil {
		history := t.History()
		list := make([]*entities.SessionSummary, 0, len(history))
		for i := len(history) - 1; i >= 0; i-- {
			list = append(list, history[i])
		}
		if limit > 0 && len(list) > limit {
			list = list[:limit]
		}
		return list, nil
	}
	return t.archive.ListSummaries(ctx, limit)
}

// Flush synchronously writes any pending snapshot
func (t *Tracker) Flush(ctx context.Context) {
	t.writer.flush(ctx)
}

// Close drains the background writer. The store and archive are left open.
func (t *Tracker) Close(ctx context.Context) error {
	return t.writer.close(ctx)
}
