package session

import (
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/types"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Manager owns the session lifecycle: start, archive, clear and full reset.
// It holds no state of its own; every call transforms the record it is given.
type Manager struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator overrides how session and summary IDs are minted
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) {
		m.newID = newID
	}
}

// NewManager creates a new session manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start opens a new session. An active session with logged outcomes is
// archived first and its summary returned.
func (m *Manager) Start(st *entities.State, startingCapital, baseBet decimal.Decimal) (*entities.SessionSummary, error) {
	if !startingCapital.IsPositive() {
		return nil, types.InvalidConfig("starting capital must be positive, got %s", startingCapital)
	}
	if !baseBet.IsPositive() {
		return nil, types.InvalidConfig("base bet must be positive, got %s", baseBet)
	}

	now := m.now()
	archived := m.Archive(st, now)

	st.Session = entities.NewSessionState()
	st.Session.Active = true
	st.Session.ID = m.newID()
	st.Session.StartTime = &now
	st.Session.StartingCapital = startingCapital
	st.Session.CurrentCapital = startingCapital
	st.Session.BaseBet = baseBet
	st.Session.CurrentBetAmount = baseBet
	st.Session.RecomputeProfit()
	st.Results.Clear()

	return archived, nil
}

// Archive pushes a summary of the active session into history. It returns nil
// when the session is inactive or nothing has been logged. A zero endTime
// means now. The session stays active.
func (m *Manager) Archive(st *entities.State, endTime time.Time) *entities.SessionSummary {
	if !st.Session.Active || st.Results.IsEmpty() {
		return nil
	}
	if endTime.IsZero() {
		endTime = m.now()
	}

	s := st.Session
	startTime := endTime
	if s.StartTime != nil {
		startTime = *s.StartTime
	}

	summary := &entities.SessionSummary{
		ID:                m.newID(),
		SessionID:         s.ID,
		StartTime:         startTime,
		EndTime:           endTime,
		StartingCapital:   s.StartingCapital,
		FinalCapital:      s.CurrentCapital,
		Profit:            s.CurrentCapital.Sub(s.StartingCapital),
		TotalBets:         s.TotalBets,
		SuccessfulBets:    s.SuccessfulBets,
		WinRate:           entities.CalculateWinRate(s.SuccessfulBets, s.TotalBets),
		HighestMartingale: s.HighestMartingale,
		Duration:          endTime.Sub(startTime),
		Results:           st.Results.Entries(),
	}
	st.History.Push(summary)
	return summary
}

// Clear archives the session if there is anything to archive, then
// deactivates it. History is kept.
func (m *Manager) Clear(st *entities.State) *entities.SessionSummary {
	archived := m.Archive(st, m.now())
	st.Session = entities.NewSessionState()
	st.Results.Clear()
	return archived
}

// ResetAll drops the session without archiving it and empties history
func (m *Manager) ResetAll(st *entities.State) {
	wasActive := st.Session.Active
	st.Session = entities.NewSessionState()
	if wasActive {
		now := m.now()
		st.Session.EndTime = &now
	}
	st.Results.Clear()
	st.History.Clear()
}
