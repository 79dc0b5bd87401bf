package tracker

import "github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"

// EventKind names the operation that changed the state
type EventKind string

// Event kinds
const (
	EventBetWon           EventKind = "bet_won"
	EventBetLost          EventKind = "bet_lost"
	EventChanceMultiplier EventKind = "chance_multiplier"
	EventChanceCash       EventKind = "chance_cash"
	EventChanceCombo      EventKind = "chance_combo"
	EventUndo             EventKind = "undo"
	EventSessionStarted   EventKind = "session_started"
	EventSessionArchived  EventKind = "session_archived"
	EventSessionCleared   EventKind = "session_cleared"
	EventReset            EventKind = "reset"
)

// Event describes one committed change
type Event struct {
	Kind    EventKind
	Session entities.SessionState
	// Archived is set when the change pushed a session into history
	Archived *entities.SessionSummary
	// Undone is the result code removed by an undo
	Undone entities.ResultCode
}

// Listener is called after a change is committed, outside the tracker lock
type Listener func(Event)
