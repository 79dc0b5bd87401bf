package entities

// State is everything the tracker owns: the open session, its result log and
// the archived history. Exactly one exists per tracker.
type State struct {
	Session SessionState
	Results *ResultLog
	History History
}

// NewState returns a fresh inactive state
func NewState() *State {
	return &State{
		Session: NewSessionState(),
		Results: NewResultLog(nil),
	}
}

// Clone returns a deep copy. Archived summaries are never mutated after
// being pushed, so they are shared.
func (s *State) Clone() *State {
	results := s.Results
	if results == nil {
		results = NewResultLog(nil)
	}
	return &State{
		Session: s.Session.Clone(),
		Results: NewResultLog(results.entries),
		History: NewHistory(s.History.summaries),
	}
}
