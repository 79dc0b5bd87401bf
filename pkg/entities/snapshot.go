package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotOutcome is the persisted form of Outcome
type SnapshotOutcome struct {
	Amount decimal.Decimal `json:"amount"`
	Payout decimal.Decimal `json:"payout"`
	Won    bool            `json:"won"`
}

// Snapshot is the persisted form of State. SessionProfit is derived and not
// stored; History holds at most MaxHistory entries.
type Snapshot struct {
	Active            bool              `json:"active"`
	SessionID         string            `json:"sessionId"`
	StartingCapital   decimal.Decimal   `json:"startingCapital"`
	CurrentCapital    decimal.Decimal   `json:"currentCapital"`
	BaseBet           decimal.Decimal   `json:"baseBet"`
	CurrentBetAmount  decimal.Decimal   `json:"currentBetAmount"`
	ConsecutiveLosses int               `json:"consecutiveLosses"`
	HighestMartingale decimal.Decimal   `json:"highestMartingale"`
	PendingMultiplier decimal.Decimal   `json:"pendingMultiplier"`
	TotalBets         int               `json:"totalBets"`
	SuccessfulBets    int               `json:"successfulBets"`
	StartTime         *time.Time        `json:"startTime"`
	EndTime           *time.Time        `json:"endTime"`
	LastOutcome       *SnapshotOutcome  `json:"lastOutcome"`
	Results           []ResultEntry     `json:"results"`
	History           []*SessionSummary `json:"history"`
	SavedAt           time.Time         `json:"savedAt"`
}

// NewSnapshot captures st at savedAt
func NewSnapshot(st *State, savedAt time.Time) *Snapshot {
	c := st.Clone()
	s := c.Session
	snap := &Snapshot{
		Active:            s.Active,
		SessionID:         s.ID,
		StartingCapital:   s.StartingCapital,
		CurrentCapital:    s.CurrentCapital,
		BaseBet:           s.BaseBet,
		CurrentBetAmount:  s.CurrentBetAmount,
		ConsecutiveLosses: s.ConsecutiveLosses,
		HighestMartingale: s.HighestMartingale,
		PendingMultiplier: s.PendingMultiplier,
		TotalBets:         s.TotalBets,
		SuccessfulBets:    s.SuccessfulBets,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Results:           c.Results.Entries(),
		History:           c.History.Summaries(),
		SavedAt:           savedAt,
	}
	if s.LastOutcome != nil {
		snap.LastOutcome = &SnapshotOutcome{
			Amount: s.LastOutcome.Amount,
			Payout: s.LastOutcome.Payout,
			Won:    s.LastOutcome.Won,
		}
	}
	return snap
}

// Restore rebuilds a State, re-deriving profit and clamping values that
// cannot be negative
func (snap *Snapshot) Restore() *State {
	st := NewState()
	s := &st.Session

	s.Active = snap.Active
	s.ID = snap.SessionID
	s.StartingCapital = snap.StartingCapital
	s.CurrentCapital = snap.CurrentCapital
	s.BaseBet = snap.BaseBet
	s.CurrentBetAmount = snap.CurrentBetAmount
	s.ConsecutiveLosses = max(snap.ConsecutiveLosses, 0)
	s.HighestMartingale = snap.HighestMartingale
	s.PendingMultiplier = snap.PendingMultiplier
	if s.PendingMultiplier.LessThan(NoMultiplier) {
		s.PendingMultiplier = NoMultiplier
	}
	s.TotalBets = max(snap.TotalBets, 0)
	s.SuccessfulBets = max(snap.SuccessfulBets, 0)
	s.StartTime = snap.StartTime
	s.EndTime = snap.EndTime
	if snap.LastOutcome != nil {
		s.LastOutcome = &Outcome{
			Amount: snap.LastOutcome.Amount,
			Payout: snap.LastOutcome.Payout,
			Won:    snap.LastOutcome.Won,
		}
		if s.LastOutcome.Won && s.LastOutcome.Payout.IsZero() {
			s.LastOutcome.Payout = s.LastOutcome.Amount
		}
	}
	s.RecomputeProfit()

	st.Results = NewResultLog(snap.Results)
	st.History = NewHistory(snap.History)
	return st.Clone()
}
