package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the most recent bet settlement, kept for undo
type Outcome struct {
	Amount decimal.Decimal // stake of the settled bet
	Payout decimal.Decimal // amount credited on a win (stake times any applied multiplier)
	Won    bool
}

// SessionState is the single mutable record for the open session
type SessionState struct {
	Active            bool
	ID                string
	StartingCapital   decimal.Decimal
	CurrentCapital    decimal.Decimal
	BaseBet           decimal.Decimal
	CurrentBetAmount  decimal.Decimal
	ConsecutiveLosses int
	HighestMartingale decimal.Decimal
	PendingMultiplier decimal.Decimal
	SessionProfit     decimal.Decimal
	TotalBets         int
	SuccessfulBets    int
	StartTime         *time.Time
	EndTime           *time.Time
	LastOutcome       *Outcome
}

// NoMultiplier is the neutral pending multiplier
var NoMultiplier = decimal.NewFromInt(1)

// NewSessionState returns an inactive, zeroed session
func NewSessionState() SessionState {
	return SessionState{PendingMultiplier: NoMultiplier}
}

// RecomputeProfit derives SessionProfit from the capitals
func (s *SessionState) RecomputeProfit() {
	s.SessionProfit = s.CurrentCapital.Sub(s.StartingCapital)
}

// HasPendingMultiplier reports whether a chance multiplier is armed
func (s *SessionState) HasPendingMultiplier() bool {
	return s.PendingMultiplier.GreaterThan(NoMultiplier)
}

// MartingaleBet returns baseBet * 2^losses
func (s *SessionState) MartingaleBet() decimal.Decimal {
	return s.BaseBet.Mul(decimal.NewFromInt(2).Pow(decimal.NewFromInt(int64(s.ConsecutiveLosses))))
}

// Clone returns a deep copy
func (s SessionState) Clone() SessionState {
	if s.StartTime != nil {
		t := *s.StartTime
		s.StartTime = &t
	}
	if s.EndTime != nil {
		t := *s.EndTime
		s.EndTime = &t
	}
	if s.LastOutcome != nil {
		o := *s.LastOutcome
		s.LastOutcome = &o
	}
	return s
}
