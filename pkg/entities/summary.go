package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxHistory is how many archived sessions are kept
const MaxHistory = 5

// SessionSummary is the archived record of a finished session
type SessionSummary struct {
	ID                string          `json:"id"`
	SessionID         string          `json:"sessionId"`
	StartTime         time.Time       `json:"startTime"`
	EndTime           time.Time       `json:"endTime"`
	StartingCapital   decimal.Decimal `json:"startingCapital"`
	FinalCapital      decimal.Decimal `json:"finalCapital"`
	Profit            decimal.Decimal `json:"profit"`
	TotalBets         int             `json:"totalBets"`
	SuccessfulBets    int             `json:"successfulBets"`
	WinRate           float64         `json:"winRate"`
	HighestMartingale decimal.Decimal `json:"highestMartingale"`
	Duration          time.Duration   `json:"duration"`
	Results           []ResultEntry   `json:"results"`
}

// CalculateWinRate returns successful/total as a percentage
func CalculateWinRate(successful, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(successful) / float64(total) * 100.0
}

// IsProfitable reports whether the session ended above its starting capital
func (s *SessionSummary) IsProfitable() bool {
	return s.Profit.IsPositive()
}

// History is the bounded, insertion-ordered list of archived sessions
type History struct {
	summaries []*SessionSummary
}

// NewHistory builds a history from summaries, keeping the newest MaxHistory
func NewHistory(summaries []*SessionSummary) History {
	var h History
	for _, s := range summaries {
		if s != nil {
			h.Push(s)
		}
	}
	return h
}

// Push appends a summary, evicting the oldest past MaxHistory
func (h *History) Push(s *SessionSummary) {
	h.summaries = append(h.summaries, s)
	if over := len(h.summaries) - MaxHistory; over > 0 {
		h.summaries = append([]*SessionSummary(nil), h.summaries[over:]...)
	}
}

// Clear removes every archived session
func (h *History) Clear() {
	h.summaries = nil
}

// Len returns the number of archived sessions
func (h *History) Len() int {
	return len(h.summaries)
}

// Summaries returns the archived sessions, oldest first
func (h *History) Summaries() []*SessionSummary {
	out := make([]*SessionSummary, len(h.summaries))
	copy(out, h.summaries)
	return out
}

// Latest returns the most recently archived session
func (h *History) Latest() (*SessionSummary, bool) {
	if len(h.summaries) == 0 {
		return nil, false
	}
	return h.summaries[len(h.summaries)-1], true
}
