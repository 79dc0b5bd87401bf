package entities

import "time"

// ResultCode identifies what the wheel reported for one round
type ResultCode string

// Wheel segments, sub-game markers and generic settlement markers
const (
	ResultOne      ResultCode = "1"
	ResultTwo      ResultCode = "2"
	ResultFive     ResultCode = "5"
	ResultTen      ResultCode = "10"
	ResultChance   ResultCode = "chance"
	ResultTwoRoll  ResultCode = "2rolls"
	ResultFourRoll ResultCode = "4rolls"

	// Used when a bet is reported without the segment it landed on
	ResultWin  ResultCode = "win"
	ResultLoss ResultCode = "loss"
)

var knownCodes = map[ResultCode]bool{
	ResultOne:      true,
	ResultTwo:      true,
	ResultFive:     true,
	ResultTen:      true,
	ResultChance:   true,
	ResultTwoRoll:  true,
	ResultFourRoll: true,
	ResultWin:      true,
	ResultLoss:     true,
}

// IsValid reports whether the code is one the tracker records
func (c ResultCode) IsValid() bool {
	return knownCodes[c]
}

// IsBetCode reports whether a bet with the given outcome may be logged under
// the code: any wheel segment or roll marker, or the marker matching the
// outcome. "chance" belongs to the chance round only.
func (c ResultCode) IsBetCode(won bool) bool {
	switch c {
	case ResultOne, ResultTwo, ResultFive, ResultTen, ResultTwoRoll, ResultFourRoll:
		return true
	case ResultWin:
		return won
	case ResultLoss:
		return !won
	}
	return false
}

// String returns the string representation of the code
func (c ResultCode) String() string {
	return string(c)
}

// ResultEntry is one logged outcome
type ResultEntry struct {
	Code      ResultCode `json:"code"`
	Timestamp time.Time  `json:"timestamp"`
}

// ResultLog is the ordered, append-only record of reported outcomes.
// Only undo removes entries, and only from the tail.
type ResultLog struct {
	entries []ResultEntry
}

// NewResultLog creates a log holding a copy of entries
func NewResultLog(entries []ResultEntry) *ResultLog {
	l := &ResultLog{}
	if len(entries) > 0 {
		l.entries = append(make([]ResultEntry, 0, len(entries)), entries...)
	}
	return l
}

// Append adds an outcome to the end of the log
func (l *ResultLog) Append(code ResultCode, ts time.Time) {
	l.entries = append(l.entries, ResultEntry{Code: code, Timestamp: ts})
}

// RemoveLast drops and returns the newest entry
func (l *ResultLog) RemoveLast() (ResultEntry, bool) {
	if len(l.entries) == 0 {
		return ResultEntry{}, false
	}
	last := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return last, true
}

// Last returns the newest entry without removing it
func (l *ResultLog) Last() (ResultEntry, bool) {
	if len(l.entries) == 0 {
		return ResultEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Clear empties the log
func (l *ResultLog) Clear() {
	l.entries = nil
}

// Len returns the number of logged outcomes
func (l *ResultLog) Len() int {
	return len(l.entries)
}

// IsEmpty reports whether nothing has been logged
func (l *ResultLog) IsEmpty() bool {
	return len(l.entries) == 0
}

// Entries returns a copy of the logged outcomes, oldest first
func (l *ResultLog) Entries() []ResultEntry {
	out := make([]ResultEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Codes returns just the outcome codes, oldest first
func (l *ResultLog) Codes() []ResultCode {
	codes := make([]ResultCode, len(l.entries))
	for i, e := range l.entries {
		codes[i] = e.Code
	}
	return codes
}

// Count returns how many entries carry the given code
func (l *ResultLog) Count(code ResultCode) int {
	n := 0
	for _, e := range l.entries {
		if e.Code == code {
			n++
		}
	}
	return n
}
