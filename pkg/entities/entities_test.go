package entities

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var t0 = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

func TestResultLogAppendAndRemove(t *testing.T) {
	log := NewResultLog(nil)
	assert.True(t, log.IsEmpty())

	log.Append(ResultOne, t0)
	log.Append(ResultChance, t0.Add(time.Second))
	log.Append(ResultOne, t0.Add(2*time.Second))

	assert.Equal(t, 3, log.Len())
	assert.Equal(t, []ResultCode{ResultOne, ResultChance, ResultOne}, log.Codes(), "insertion order is preserved without dedup")
	assert.Equal(t, 2, log.Count(ResultOne))

	last, ok := log.RemoveLast()
	require.True(t, ok)
	assert.Equal(t, ResultOne, last.Code)
	assert.Equal(t, t0.Add(2*time.Second), last.Timestamp)

	tail, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, ResultChance, tail.Code)

	log.Clear()
	_, ok = log.RemoveLast()
	assert.False(t, ok, "removing from an empty log reports nothing")
}

func TestResultLogEntriesIsACopy(t *testing.T) {
	log := NewResultLog(nil)
	log.Append(ResultTwo, t0)

	entries := log.Entries()
	entries[0].Code = ResultTen

	assert.Equal(t, []ResultCode{ResultTwo}, log.Codes())
}

func TestResultCodeIsValid(t *testing.T) {
	assert.True(t, ResultTen.IsValid())
	assert.True(t, ResultFourRoll.IsValid())
	assert.False(t, ResultCode("7").IsValid())
}

func TestResultCodeIsBetCode(t *testing.T) {
	for _, c := range []ResultCode{ResultOne, ResultTwo, ResultFive, ResultTen, ResultTwoRoll, ResultFourRoll} {
		assert.True(t, c.IsBetCode(true), "%s on a win", c)
		assert.True(t, c.IsBetCode(false), "%s on a loss", c)
	}
	assert.True(t, ResultWin.IsBetCode(true))
	assert.False(t, ResultWin.IsBetCode(false))
	assert.True(t, ResultLoss.IsBetCode(false))
	assert.False(t, ResultLoss.IsBetCode(true))
	assert.False(t, ResultChance.IsBetCode(true))
	assert.False(t, ResultCode("7").IsBetCode(true))
}

func TestHistoryEvictsOldest(t *testing.T) {
	var h History
	for i := 1; i <= MaxHistory+2; i++ {
		h.Push(&SessionSummary{ID: fmt.Sprintf("s%d", i)})
	}

	require.Equal(t, MaxHistory, h.Len())
	ids := make([]string, 0, h.Len())
	for _, s := range h.Summaries() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s3", "s4", "s5", "s6", "s7"}, ids)

	latest, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, "s7", latest.ID)

	h.Clear()
	assert.Zero(t, h.Len())
}

func TestHistoryNeverExceedsBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "pushes")
		var h History
		for i := 0; i < n; i++ {
			h.Push(&SessionSummary{ID: fmt.Sprintf("s%d", i)})
			if h.Len() > MaxHistory {
				t.Fatalf("history grew to %d", h.Len())
			}
		}
		if n > 0 {
			latest, ok := h.Latest()
			if !ok || latest.ID != fmt.Sprintf("s%d", n-1) {
				t.Fatalf("latest should be the last pushed summary")
			}
		}
	})
}

func TestCalculateWinRate(t *testing.T) {
	assert.Equal(t, 0.0, CalculateWinRate(0, 0))
	assert.Equal(t, 50.0, CalculateWinRate(2, 4))
	assert.Equal(t, 100.0, CalculateWinRate(3, 3))
}

func TestMartingaleBet(t *testing.T) {
	s := NewSessionState()
	s.BaseBet = decimal.NewFromInt(10)

	for losses, want := range []int64{10, 20, 40, 80, 160} {
		s.ConsecutiveLosses = losses
		assert.True(t, decimal.NewFromInt(want).Equal(s.MartingaleBet()), "losses=%d", losses)
	}
}

func TestSessionCloneIsDeep(t *testing.T) {
	start := t0
	s := NewSessionState()
	s.StartTime = &start
	s.LastOutcome = &Outcome{Amount: decimal.NewFromInt(10), Payout: decimal.NewFromInt(10), Won: true}

	c := s.Clone()
	*c.StartTime = c.StartTime.Add(time.Hour)
	c.LastOutcome.Won = false

	assert.Equal(t, t0, *s.StartTime)
	assert.True(t, s.LastOutcome.Won)
}

func TestSnapshotRoundTripThroughState(t *testing.T) {
	start := t0
	st := NewState()
	st.Session.Active = true
	st.Session.ID = "sess-1"
	st.Session.StartingCapital = decimal.NewFromInt(1000)
	st.Session.CurrentCapital = decimal.NewFromInt(1030)
	st.Session.BaseBet = decimal.NewFromInt(10)
	st.Session.CurrentBetAmount = decimal.NewFromInt(10)
	st.Session.PendingMultiplier = decimal.NewFromInt(3)
	st.Session.TotalBets = 4
	st.Session.SuccessfulBets = 2
	st.Session.StartTime = &start
	st.Session.LastOutcome = &Outcome{Amount: decimal.NewFromInt(10), Payout: decimal.NewFromInt(10), Won: true}
	st.Results.Append(ResultOne, t0)
	st.History.Push(&SessionSummary{ID: "old"})

	restored := NewSnapshot(st, t0).Restore()

	assert.True(t, restored.Session.Active)
	assert.Equal(t, "sess-1", restored.Session.ID)
	assert.True(t, decimal.NewFromInt(30).Equal(restored.Session.SessionProfit), "profit is re-derived")
	assert.True(t, decimal.NewFromInt(3).Equal(restored.Session.PendingMultiplier))
	assert.Equal(t, 1, restored.Results.Len())
	assert.Equal(t, 1, restored.History.Len())
	require.NotNil(t, restored.Session.LastOutcome)
	assert.True(t, restored.Session.LastOutcome.Won)
}

func TestSnapshotRestoreClampsInvalidValues(t *testing.T) {
	snap := &Snapshot{
		ConsecutiveLosses: -3,
		TotalBets:         -1,
		PendingMultiplier: decimal.Zero,
		LastOutcome:       &SnapshotOutcome{Amount: decimal.NewFromInt(5), Won: true},
	}

	st := snap.Restore()

	assert.Zero(t, st.Session.ConsecutiveLosses)
	assert.Zero(t, st.Session.TotalBets)
	assert.True(t, NoMultiplier.Equal(st.Session.PendingMultiplier))
	assert.True(t, decimal.NewFromInt(5).Equal(st.Session.LastOutcome.Payout), "missing payout falls back to the stake")
}
