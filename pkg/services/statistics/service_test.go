package statistics

import (
	"testing"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(id string, profit int64, bets, wins int, martingale int64, d time.Duration) *entities.SessionSummary {
	return &entities.SessionSummary{
		ID:                id,
		Profit:            decimal.NewFromInt(profit),
		TotalBets:         bets,
		SuccessfulBets:    wins,
		HighestMartingale: decimal.NewFromInt(martingale),
		Duration:          d,
	}
}

func TestSummarize(t *testing.T) {
	// Setup
	service := NewService()
	history := []*entities.SessionSummary{
		summary("a", 30, 4, 2, 20, 10*time.Minute),
		summary("b", -50, 6, 1, 80, 20*time.Minute),
		nil,
		summary("c", 10, 10, 7, 40, 30*time.Minute),
	}

	// Execute
	report := service.Summarize(history)

	// Assert
	assert.Equal(t, 3, report.Sessions)
	assert.Equal(t, 2, report.ProfitableSessions)
	assert.True(t, decimal.NewFromInt(-10).Equal(report.TotalProfit))
	assert.True(t, decimal.RequireFromString("-3.33").Equal(report.AverageProfit))
	assert.Equal(t, 20, report.TotalBets)
	assert.Equal(t, 10, report.SuccessfulBets)
	assert.Equal(t, 50.0, report.WinRate)
	assert.True(t, decimal.NewFromInt(80).Equal(report.HighestMartingale))
	assert.Equal(t, time.Hour, report.TotalDuration)

	require.NotNil(t, report.Best)
	require.NotNil(t, report.Worst)
	assert.Equal(t, "a", report.Best.ID)
	assert.Equal(t, 1, report.Best.Rank)
	assert.Equal(t, "b", report.Worst.ID)
	assert.Equal(t, 3, report.Worst.Rank)

	ids := make([]string, 0, len(report.Ranking))
	for _, r := range report.Ranking {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func TestSummarizeEmptyHistory(t *testing.T) {
	report := NewService().Summarize(nil)

	assert.Zero(t, report.Sessions)
	assert.True(t, report.TotalProfit.IsZero())
	assert.True(t, report.AverageProfit.IsZero())
	assert.Zero(t, report.WinRate)
	assert.Nil(t, report.Best)
	assert.Nil(t, report.Worst)
	assert.Empty(t, report.Ranking)
}
