package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/services/statistics"
)

func formatSession(s entities.SessionState) string {
	if !s.Active {
		return "no active session"
	}
	line := fmt.Sprintf("capital %s (profit %s) | next bet %s | losses %d | bets %d/%d",
		s.CurrentCapital.StringFixed(2),
		s.SessionProfit.StringFixed(2),
		s.CurrentBetAmount.StringFixed(2),
		s.ConsecutiveLosses,
		s.SuccessfulBets,
		s.TotalBets,
	)
	if s.HasPendingMultiplier() {
		line += fmt.Sprintf(" | multiplier %sx", s.PendingMultiplier)
	}
	return line
}

func formatResults(entries []entities.ResultEntry) string {
	if len(entries) == 0 {
		return "no results"
	}
	codes := make([]string, len(entries))
	for i, e := range entries {
		codes[i] = e.Code.String()
	}
	return strings.Join(codes, " ")
}

func formatSummary(s *entities.SessionSummary) string {
	return fmt.Sprintf("%s %s -> %s (profit %s) | bets %d/%d | win rate %.1f%% | max bet %s | %s",
		s.EndTime.Format("2006-01-02 15:04"),
		s.StartingCapital.StringFixed(2),
		s.FinalCapital.StringFixed(2),
		s.Profit.StringFixed(2),
		s.SuccessfulBets,
		s.TotalBets,
		s.WinRate,
		s.HighestMartingale.StringFixed(2),
		s.Duration.Round(time.Second),
	)
}

func formatReport(r *statistics.Report) string {
	if r.Sessions == 0 {
		return "no archived sessions"
	}
	line := fmt.Sprintf("sessions %d (%d profitable) | total profit %s | average %s | win rate %.1f%% | max bet %s | played %s",
		r.Sessions,
		r.ProfitableSessions,
		r.TotalProfit.StringFixed(2),
		r.AverageProfit.StringFixed(2),
		r.WinRate,
		r.HighestMartingale.StringFixed(2),
		r.TotalDuration.Round(time.Second),
	)
	if r.Best != nil && r.Worst != nil {
		line += fmt.Sprintf(" | best %s | worst %s", r.Best.Profit.StringFixed(2), r.Worst.Profit.StringFixed(2))
	}
	return line
}
