package statistics

import (
	"sort"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/shopspring/decimal"
)

// Service computes read-only aggregates over archived sessions
type Service struct {
	now func() time.Time
}

// NewService creates a new statistics service
func NewService() *Service {
	return &Service{now: time.Now}
}

// SessionRank is one archived session with its position by profit
type SessionRank struct {
	*entities.SessionSummary
	Rank int `json:"rank"`
}

// Report aggregates a set of archived sessions
type Report struct {
	Sessions           int             `json:"sessions"`
	ProfitableSessions int             `json:"profitable_sessions"`
	TotalProfit        decimal.Decimal `json:"total_profit"`
	AverageProfit      decimal.Decimal `json:"average_profit"`
	TotalBets          int             `json:"total_bets"`
	SuccessfulBets     int             `json:"successful_bets"`
	WinRate            float64         `json:"win_rate"`
	HighestMartingale  decimal.Decimal `json:"highest_martingale"`
	TotalDuration      time.Duration   `json:"total_duration"`
	Best               *SessionRank    `json:"best,omitempty"`
	Worst              *SessionRank    `json:"worst,omitempty"`
	Ranking            []*SessionRank  `json:"ranking"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// Summarize builds a report over summaries. Nil entries are skipped.
func (s *Service) Summarize(summaries []*entities.SessionSummary) *Report {
	report := &Report{
		Ranking:     []*SessionRank{},
		GeneratedAt: s.now(),
	}

	for _, summary := range summaries {
		if summary == nil {
			continue
		}

		report.Sessions++
		if summary.IsProfitable() {
			report.ProfitableSessions++
		}
		report.TotalProfit = report.TotalProfit.Add(summary.Profit)
		report.TotalBets += summary.TotalBets
		report.SuccessfulBets += summary.SuccessfulBets
		report.TotalDuration += summary.Duration
		if summary.HighestMartingale.GreaterThan(report.HighestMartingale) {
			report.HighestMartingale = summary.HighestMartingale
		}

		report.Ranking = append(report.Ranking, &SessionRank{SessionSummary: summary})
	}

	if report.Sessions == 0 {
		return report
	}

	report.AverageProfit = report.TotalProfit.Div(decimal.NewFromInt(int64(report.Sessions))).Round(2)
	report.WinRate = entities.CalculateWinRate(report.SuccessfulBets, report.TotalBets)

	// Sort by profit (descending), earlier sessions first on ties
	sort.SliceStable(report.Ranking, func(i, j int) bool {
		return report.Ranking[i].Profit.GreaterThan(report.Ranking[j].Profit)
	})

	// Assign ranks
	for i := range report.Ranking {
		report.Ranking[i].Rank = i + 1
	}

	report.Best = report.Ranking[0]
	report.Worst = report.Ranking[len(report.Ranking)-1]

	return report
}
