package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/types"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ManagerTestSuite struct {
	suite.Suite
	now     time.Time
	ids     int
	manager *Manager
	state   *entities.State
}

func (s *ManagerTestSuite) SetupTest() {
	s.now = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	s.ids = 0
	s.manager = NewManager(
		WithClock(func() time.Time { return s.now }),
		WithIDGenerator(func() string {
			s.ids++
			return fmt.Sprintf("id-%d", s.ids)
		}),
	)
	s.state = entities.NewState()
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func (s *ManagerTestSuite) start(capital, base int64) {
	_, err := s.manager.Start(s.state, dec(capital), dec(base))
	s.Require().NoError(err)
}

func (s *ManagerTestSuite) TestStartInitialisesSession() {
	s.start(1000, 10)

	sess := s.state.Session
	s.True(sess.Active)
	s.Equal("id-1", sess.ID)
	s.True(dec(1000).Equal(sess.StartingCapital))
	s.True(dec(1000).Equal(sess.CurrentCapital))
	s.True(dec(10).Equal(sess.BaseBet))
	s.True(dec(10).Equal(sess.CurrentBetAmount))
	s.True(entities.NoMultiplier.Equal(sess.PendingMultiplier))
	s.True(sess.SessionProfit.IsZero())
	s.Require().NotNil(sess.StartTime)
	s.Equal(s.now, *sess.StartTime)
	s.Nil(sess.EndTime)
}

func (s *ManagerTestSuite) TestStartRejectsNonPositiveValues() {
	tests := []struct {
		name    string
		capital decimal.Decimal
		base    decimal.Decimal
	}{
		{"zero capital", decimal.Zero, dec(10)},
		{"negative capital", dec(-5), dec(10)},
		{"zero base", dec(100), decimal.Zero},
		{"negative base", dec(100), dec(-1)},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			before := s.state.Clone()
			_, err := s.manager.Start(s.state, tt.capital, tt.base)
			s.True(types.IsTrackerError(err, types.ErrInvalidConfig))
			s.Equal(before, s.state, "state must not change on invalid input")
		})
	}
}

func (s *ManagerTestSuite) TestStartArchivesActiveSessionWithOutcomes() {
	s.start(1000, 10)
	s.state.Results.Append(entities.ResultOne, s.now)
	s.state.Session.CurrentCapital = dec(1010)
	s.state.Session.TotalBets = 1
	s.state.Session.SuccessfulBets = 1
	s.now = s.now.Add(30 * time.Minute)

	archived, err := s.manager.Start(s.state, dec(500), dec(5))
	s.Require().NoError(err)
	s.Require().NotNil(archived)

	s.Equal("id-1", archived.SessionID)
	s.True(dec(10).Equal(archived.Profit))
	s.Equal(100.0, archived.WinRate)
	s.Equal(30*time.Minute, archived.Duration)
	s.Len(archived.Results, 1)

	s.Equal(1, s.state.History.Len())
	s.True(s.state.Results.IsEmpty())
	s.True(dec(500).Equal(s.state.Session.CurrentCapital))
}

func (s *ManagerTestSuite) TestStartWithoutOutcomesDoesNotArchive() {
	s.start(1000, 10)
	archived, err := s.manager.Start(s.state, dec(200), dec(2))
	s.Require().NoError(err)
	s.Nil(archived)
	s.Zero(s.state.History.Len())
}

func (s *ManagerTestSuite) TestArchiveNoOps() {
	s.Nil(s.manager.Archive(s.state, time.Time{}), "inactive session")

	s.start(1000, 10)
	s.Nil(s.manager.Archive(s.state, time.Time{}), "empty result log")
	s.Zero(s.state.History.Len())
}

func (s *ManagerTestSuite) TestArchiveKeepsSessionActive() {
	s.start(1000, 10)
	s.state.Results.Append(entities.ResultChance, s.now)

	summary := s.manager.Archive(s.state, time.Time{})
	s.Require().NotNil(summary)
	s.Equal(s.now, summary.EndTime, "zero end time means now")
	s.Zero(summary.WinRate, "no bets means a zero win rate")
	s.True(s.state.Session.Active)
	s.Equal(1, s.state.Results.Len())
}

func (s *ManagerTestSuite) TestSixthArchiveEvictsOldest() {
	for i := 0; i < entities.MaxHistory+1; i++ {
		s.start(int64(100+i), 1)
		s.state.Results.Append(entities.ResultTwo, s.now)
		s.manager.Clear(s.state)
	}

	summaries := s.state.History.Summaries()
	s.Require().Len(summaries, entities.MaxHistory)
	s.True(dec(101).Equal(summaries[0].StartingCapital), "the first session was evicted")
	s.True(dec(105).Equal(summaries[len(summaries)-1].StartingCapital))
}

func (s *ManagerTestSuite) TestClearDeactivatesAndKeepsHistory() {
	s.start(1000, 10)
	s.state.Results.Append(entities.ResultFive, s.now)

	archived := s.manager.Clear(s.state)
	s.NotNil(archived)

	s.False(s.state.Session.Active)
	s.True(s.state.Session.CurrentCapital.IsZero())
	s.Nil(s.state.Session.StartTime)
	s.True(s.state.Results.IsEmpty())
	s.Equal(1, s.state.History.Len())
}

func (s *ManagerTestSuite) TestResetAllEmptiesEverything() {
	s.start(1000, 10)
	s.state.Results.Append(entities.ResultTen, s.now)
	s.manager.Archive(s.state, time.Time{})

	s.manager.ResetAll(s.state)

	s.False(s.state.Session.Active)
	s.True(s.state.Results.IsEmpty())
	s.Zero(s.state.History.Len())
	s.Require().NotNil(s.state.Session.EndTime)
	s.Equal(s.now, *s.state.Session.EndTime)
}

func (s *ManagerTestSuite) TestResetAllOnInactiveState() {
	s.manager.ResetAll(s.state)

	s.False(s.state.Session.Active)
	s.Nil(s.state.Session.EndTime)
	s.Zero(s.state.History.Len())
}
