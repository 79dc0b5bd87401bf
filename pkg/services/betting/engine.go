package betting

import (
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/types"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/shopspring/decimal"
)

// DefaultChanceMultiplier is what a chance segment arms when no value is given
var DefaultChanceMultiplier = decimal.NewFromInt(2)

// Bet is one reported round
type Bet struct {
	Amount            decimal.Decimal
	Won               bool
	MultiplierApplies bool
	// Code is the segment the wheel landed on; empty means "win" or "loss"
	Code entities.ResultCode
}

// Engine applies outcome settlements to a session. Every operation validates
// its input before touching state; on an inactive session it returns nil
// without changing anything.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a betting engine. A nil clock means time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// SettleBet credits or debits one bet and advances the Martingale progression
func (e *Engine) SettleBet(st *entities.State, bet Bet) error {
	if !bet.Amount.IsPositive() {
		return types.InvalidConfig("bet amount must be positive, got %s", bet.Amount)
	}
	code := bet.Code
	if code == "" {
		code = entities.ResultLoss
		if bet.Won {
			code = entities.ResultWin
		}
	}
	if !code.IsValid() {
		return types.InvalidConfig("unknown result code %q", code)
	}
	if !code.IsBetCode(bet.Won) {
		return types.InvalidConfig("result code %q cannot record a %s", code, outcomeName(bet.Won))
	}

	s := &st.Session
	if !s.Active {
		return nil
	}

	outcome := &entities.Outcome{Amount: bet.Amount, Won: bet.Won}
	if bet.Won {
		payout := bet.Amount
		if bet.MultiplierApplies {
			payout = bet.Amount.Mul(s.PendingMultiplier)
		}
		outcome.Payout = payout

		s.CurrentCapital = s.CurrentCapital.Add(payout)
		s.ConsecutiveLosses = 0
		s.CurrentBetAmount = s.BaseBet
		s.SuccessfulBets++
	} else {
		s.CurrentCapital = s.CurrentCapital.Sub(bet.Amount)
		s.ConsecutiveLosses++
		s.CurrentBetAmount = s.MartingaleBet()
	}
	s.TotalBets++
	s.PendingMultiplier = entities.NoMultiplier

	if bet.Amount.GreaterThan(s.HighestMartingale) {
		s.HighestMartingale = bet.Amount
	}
	s.RecomputeProfit()
	s.LastOutcome = outcome
	st.Results.Append(code, e.now())
	return nil
}

func outcomeName(won bool) string {
	if won {
		return "won bet"
	}
	return "lost bet"
}

// ArmChanceMultiplier arms a multiplier for the next win. Arming while one is
// already pending adds to it.
func (e *Engine) ArmChanceMultiplier(st *entities.State, value decimal.Decimal) error {
	if value.LessThan(entities.NoMultiplier) {
		return types.InvalidConfig("multiplier must be at least 1, got %s", value)
	}

	s := &st.Session
	if !s.Active {
		return nil
	}

	if s.HasPendingMultiplier() {
		s.PendingMultiplier = s.PendingMultiplier.Add(value)
	} else {
		s.PendingMultiplier = value
	}
	st.Results.Append(entities.ResultChance, e.now())
	return nil
}

// SettleChanceCash credits a chance cash prize. It counts as a won round and
// resets the Martingale progression. A pending multiplier is left armed.
func (e *Engine) SettleChanceCash(st *entities.State, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return types.InvalidConfig("chance cash must be positive, got %s", amount)
	}
	if !st.Session.Active {
		return nil
	}

	e.creditChance(st, amount)
	return nil
}

// SettleChanceCombo credits a chance round that paid both a cash prize and
// multiplier winnings as one event, consuming the pending multiplier.
func (e *Engine) SettleChanceCombo(st *entities.State, cash, multiplierWin decimal.Decimal) error {
	if cash.IsNegative() || multiplierWin.IsNegative() {
		return types.InvalidConfig("chance combo amounts cannot be negative, got cash %s and multiplier win %s", cash, multiplierWin)
	}
	total := cash.Add(multiplierWin)
	if !total.IsPositive() {
		return types.InvalidConfig("chance combo must credit something")
	}
	if !st.Session.Active {
		return nil
	}

	e.creditChance(st, total)
	st.Session.PendingMultiplier = entities.NoMultiplier
	return nil
}

func (e *Engine) creditChance(st *entities.State, amount decimal.Decimal) {
	s := &st.Session
	s.CurrentCapital = s.CurrentCapital.Add(amount)
	s.ConsecutiveLosses = 0
	s.CurrentBetAmount = s.BaseBet
	s.SuccessfulBets++
	s.TotalBets++
	s.RecomputeProfit()
	st.Results.Append(entities.ResultChance, e.now())
}

// UndoLast removes the newest log entry and reverses the last bet
// settlement, if one is recorded. Chance credits are never reversed, even
// when the removed entry is a chance entry.
func (e *Engine) UndoLast(st *entities.State) (entities.ResultCode, error) {
	removed, ok := st.Results.RemoveLast()
	if !ok {
		return "", types.NewTrackerError(types.ErrNothingToUndo, "nothing to undo")
	}

	s := &st.Session
	s.PendingMultiplier = entities.NoMultiplier

	if s.Active && s.LastOutcome != nil {
		last := s.LastOutcome
		if last.Won {
			s.CurrentCapital = s.CurrentCapital.Sub(last.Payout)
			s.SuccessfulBets = max(s.SuccessfulBets-1, 0)
		} else {
			s.CurrentCapital = s.CurrentCapital.Add(last.Amount)
		}
		s.TotalBets = max(s.TotalBets-1, 0)
		s.RecomputeProfit()
		s.LastOutcome = nil
	}

	return removed.Code, nil
}
