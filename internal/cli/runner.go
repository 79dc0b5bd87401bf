package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/logging"
	"github.com/JSON-FX/monopoly-tracker-sub001/internal/types"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/services/betting"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/services/statistics"
	"github.com/shopspring/decimal"
)

const archiveTimeout = 10 * time.Second

// Tracker is the part of the tracker the runner drives
type Tracker interface {
	ReportBetResult(bet betting.Bet) error
	ReportChanceMultiplier(value decimal.Decimal) error
	ReportChanceCash(amount decimal.Decimal) error
	ReportChanceCombo(cash, multiplierWin decimal.Decimal) error
	RequestUndo() (entities.ResultCode, error)
	StartSession(startingCapital, baseBet decimal.Decimal) (*entities.SessionSummary, error)
	ArchiveSession() *entities.SessionSummary
	ClearSession() *entities.SessionSummary
	ResetAll()
	Session() entities.SessionState
	Results() []entities.ResultEntry
	History() []*entities.SessionSummary
	ArchivedSessions(ctx context.Context, limit int) ([]*entities.SessionSummary, error)
}

// Runner reads one command per line and writes one-line replies
type Runner struct {
	tracker Tracker
	stats   *statistics.Service
	out     io.Writer
	logger  *logging.Logger
}

// NewRunner creates a new command runner
func NewRunner(tracker Tracker, out io.Writer, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default
	}
	return &Runner{
		tracker: tracker,
		stats:   statistics.NewService(),
		out:     out,
		logger:  logger,
	}
}

// Run executes commands from in until EOF, quit or ctx is cancelled.
// Command errors are reported and do not stop the loop.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			quit, err := r.Execute(line)
			if err != nil {
				r.logger.LogError(err)
				r.printf("error: %s", describe(err))
			}
			if quit {
				return nil
			}
		}
	}
}

// Execute runs a single command line
func (r *Runner) Execute(line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false, nil
	}
	name, args := fields[0], fields[1:]
	if name == "exit" {
		name = "quit"
	}

	cmd, ok := lookup(name)
	if !ok {
		return false, types.NewTrackerError(types.ErrInvalidCommand, fmt.Sprintf("unknown command %q, try help", name))
	}
	if cmd.Betting && !r.tracker.Session().Active {
		return false, types.NewTrackerError(types.ErrInactiveSession, "no active session, use: start <capital> <base>")
	}

	switch cmd.Name {
	case "start":
		return false, r.start(cmd, args)
	case "win":
		return false, r.bet(cmd, args, true)
	case "lose":
		return false, r.bet(cmd, args, false)
	case "chance":
		return false, r.chance(cmd, args)
	case "cash":
		return false, r.cash(cmd, args)
	case "combo":
		return false, r.combo(cmd, args)
	case "undo":
		return false, r.undo()
	case "checkpoint":
		if archived := r.tracker.ArchiveSession(); archived != nil {
			r.reportArchived(archived)
		} else {
			r.printf("nothing to archive")
		}
	case "clear":
		r.reportArchived(r.tracker.ClearSession())
		r.printf("session cleared")
	case "reset":
		r.tracker.ResetAll()
		r.printf("session and history reset")
	case "status":
		r.printf("%s", formatSession(r.tracker.Session()))
	case "log":
		r.printf("%s", formatResults(r.tracker.Results()))
	case "history":
		r.history()
	case "archive":
		return false, r.archive(cmd, args)
	case "stats":
		r.printf("%s", formatReport(r.stats.Summarize(r.tracker.History())))
	case "help":
		r.help()
	case "quit":
		return true, nil
	}
	return false, nil
}

func (r *Runner) start(cmd Command, args []string) error {
	if len(args) != 2 {
		return usage(cmd)
	}
	capital, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	base, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	archived, err := r.tracker.StartSession(capital, base)
	if err != nil {
		return err
	}
	r.reportArchived(archived)
	r.printf("session started: capital %s, base bet %s", capital, base)
	return nil
}

func (r *Runner) bet(cmd Command, args []string, won bool) error {
	if len(args) < 1 || len(args) > 3 {
		return usage(cmd)
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}

	bet := betting.Bet{Amount: amount, Won: won}
	for _, arg := range args[1:] {
		switch {
		case arg == "x" && won:
			bet.MultiplierApplies = true
		case bet.Code == "" && entities.ResultCode(arg).IsBetCode(won):
			bet.Code = entities.ResultCode(arg)
		default:
			return usage(cmd)
		}
	}

	if err := r.tracker.ReportBetResult(bet); err != nil {
		return err
	}
	r.printf("%s", formatSession(r.tracker.Session()))
	return nil
}

func (r *Runner) chance(cmd Command, args []string) error {
	value := betting.DefaultChanceMultiplier
	switch len(args) {
	case 0:
	case 1:
		v, err := parseAmount(strings.TrimSuffix(args[0], "x"))
		if err != nil {
			return err
		}
		value = v
	default:
		return usage(cmd)
	}

	if err := r.tracker.ReportChanceMultiplier(value); err != nil {
		return err
	}
	r.printf("multiplier pending: %sx", r.tracker.Session().PendingMultiplier)
	return nil
}

func (r *Runner) cash(cmd Command, args []string) error {
	if len(args) != 1 {
		return usage(cmd)
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	if err := r.tracker.ReportChanceCash(amount); err != nil {
		return err
	}
	r.printf("%s", formatSession(r.tracker.Session()))
	return nil
}

func (r *Runner) combo(cmd Command, args []string) error {
	if len(args) != 2 {
		return usage(cmd)
	}
	cash, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	multiplierWin, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	if err := r.tracker.ReportChanceCombo(cash, multiplierWin); err != nil {
		return err
	}
	r.printf("%s", formatSession(r.tracker.Session()))
	return nil
}

func (r *Runner) undo() error {
	code, err := r.tracker.RequestUndo()
	if err != nil {
		return err
	}
	r.printf("undid %s; %s", code, formatSession(r.tracker.Session()))
	return nil
}

func (r *Runner) history() {
	history := r.tracker.History()
	if len(history) == 0 {
		r.printf("no archived sessions")
		return
	}
	for i, s := range history {
		r.printf("%d. %s", i+1, formatSummary(s))
	}
}

func (r *Runner) archive(cmd Command, args []string) error {
	limit := 10
	if len(args) > 1 {
		return usage(cmd)
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return usage(cmd)
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	list, err := r.tracker.ArchivedSessions(ctx, limit)
	if err != nil {
		return types.WrapError(types.ErrStorageError, "failed to list archived sessions", err)
	}
	if len(list) == 0 {
		r.printf("no archived sessions")
		return nil
	}
	for _, s := range list {
		r.printf("%s", formatSummary(s))
	}
	return nil
}

func (r *Runner) help() {
	for _, c := range Commands {
		r.printf("%-26s %s", c.Usage, c.Description)
	}
}

func (r *Runner) reportArchived(s *entities.SessionSummary) {
	if s != nil {
		r.printf("archived: %s", formatSummary(s))
	}
}

func (r *Runner) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func usage(cmd Command) error {
	return types.NewTrackerError(types.ErrInvalidCommand, "usage: "+cmd.Usage)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return decimal.Zero, types.WrapError(types.ErrInvalidCommand, fmt.Sprintf("%q is not a number", s), err)
	}
	return d, nil
}

// describe strips the error code for display
func describe(err error) string {
	var te *types.TrackerError
	if types.As(err, &te) {
		return te.Message
	}
	return err.Error()
}
