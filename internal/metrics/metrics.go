package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metric names
const (
	MetricNameOutcomesTotal            = "tracker_outcomes_total"
	MetricNameUndoTotal                = "tracker_undo_total"
	MetricNameSessionsArchivedTotal    = "tracker_sessions_archived_total"
	MetricNamePersistenceFailuresTotal = "tracker_persistence_failures_total"
	MetricNameCurrentCapital           = "tracker_current_capital"
	MetricNameConsecutiveLosses        = "tracker_consecutive_losses"
)

// Labels and their values
const (
	LabelKind = "kind"
	LabelOp   = "op"

	KindWin        = "win"
	KindLoss       = "loss"
	KindMultiplier = "chance_multiplier"
	KindCash       = "chance_cash"
	KindCombo      = "chance_combo"

	OpSave    = "save"
	OpLoad    = "load"
	OpArchive = "archive"
)

// Collector holds the tracker's metrics. A nil Collector discards everything.
type Collector struct {
	outcomes            *prometheus.CounterVec
	undos               prometheus.Counter
	sessionsArchived    prometheus.Counter
	persistenceFailures *prometheus.CounterVec
	currentCapital      prometheus.Gauge
	consecutiveLosses   prometheus.Gauge
}

// NewCollector registers the tracker metrics on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricNameOutcomesTotal,
				Help: "Reported outcomes by kind",
			},
			[]string{LabelKind},
		),
		undos: factory.NewCounter(
			prometheus.CounterOpts{
				Name: MetricNameUndoTotal,
				Help: "Successful undo requests",
			},
		),
		sessionsArchived: factory.NewCounter(
			prometheus.CounterOpts{
				Name: MetricNameSessionsArchivedTotal,
				Help: "Sessions archived into history",
			},
		),
		persistenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricNamePersistenceFailuresTotal,
				Help: "Failed snapshot or archive operations by operation",
			},
			[]string{LabelOp},
		),
		currentCapital: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricNameCurrentCapital,
				Help: "Capital of the open session",
			},
		),
		consecutiveLosses: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricNameConsecutiveLosses,
				Help: "Current loss streak of the open session",
			},
		),
	}
}

// RecordOutcome counts one reported outcome
func (c *Collector) RecordOutcome(kind string) {
	if c == nil {
		return
	}
	c.outcomes.WithLabelValues(kind).Inc()
}

// RecordUndo counts one undo
func (c *Collector) RecordUndo() {
	if c == nil {
		return
	}
	c.undos.Inc()
}

// RecordArchived counts one archived session
func (c *Collector) RecordArchived() {
	if c == nil {
		return
	}
	c.sessionsArchived.Inc()
}

// RecordPersistenceFailure counts one failed persistence operation
func (c *Collector) RecordPersistenceFailure(op string) {
	if c == nil {
		return
	}
	c.persistenceFailures.WithLabelValues(op).Inc()
}

// SetSession publishes the open session's capital and loss streak
func (c *Collector) SetSession(capital decimal.Decimal, losses int) {
	if c == nil {
		return
	}
	c.currentCapital.Set(capital.InexactFloat64())
	c.consecutiveLosses.Set(float64(losses))
}
