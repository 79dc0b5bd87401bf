package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/JSON-FX/monopoly-tracker-sub001/internal/logging"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/storage/sqlite"
)

const (
	upsertSummarySQL = `
	INSERT INTO session_summaries (id, session_id, end_time, profit, data)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		session_id = excluded.session_id,
		end_time = excluded.end_time,
		profit = excluded.profit,
		data = excluded.data`

	listSummariesSQL = `SELECT data FROM session_summaries ORDER BY end_time DESC LIMIT ?`
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewSQLiteRepository opens the database at dbPath, applying migrations
func NewSQLiteRepository(ctx context.Context, dbPath string, logger *logging.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = logging.Default
	}
	db, err := sqlite.Open(ctx, dbPath, logger)
	if err != nil {
		return nil, err
	}
	return &SQLiteRepository{db: db, logger: logger}, nil
}

// IndexSummary implements Repository
func (r *SQLiteRepository) IndexSummary(ctx context.Context, summary *entities.SessionSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("error marshaling summary: %w", err)
	}

	_, err = r.db.ExecContext(ctx, upsertSummarySQL,
		summary.ID,
		summary.SessionID,
		summary.EndTime.UnixNano(),
		summary.Profit.String(),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("error saving summary: %w", err)
	}
	return nil
}

// ListSummaries implements Repository
func (r *SQLiteRepository) ListSummaries(ctx context.Context, limit int) ([]*entities.SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, listSummariesSQL, normaliseLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error listing summaries: %w", err)
	}
	defer rows.Close()

	var list []*entities.SessionSummary
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("error scanning summary: %w", err)
		}

		var s entities.SessionSummary
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			// Skip the row rather than failing the whole listing
			r.logger.Warn("[ARCHIVE] skipping unreadable summary: %v", err)
			continue
		}
		list = append(list, &s)
	}

	return list, rows.Err()
}

// Close closes the database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
