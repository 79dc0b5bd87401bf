package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/JSON-FX/monopoly-tracker-sub001/pkg/entities"
	"github.com/shopspring/decimal"
)

// EncodeSnapshot serialises a snapshot to JSON
func EncodeSnapshot(snap *entities.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot field by field. A missing or malformed
// field takes its zero value instead of failing the whole load; only input
// that is not a JSON object is an error.
func DecodeSnapshot(data []byte) (*entities.Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("snapshot is not an object")
	}

	snap := &entities.Snapshot{
		Active:            field[bool](raw, "active"),
		SessionID:         field[string](raw, "sessionId"),
		StartingCapital:   field[decimal.Decimal](raw, "startingCapital"),
		CurrentCapital:    field[decimal.Decimal](raw, "currentCapital"),
		BaseBet:           field[decimal.Decimal](raw, "baseBet"),
		CurrentBetAmount:  field[decimal.Decimal](raw, "currentBetAmount"),
		ConsecutiveLosses: field[int](raw, "consecutiveLosses"),
		HighestMartingale: field[decimal.Decimal](raw, "highestMartingale"),
		PendingMultiplier: field[decimal.Decimal](raw, "pendingMultiplier"),
		TotalBets:         field[int](raw, "totalBets"),
		SuccessfulBets:    field[int](raw, "successfulBets"),
		StartTime:         field[*time.Time](raw, "startTime"),
		EndTime:           field[*time.Time](raw, "endTime"),
		LastOutcome:       field[*entities.SnapshotOutcome](raw, "lastOutcome"),
		Results:           elements[entities.ResultEntry](raw, "results"),
		SavedAt:           field[time.Time](raw, "savedAt"),
	}

	for _, s := range elements[*entities.SessionSummary](raw, "history") {
		if s != nil {
			snap.History = append(snap.History, s)
		}
	}
	if over := len(snap.History) - entities.MaxHistory; over > 0 {
		snap.History = snap.History[over:]
	}

	return snap, nil
}

// field decodes one key, returning the zero value if it is absent or invalid
func field[T any](raw map[string]json.RawMessage, key string) T {
	var v T
	data, ok := raw[key]
	if !ok {
		return v
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

// elements decodes a JSON array key element by element, dropping elements
// that fail to decode
func elements[T any](raw map[string]json.RawMessage, key string) []T {
	items := field[[]json.RawMessage](raw, key)
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
