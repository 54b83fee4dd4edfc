package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/torufuji/orgmap/internal/db"
	"github.com/torufuji/orgmap/internal/domain"
)

const historyColumns = `id, map_id, user_id, user_name, action, target_type,
		target_name, detail, timestamp, previous_state`

// SQLiteHistoryRepo implements HistoryRepo over SQLite. History is
// append-only; rows are removed only by the owning map's cascade.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

// NewSQLiteHistoryRepo creates a new SQLiteHistoryRepo.
func NewSQLiteHistoryRepo(dbtx db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: dbtx}
}

func (r *SQLiteHistoryRepo) Create(ctx context.Context, e *domain.HistoryEntry) error {
	query := `INSERT INTO history (` + historyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.MapID,
		e.UserID,
		e.UserName,
		string(e.Action),
		string(e.TargetType),
		e.TargetName,
		e.Detail,
		e.Timestamp.Format(time.RFC3339Nano),
		e.PreviousState,
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

// ListByMap returns up to limit entries, newest first. A non-positive limit
// falls back to 50.
func (r *SQLiteHistoryRepo) ListByMap(ctx context.Context, mapID string, limit int) ([]*domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + historyColumns + ` FROM history WHERE map_id = ? ORDER BY timestamp DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, mapID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []*domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var action, targetType, timestamp string
		err := rows.Scan(
			&e.ID, &e.MapID, &e.UserID, &e.UserName, &action, &targetType,
			&e.TargetName, &e.Detail, &timestamp, &e.PreviousState,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Action = domain.HistoryAction(action)
		e.TargetType = domain.NodeType(targetType)
		e.Timestamp = parseTime(timestamp)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}
