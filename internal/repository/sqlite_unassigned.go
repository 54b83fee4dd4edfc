package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/torufuji/orgmap/internal/db"
	"github.com/torufuji/orgmap/internal/domain"
)

const unassignedColumns = `id, map_id, name, icon_url, chatwork_account_id, created_at`

// SQLiteUnassignedRepo implements UnassignedRepo over SQLite.
type SQLiteUnassignedRepo struct {
	db db.DBTX
}

// NewSQLiteUnassignedRepo creates a new SQLiteUnassignedRepo.
func NewSQLiteUnassignedRepo(dbtx db.DBTX) *SQLiteUnassignedRepo {
	return &SQLiteUnassignedRepo{db: dbtx}
}

func (r *SQLiteUnassignedRepo) Create(ctx context.Context, m *domain.UnassignedMember) error {
	query := `INSERT INTO unassigned_members (` + unassignedColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.MapID,
		m.Name,
		m.IconURL,
		m.ChatworkAccountID,
		m.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting unassigned member: %w", err)
	}
	return nil
}

func (r *SQLiteUnassignedRepo) GetByID(ctx context.Context, id string) (*domain.UnassignedMember, error) {
	query := `SELECT ` + unassignedColumns + ` FROM unassigned_members WHERE id = ?`
	var m domain.UnassignedMember
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.MapID, &m.Name, &m.IconURL, &m.ChatworkAccountID, &createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("unassigned member: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning unassigned member: %w", err)
	}
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}

func (r *SQLiteUnassignedRepo) ListByMap(ctx context.Context, mapID string) ([]*domain.UnassignedMember, error) {
	query := `SELECT ` + unassignedColumns + ` FROM unassigned_members WHERE map_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, mapID)
	if err != nil {
		return nil, fmt.Errorf("listing unassigned members: %w", err)
	}
	defer rows.Close()

	var members []*domain.UnassignedMember
	for rows.Next() {
		var m domain.UnassignedMember
		var createdAt string
		if err := rows.Scan(&m.ID, &m.MapID, &m.Name, &m.IconURL, &m.ChatworkAccountID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning unassigned member row: %w", err)
		}
		m.CreatedAt = parseTime(createdAt)
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unassigned members: %w", err)
	}
	return members, nil
}

func (r *SQLiteUnassignedRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM unassigned_members WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting unassigned member: %w", err)
	}
	return nil
}
