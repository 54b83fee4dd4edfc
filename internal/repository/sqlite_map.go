package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/torufuji/orgmap/internal/db"
	"github.com/torufuji/orgmap/internal/domain"
)

const mapColumns = `id, name, created_by, member_count, created_at, updated_at`

// SQLiteMapRepo implements MapRepo over SQLite. It accepts a db.DBTX so the
// same implementation serves direct access and tx-scoped composition.
type SQLiteMapRepo struct {
	db db.DBTX
}

// NewSQLiteMapRepo creates a new SQLiteMapRepo.
func NewSQLiteMapRepo(dbtx db.DBTX) *SQLiteMapRepo {
	return &SQLiteMapRepo{db: dbtx}
}

func (r *SQLiteMapRepo) Create(ctx context.Context, m *domain.OrgMap) error {
	query := `INSERT INTO maps (` + mapColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.Name,
		m.CreatedBy,
		m.MemberCount,
		m.CreatedAt.Format(time.RFC3339Nano),
		m.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting map: %w", err)
	}
	return nil
}

func (r *SQLiteMapRepo) GetByID(ctx context.Context, id string) (*domain.OrgMap, error) {
	query := `SELECT ` + mapColumns + ` FROM maps WHERE id = ?`
	return r.scanMap(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteMapRepo) List(ctx context.Context) ([]*domain.OrgMap, error) {
	query := `SELECT ` + mapColumns + ` FROM maps ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing maps: %w", err)
	}
	defer rows.Close()

	var maps []*domain.OrgMap
	for rows.Next() {
		var m domain.OrgMap
		var createdAt, updatedAt string
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedBy, &m.MemberCount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning map row: %w", err)
		}
		m.CreatedAt = parseTime(createdAt)
		m.UpdatedAt = parseTime(updatedAt)
		maps = append(maps, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating maps: %w", err)
	}
	return maps, nil
}

func (r *SQLiteMapRepo) Update(ctx context.Context, m *domain.OrgMap) error {
	query := `UPDATE maps SET name = ?, created_by = ?, member_count = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		m.Name,
		m.CreatedBy,
		m.MemberCount,
		m.UpdatedAt.Format(time.RFC3339Nano),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating map: %w", err)
	}
	return nil
}

// Touch bumps only the map's updated_at, mirroring node mutations that must
// refresh the map without changing its fields.
func (r *SQLiteMapRepo) Touch(ctx context.Context, id string) error {
	query := `UPDATE maps SET updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("touching map: %w", err)
	}
	return nil
}

// Delete removes the map row; nodes, unassigned members and history follow
// through the ON DELETE CASCADE foreign keys.
func (r *SQLiteMapRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM maps WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting map: %w", err)
	}
	return nil
}

func (r *SQLiteMapRepo) scanMap(row *sql.Row) (*domain.OrgMap, error) {
	var m domain.OrgMap
	var createdAt, updatedAt string
	err := row.Scan(&m.ID, &m.Name, &m.CreatedBy, &m.MemberCount, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("map: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning map: %w", err)
	}
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	return &m, nil
}
