package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/torufuji/orgmap/internal/db"
	"github.com/torufuji/orgmap/internal/domain"
)

const nodeColumns = `id, map_id, type, name, parent_id, order_index,
		role, icon_url, chatwork_account_id, created_at, updated_at`

// SQLiteNodeRepo implements NodeRepo over SQLite.
type SQLiteNodeRepo struct {
	db db.DBTX
}

// NewSQLiteNodeRepo creates a new SQLiteNodeRepo.
func NewSQLiteNodeRepo(dbtx db.DBTX) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{db: dbtx}
}

func (r *SQLiteNodeRepo) Create(ctx context.Context, n *domain.OrgNode) error {
	query := `INSERT INTO nodes (` + nodeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.MapID,
		string(n.Type),
		n.Name,
		nullableString(n.ParentID),
		n.Order,
		n.Role,
		n.IconURL,
		n.ChatworkAccountID,
		n.CreatedAt.Format(time.RFC3339Nano),
		n.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting node: %w", err)
	}
	return nil
}

func (r *SQLiteNodeRepo) GetByID(ctx context.Context, id string) (*domain.OrgNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE id = ?`
	return r.scanNode(r.db.QueryRowContext(ctx, query, id))
}

// ListByMap returns all of a map's nodes ordered by order_index, matching the
// flat ordered sequence the tree builder and radial layout consume.
func (r *SQLiteNodeRepo) ListByMap(ctx context.Context, mapID string) ([]*domain.OrgNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE map_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, mapID)
	if err != nil {
		return nil, fmt.Errorf("listing nodes by map: %w", err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

func (r *SQLiteNodeRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.OrgNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE parent_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child nodes: %w", err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

func (r *SQLiteNodeRepo) Update(ctx context.Context, n *domain.OrgNode) error {
	query := `UPDATE nodes SET name = ?, parent_id = ?, order_index = ?, role = ?,
		icon_url = ?, chatwork_account_id = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		n.Name,
		nullableString(n.ParentID),
		n.Order,
		n.Role,
		n.IconURL,
		n.ChatworkAccountID,
		n.UpdatedAt.Format(time.RFC3339Nano),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating node: %w", err)
	}
	return nil
}

func (r *SQLiteNodeRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM nodes WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}
	return nil
}

func (r *SQLiteNodeRepo) scanNode(row *sql.Row) (*domain.OrgNode, error) {
	var n domain.OrgNode
	var typeStr, createdAt, updatedAt string
	var parentID sql.NullString

	err := row.Scan(
		&n.ID, &n.MapID, &typeStr, &n.Name, &parentID, &n.Order,
		&n.Role, &n.IconURL, &n.ChatworkAccountID, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("node: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning node: %w", err)
	}

	n.Type = domain.NodeType(typeStr)
	n.ParentID = stringPtr(parentID)
	n.CreatedAt = parseTime(createdAt)
	n.UpdatedAt = parseTime(updatedAt)
	return &n, nil
}

func (r *SQLiteNodeRepo) scanNodes(rows *sql.Rows) ([]*domain.OrgNode, error) {
	var nodes []*domain.OrgNode
	for rows.Next() {
		var n domain.OrgNode
		var typeStr, createdAt, updatedAt string
		var parentID sql.NullString

		err := rows.Scan(
			&n.ID, &n.MapID, &typeStr, &n.Name, &parentID, &n.Order,
			&n.Role, &n.IconURL, &n.ChatworkAccountID, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning node row: %w", err)
		}

		n.Type = domain.NodeType(typeStr)
		n.ParentID = stringPtr(parentID)
		n.CreatedAt = parseTime(createdAt)
		n.UpdatedAt = parseTime(updatedAt)
		nodes = append(nodes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return nodes, nil
}
