package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent, so re-running
// the full list on every open is safe.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS maps (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		created_by   TEXT NOT NULL DEFAULT '',
		member_count INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS nodes (
		id                  TEXT PRIMARY KEY,
		map_id              TEXT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
		type                TEXT NOT NULL CHECK(type IN ('category','member')),
		name                TEXT NOT NULL,
		parent_id           TEXT,
		order_index         INTEGER NOT NULL DEFAULT 0,
		role                TEXT NOT NULL DEFAULT '',
		icon_url            TEXT NOT NULL DEFAULT '',
		chatwork_account_id TEXT NOT NULL DEFAULT '',
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_nodes_map ON nodes(map_id)`,
	`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id)`,

	`CREATE TABLE IF NOT EXISTS unassigned_members (
		id                  TEXT PRIMARY KEY,
		map_id              TEXT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
		name                TEXT NOT NULL,
		icon_url            TEXT NOT NULL DEFAULT '',
		chatwork_account_id TEXT NOT NULL DEFAULT '',
		created_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_unassigned_map ON unassigned_members(map_id)`,

	`CREATE TABLE IF NOT EXISTS history (
		id             TEXT PRIMARY KEY,
		map_id         TEXT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
		user_id        TEXT NOT NULL DEFAULT '',
		user_name      TEXT NOT NULL DEFAULT '',
		action         TEXT NOT NULL CHECK(action IN ('add','remove','move','rename')),
		target_type    TEXT NOT NULL CHECK(target_type IN ('category','member')),
		target_name    TEXT NOT NULL,
		detail         TEXT NOT NULL DEFAULT '',
		timestamp      TEXT NOT NULL,
		previous_state TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_history_map_ts ON history(map_id, timestamp)`,
}
