package db

import (
	"context"
	"database/sql"
	"slices"

	libdb "roamhub/backend/libs/db"
)

// Schema creates the hub tables. Directory tables keep deleted rows as
// tombstones so incremental pulls can report deletions.
var Schema = slices.Concat([]string{
	`CREATE TABLE IF NOT EXISTS hub_operators (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}, directoryTable("hub_evse_data"), directoryTable("hub_evse_status"), []string{
	`CREATE TABLE IF NOT EXISTS hub_charge_detail_records (
		session_id  TEXT PRIMARY KEY,
		operator_id TEXT NOT NULL,
		evse_id     TEXT NOT NULL,
		payload     TEXT NOT NULL,
		received_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS oicp_messages (
		id          BIGSERIAL PRIMARY KEY,
		partner     TEXT NOT NULL,
		direction   TEXT NOT NULL,
		operation   TEXT NOT NULL,
		payload     BYTEA NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
})

func directoryTable(name string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + name + ` (
		evse_id     TEXT PRIMARY KEY,
		operator_id TEXT NOT NULL REFERENCES hub_operators (id),
		payload     TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		deleted_at  TIMESTAMPTZ
	)`,
		`CREATE INDEX IF NOT EXISTS ` + name + `_operator_idx ON ` + name + ` (operator_id)`,
		`CREATE INDEX IF NOT EXISTS ` + name + `_updated_idx ON ` + name + ` (updated_at)`,
	}
}

// NewPostgres opens the shared pool and applies Schema.
func NewPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := libdb.NewPostgresDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := libdb.Migrate(ctx, conn, Schema...); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
