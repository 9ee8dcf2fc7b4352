// Package db is the query layer of the settings schema.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type SettingsSetting struct {
	Name      string
	Value     json.RawMessage
	UpdatedAt time.Time
}

const getSetting = `
SELECT name, value, updated_at
FROM settings.settings
WHERE name = $1
`

func (q *Queries) GetSetting(ctx context.Context, name string) (SettingsSetting, error) {
	row := q.db.QueryRowContext(ctx, getSetting, name)
	var s SettingsSetting
	var raw []byte
	err := row.Scan(&s.Name, &raw, &s.UpdatedAt)
	s.Value = raw
	return s, err
}

const upsertSetting = `
INSERT INTO settings.settings (name, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`

type UpsertSettingParams struct {
	Name      string
	Value     json.RawMessage
	UpdatedAt time.Time
}

func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) error {
	_, err := q.db.ExecContext(ctx, upsertSetting, arg.Name, string(arg.Value), arg.UpdatedAt)
	return err
}
