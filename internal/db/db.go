// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string, log *zap.Logger) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Info("connected to database")
	return conn, nil
}

// Schema is the subset of the backend schema the calendar reads and writes.
const Schema = `
CREATE TABLE IF NOT EXISTS prospects (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    name        TEXT NOT NULL,
    avatar_url  TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    profile_url TEXT NOT NULL DEFAULT '',
    job_title   TEXT,
    company     TEXT
);

CREATE TABLE IF NOT EXISTS scheduled_sends (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    prospect_id   TEXT NOT NULL REFERENCES prospects(id),
    scheduled_for TIMESTAMPTZ NOT NULL,
    status        TEXT NOT NULL,
    message_text  TEXT NOT NULL DEFAULT '',
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS scheduled_sends_user_idx ON scheduled_sends (user_id, scheduled_for);
`
