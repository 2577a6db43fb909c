// Package db opens the Postgres connection and bootstraps the schema.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/lib/pq"
)

// Connect opens a Postgres pool and pings it until it answers or the
// backoff budget runs out. Fresh deployments race the database container,
// so the first ping is retried.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, conn.PingContext(ctx)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(30*time.Second))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return conn, nil
}

// Migrate applies the schema. Statements are idempotent so startup can run
// them unconditionally.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS workers (
		id          SERIAL PRIMARY KEY,
		full_name   TEXT NOT NULL,
		file_id     TEXT NOT NULL DEFAULT '',
		chat_id     TEXT NOT NULL DEFAULT '',
		speciality  TEXT NOT NULL DEFAULT '',
		phone       TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id                       SERIAL PRIMARY KEY,
		doctor_name              TEXT NOT NULL,
		date                     TEXT NOT NULL,
		type                     TEXT NOT NULL,
		speciality               TEXT NOT NULL DEFAULT '',
		cabinet                  TEXT NOT NULL DEFAULT '',
		scheduled_assistant_name TEXT,
		assistant_id             INTEGER REFERENCES workers(id),
		assistant_name           TEXT NOT NULL DEFAULT '',
		manual                   BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_shifts_date_type ON shifts (date, type)`,
	`CREATE TABLE IF NOT EXISTS pairs (
		id      SERIAL PRIMARY KEY,
		subject TEXT NOT NULL,
		object  TEXT NOT NULL,
		survey  TEXT NOT NULL,
		weekday TEXT NOT NULL,
		date    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS surveys (
		id             BIGINT PRIMARY KEY,
		speciality     TEXT NOT NULL DEFAULT '',
		question1      TEXT NOT NULL DEFAULT '', question1_type TEXT NOT NULL DEFAULT '',
		question2      TEXT NOT NULL DEFAULT '', question2_type TEXT NOT NULL DEFAULT '',
		question3      TEXT NOT NULL DEFAULT '', question3_type TEXT NOT NULL DEFAULT '',
		question4      TEXT NOT NULL DEFAULT '', question4_type TEXT NOT NULL DEFAULT '',
		question5      TEXT NOT NULL DEFAULT '', question5_type TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS answers (
		id           SERIAL PRIMARY KEY,
		object       TEXT NOT NULL DEFAULT '',
		subject      TEXT NOT NULL DEFAULT '',
		survey       TEXT NOT NULL DEFAULT '',
		survey_date  TEXT NOT NULL DEFAULT '',
		completed_at TEXT NOT NULL DEFAULT '',
		question1    TEXT NOT NULL DEFAULT '', answer1 TEXT NOT NULL DEFAULT '',
		question2    TEXT NOT NULL DEFAULT '', answer2 TEXT NOT NULL DEFAULT '',
		question3    TEXT NOT NULL DEFAULT '', answer3 TEXT NOT NULL DEFAULT '',
		question4    TEXT NOT NULL DEFAULT '', answer4 TEXT NOT NULL DEFAULT '',
		question5    TEXT NOT NULL DEFAULT '', answer5 TEXT NOT NULL DEFAULT ''
	)`,
}
