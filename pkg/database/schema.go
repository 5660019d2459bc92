package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements creates the tables read by the availability engine. The
// partial unique index is the authoritative guard against duplicate
// postponed events; the service-level check is only a fast path.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'student'
	)`,
	`CREATE TABLE IF NOT EXISTS student_settings (
		student_id BIGINT PRIMARY KEY REFERENCES users(id),
		teacher_id BIGINT,
		lesson_duration INT NOT NULL DEFAULT 0,
		lessons_number INT NOT NULL DEFAULT 0,
		lesson_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS student_schedules (
		id BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL,
		teacher_id BIGINT NOT NULL,
		lesson_duration INT NOT NULL DEFAULT 60,
		schedule JSONB NOT NULL DEFAULT '[]',
		is_postponed BOOLEAN NOT NULL DEFAULT FALSE,
		postponed_date DATE,
		postponed_time TEXT,
		owner_student_id BIGINT,
		is_recurring BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_student_schedules_postponed
		ON student_schedules (owner_student_id, teacher_id, postponed_date, postponed_time)
		WHERE is_postponed`,
	`CREATE INDEX IF NOT EXISTS ix_student_schedules_teacher ON student_schedules (teacher_id, is_postponed)`,
	`CREATE TABLE IF NOT EXISTS student_reports (
		id BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL,
		teacher_id BIGINT NOT NULL,
		date DATE NOT NULL,
		time TEXT NOT NULL DEFAULT '',
		attendance TEXT NOT NULL,
		session_number INT NOT NULL DEFAULT 0,
		lesson_duration INT NOT NULL DEFAULT 0,
		evaluation TEXT NOT NULL DEFAULT '',
		grade INT NOT NULL DEFAULT 0,
		tasmii TEXT NOT NULL DEFAULT '',
		tahfiz TEXT NOT NULL DEFAULT '',
		mourajah TEXT NOT NULL DEFAULT '',
		next_tasmii TEXT NOT NULL DEFAULT '',
		next_mourajah TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		zoom_image_url TEXT NOT NULL DEFAULT '',
		is_postponed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_student_reports_student ON student_reports (student_id, date DESC, time DESC)`,
	`CREATE INDEX IF NOT EXISTS ix_student_reports_teacher ON student_reports (teacher_id, date)`,
	`CREATE TABLE IF NOT EXISTS free_slots (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL
	)`,
}

// EnsureSchema applies the idempotent schema statements in one transaction.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
