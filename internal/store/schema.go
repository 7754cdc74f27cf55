package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is written in the subset of DDL that SQLite and PostgreSQL share.
// Timestamps are stored as Unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		teacher_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		advanced BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (teacher_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		teacher_id TEXT NOT NULL,
		id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (teacher_id, id),
		FOREIGN KEY (teacher_id, category_id) REFERENCES categories (teacher_id, id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		teacher_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS students_teacher_id ON students (teacher_id)`,
	`CREATE TABLE IF NOT EXISTS student_skills (
		student_id TEXT NOT NULL REFERENCES students (id) ON DELETE CASCADE,
		skill_id TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0 CHECK (score BETWEEN 0 AND 5),
		practice_count INTEGER NOT NULL DEFAULT 0,
		last_practiced_at BIGINT,
		notes TEXT NOT NULL DEFAULT '',
		updated_at BIGINT NOT NULL,
		PRIMARY KEY (student_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS score_events (
		id TEXT PRIMARY KEY,
		sequence BIGINT NOT NULL UNIQUE,
		recorded_at BIGINT NOT NULL,
		student_id TEXT NOT NULL,
		skill_id TEXT NOT NULL,
		from_score INTEGER NOT NULL,
		to_score INTEGER NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS score_events_student_id ON score_events (student_id, sequence)`,
	`CREATE TABLE IF NOT EXISTS readiness_snapshots (
		id TEXT PRIMARY KEY,
		sequence BIGINT NOT NULL,
		recorded_at BIGINT NOT NULL,
		student_id TEXT NOT NULL,
		data TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS readiness_snapshots_student_id ON readiness_snapshots (student_id, sequence)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val BIGINT NOT NULL DEFAULT 1
	)`,
}

// migrate creates missing tables and indexes. It is idempotent.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
