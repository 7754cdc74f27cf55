package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// snapshotRepo implements SnapshotRepo on the readiness_snapshots table.
type snapshotRepo struct {
	s *Store
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}

	query, args := r.s.sql().Insert("readiness_snapshots").
		Columns("id", "sequence", "recorded_at", "student_id", "data").
		Values(snap.ID, snap.Sequence, toMillis(snap.Timestamp), snap.StudentID, string(data)).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) List(ctx context.Context, studentID string, limit int) ([]Snapshot, error) {
	b := r.s.sql()
	sel := b.Select("id", "sequence", "recorded_at", "student_id", "data").
		From(b.Table("readiness_snapshots")).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("sequence"), entsql.Desc("recorded_at"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap Snapshot
			at   int64
			data string
		)
		if err := rows.Scan(&snap.ID, &snap.Sequence, &at, &snap.StudentID, &data); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &snap.Data); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
		}
		snap.Timestamp = fromMillis(at)
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (r *snapshotRepo) Prune(ctx context.Context, studentID string, keep int) error {
	if keep <= 0 {
		return nil
	}
	b := r.s.sql()

	// The keep-th newest snapshot marks the threshold.
	query, args := b.Select("sequence").
		From(b.Table("readiness_snapshots")).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()
	var threshold int64
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = b.Delete("readiness_snapshots").
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.LTE("sequence", threshold),
		)).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
