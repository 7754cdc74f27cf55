package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/roadready/roadready/internal/scoring"
)

type skillRecordRepo struct {
	s *Store
}

var skillRecordColumns = []string{
	"student_id", "skill_id", "score", "practice_count",
	"last_practiced_at", "notes", "updated_at",
}

func (r *skillRecordRepo) SkillRecords(ctx context.Context, studentID string) ([]SkillRecord, error) {
	b := r.s.sql()
	query, args := b.Select(skillRecordColumns...).
		From(b.Table("student_skills")).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy("skill_id").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skill records: %w", err)
	}
	defer rows.Close()

	var out []SkillRecord
	for rows.Next() {
		rec, err := scanSkillRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *skillRecordRepo) RecordRating(ctx context.Context, studentID, skillID string, at time.Time, note string, change RatingChange) (*RatingResult, error) {
	var res *RatingResult
	err := r.s.withTx(ctx, func(tx *sql.Tx) error {
		prev, err := r.skillRecord(ctx, tx, studentID, skillID)
		switch {
		case errors.Is(err, ErrNotFound):
			prev = &SkillRecord{StudentID: studentID, SkillID: skillID}
		case err != nil:
			return err
		}

		rec := change(*prev)
		rec.StudentID, rec.SkillID = studentID, skillID
		if err := r.upsert(ctx, tx, rec); err != nil {
			return err
		}

		ev, err := r.s.insertScoreEvent(ctx, tx, at, ScoreEventData{
			StudentID:  studentID,
			SkillID:    skillID,
			FromScore:  prev.Score,
			ToScore:    rec.Score,
			FromStatus: scoring.StatusFor(float64(prev.Score)),
			ToStatus:   scoring.StatusFor(float64(rec.Score)),
			Note:       note,
		})
		if err != nil {
			return err
		}
		res = &RatingResult{Previous: *prev, Current: rec, Event: ev}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *skillRecordRepo) skillRecord(ctx context.Context, q querier, studentID, skillID string) (*SkillRecord, error) {
	b := r.s.sql()
	query, args := b.Select(skillRecordColumns...).
		From(b.Table("student_skills")).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("skill_id", skillID),
		)).
		Query()

	rec, err := scanSkillRecord(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("skill record %s/%s: %w", studentID, skillID, ErrNotFound)
	}
	return rec, err
}

func (r *skillRecordRepo) upsert(ctx context.Context, q querier, rec SkillRecord) error {
	if !rec.Score.Valid() {
		return fmt.Errorf("upsert skill record: %w", scoring.ErrScoreOutOfRange)
	}

	var last any
	if rec.LastPracticedAt != nil {
		last = toMillis(*rec.LastPracticedAt)
	}

	query, args := r.s.sql().Insert("student_skills").
		Columns(skillRecordColumns...).
		Values(rec.StudentID, rec.SkillID, int(rec.Score), rec.PracticeCount,
			last, rec.Notes, toMillis(rec.UpdatedAt)).
		OnConflict(
			entsql.ConflictColumns("student_id", "skill_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert skill record: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSkillRecord(row rowScanner) (*SkillRecord, error) {
	var (
		rec     SkillRecord
		score   int
		last    sql.NullInt64
		updated int64
	)
	err := row.Scan(&rec.StudentID, &rec.SkillID, &score, &rec.PracticeCount,
		&last, &rec.Notes, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan skill record: %w", err)
	}
	rec.Score = scoring.Score(score)
	rec.UpdatedAt = fromMillis(updated)
	if last.Valid {
		t := fromMillis(last.Int64)
		rec.LastPracticedAt = &t
	}
	return &rec, nil
}
