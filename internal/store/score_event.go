package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/roadready/roadready/internal/scoring"
)

type eventRepo struct {
	s *Store
}

// insertScoreEvent writes a score event under the next global sequence.
// It must run inside the transaction that made the change.
func (s *Store) insertScoreEvent(ctx context.Context, tx *sql.Tx, at time.Time, data ScoreEventData) (*ScoreEvent, error) {
	seq, err := s.seq.Next(ctx, tx)
	if err != nil {
		return nil, err
	}
	ev := &ScoreEvent{
		ID:             uuid.NewString(),
		Sequence:       seq,
		Timestamp:      fromMillis(toMillis(at)),
		ScoreEventData: data,
	}

	query, args := s.sql().Insert("score_events").
		Columns("id", "sequence", "recorded_at", "student_id", "skill_id",
			"from_score", "to_score", "from_status", "to_status", "note").
		Values(ev.ID, seq, toMillis(at), data.StudentID, data.SkillID,
			int(data.FromScore), int(data.ToScore),
			string(data.FromStatus), string(data.ToStatus), data.Note).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("save score event: %w", err)
	}
	return ev, nil
}

func (r *eventRepo) ScoreEvents(ctx context.Context, studentID string, opts QueryOpts) ([]ScoreEvent, error) {
	b := r.s.sql()
	preds := []*entsql.Predicate{entsql.EQ("student_id", studentID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}

	sel := b.Select("id", "sequence", "recorded_at", "student_id", "skill_id",
		"from_score", "to_score", "from_status", "to_status", "note").
		From(b.Table("score_events")).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query score events: %w", err)
	}
	defer rows.Close()

	var out []ScoreEvent
	for rows.Next() {
		var (
			ev                   ScoreEvent
			at                   int64
			from, to             int
			fromStatus, toStatus string
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &at, &ev.StudentID, &ev.SkillID,
			&from, &to, &fromStatus, &toStatus, &ev.Note); err != nil {
			return nil, fmt.Errorf("scan score event: %w", err)
		}
		ev.Timestamp = fromMillis(at)
		ev.FromScore = scoring.Score(from)
		ev.ToScore = scoring.Score(to)
		ev.FromStatus = scoring.Status(fromStatus)
		ev.ToStatus = scoring.Status(toStatus)
		out = append(out, ev)
	}
	return out, rows.Err()
}
