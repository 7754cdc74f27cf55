package progress

import (
	"context"
	"fmt"

	"github.com/roadready/roadready/internal/catalog"
	"github.com/roadready/roadready/internal/logger"
	"github.com/roadready/roadready/internal/scoring"
	"github.com/roadready/roadready/internal/store"
)

// RateInput is a teacher's rating of one skill for one student.
type RateInput struct {
	TeacherID string
	StudentID string
	SkillID   string
	Score     int
	Note      string
}

// Transition records a status change caused by a rating.
type Transition struct {
	SkillID   string         `json:"skill_id"`
	SkillName string         `json:"skill_name"`
	From      scoring.Status `json:"from"`
	To        scoring.Status `json:"to"`
	FromScore scoring.Score  `json:"from_score"`
	ToScore   scoring.Score  `json:"to_score"`
}

// RateSkill stores a new score for a skill together with its score event,
// then snapshots the resulting readiness. It returns the status
// transition, or nil when the status did not change. A non-empty note
// replaces the stored notes.
func (s *Service) RateSkill(ctx context.Context, in RateInput) (*Transition, error) {
	score, err := scoring.ParseScore(in.Score)
	if err != nil {
		return nil, err
	}
	if _, err := s.Student(ctx, in.TeacherID, in.StudentID); err != nil {
		return nil, err
	}
	cat, err := s.Catalog(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}
	skill, err := cat.Skill(in.SkillID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSkill, in.SkillID)
	}

	now := s.now()
	res, err := s.repos.SkillRecordRepo().RecordRating(ctx, in.StudentID, in.SkillID, now, in.Note,
		func(prev store.SkillRecord) store.SkillRecord {
			rec := prev
			rec.Score = score
			rec.UpdatedAt = now
			if score.Rated() {
				rec.PracticeCount++
				rec.LastPracticedAt = &now
			}
			if in.Note != "" {
				rec.Notes = in.Note
			}
			return rec
		})
	if err != nil {
		return nil, err
	}
	ev := res.Event
	s.recorder.SkillRated()

	s.log.Info(ctx, "skill rated",
		logger.String("student_id", in.StudentID),
		logger.String("skill_id", in.SkillID),
		logger.Int("from", int(ev.FromScore)),
		logger.Int("to", int(score)),
		logger.Any("sequence", ev.Sequence))

	// The rating is committed; snapshot trouble is logged, not returned.
	s.snapshot(ctx, cat, in.StudentID, ev)

	if ev.FromStatus == ev.ToStatus {
		return nil, nil
	}
	return &Transition{
		SkillID:   skill.ID,
		SkillName: skill.Name,
		From:      ev.FromStatus,
		To:        ev.ToStatus,
		FromScore: ev.FromScore,
		ToScore:   ev.ToScore,
	}, nil
}

func (s *Service) snapshot(ctx context.Context, cat *catalog.Catalog, studentID string, ev *store.ScoreEvent) {
	insts, err := s.instances(ctx, cat, studentID)
	if err != nil {
		s.log.Warn(ctx, "snapshot skipped", logger.String("student_id", studentID), logger.Error(err))
		return
	}

	r := evaluate(cat, insts)
	s.recorder.ObserveReadiness(r)

	rated := 0
	for _, si := range insts {
		if si.Record.Score.Rated() {
			rated++
		}
	}
	snaps := s.repos.SnapshotRepo()
	err = snaps.Save(ctx, &store.Snapshot{
		StudentID: studentID,
		Sequence:  ev.Sequence,
		Timestamp: ev.Timestamp,
		Data:      store.SnapshotData{Version: 1, Readiness: r, Rated: rated, Total: len(insts)},
	})
	if err != nil {
		s.log.Warn(ctx, "save snapshot failed", logger.String("student_id", studentID), logger.Error(err))
		return
	}
	if err := snaps.Prune(ctx, studentID, s.keep); err != nil {
		s.log.Warn(ctx, "prune snapshots failed", logger.String("student_id", studentID), logger.Error(err))
	}
}
