package progress

import (
	"context"

	"github.com/roadready/roadready/internal/store"
)

// History returns up to limit readiness snapshots, newest first
// (0 = all retained).
func (s *Service) History(ctx context.Context, teacherID, studentID string, limit int) ([]store.Snapshot, error) {
	if _, err := s.Student(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	return s.repos.SnapshotRepo().List(ctx, studentID, limit)
}

// ScoreEvents returns rating changes newest first, limited and windowed
// by sequence as opts describes.
func (s *Service) ScoreEvents(ctx context.Context, teacherID, studentID string, opts store.QueryOpts) ([]store.ScoreEvent, error) {
	if _, err := s.Student(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	return s.repos.EventRepo().ScoreEvents(ctx, studentID, opts)
}
