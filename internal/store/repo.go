package store

import (
	"context"
	"errors"
	"time"

	"github.com/roadready/roadready/internal/catalog"
	"github.com/roadready/roadready/internal/scoring"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int   // max results (0 = unlimited)
	After  int64 // sequence > After
	Before int64 // sequence < Before (0 = unbounded)
}

// CatalogRepo stores one skill catalog per teacher.
type CatalogRepo interface {
	// ReplaceCatalog swaps the teacher's catalog for c in one transaction.
	ReplaceCatalog(ctx context.Context, teacherID string, c *catalog.Catalog) error

	// Catalog returns the teacher's catalog. An unknown teacher yields an
	// empty catalog, not an error.
	Catalog(ctx context.Context, teacherID string) (*catalog.Catalog, error)
}

// Student is a learner enrolled with a teacher.
type Student struct {
	ID        string    `json:"id"`
	TeacherID string    `json:"teacher_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentRepo manages students.
type StudentRepo interface {
	// CreateStudent inserts st, assigning an ID when st.ID is empty.
	CreateStudent(ctx context.Context, st *Student) error

	// Student returns the student with the given ID, or ErrNotFound.
	Student(ctx context.Context, id string) (*Student, error)

	// Students lists a teacher's students by creation time.
	Students(ctx context.Context, teacherID string) ([]Student, error)
}

// SkillRecord is a student's current rating on one skill.
type SkillRecord struct {
	StudentID       string
	SkillID         string
	Score           scoring.Score
	PracticeCount   int
	LastPracticedAt *time.Time
	Notes           string
	UpdatedAt       time.Time
}

// RatingChange derives the new record from the current one. For a skill
// never rated before it receives a zero record.
type RatingChange func(prev SkillRecord) SkillRecord

// RatingResult is what RecordRating stored.
type RatingResult struct {
	Previous SkillRecord
	Current  SkillRecord
	Event    *ScoreEvent
}

// SkillRecordRepo reads and writes per-skill ratings.
type SkillRecordRepo interface {
	// SkillRecords returns every stored record for a student.
	SkillRecords(ctx context.Context, studentID string) ([]SkillRecord, error)

	// RecordRating reads the current record, stores change(prev) and
	// appends the matching score event in one transaction. Nothing is
	// written when any step fails. A score outside 0..5 is rejected with
	// scoring.ErrScoreOutOfRange.
	RecordRating(ctx context.Context, studentID, skillID string, at time.Time, note string, change RatingChange) (*RatingResult, error)
}

// ScoreEventData captures a single rating change.
type ScoreEventData struct {
	StudentID  string         `json:"student_id"`
	SkillID    string         `json:"skill_id"`
	FromScore  scoring.Score  `json:"from_score"`
	ToScore    scoring.Score  `json:"to_score"`
	FromStatus scoring.Status `json:"from_status"`
	ToStatus   scoring.Status `json:"to_status"`
	Note       string         `json:"note,omitempty"`
}

// ScoreEvent is a persisted rating change.
type ScoreEvent struct {
	ID        string    `json:"id"`
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	ScoreEventData
}

// EventRepo queries score events. Events are written by
// SkillRecordRepo.RecordRating.
type EventRepo interface {
	// ScoreEvents returns a student's events, newest first.
	ScoreEvents(ctx context.Context, studentID string, opts QueryOpts) ([]ScoreEvent, error)
}

// SnapshotData captures a student's readiness at a point in time.
type SnapshotData struct {
	Version   int               `json:"version"`
	Readiness scoring.Readiness `json:"readiness"`
	Rated     int               `json:"rated"`
	Total     int               `json:"total"`
}

// Snapshot represents a point-in-time capture of student readiness.
type Snapshot struct {
	ID        string       `json:"id"`
	StudentID string       `json:"student_id"`
	Sequence  int64        `json:"sequence"`
	Timestamp time.Time    `json:"timestamp"`
	Data      SnapshotData `json:"data"`
}

// SnapshotRepo manages readiness snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot, assigning an ID when snap.ID is empty.
	Save(ctx context.Context, snap *Snapshot) error

	// List returns up to limit snapshots, newest first (0 = unlimited).
	List(ctx context.Context, studentID string, limit int) ([]Snapshot, error)

	// Prune deletes all but the keep most recent snapshots. keep <= 0 keeps all.
	Prune(ctx context.Context, studentID string, keep int) error
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
