// Package progress loads student ratings against the teacher's catalog,
// records new ratings and evaluates test readiness.
package progress

import (
	"errors"
	"time"

	"github.com/roadready/roadready/internal/logger"
	"github.com/roadready/roadready/internal/scoring"
	"github.com/roadready/roadready/internal/store"
)

// DefaultSnapshotKeep is how many readiness snapshots are kept per student.
const DefaultSnapshotKeep = 50

var (
	// ErrUnknownSkill is returned when a skill is not in the teacher's catalog.
	ErrUnknownSkill = errors.New("unknown skill")

	// ErrInvalidName is returned for a blank student name.
	ErrInvalidName = errors.New("invalid student name")

	// ErrAmbiguousStudent is returned when a name matches several students.
	ErrAmbiguousStudent = errors.New("ambiguous student")
)

// Repos is the storage the service reads and writes. *store.Store
// satisfies it.
type Repos interface {
	CatalogRepo() store.CatalogRepo
	StudentRepo() store.StudentRepo
	SkillRecordRepo() store.SkillRecordRepo
	EventRepo() store.EventRepo
	SnapshotRepo() store.SnapshotRepo
}

// Recorder receives readiness and rating observations.
type Recorder interface {
	ObserveReadiness(r scoring.Readiness)
	SkillRated()
}

type nopRecorder struct{}

func (nopRecorder) ObserveReadiness(scoring.Readiness) {}
func (nopRecorder) SkillRated()                        {}

// Service is the single entry point for reading and changing progress.
type Service struct {
	repos    Repos
	log      logger.Logger
	recorder Recorder
	keep     int
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithSnapshotKeep sets how many snapshots are retained per student.
// 0 keeps all of them.
func WithSnapshotKeep(keep int) Option {
	return func(s *Service) {
		if keep >= 0 {
			s.keep = keep
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a progress service over repos.
func NewService(repos Repos, opts ...Option) *Service {
	s := &Service{
		repos:    repos,
		log:      logger.Nop(),
		recorder: nopRecorder{},
		keep:     DefaultSnapshotKeep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("progress")
	return s
}
