package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roadready/roadready/internal/catalog"
	"github.com/roadready/roadready/internal/logger"
	"github.com/roadready/roadready/internal/store"
)

// AddStudent enrolls a new student with the teacher.
func (s *Service) AddStudent(ctx context.Context, teacherID, name string) (*store.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	st := &store.Student{TeacherID: teacherID, Name: name, CreatedAt: s.now()}
	if err := s.repos.StudentRepo().CreateStudent(ctx, st); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "student added",
		logger.String("teacher_id", teacherID),
		logger.String("student_id", st.ID))
	return st, nil
}

// Students lists the teacher's students.
func (s *Service) Students(ctx context.Context, teacherID string) ([]store.Student, error) {
	return s.repos.StudentRepo().Students(ctx, teacherID)
}

// Student returns one of the teacher's students. A student enrolled with
// another teacher is reported as not found.
func (s *Service) Student(ctx context.Context, teacherID, studentID string) (*store.Student, error) {
	st, err := s.repos.StudentRepo().Student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st.TeacherID != teacherID {
		return nil, fmt.Errorf("student %q: %w", studentID, store.ErrNotFound)
	}
	return st, nil
}

// FindStudent resolves ref as a student ID, falling back to a
// case-insensitive name match among the teacher's students.
func (s *Service) FindStudent(ctx context.Context, teacherID, ref string) (*store.Student, error) {
	st, err := s.Student(ctx, teacherID, ref)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	all, err := s.Students(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	var matches []store.Student
	for _, cand := range all {
		if strings.EqualFold(cand.Name, strings.TrimSpace(ref)) {
			matches = append(matches, cand)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("student %q: %w", ref, store.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %d students named %q", ErrAmbiguousStudent, len(matches), ref)
	}
}

// Catalog returns the teacher's skill catalog.
func (s *Service) Catalog(ctx context.Context, teacherID string) (*catalog.Catalog, error) {
	return s.repos.CatalogRepo().Catalog(ctx, teacherID)
}

// ImportCatalog validates c and makes it the teacher's catalog. Existing
// ratings for skills that leave the catalog stay stored but no longer
// count towards readiness.
func (s *Service) ImportCatalog(ctx context.Context, teacherID string, c *catalog.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.repos.CatalogRepo().ReplaceCatalog(ctx, teacherID, c); err != nil {
		return err
	}
	s.log.Info(ctx, "catalog imported",
		logger.String("teacher_id", teacherID),
		logger.Int("categories", len(c.Categories)),
		logger.Int("skills", len(c.Skills)))
	return nil
}

// EnsureCatalog installs the built-in curriculum when the teacher has no
// catalog yet. It reports whether it did so.
func (s *Service) EnsureCatalog(ctx context.Context, teacherID string) (bool, error) {
	c, err := s.Catalog(ctx, teacherID)
	if err != nil {
		return false, err
	}
	if !c.Empty() {
		return false, nil
	}
	if err := s.ImportCatalog(ctx, teacherID, catalog.Default()); err != nil {
		return false, err
	}
	return true, nil
}
