package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type studentRepo struct {
	s *Store
}

func (r *studentRepo) CreateStudent(ctx context.Context, st *Student) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	query, args := r.s.sql().Insert("students").
		Columns("id", "teacher_id", "name", "created_at").
		Values(st.ID, st.TeacherID, st.Name, toMillis(st.CreatedAt)).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (r *studentRepo) Student(ctx context.Context, id string) (*Student, error) {
	b := r.s.sql()
	query, args := b.Select("id", "teacher_id", "name", "created_at").
		From(b.Table("students")).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		st      Student
		created int64
	)
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.TeacherID, &st.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query student: %w", err)
	}
	st.CreatedAt = fromMillis(created)
	return &st, nil
}

func (r *studentRepo) Students(ctx context.Context, teacherID string) ([]Student, error) {
	b := r.s.sql()
	query, args := b.Select("id", "teacher_id", "name", "created_at").
		From(b.Table("students")).
		Where(entsql.EQ("teacher_id", teacherID)).
		OrderBy("created_at", "name").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		var (
			st      Student
			created int64
		)
		if err := rows.Scan(&st.ID, &st.TeacherID, &st.Name, &created); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		st.CreatedAt = fromMillis(created)
		out = append(out, st)
	}
	return out, rows.Err()
}
