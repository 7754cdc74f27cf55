package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/roadready/roadready/internal/catalog"
)

type catalogRepo struct {
	s *Store
}

func (r *catalogRepo) ReplaceCatalog(ctx context.Context, teacherID string, c *catalog.Catalog) error {
	b := r.s.sql()
	return r.s.withTx(ctx, func(tx *sql.Tx) error {
		// Skills first: they reference categories.
		for _, table := range []string{"skills", "categories"} {
			query, args := b.Delete(table).Where(entsql.EQ("teacher_id", teacherID)).Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		for i, cat := range c.Categories {
			query, args := b.Insert("categories").
				Columns("teacher_id", "id", "name", "sort_order", "advanced").
				Values(teacherID, cat.ID, cat.Name, i, cat.Advanced).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert category %s: %w", cat.ID, err)
			}
		}

		for i, sk := range c.Skills {
			query, args := b.Insert("skills").
				Columns("teacher_id", "id", "category_id", "name", "description", "sort_order").
				Values(teacherID, sk.ID, sk.CategoryID, sk.Name, sk.Description, i).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert skill %s: %w", sk.ID, err)
			}
		}
		return nil
	})
}

func (r *catalogRepo) Catalog(ctx context.Context, teacherID string) (*catalog.Catalog, error) {
	b := r.s.sql()

	query, args := b.Select("id", "name", "sort_order", "advanced").
		From(b.Table("categories")).
		Where(entsql.EQ("teacher_id", teacherID)).
		OrderBy("sort_order").
		Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	var cats []catalog.Category
	for rows.Next() {
		var cat catalog.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Position, &cat.Advanced); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, cat)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	query, args = b.Select("id", "category_id", "name", "description", "sort_order").
		From(b.Table("skills")).
		Where(entsql.EQ("teacher_id", teacherID)).
		OrderBy("sort_order").
		Query()
	rows, err = r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()
	var skills []catalog.Skill
	for rows.Next() {
		var sk catalog.Skill
		if err := rows.Scan(&sk.ID, &sk.CategoryID, &sk.Name, &sk.Description, &sk.Position); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}

	return catalog.New(cats, skills), nil
}
