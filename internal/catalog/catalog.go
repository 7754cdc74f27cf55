// Package catalog defines the skills a teacher grades students on, grouped
// into categories.
package catalog

import (
	"fmt"
	"slices"
	"sort"
)

// Category groups related skills. At most one category may be flagged
// Advanced; its average gates test readiness.
type Category struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Position int    `json:"position" yaml:"-"`
	Advanced bool   `json:"advanced" yaml:"advanced,omitempty"`
}

// Skill is a single gradable driving skill.
type Skill struct {
	ID          string `json:"id" yaml:"id"`
	CategoryID  string `json:"category_id" yaml:"-"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Position    int    `json:"position" yaml:"-"`
}

// Catalog is the full skill set for one teacher.
type Catalog struct {
	Categories []Category `json:"categories"`
	Skills     []Skill    `json:"skills"`
}

// New builds a catalog and sorts it by position.
func New(categories []Category, skills []Skill) *Catalog {
	c := &Catalog{
		Categories: slices.Clone(categories),
		Skills:     slices.Clone(skills),
	}
	c.sort()
	return c
}

// sort orders categories by position, and skills by their category's
// position and then their own.
func (c *Catalog) sort() {
	catPos := make(map[string]int, len(c.Categories))
	sort.SliceStable(c.Categories, func(i, j int) bool {
		return c.Categories[i].Position < c.Categories[j].Position
	})
	for i, cat := range c.Categories {
		catPos[cat.ID] = i
	}
	sort.SliceStable(c.Skills, func(i, j int) bool {
		pi, pj := catPos[c.Skills[i].CategoryID], catPos[c.Skills[j].CategoryID]
		if pi != pj {
			return pi < pj
		}
		return c.Skills[i].Position < c.Skills[j].Position
	})
}

// Category returns a category by ID.
func (c *Catalog) Category(id string) (Category, error) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, nil
		}
	}
	return Category{}, fmt.Errorf("category not found: %q", id)
}

// Skill returns a skill by ID.
func (c *Catalog) Skill(id string) (Skill, error) {
	for _, s := range c.Skills {
		if s.ID == id {
			return s, nil
		}
	}
	return Skill{}, fmt.Errorf("skill not found: %q", id)
}

// ByCategory returns the skills of one category in display order.
func (c *Catalog) ByCategory(categoryID string) []Skill {
	var out []Skill
	for _, s := range c.Skills {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out
}

// AdvancedCategory returns the category flagged as advanced maneuvers.
func (c *Catalog) AdvancedCategory() (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Advanced {
			return cat, true
		}
	}
	return Category{}, false
}

// Empty reports whether the catalog defines no skills.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.Skills) == 0
}
