package catalog

import (
	"fmt"
	"strings"
)

// Validate performs all structural checks on the catalog.
// Returns a combined error describing all problems found, or nil if valid.
func (c *Catalog) Validate() error {
	var errs []string

	if len(c.Categories) == 0 {
		errs = append(errs, "catalog has no categories")
	}

	catSet := make(map[string]bool, len(c.Categories))
	advanced := 0
	for _, cat := range c.Categories {
		if cat.ID == "" {
			errs = append(errs, "category with empty ID")
			continue
		}
		if catSet[cat.ID] {
			errs = append(errs, fmt.Sprintf("duplicate category ID: %q", cat.ID))
		}
		catSet[cat.ID] = true
		if strings.TrimSpace(cat.Name) == "" {
			errs = append(errs, fmt.Sprintf("category %q has no name", cat.ID))
		}
		if cat.Advanced {
			advanced++
		}
	}
	if advanced > 1 {
		errs = append(errs, fmt.Sprintf("%d categories flagged advanced, at most one allowed", advanced))
	}

	skillSet := make(map[string]bool, len(c.Skills))
	populated := make(map[string]bool, len(c.Categories))
	for _, s := range c.Skills {
		if s.ID == "" {
			errs = append(errs, "skill with empty ID")
			continue
		}
		if skillSet[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		skillSet[s.ID] = true
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Sprintf("skill %q has no name", s.ID))
		}
		if !catSet[s.CategoryID] {
			errs = append(errs, fmt.Sprintf("skill %q references nonexistent category %q", s.ID, s.CategoryID))
		}
		populated[s.CategoryID] = true
	}

	for _, cat := range c.Categories {
		if cat.ID != "" && !populated[cat.ID] {
			errs = append(errs, fmt.Sprintf("category %q has no skills", cat.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
