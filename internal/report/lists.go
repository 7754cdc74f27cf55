package report

import (
	"fmt"

	"github.com/roadready/roadready/internal/catalog"
	"github.com/roadready/roadready/internal/store"
	"github.com/roadready/roadready/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04"

// History renders readiness snapshots, newest first.
func (r *Renderer) History(snaps []store.Snapshot) {
	if len(snaps) == 0 {
		r.printf("%s\n", r.render(theme.Hint, "no history yet"))
		return
	}
	for _, s := range snaps {
		verdict := "not ready"
		if s.Data.Readiness.Ready {
			verdict = "ready"
		}
		r.printf("%s  #%-5d avg %3.0f%%  adv %3.0f%%  %d/%d rated  %s\n",
			s.Timestamp.Local().Format(timeLayout), s.Sequence,
			s.Data.Readiness.Percentage, s.Data.Readiness.Cat4Percentage,
			s.Data.Rated, s.Data.Total, verdict)
	}
}

// Events renders rating changes, newest first.
func (r *Renderer) Events(events []store.ScoreEvent) {
	for _, e := range events {
		line := fmt.Sprintf("%s  #%-5d %s %d -> %d",
			e.Timestamp.Local().Format(timeLayout), e.Sequence, fit(e.SkillID, 24), e.FromScore, e.ToScore)
		if e.Note != "" {
			line += "  " + r.render(theme.Hint, e.Note)
		}
		r.printf("%s\n", line)
	}
}

// Catalog renders skills grouped by category. A non-empty categoryID
// limits output to that category.
func (r *Renderer) Catalog(c *catalog.Catalog, categoryID string) {
	count := 0
	for _, cat := range c.Categories {
		if categoryID != "" && cat.ID != categoryID {
			continue
		}
		title := cat.Name
		if cat.Advanced {
			title += " (advanced)"
		}
		r.printf("%s  %s\n", r.render(theme.Heading, title), r.render(theme.Subtitle, cat.ID))
		for _, s := range c.ByCategory(cat.ID) {
			r.printf("  %s %s\n", fit(s.ID, 24), s.Name)
			count++
		}
		r.printf("\n")
	}
	r.printf("%d skills\n", count)
}

// Students renders a student list.
func (r *Renderer) Students(list []store.Student) {
	if len(list) == 0 {
		r.printf("%s\n", r.render(theme.Hint, "no students yet"))
		return
	}
	for _, s := range list {
		r.printf("%-36s  %s  %s\n", s.ID, fit(s.Name, 24), s.CreatedAt.Local().Format(dateLayout))
	}
}
