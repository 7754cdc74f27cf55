// Package report renders progress data for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"

	"github.com/roadready/roadready/internal/progress"
	"github.com/roadready/roadready/internal/scoring"
	"github.com/roadready/roadready/internal/ui/components"
	"github.com/roadready/roadready/internal/ui/theme"
)

const (
	defaultWidth = 72
	nameWidth    = 28
	dateLayout   = "2006-01-02"
)

// Renderer writes styled text to w. In plain mode it writes no escape
// sequences.
type Renderer struct {
	w     io.Writer
	plain bool
	width int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPlain forces plain output.
func WithPlain(plain bool) Option {
	return func(r *Renderer) { r.plain = plain }
}

// WithWidth sets the line width used for bars.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// New returns a renderer for w. Output is plain unless w is a terminal
// and NO_COLOR is unset.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, plain: !isColorTerminal(w), width: defaultWidth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func isColorTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

func (r *Renderer) render(st lipgloss.Style, s string) string {
	if r.plain {
		return s
	}
	return st.Render(s)
}

func (r *Renderer) bar(label string, percent float64) string {
	bar := components.NewProgressBar(label, percent, true, r.width)
	bar.Plain = r.plain
	return bar.View()
}

func (r *Renderer) badge(l scoring.Level) string {
	if r.plain {
		return "[" + l.Label + "]"
	}
	return theme.LevelBadge(l.Color, l.BgColor).Render(l.Label)
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// Report renders a full readiness report.
func (r *Renderer) Report(rep *progress.Report) {
	res := rep.Readiness

	r.printf("%s  %s\n", r.render(theme.Title, rep.Student.Name), r.render(theme.Subtitle, rep.Student.ID))
	if res.Ready {
		r.printf("%s\n\n", r.render(theme.Ready, "READY FOR TEST"))
	} else {
		r.printf("%s\n\n", r.render(theme.NotReady, "NOT READY"))
	}

	r.printf("%s\n", r.bar(fmt.Sprintf("%-20s", "Overall"), res.Percentage))
	if rep.AdvancedCategory != "" {
		r.printf("%s\n", r.bar(fmt.Sprintf("%-20s", "Advanced maneuvers"), res.Cat4Percentage))
	}
	r.printf("%s\n", r.bar(fmt.Sprintf("%-20s", "Coverage"), res.Coverage))

	if len(rep.Blockers) > 0 {
		r.printf("\n")
		for _, b := range rep.Blockers {
			line := "- " + b.Message
			if len(b.Skills) > 0 {
				line += ": " + strings.Join(b.Skills, ", ")
			}
			r.printf("%s\n", r.render(theme.Blocker, line))
		}
	}

	for _, c := range rep.Categories {
		r.printf("\n%s  %s\n",
			r.render(theme.Heading, c.Name),
			r.render(theme.Subtitle, fmt.Sprintf("avg %.2f  %.0f%%  %d/%d rated", c.Average, c.Percentage, c.Rated, c.Total)))
		for _, row := range rep.Skills {
			if row.CategoryID != c.ID {
				continue
			}
			r.printf("  %s %s%s\n", fit(row.Name, nameWidth), r.badge(row.Level), practiceInfo(row))
		}
	}
}

func practiceInfo(row progress.SkillRow) string {
	if row.PracticeCount == 0 {
		return ""
	}
	s := fmt.Sprintf("  x%d", row.PracticeCount)
	if row.LastPracticedAt != nil {
		s += "  " + row.LastPracticedAt.Format(dateLayout)
	}
	return s
}

// Transition renders the outcome of a rating.
func (r *Renderer) Transition(skillName string, score scoring.Score, t *progress.Transition) {
	r.printf("%s rated %s\n", skillName, r.badge(scoring.LevelFor(score)))
	if t != nil {
		r.printf("%s\n", r.render(theme.Hint, fmt.Sprintf("%s -> %s", t.From.Label(), t.To.Label())))
	}
}

// Levels renders the score legend.
func (r *Renderer) Levels(levels []scoring.Level) {
	for _, l := range levels {
		r.printf("%d  %s  %3.0f%%  %s\n", l.Score, r.badge(l), scoring.ScoreToPercentage(float64(l.Score)), l.Description)
	}
}

// fit truncates s to n terminal cells and pads it to exactly n, so wide
// and multi-byte names keep columns aligned.
func fit(s string, n int) string {
	s = ansi.Truncate(s, n, "...")
	if w := ansi.StringWidth(s); w < n {
		s += strings.Repeat(" ", n-w)
	}
	return s
}
