package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/roadready/roadready/internal/ui/theme"
)

// ProgressBar displays a horizontal percentage bar.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0..100
	ShowPercent bool
	Width       int
	Plain       bool // ASCII only, no escape sequences
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += p.Label + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if p.Plain {
		barWidth -= 2 // brackets
	}
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent / 100)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	if p.Plain {
		result += "[" + strings.Repeat("#", filled) + strings.Repeat(".", empty) + "]"
	} else {
		result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
			theme.ProgressEmpty.Render(strings.Repeat(" ", empty))
	}

	if p.ShowPercent {
		pct := fmt.Sprintf("  %3.0f%%", p.Percent)
		if !p.Plain {
			pct = theme.Subtitle.Render(pct)
		}
		result += pct
	}

	return result
}
