package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/roadready/roadready/internal/catalog"
	"github.com/roadready/roadready/internal/scoring"
	"github.com/roadready/roadready/internal/store"
)

// Report is a student's full readiness picture.
type Report struct {
	Student          store.Student     `json:"student"`
	Readiness        scoring.Readiness `json:"readiness"`
	AdvancedCategory string            `json:"advanced_category,omitempty"`
	Categories       []CategorySummary `json:"categories"`
	Skills           []SkillRow        `json:"skills"`
	Blockers         []Blocker         `json:"blockers"`
}

// CategorySummary aggregates one category.
type CategorySummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Advanced   bool    `json:"advanced"`
	Average    float64 `json:"average"`
	Percentage float64 `json:"percentage"`
	Coverage   float64 `json:"coverage"`
	Rated      int     `json:"rated"`
	Total      int     `json:"total"`
}

// SkillRow is one skill line of a report.
type SkillRow struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	CategoryID      string         `json:"category_id"`
	Score           scoring.Score  `json:"score"`
	Level           scoring.Level  `json:"level"`
	Status          scoring.Status `json:"status"`
	PracticeCount   int            `json:"practice_count"`
	LastPracticedAt *time.Time     `json:"last_practiced_at,omitempty"`
	Notes           string         `json:"notes,omitempty"`
}

// BlockerCode identifies why a student is not ready.
type BlockerCode string

const (
	BlockerNoRatings   BlockerCode = "no_ratings"
	BlockerLowAverage  BlockerCode = "low_average"
	BlockerLowSkills   BlockerCode = "low_skills"
	BlockerLowAdvanced BlockerCode = "low_advanced"
	BlockerNoAdvanced  BlockerCode = "no_advanced_category"
)

// Blocker is one unmet readiness condition.
type Blocker struct {
	Code    BlockerCode `json:"code"`
	Message string      `json:"message"`
	Skills  []string    `json:"skills,omitempty"`
}

// Report builds the readiness report for one of the teacher's students.
func (s *Service) Report(ctx context.Context, teacherID, studentID string) (*Report, error) {
	st, err := s.Student(ctx, teacherID, studentID)
	if err != nil {
		return nil, err
	}
	cat, err := s.Catalog(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	insts, err := s.instances(ctx, cat, studentID)
	if err != nil {
		return nil, err
	}

	r := evaluate(cat, insts)
	rep := &Report{
		Student:    *st,
		Readiness:  r,
		Categories: summarize(cat, insts),
		Skills:     make([]SkillRow, 0, len(insts)),
	}
	adv, hasAdvanced := cat.AdvancedCategory()
	if hasAdvanced {
		rep.AdvancedCategory = adv.ID
	}
	for _, si := range insts {
		rep.Skills = append(rep.Skills, SkillRow{
			ID:              si.Skill.ID,
			Name:            si.Skill.Name,
			CategoryID:      si.Skill.CategoryID,
			Score:           si.Record.Score,
			Level:           scoring.LevelFor(si.Record.Score),
			Status:          scoring.StatusFor(float64(si.Record.Score)),
			PracticeCount:   si.Record.PracticeCount,
			LastPracticedAt: si.Record.LastPracticedAt,
			Notes:           si.Record.Notes,
		})
	}
	rep.Blockers = Blockers(r, hasAdvanced, lowSkillNames(insts))
	return rep, nil
}

func summarize(cat *catalog.Catalog, insts []SkillInstance) []CategorySummary {
	out := make([]CategorySummary, 0, len(cat.Categories))
	for _, c := range cat.Categories {
		var group []scoring.Instance
		rated := 0
		for _, si := range insts {
			if si.Skill.CategoryID != c.ID {
				continue
			}
			in := si.Instance()
			group = append(group, in)
			if in.Rated() {
				rated++
			}
		}
		avg := scoring.CategoryAverage(group, c.ID)
		out = append(out, CategorySummary{
			ID:         c.ID,
			Name:       c.Name,
			Advanced:   c.Advanced,
			Average:    avg,
			Percentage: scoring.ScoreToPercentage(avg),
			Coverage:   scoring.Coverage(group),
			Rated:      rated,
			Total:      len(group),
		})
	}
	return out
}

func lowSkillNames(insts []SkillInstance) []string {
	var out []string
	for _, si := range insts {
		in := si.Instance()
		if in.Rated() && in.Score < scoring.LowSkillThreshold {
			out = append(out, si.Skill.Name)
		}
	}
	return out
}

// Blockers lists the readiness conditions r fails. A ready result has
// none. lowSkills names the rated skills below the low threshold.
func Blockers(r scoring.Readiness, hasAdvanced bool, lowSkills []string) []Blocker {
	if r.Ready {
		return nil
	}
	if r.Avg == 0 {
		return []Blocker{{Code: BlockerNoRatings, Message: "no skills have been rated yet"}}
	}

	var out []Blocker
	if r.Avg < scoring.ReadyAvgThreshold {
		msg := fmt.Sprintf("overall average %.0f%% is below %.0f%%",
			r.Percentage, scoring.ScoreToPercentage(scoring.ReadyAvgThreshold))
		out = append(out, Blocker{Code: BlockerLowAverage, Message: msg})
	}
	if r.HasLow {
		threshold := scoring.LevelFor(scoring.Score(scoring.LowSkillThreshold))
		out = append(out, Blocker{
			Code:    BlockerLowSkills,
			Message: fmt.Sprintf("%d skill(s) rated below %s", len(lowSkills), threshold.Label),
			Skills:  lowSkills,
		})
	}
	switch {
	case !hasAdvanced:
		out = append(out, Blocker{
			Code:    BlockerNoAdvanced,
			Message: "the catalog has no advanced maneuvers category",
		})
	case r.Cat4Avg < scoring.AdvancedAvgThreshold:
		msg := fmt.Sprintf("advanced maneuvers average %.0f%% is below %.0f%%",
			r.Cat4Percentage, scoring.ScoreToPercentage(scoring.AdvancedAvgThreshold))
		out = append(out, Blocker{Code: BlockerLowAdvanced, Message: msg})
	}
	return out
}
