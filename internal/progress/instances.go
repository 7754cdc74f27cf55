package progress

import (
	"context"
	"fmt"

	"github.com/roadready/roadready/internal/catalog"
	"github.com/roadready/roadready/internal/scoring"
	"github.com/roadready/roadready/internal/store"
)

// SkillInstance pairs a catalog skill with the student's record for it.
// Skills the student was never rated on carry a zero-score record.
type SkillInstance struct {
	Skill  catalog.Skill
	Record store.SkillRecord
}

// Instance reduces the pair to what the scoring engine needs.
func (si SkillInstance) Instance() scoring.Instance {
	return scoring.Instance{CategoryID: si.Skill.CategoryID, Score: float64(si.Record.Score)}
}

// Instances returns one instance per catalog skill, in catalog order.
// Records for skills no longer in the catalog are ignored.
func (s *Service) Instances(ctx context.Context, teacherID, studentID string) ([]SkillInstance, error) {
	if _, err := s.Student(ctx, teacherID, studentID); err != nil {
		return nil, err
	}
	cat, err := s.Catalog(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return s.instances(ctx, cat, studentID)
}

func (s *Service) instances(ctx context.Context, cat *catalog.Catalog, studentID string) ([]SkillInstance, error) {
	records, err := s.repos.SkillRecordRepo().SkillRecords(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load skill records: %w", err)
	}
	byID := make(map[string]store.SkillRecord, len(records))
	for _, rec := range records {
		byID[rec.SkillID] = rec
	}

	out := make([]SkillInstance, 0, len(cat.Skills))
	for _, sk := range cat.Skills {
		rec, ok := byID[sk.ID]
		if !ok {
			rec = store.SkillRecord{StudentID: studentID, SkillID: sk.ID}
		}
		out = append(out, SkillInstance{Skill: sk, Record: rec})
	}
	return out, nil
}

func engineInstances(in []SkillInstance) []scoring.Instance {
	out := make([]scoring.Instance, len(in))
	for i, si := range in {
		out[i] = si.Instance()
	}
	return out
}

// evaluate runs the readiness engine over instances.
func evaluate(cat *catalog.Catalog, in []SkillInstance) scoring.Readiness {
	var advancedID string
	if adv, ok := cat.AdvancedCategory(); ok {
		advancedID = adv.ID
	}
	return scoring.Evaluate(engineInstances(in), advancedID)
}
