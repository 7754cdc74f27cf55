// Package scoring turns per-skill scores into averages, coverage and a
// test-readiness verdict. Every function here is pure: no I/O, no shared
// state, and the input slice is never retained.
package scoring

const (
	// LowSkillThreshold: any rated skill strictly below it blocks readiness.
	LowSkillThreshold = 3.0

	// ReadyAvgThreshold is the minimum overall average (inclusive).
	ReadyAvgThreshold = 4.0

	// AdvancedAvgThreshold is the minimum advanced-maneuvers average (inclusive).
	AdvancedAvgThreshold = 4.0
)

// Instance is one skill for one student as seen by the engine. Only the
// owning category and the current score matter; a score of 0 means unrated.
type Instance struct {
	CategoryID string  `json:"category_id"`
	Score      float64 `json:"score"`
}

// Rated reports whether the instance has been scored at least once.
func (in Instance) Rated() bool {
	return in.Score > 0
}

// Readiness is the aggregate verdict for one student.
type Readiness struct {
	Ready          bool    `json:"ready"`
	Avg            float64 `json:"avg"`
	Percentage     float64 `json:"percentage"`
	HasLow         bool    `json:"has_low"`
	Cat4Avg        float64 `json:"cat4_avg"`
	Cat4Percentage float64 `json:"cat4_percentage"`
	Coverage       float64 `json:"coverage"`
}

// OverallAverage returns the mean score over rated instances, or 0 when
// nothing has been rated.
func OverallAverage(instances []Instance) float64 {
	return ratedMean(instances, func(Instance) bool { return true })
}

// CategoryAverage returns the mean score over rated instances belonging to
// categoryID, or 0 when none match.
func CategoryAverage(instances []Instance, categoryID string) float64 {
	return ratedMean(instances, func(in Instance) bool { return in.CategoryID == categoryID })
}

// Coverage returns the percentage of instances rated at least once.
func Coverage(instances []Instance) float64 {
	if len(instances) == 0 {
		return 0
	}
	rated := 0
	for _, in := range instances {
		if in.Rated() {
			rated++
		}
	}
	return float64(rated) / float64(len(instances)) * 100
}

// Evaluate computes the readiness verdict. advancedCategoryID names the
// advanced-maneuvers category; when empty, the advanced average is 0 and the
// student can never be ready.
func Evaluate(instances []Instance, advancedCategoryID string) Readiness {
	var (
		sum    float64
		count  int
		hasLow bool
	)
	for _, in := range instances {
		if !in.Rated() {
			continue
		}
		sum += in.Score
		count++
		if in.Score < LowSkillThreshold {
			hasLow = true
		}
	}

	if count == 0 {
		return Readiness{}
	}

	avg := sum / float64(count)

	var cat4 float64
	if advancedCategoryID != "" {
		cat4 = CategoryAverage(instances, advancedCategoryID)
	}

	return Readiness{
		Ready:          avg >= ReadyAvgThreshold && !hasLow && cat4 >= AdvancedAvgThreshold,
		Avg:            avg,
		Percentage:     ScoreToPercentage(avg),
		HasLow:         hasLow,
		Cat4Avg:        cat4,
		Cat4Percentage: ScoreToPercentage(cat4),
		Coverage:       Coverage(instances),
	}
}

func ratedMean(instances []Instance, keep func(Instance) bool) float64 {
	var sum float64
	count := 0
	for _, in := range instances {
		if !in.Rated() || !keep(in) {
			continue
		}
		sum += in.Score
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
