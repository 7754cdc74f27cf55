package scoring

import "math"

// Level is the presentation entry for a single score value.
type Level struct {
	Score       Score  `json:"score"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
	BgColor     string `json:"bg_color"`
}

// levels is indexed by score.
var levels = [MaxScore + 1]Level{
	{Score: 0, Label: "Not rated", Description: "Not practiced yet", Color: "#6B7280", BgColor: "#F3F4F6"},
	{Score: 1, Label: "Beginner", Description: "Needs full instructor guidance", Color: "#DC2626", BgColor: "#FEE2E2"},
	{Score: 2, Label: "Basic", Description: "Performs with frequent corrections", Color: "#EA580C", BgColor: "#FFEDD5"},
	{Score: 3, Label: "Fair", Description: "Performs with occasional corrections", Color: "#CA8A04", BgColor: "#FEF9C3"},
	{Score: 4, Label: "Good", Description: "Performs independently and safely", Color: "#16A34A", BgColor: "#DCFCE7"},
	{Score: 5, Label: "Excellent", Description: "Test standard, consistently", Color: "#047857", BgColor: "#D1FAE5"},
}

// LevelFor returns the presentation level for s. Out-of-range scores are
// clamped into [0, 5]: negative values map to "Not rated" and values above
// five map to "Excellent".
func LevelFor(s Score) Level {
	return levels[s.clamp()]
}

// AllLevels returns the six levels in ascending score order.
func AllLevels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels[:])
	return out
}

// ScoreToPercentage maps a 0-5 value onto 0-100, rounded to a whole percent.
// Fractional inputs (category and overall averages) scale linearly; they are
// not snapped to the nearest level.
func ScoreToPercentage(score float64) float64 {
	return math.Round(score / float64(MaxScore) * 100)
}
