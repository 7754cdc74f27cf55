package scoring

// Status is the coarse three-state view of a skill used by list screens.
type Status string

const (
	StatusNotLearned Status = "not_learned"
	StatusInProgress Status = "in_progress"
	StatusMastered   Status = "mastered"
)

// MasteredThreshold is the lowest score that counts as mastered.
const MasteredThreshold = 4.0

// StatusFor maps a score onto the three-state status. This is the single
// place the mapping lives; callers must not compare scores against 4 on
// their own.
func StatusFor(score float64) Status {
	switch {
	case score <= 0:
		return StatusNotLearned
	case score >= MasteredThreshold:
		return StatusMastered
	default:
		return StatusInProgress
	}
}

// Label returns the display label for a status.
func (s Status) Label() string {
	switch s {
	case StatusNotLearned:
		return "Not learned"
	case StatusInProgress:
		return "In progress"
	case StatusMastered:
		return "Mastered"
	default:
		return "Unknown"
	}
}
