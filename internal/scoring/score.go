package scoring

import (
	"errors"
	"fmt"
)

// Score is a skill rating on the 0-5 ladder.
//
// Zero is the "not yet rated" sentinel, not the lowest proficiency: a skill
// the student has never practiced carries score 0 and is excluded from every
// average. 1 through 5 form the proficiency ladder.
type Score int

const (
	Unrated  Score = 0
	MinScore Score = 1
	MaxScore Score = 5
)

// ErrScoreOutOfRange is returned by ParseScore for values outside [0, 5].
var ErrScoreOutOfRange = errors.New("score out of range")

// ParseScore validates a raw integer rating coming from outside the engine
// (CLI arguments, HTTP payloads, catalog files).
func ParseScore(v int) (Score, error) {
	s := Score(v)
	if !s.Valid() {
		return Unrated, fmt.Errorf("%w: %d (want %d..%d)", ErrScoreOutOfRange, v, Unrated, MaxScore)
	}
	return s, nil
}

// Valid reports whether s lies in [0, 5].
func (s Score) Valid() bool {
	return s >= Unrated && s <= MaxScore
}

// Rated reports whether s carries a real rating.
func (s Score) Rated() bool {
	return s > Unrated
}

// clamp pulls s into [0, 5].
func (s Score) clamp() Score {
	if s < Unrated {
		return Unrated
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
