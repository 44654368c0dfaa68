package entities

import (
	"math"
	"time"
)

// Spaced repetition bounds and steps.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 3.0
	EaseBonus         = 0.1
	EasePenalty       = 0.2
	MinIntervalDays   = 1
)

// QuestionReviewState stores the spaced repetition state of one question key.
type QuestionReviewState struct {
	EaseFactor    float64   `json:"easeFactor"`
	IntervalDays  int       `json:"interval"`
	NextReviewAt  time.Time `json:"nextReview"`
	TimesAnswered int       `json:"timesAnswered"`
	TimesCorrect  int       `json:"timesCorrect"`
}

// NewQuestionReviewState creates a state that is due immediately.
func NewQuestionReviewState(now time.Time) *QuestionReviewState {
	return &QuestionReviewState{
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: MinIntervalDays,
		NextReviewAt: now,
	}
}

// UpdateSRS applies a binary SM-2 step after an answer.
//
// A correct answer multiplies the interval by the current ease factor and raises the ease;
// an incorrect one resets the interval to a single day and lowers the ease.
func (s *QuestionReviewState) UpdateSRS(correct bool, now time.Time) {
	s.TimesAnswered++
	if correct {
		s.TimesCorrect++
		next := math.Round(float64(s.IntervalDays) * s.EaseFactor)
		s.IntervalDays = max(MinIntervalDays, int(next))
		s.EaseFactor = min(MaxEaseFactor, s.EaseFactor+EaseBonus)
	} else {
		s.IntervalDays = MinIntervalDays
		s.EaseFactor = max(MinEaseFactor, s.EaseFactor-EasePenalty)
	}

	s.NextReviewAt = now.AddDate(0, 0, s.IntervalDays)
}

// IsDue reports whether the question should be reviewed at now.
func (s *QuestionReviewState) IsDue(now time.Time) bool {
	return !now.Before(s.NextReviewAt)
}
