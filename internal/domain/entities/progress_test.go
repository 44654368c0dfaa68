package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

func TestNewQuestionReviewStateIsDueImmediately(t *testing.T) {
	s := NewQuestionReviewState(t0)

	assert.Equal(t, DefaultEaseFactor, s.EaseFactor)
	assert.Equal(t, 1, s.IntervalDays)
	assert.True(t, s.IsDue(t0))
	assert.False(t, s.IsDue(t0.Add(-time.Second)))
}

func TestUpdateSRSIncorrectThenCorrect(t *testing.T) {
	s := NewQuestionReviewState(t0)

	s.UpdateSRS(false, t0)
	assert.InDelta(t, 2.3, s.EaseFactor, 1e-9)
	assert.Equal(t, 1, s.IntervalDays)
	assert.Equal(t, t0.AddDate(0, 0, 1), s.NextReviewAt)

	s.UpdateSRS(true, t0)
	assert.InDelta(t, 2.4, s.EaseFactor, 1e-9)
	assert.Equal(t, 2, s.IntervalDays)
	assert.Equal(t, t0.AddDate(0, 0, 2), s.NextReviewAt)

	assert.Equal(t, 2, s.TimesAnswered)
	assert.Equal(t, 1, s.TimesCorrect)
}

func TestUpdateSRSCorrectRunIsNonDecreasing(t *testing.T) {
	s := NewQuestionReviewState(t0)

	prev := s.IntervalDays
	for i := 0; i < 12; i++ {
		s.UpdateSRS(true, t0)
		require.GreaterOrEqual(t, s.IntervalDays, prev)
		prev = s.IntervalDays
	}
	assert.InDelta(t, MaxEaseFactor, s.EaseFactor, 1e-9)

	s.UpdateSRS(false, t0)
	assert.Equal(t, 1, s.IntervalDays)
}

func TestUpdateSRSLongCorrectStreakIsUnbounded(t *testing.T) {
	s := NewQuestionReviewState(t0)

	want := []int{3, 8, 22, 62, 180, 540, 1620, 4860}
	for i, interval := range want {
		s.UpdateSRS(true, t0)
		require.Equal(t, interval, s.IntervalDays, "answer %d", i+1)
		require.Equal(t, t0.AddDate(0, 0, interval), s.NextReviewAt)
	}
}

func TestUpdateSRSEaseStaysInBounds(t *testing.T) {
	patterns := map[string]func(i int) bool{
		"all correct":   func(int) bool { return true },
		"all incorrect": func(int) bool { return false },
		"alternating":   func(i int) bool { return i%2 == 0 },
		"two of three":  func(i int) bool { return i%3 != 0 },
	}

	for name, answer := range patterns {
		t.Run(name, func(t *testing.T) {
			s := NewQuestionReviewState(t0)
			for i := 0; i < 20; i++ {
				s.UpdateSRS(answer(i), t0)
				require.GreaterOrEqual(t, s.EaseFactor, MinEaseFactor)
				require.LessOrEqual(t, s.EaseFactor, MaxEaseFactor)
				require.GreaterOrEqual(t, s.IntervalDays, MinIntervalDays)
				require.LessOrEqual(t, s.TimesCorrect, s.TimesAnswered)
			}
		})
	}
}
