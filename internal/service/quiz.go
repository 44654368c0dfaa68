package service

import (
	"context"
	"errors"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

var ErrInvalidAnswer = errors.New("invalid answer")

// AnswerRecorder is the single write path for answers.
type AnswerRecorder struct {
	store *ProgressStore
}

// NewAnswerRecorder creates a new AnswerRecorder.
func NewAnswerRecorder(store *ProgressStore) *AnswerRecorder {
	return &AnswerRecorder{store: store}
}

// RecordAnswer checks the chosen index and updates mastery counters and review state together.
// Returns whether the answer was correct.
func (r *AnswerRecorder) RecordAnswer(ctx context.Context, q *entities.Question, chosenIndex int) (bool, error) {
	if q == nil || !q.Level.Valid() || q.ConceptID == "" || q.Key == "" {
		return false, ErrInvalidAnswer
	}
	if chosenIndex < 0 || chosenIndex >= len(q.Choices) {
		return false, ErrInvalidAnswer
	}

	return r.store.RecordAnswer(ctx, q, chosenIndex)
}
