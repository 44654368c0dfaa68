package service

import (
	"context"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

// ContentRepository provides read-only access to the study corpus.
type ContentRepository interface {
	GetChapters(ctx context.Context) ([]*entities.Chapter, error)
	GetChapter(ctx context.Context, id string) (*entities.Chapter, error)
}

// ProfileRepository persists learner profiles. Every call must be atomic.
type ProfileRepository interface {
	Load(ctx context.Context, learnerID int64) (*entities.LearnerProfile, error)
	Save(ctx context.Context, learnerID int64, profile *entities.LearnerProfile) error
	SaveAnswer(ctx context.Context, learnerID int64, profile *entities.LearnerProfile, event *entities.AnswerEvent) error
}

// SyncClient exchanges profile snapshots with a remote endpoint.
type SyncClient interface {
	Push(ctx context.Context, learnerID int64, payload *entities.SyncPayload) error
	Pull(ctx context.Context, learnerID int64) (*entities.LearnerProfile, error)
}
