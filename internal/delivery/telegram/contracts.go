package telegram

import (
	"context"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
	"github.com/aliskhannn/concept-review-bot/internal/service"
)

type ContentService interface {
	GetChapters(ctx context.Context) ([]*entities.Chapter, error)
	GetChapter(ctx context.Context, id string) (*entities.Chapter, error)
	GetConcept(ctx context.Context, id string) (*entities.Chapter, *entities.Concept, error)
}

type LearnerService interface {
	Engine(ctx context.Context, learnerID int64) (*service.Engine, bool)
}

type SyncService interface {
	Push(ctx context.Context, e *service.Engine)
}

type SessionStorage interface {
	Store(session *entities.QuizSession)
	Get(learnerID int64, sessionID string) (*entities.QuizSession, bool)
	Active(learnerID int64) (*entities.QuizSession, bool)
	Delete(learnerID int64)
}
