package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
	"github.com/aliskhannn/concept-review-bot/internal/repository"
)

var t0 = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

const testLearner int64 = 1

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// memProfileRepository is an in-memory ProfileRepository with injectable failures.
type memProfileRepository struct {
	mu       sync.Mutex
	profiles map[int64]*entities.LearnerProfile
	events   []entities.AnswerEvent
	saves    int
	loadErr  error
	saveErr  error
}

func newMemProfileRepository() *memProfileRepository {
	return &memProfileRepository{profiles: make(map[int64]*entities.LearnerProfile)}
}

func (r *memProfileRepository) Load(_ context.Context, learnerID int64) (*entities.LearnerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return nil, r.loadErr
	}
	p, ok := r.profiles[learnerID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (r *memProfileRepository) Save(_ context.Context, learnerID int64, profile *entities.LearnerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	r.profiles[learnerID] = profile.Clone()
	r.saves++
	return nil
}

func (r *memProfileRepository) SaveAnswer(
	ctx context.Context,
	learnerID int64,
	profile *entities.LearnerProfile,
	event *entities.AnswerEvent,
) error {
	if err := r.Save(ctx, learnerID, profile); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *memProfileRepository) stored(learnerID int64) *entities.LearnerProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[learnerID]
}

// memContentRepository serves a fixed set of chapters.
type memContentRepository struct {
	chapters []*entities.Chapter
}

func (r *memContentRepository) GetChapters(context.Context) ([]*entities.Chapter, error) {
	return r.chapters, nil
}

func (r *memContentRepository) GetChapter(_ context.Context, id string) (*entities.Chapter, error) {
	for _, ch := range r.chapters {
		if ch.ID == id {
			return ch, nil
		}
	}
	return nil, repository.ErrChapterNotFound
}

func newTestStore(repo *memProfileRepository) *ProgressStore {
	s := NewProgressStore(testLearner, repo, zap.NewNop(), fixedClock(t0))
	s.Load(context.Background())
	return s
}

func newTestSelector(repo *memProfileRepository, seed int64) (*QuestionSelector, *ProgressStore) {
	store := newTestStore(repo)
	rng := NewSeededRandom(seed)
	return NewQuestionSelector(store, NewOptionGenerator(rng), rng), store
}

func concept(id string, level3 ...string) *entities.Concept {
	return &entities.Concept{
		ID:                id,
		Term:              "term " + id,
		Definition:        "definition of " + id,
		Level3QuestionIDs: level3,
	}
}

func chapter(id string, concepts ...*entities.Concept) *entities.Chapter {
	return &entities.Chapter{ID: id, Name: "Chapter " + id, Concepts: concepts}
}

func application(id, conceptID string) *entities.SupplementaryQuestion {
	return &entities.SupplementaryQuestion{
		ID:              id,
		Prompt:          "Which scenario applies " + conceptID + "?",
		Choices:         []string{"first", "second", "third", "fourth"},
		CorrectIndex:    1,
		LinkedConceptID: conceptID,
	}
}

// withProgress stores a profile for testLearner built by fn.
func withProgress(repo *memProfileRepository, fn func(p *entities.LearnerProfile)) {
	p := entities.NewLearnerProfile()
	fn(p)
	repo.profiles[testLearner] = p
}

func passed(l entities.Level) entities.LevelRecord {
	return entities.LevelRecord{Attempts: l.Threshold(), Correct: l.Threshold()}
}

func keysOf(questions []entities.Question) []entities.QuestionKey {
	keys := make([]entities.QuestionKey, 0, len(questions))
	for _, q := range questions {
		keys = append(keys, q.Key)
	}
	return keys
}
