package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

// EngineConfig configures a study engine.
type EngineConfig struct {
	Session  SessionConfig
	ExamSize int
	Rand     Random           // defaults to a time-seeded source
	Now      func() time.Time // defaults to time.Now
}

// Engine composes the progress store, option generator, session builder and answer recorder
// of one learner. Its methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	store    *ProgressStore
	selector *QuestionSelector
	recorder *AnswerRecorder

	session  SessionConfig
	examSize int

	revision       uint64 // bumped by every mutation
	syncedRevision uint64 // revision of the last pushed snapshot
}

// NewEngine wires the components of a learner's engine. Call Load before use.
func NewEngine(learnerID int64, repository ProfileRepository, logger *zap.Logger, cfg EngineConfig) *Engine {
	rng := cfg.Rand
	if rng == nil {
		rng = NewRandom()
	}
	examSize := cfg.ExamSize
	if examSize <= 0 {
		examSize = DefaultExamSize
	}

	store := NewProgressStore(learnerID, repository, logger, cfg.Now)
	options := NewOptionGenerator(rng)

	return &Engine{
		store:    store,
		selector: NewQuestionSelector(store, options, rng),
		recorder: NewAnswerRecorder(store),
		session:  cfg.Session.withDefaults(),
		examSize: examSize,
	}
}

// Load reads the learner's persisted profile, falling back to defaults.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Load(ctx)
}

// LearnerID returns the id of the learner.
func (e *Engine) LearnerID() int64 {
	return e.store.LearnerID()
}

// SessionSize returns the configured study session size.
func (e *Engine) SessionSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Size
}

// SetSessionSize changes the study session size; non-positive values restore the default.
func (e *Engine) SetSessionSize(size int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Size = size
	e.session = e.session.withDefaults()
}

// BuildStudySession builds an adaptive study session with the engine's session config.
func (e *Engine) BuildStudySession(chapters []*entities.Chapter) []entities.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selector.BuildStudySession(chapters, e.session)
}

// BuildStudySessionWith builds an adaptive study session with an explicit config.
func (e *Engine) BuildStudySessionWith(chapters []*entities.Chapter, cfg SessionConfig) []entities.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selector.BuildStudySession(chapters, cfg)
}

// BuildExamSession builds an exam pool of at most target questions. A non-positive target uses
// the configured exam size.
func (e *Engine) BuildExamSession(chapters []*entities.Chapter, target int) []entities.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	if target <= 0 {
		target = e.examSize
	}
	return e.selector.BuildExamSession(chapters, target)
}

// RecordAnswer records an answer and returns whether it was correct.
func (e *Engine) RecordAnswer(ctx context.Context, q *entities.Question, chosenIndex int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	correct, err := e.recorder.RecordAnswer(ctx, q, chosenIndex)
	if err != nil {
		return correct, err
	}
	e.revision++
	return correct, nil
}

// ToggleSkip flips the skip state of a concept and returns the new state.
func (e *Engine) ToggleSkip(ctx context.Context, conceptID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	skipped, err := e.store.ToggleSkip(ctx, conceptID)
	if err == nil {
		e.revision++
	}
	return skipped, err
}

// IsSkipped reports whether the concept is skipped.
func (e *Engine) IsSkipped(conceptID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.IsSkipped(conceptID)
}

// ChapterStatistics returns completion statistics for a chapter.
func (e *Engine) ChapterStatistics(chapter *entities.Chapter) entities.ChapterStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ChapterStats(chapter)
}

// ChapterDetail returns the per-concept mastery view of a chapter.
func (e *Engine) ChapterDetail(chapter *entities.Chapter) entities.ChapterDetail {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ChapterDetail(chapter)
}

// OverallStatistics aggregates statistics across chapters.
func (e *Engine) OverallStatistics(chapters []*entities.Chapter) entities.OverallStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.OverallStats(chapters)
}

// ConceptLevel returns the current level of a concept, or LevelLearned.
func (e *Engine) ConceptLevel(concept *entities.Concept) entities.Level {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.CurrentLevel(concept)
}

// DisplayName returns the learner's display name.
func (e *Engine) DisplayName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.DisplayName()
}

// SetDisplayName updates the learner's display name.
func (e *Engine) SetDisplayName(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.SetDisplayName(ctx, name); err != nil {
		return err
	}
	e.revision++
	return nil
}

// Reset replaces the learner's profile with defaults.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Reset(ctx); err != nil {
		return err
	}
	e.revision++
	return nil
}

// Snapshot returns a deep copy of the learner's profile.
func (e *Engine) Snapshot() *entities.LearnerProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

// SyncPayload builds the snapshot pushed to the sync endpoint and the revision it reflects.
func (e *Engine) SyncPayload(chapters []*entities.Chapter) (*entities.SyncPayload, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return &entities.SyncPayload{
		StudentName:     e.store.DisplayName(),
		ChapterProgress: e.store.OverallStats(chapters).ChapterProgress,
		FullData:        e.store.Snapshot(),
	}, e.revision
}

// Merge folds a remote snapshot into the learner's profile.
func (e *Engine) Merge(ctx context.Context, remote *entities.LearnerProfile) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Merge(ctx, remote); err != nil {
		return err
	}
	e.revision++
	return nil
}

// IsDirty reports whether the profile changed since the last successful push.
func (e *Engine) IsDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revision != e.syncedRevision
}

// MarkSynced records a successful push of the snapshot taken at revision.
func (e *Engine) MarkSynced(ctx context.Context, at time.Time, revision uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.MarkSynced(ctx, at); err != nil {
		return err
	}
	e.syncedRevision = revision
	return nil
}
