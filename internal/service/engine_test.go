package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

func newTestEngine(repo *memProfileRepository, cfg EngineConfig) *Engine {
	cfg.Rand = NewSeededRandom(1)
	cfg.Now = fixedClock(t0)
	e := NewEngine(testLearner, repo, zap.NewNop(), cfg)
	e.Load(context.Background())
	return e
}

func TestEngineSessionSize(t *testing.T) {
	e := newTestEngine(newMemProfileRepository(), EngineConfig{})
	assert.Equal(t, DefaultSessionSize, e.SessionSize())

	e.SetSessionSize(3)
	assert.Equal(t, 3, e.SessionSize())

	chapters := []*entities.Chapter{chapter("ch1", concept("c1"), concept("c2"), concept("c3"), concept("c4"))}
	assert.Len(t, e.BuildStudySession(chapters), 3)

	e.SetSessionSize(0)
	assert.Equal(t, DefaultSessionSize, e.SessionSize())
}

func TestEngineBuildStudySessionWith(t *testing.T) {
	e := newTestEngine(newMemProfileRepository(), EngineConfig{})
	chapters := []*entities.Chapter{chapter("ch1", concept("c1"), concept("c2"), concept("c3"))}

	questions := e.BuildStudySessionWith(chapters, SessionConfig{Size: 10, MaxNewConcepts: 1})

	assert.Len(t, questions, 1)
}

func TestEngineExamUsesConfiguredSize(t *testing.T) {
	e := newTestEngine(newMemProfileRepository(), EngineConfig{ExamSize: 2})
	chapters := []*entities.Chapter{chapter("ch1", concept("c1"), concept("c2"), concept("c3"))}

	assert.Len(t, e.BuildExamSession(chapters, 0), 2)
	assert.Len(t, e.BuildExamSession(chapters, 3), 3)
}

func TestEngineDirtyTracking(t *testing.T) {
	repo := newMemProfileRepository()
	e := newTestEngine(repo, EngineConfig{})
	ctx := context.Background()
	chapters := []*entities.Chapter{chapter("ch1", concept("c1"))}

	assert.False(t, e.IsDirty())

	_, err := e.RecordAnswer(ctx, l1Question("c1"), 2)
	require.NoError(t, err)
	assert.True(t, e.IsDirty())

	payload, revision := e.SyncPayload(chapters)
	assert.Equal(t, 25, payload.ChapterProgress["ch1"])
	require.NotNil(t, payload.FullData)
	assert.Equal(t, 1, payload.FullData.Concepts["c1"].Level1.Correct)

	// An answer recorded while the push is in flight keeps the learner dirty.
	_, err = e.RecordAnswer(ctx, l1Question("c1"), 0)
	require.NoError(t, err)

	require.NoError(t, e.MarkSynced(ctx, t0, revision))
	assert.True(t, e.IsDirty())

	_, revision = e.SyncPayload(chapters)
	require.NoError(t, e.MarkSynced(ctx, t0, revision))
	assert.False(t, e.IsDirty())
	require.NotNil(t, repo.stored(testLearner).LastSyncAt)
}

func TestEngineFailedWriteIsNotDirty(t *testing.T) {
	repo := newMemProfileRepository()
	e := newTestEngine(repo, EngineConfig{})
	repo.saveErr = errDiskFull

	_, err := e.RecordAnswer(context.Background(), l1Question("c1"), 2)
	require.Error(t, err)
	assert.False(t, e.IsDirty())
}

func TestEngineProfileOperations(t *testing.T) {
	repo := newMemProfileRepository()
	e := newTestEngine(repo, EngineConfig{})
	ctx := context.Background()
	c := concept("c1")
	ch := chapter("ch1", c)

	require.NoError(t, e.SetDisplayName(ctx, "ada"))
	assert.Equal(t, "ada", e.DisplayName())

	skipped, err := e.ToggleSkip(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.True(t, e.IsSkipped("c1"))
	assert.Equal(t, 1, e.ChapterStatistics(ch).SkippedCount)

	assert.Equal(t, entities.Level1, e.ConceptLevel(c))
	assert.Equal(t, 0, e.OverallStatistics([]*entities.Chapter{ch}).LearnedCount)

	require.NoError(t, e.Reset(ctx))
	assert.Empty(t, e.DisplayName())
	assert.False(t, e.IsSkipped("c1"))
	assert.Empty(t, e.Snapshot().Skipped)
}
