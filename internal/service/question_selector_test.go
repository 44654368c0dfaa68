package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

func TestSessionConfigDefaults(t *testing.T) {
	cfg := SessionConfig{}.withDefaults()
	assert.Equal(t, DefaultSessionSize, cfg.Size)
	assert.Equal(t, DefaultMaxNewConcepts, cfg.MaxNewConcepts)

	cfg = SessionConfig{Size: 3, MaxNewConcepts: -1}.withDefaults()
	assert.Equal(t, 3, cfg.Size)
	assert.Equal(t, 0, cfg.MaxNewConcepts)
}

func TestBuildStudySessionCapsNewConcepts(t *testing.T) {
	ch := chapter("ch1", concept("c1"), concept("c2"), concept("c3"), concept("c4"),
		concept("c5"), concept("c6"), concept("c7"), concept("c8"))
	sel, _ := newTestSelector(newMemProfileRepository(), 1)

	questions := sel.BuildStudySession([]*entities.Chapter{ch}, SessionConfig{Size: 10, MaxNewConcepts: 3})

	require.Len(t, questions, 3)
	var ids []string
	for _, q := range questions {
		assert.Equal(t, entities.Level1, q.Level)
		assert.False(t, q.InProgress)
		assert.False(t, q.SRDue)
		assert.Len(t, q.Choices, 4)
		ids = append(ids, q.ConceptID)
	}
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, ids)
}

func TestBuildStudySessionRespectsSize(t *testing.T) {
	ch := chapter("ch1", concept("c1"), concept("c2"), concept("c3"), concept("c4"),
		concept("c5"), concept("c6"), concept("c7"), concept("c8"))
	sel, _ := newTestSelector(newMemProfileRepository(), 1)

	questions := sel.BuildStudySession([]*entities.Chapter{ch}, SessionConfig{Size: 5, MaxNewConcepts: 8})

	assert.Len(t, questions, 5)
}

func TestBuildStudySessionOrdersByTier(t *testing.T) {
	repo := newMemProfileRepository()
	withProgress(repo, func(p *entities.LearnerProfile) {
		a := p.ConceptProgress("a")
		a.Level1 = passed(entities.Level1)
		a.Level2 = passed(entities.Level2)
		p.ReviewState(entities.ConceptQuestionKey("a", entities.Level1), t0.Add(-time.Hour))
		p.ReviewState(entities.ConceptQuestionKey("a", entities.Level2), t0.Add(48*time.Hour))

		p.ConceptProgress("b").Level1 = entities.LevelRecord{Attempts: 1, Correct: 0}
	})
	ch := chapter("ch1", concept("c"), concept("b"), concept("a"))

	for seed := int64(1); seed <= 10; seed++ {
		sel, _ := newTestSelector(repo, seed)

		questions := sel.BuildStudySession([]*entities.Chapter{ch}, SessionConfig{Size: 10})

		require.Equal(t, []entities.QuestionKey{"a_L1", "b_L1", "c_L1"}, keysOf(questions))
		assert.True(t, questions[0].SRDue)
		assert.True(t, questions[1].InProgress)
		assert.InDelta(t, 1.0, questions[1].Weakness, 1e-9)
		assert.False(t, questions[2].InProgress)
	}
}

func TestBuildStudySessionWeakerConceptsFirst(t *testing.T) {
	repo := newMemProfileRepository()
	withProgress(repo, func(p *entities.LearnerProfile) {
		p.ConceptProgress("strong").Level1 = entities.LevelRecord{Attempts: 2, Correct: 1}
		p.ConceptProgress("weak").Level1 = entities.LevelRecord{Attempts: 4, Correct: 1}
	})
	ch := chapter("ch1", concept("strong"), concept("weak"))

	for seed := int64(1); seed <= 10; seed++ {
		sel, _ := newTestSelector(repo, seed)

		questions := sel.BuildStudySession([]*entities.Chapter{ch}, SessionConfig{Size: 10})

		require.Len(t, questions, 2)
		assert.Equal(t, "weak", questions[0].ConceptID)
		assert.Equal(t, "strong", questions[1].ConceptID)
	}
}

func TestBuildStudySessionContinuesAtCurrentLevel(t *testing.T) {
	repo := newMemProfileRepository()
	withProgress(repo, func(p *entities.LearnerProfile) {
		p.ConceptProgress("c1").Level1 = passed(entities.Level1)
	})
	ch := chapter("ch1", concept("c1"), concept("c2"))
	sel, _ := newTestSelector(repo, 1)

	questions := sel.BuildStudySession([]*entities.Chapter{ch}, SessionConfig{Size: 10})

	require.Len(t, questions, 2)
	assert.Equal(t, entities.QuestionKey("c1_L2"), questions[0].Key)
	assert.Equal(t, "definition of c1", questions[0].Prompt)
	assert.Equal(t, "term c1", questions[0].CorrectAnswer())
	assert.Equal(t, "What is the best definition of term c2?", questions[1].Prompt)
}

func TestBuildStudySessionApplicationQuestions(t *testing.T) {
	repo := newMemProfileRepository()
	withProgress(repo, func(p *entities.LearnerProfile) {
		cp := p.ConceptProgress("c1")
		cp.Level1 = passed(entities.Level1)
		cp.Level2 = passed(entities.Level2)
	})
	ch := chapter("ch1", concept("c1", "q1", "q2"))
	ch.SupplementaryQuestions = []*entities.SupplementaryQuestion{
		application("q1", "c1"),
		application("q2", "c1"),
		application("q3", ""),
	}

	seen := make(map[entities.QuestionKey]bool)
	for seed := int64(1); seed <= 30; seed++ {
		sel, _ := newTestSelector(repo, seed)

		questions := sel.BuildStudySession([]*entities.Chapter{ch}, SessionConfig{Size: 10})

		require.Len(t, questions, 1)
		q := questions[0]
		assert.Equal(t, entities.Level3, q.Level)
		assert.Equal(t, []string{"first", "second", "third", "fourth"}, q.Choices)
		assert.Equal(t, 1, q.CorrectIndex)
		seen[q.Key] = true
	}

	assert.True(t, seen["L3_q1"])
	assert.True(t, seen["L3_q2"])
	assert.False(t, seen["L3_q3"], "unlinked questions are never scheduled")
}

func TestBuildStudySessionEmptyWhenNothingDue(t *testing.T) {
	repo := newMemProfileRepository()
	withProgress(repo, func(p *entities.LearnerProfile) {
		cp := p.ConceptProgress("c1")
		cp.Level1 = passed(entities.Level1)
		cp.Level2 = passed(entities.Level2)
		p.ReviewState(entities.ConceptQuestionKey("c1", entities.Level1), t0.Add(24*time.Hour))
		p.ReviewState(entities.ConceptQuestionKey("c1", entities.Level2), t0.Add(24*time.Hour))
	})
	ch := chapter("ch1", concept("c1"))
	sel, _ := newTestSelector(repo, 1)

	questions := sel.BuildStudySession([]*entities.Chapter{ch}, SessionConfig{Size: 10})

	assert.Empty(t, questions)
}

func TestBuildStudySessionExcludesSkipped(t *testing.T) {
	repo := newMemProfileRepository()
	withProgress(repo, func(p *entities.LearnerProfile) {
		p.ToggleSkip("c2")
	})
	ch := chapter("ch1", concept("c1"), concept("c2"), concept("c3"))
	sel, _ := newTestSelector(repo, 1)

	questions := sel.BuildStudySession([]*entities.Chapter{ch}, SessionConfig{Size: 10})

	assert.ElementsMatch(t, []entities.QuestionKey{"c1_L1", "c3_L1"}, keysOf(questions))
}

func TestBuildStudySessionSpansChapters(t *testing.T) {
	ch1 := chapter("ch1", concept("a1"), concept("a2"))
	ch2 := chapter("ch2", concept("b1"))
	sel, _ := newTestSelector(newMemProfileRepository(), 1)

	questions := sel.BuildStudySession([]*entities.Chapter{ch1, ch2}, SessionConfig{Size: 10})

	require.Len(t, questions, 3)
	for _, q := range questions {
		if q.ConceptID == "b1" {
			assert.Equal(t, "ch2", q.ChapterID)
		} else {
			assert.Equal(t, "ch1", q.ChapterID)
		}
	}
}

func examFixture() (*memProfileRepository, *entities.Chapter) {
	repo := newMemProfileRepository()
	withProgress(repo, func(p *entities.LearnerProfile) {
		a := p.ConceptProgress("a")
		a.Level1 = passed(entities.Level1)
		a.Level2 = passed(entities.Level2)
		a.Level3 = passed(entities.Level3)

		p.ConceptProgress("b").Level1 = passed(entities.Level1)
		p.ToggleSkip("skipped")
	})

	ch := chapter("ch1", concept("a", "qa"), concept("b"), concept("c"), concept("skipped"))
	ch.SupplementaryQuestions = []*entities.SupplementaryQuestion{application("qa", "a")}
	return repo, ch
}

func TestBuildExamSessionWholePool(t *testing.T) {
	repo, ch := examFixture()
	sel, _ := newTestSelector(repo, 1)

	questions := sel.BuildExamSession([]*entities.Chapter{ch}, 0)

	assert.ElementsMatch(t, []entities.QuestionKey{
		"a_L1", "a_L2", "L3_qa",
		"b_L1", "b_L2",
		"c_L1",
	}, keysOf(questions))
}

func TestBuildExamSessionTargetSize(t *testing.T) {
	repo, ch := examFixture()

	for seed := int64(1); seed <= 10; seed++ {
		sel, _ := newTestSelector(repo, seed)

		questions := sel.BuildExamSession([]*entities.Chapter{ch}, 4)

		require.Len(t, questions, 4)
		seen := make(map[entities.QuestionKey]bool)
		for _, q := range questions {
			assert.False(t, seen[q.Key], "duplicate question %s", q.Key)
			seen[q.Key] = true
		}
	}
}

func TestBuildExamSessionSmallPoolNoRepeats(t *testing.T) {
	repo, ch := examFixture()
	sel, _ := newTestSelector(repo, 1)

	questions := sel.BuildExamSession([]*entities.Chapter{ch}, 50)

	assert.Len(t, questions, 6)
}

func TestBuildExamSessionEmptyScope(t *testing.T) {
	sel, _ := newTestSelector(newMemProfileRepository(), 1)

	assert.Empty(t, sel.BuildExamSession(nil, 10))
	assert.Empty(t, sel.BuildStudySession(nil, SessionConfig{}))
}
