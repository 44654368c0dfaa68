package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

func TestParseScopeArgs(t *testing.T) {
	tests := []struct {
		args    string
		chapter string
		count   int
		ok      bool
	}{
		{"", "", 0, true},
		{"all", "", 0, true},
		{"ch1", "ch1", 0, true},
		{"ch1 20", "ch1", 20, true},
		{"all 5", "", 5, true},
		{"ch1 zero", "", 0, false},
		{"ch1 0", "", 0, false},
		{"a b c", "", 0, false},
	}

	for _, tt := range tests {
		chapter, count, ok := parseScopeArgs(tt.args)
		assert.Equal(t, tt.ok, ok, tt.args)
		assert.Equal(t, tt.chapter, chapter, tt.args)
		assert.Equal(t, tt.count, count, tt.args)
	}
}

func TestFormatQuestionEscapesMarkdown(t *testing.T) {
	q := &entities.Question{
		Level:   entities.Level1,
		Prompt:  "What is the best definition of CPU (central processing unit)?",
		Choices: []string{"Executes instructions.", "Stores files", "(no other option)"},
	}

	text := formatQuestion(q, 1, 10)

	assert.Contains(t, text, "Question 1 of 10")
	assert.Contains(t, text, `\(central processing unit\)`)
	assert.Contains(t, text, `*A\.* Executes instructions\.`)
	assert.Contains(t, text, `*C\.* \(no other option\)`)
}

func TestFormatSessionResult(t *testing.T) {
	s := &entities.QuizSession{
		Mode:           entities.SessionModeExam,
		Questions:      make([]entities.Question, 4),
		CorrectAnswers: 3,
	}

	text := formatSessionResult(s)
	assert.Contains(t, text, "Exam complete")
	assert.Contains(t, text, "3/4 \\(75%\\)")
}

func TestBuildProgressBar(t *testing.T) {
	assert.Equal(t, "[░░░░]", buildProgressBar(0, 0, 4))
	assert.Equal(t, "[██░░]", buildProgressBar(1, 2, 4))
	assert.Equal(t, "[████]", buildProgressBar(5, 2, 4))
}

func TestChoiceLabel(t *testing.T) {
	assert.Equal(t, "A", choiceLabel(0))
	assert.Equal(t, "D", choiceLabel(3))
}

func chapterDetailFixture() entities.ChapterDetail {
	mux := &entities.Concept{ID: "c1", Term: "Multiplexer", Level3QuestionIDs: []string{"q1"}}
	bus := &entities.Concept{ID: "c2", Term: "Bus"}
	reg := &entities.Concept{ID: "c3", Term: "Register"}

	return entities.ChapterDetail{
		Chapter: &entities.Chapter{ID: "ch1", Name: "Hardware", Concepts: []*entities.Concept{mux, bus, reg}},
		Stats: entities.ChapterStats{
			ChapterID: "ch1", TotalConcepts: 2, LearnedCount: 1, SkippedCount: 1,
			LevelsPassed: 3, LevelsTotal: 5, PercentComplete: 60,
		},
		Concepts: []entities.ConceptStatus{
			{
				Concept: mux, CurrentLevel: entities.Level2, MaxLevel: entities.Level3,
				Passed:       map[entities.Level]bool{entities.Level1: true},
				TroubleSpot:  true,
				ConfusedWith: []string{"Bus (shared)"},
			},
			{
				Concept: bus, CurrentLevel: entities.LevelLearned, MaxLevel: entities.Level2,
				Passed:  map[entities.Level]bool{entities.Level1: true, entities.Level2: true},
				Learned: true,
			},
			{
				Concept: reg, CurrentLevel: entities.Level1, MaxLevel: entities.Level2,
				Passed:  map[entities.Level]bool{},
				Skipped: true,
			},
		},
	}
}

func TestFormatChapterDetail(t *testing.T) {
	text := formatChapterDetail(chapterDetailFixture())

	assert.Contains(t, text, "3 of 5 levels passed · 1 of 2 concepts mastered")
	assert.Contains(t, text, "1 term skipped")
	assert.Contains(t, text, "🟢🟡⚪ *Multiplexer* ❗")
	assert.Contains(t, text, `Often confused with: Bus \(shared\)`)
	assert.Contains(t, text, "🟢🟢 *Bus*")
	assert.Contains(t, text, "🟡⚪ ~Register~ _skipped_")
}

func TestFormatChapterDetailAllMastered(t *testing.T) {
	detail := chapterDetailFixture()
	detail.Stats.LearnedCount = detail.Stats.TotalConcepts

	assert.Contains(t, formatChapterDetail(detail), "All 2 concepts mastered\\!")
}
