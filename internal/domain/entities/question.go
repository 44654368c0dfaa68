package entities

import "fmt"

// QuestionKey identifies the spaced repetition state of a question.
type QuestionKey string

// ConceptQuestionKey returns the key of a recognition question for a concept level.
func ConceptQuestionKey(conceptID string, level Level) QuestionKey {
	return QuestionKey(fmt.Sprintf("%s_L%d", conceptID, int(level)))
}

// SupplementaryQuestionKey returns the key of a Level 3 question.
func SupplementaryQuestionKey(questionID string) QuestionKey {
	return QuestionKey("L3_" + questionID)
}

// Question is a multiple-choice question ready to be presented.
type Question struct {
	Key          QuestionKey
	ConceptID    string
	ChapterID    string
	Level        Level
	Prompt       string
	Choices      []string // multiple choice
	CorrectIndex int

	SRDue      bool    // surfaced by spaced repetition
	InProgress bool    // concept already started
	Weakness   float64 // error rate of the concept across levels
}

// CorrectAnswer returns the text of the correct choice.
func (q *Question) CorrectAnswer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return ""
	}
	return q.Choices[q.CorrectIndex]
}

// IsCorrect reports whether the chosen index is the correct one.
func (q *Question) IsCorrect(chosenIndex int) bool {
	return chosenIndex == q.CorrectIndex
}
