// Package entities contains domain entities used across the application.
package entities

// Concept is a single term/definition pair a learner is tested on.
type Concept struct {
	ID                string   `json:"id"`                  // stable concept id, e.g. "ch01_c03"
	Term              string   `json:"term"`                // term shown in Level 1 questions
	Definition        string   `json:"definition"`          // definition shown in Level 2 questions
	ConfusableIDs     []string `json:"confusable_ids"`      // ids of concepts that are easy to mix up with this one
	Level3QuestionIDs []string `json:"level3_question_ids"` // supplementary questions that apply this concept
}

// HasLevel3 reports whether the concept has any application questions.
func (c *Concept) HasLevel3() bool {
	return len(c.Level3QuestionIDs) > 0
}

// MaxLevel returns the highest level available for the concept.
func (c *Concept) MaxLevel() Level {
	if c.HasLevel3() {
		return Level3
	}
	return Level2
}

// IsConfusableWith reports whether id is listed among the concept's confusables.
func (c *Concept) IsConfusableWith(id string) bool {
	for _, cid := range c.ConfusableIDs {
		if cid == id {
			return true
		}
	}
	return false
}

// SupplementaryQuestion is a pre-authored multiple-choice question.
type SupplementaryQuestion struct {
	ID              string   `json:"id"`
	Prompt          string   `json:"question"`
	Choices         []string `json:"choices"`
	CorrectIndex    int      `json:"correct"`
	LinkedConceptID string   `json:"linked_concept_id,omitempty"`
}

// Chapter groups concepts and their supplementary questions.
type Chapter struct {
	ID                     string                   `json:"id"`
	Name                   string                   `json:"name"`
	Order                  int                      `json:"order"`
	Concepts               []*Concept               `json:"concepts"`
	SupplementaryQuestions []*SupplementaryQuestion `json:"chapter_questions"`
}

// Question returns the supplementary question with the given id, or nil.
func (ch *Chapter) Question(id string) *SupplementaryQuestion {
	for _, q := range ch.SupplementaryQuestions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// Concept returns the concept with the given id, or nil.
func (ch *Chapter) Concept(id string) *Concept {
	for _, c := range ch.Concepts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ChapterMeta is a single entry of the corpus manifest.
type ChapterMeta struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}
