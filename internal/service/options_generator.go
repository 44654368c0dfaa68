package service

import (
	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

const (
	// PlaceholderChoice pads the choices when a chapter has too few distinct distractors.
	PlaceholderChoice = "(no other option)"

	distractorCount = 3
)

// OptionGenerator generates multiple choice options for recognition questions.
type OptionGenerator struct {
	rng Random
}

// NewOptionGenerator creates a new option generator.
func NewOptionGenerator(rng Random) *OptionGenerator {
	return &OptionGenerator{rng: rng}
}

// GenerateOptions creates 4 choices for a Level 1 or Level 2 question about concept.
// Returns: options slice and the index of the correct answer (0-3).
func (g *OptionGenerator) GenerateOptions(
	chapter *entities.Chapter,
	concept *entities.Concept,
	level entities.Level,
) ([]string, int) {
	extract := answerExtractor(level)
	correctAnswer := extract(concept)

	pool := make([]*entities.Concept, 0, len(chapter.Concepts))
	for _, c := range chapter.Concepts {
		if c.ID != concept.ID {
			pool = append(pool, c)
		}
	}

	options := make([]string, 0, distractorCount+1)
	options = append(options, correctAnswer)
	options = append(options, g.pickDistractors(concept, pool, extract, correctAnswer)...)

	return options, g.shuffleTracking(options, 0)
}

// pickDistractors returns exactly distractorCount wrong answers: confusables first,
// then the rest of the pool, then placeholders.
func (g *OptionGenerator) pickDistractors(
	target *entities.Concept,
	pool []*entities.Concept,
	extract func(*entities.Concept) string,
	correctAnswer string,
) []string {
	wrongOptions := make([]string, 0, distractorCount)
	used := map[string]bool{correctAnswer: true}

	var preferred, rest []*entities.Concept
	for _, c := range pool {
		if target.IsConfusableWith(c.ID) {
			preferred = append(preferred, c)
		} else {
			rest = append(rest, c)
		}
	}

	for _, group := range [][]*entities.Concept{preferred, rest} {
		g.rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		for _, candidate := range group {
			if len(wrongOptions) >= distractorCount {
				break
			}

			optionText := extract(candidate)
			if used[optionText] {
				continue
			}
			used[optionText] = true
			wrongOptions = append(wrongOptions, optionText)
		}
	}

	for len(wrongOptions) < distractorCount {
		wrongOptions = append(wrongOptions, PlaceholderChoice)
	}

	return wrongOptions
}

// shuffleTracking shuffles options in place and returns the new position of the element at idx.
func (g *OptionGenerator) shuffleTracking(options []string, idx int) int {
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
		switch idx {
		case i:
			idx = j
		case j:
			idx = i
		}
	})
	return idx
}

func answerExtractor(level entities.Level) func(*entities.Concept) string {
	if level == entities.Level2 {
		return func(c *entities.Concept) string { return c.Term }
	}
	return func(c *entities.Concept) string { return c.Definition }
}
