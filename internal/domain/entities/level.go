package entities

import "fmt"

// Level is a difficulty tier of a concept.
type Level int

const (
	LevelLearned Level = 0 // every applicable level is passed
	Level1       Level = 1 // term shown, pick the definition
	Level2       Level = 2 // definition shown, pick the term
	Level3       Level = 3 // apply the concept in a scenario question
)

// Pass thresholds: correct answers required to pass a level.
const (
	Level1PassThreshold = 2
	Level2PassThreshold = 2
	Level3PassThreshold = 1
)

// Threshold returns the number of correct answers needed to pass the level.
func (l Level) Threshold() int {
	switch l {
	case Level1:
		return Level1PassThreshold
	case Level2:
		return Level2PassThreshold
	case Level3:
		return Level3PassThreshold
	default:
		return 0
	}
}

// Label returns a human-readable level label.
func (l Level) Label() string {
	switch l {
	case Level1:
		return "Level 1 — Term Recognition"
	case Level2:
		return "Level 2 — Definition Recognition"
	case Level3:
		return "Level 3 — Application"
	default:
		return "Learned"
	}
}

// Valid reports whether l is one of the answerable levels.
func (l Level) Valid() bool {
	return l >= Level1 && l <= Level3
}

func (l Level) String() string {
	return fmt.Sprintf("L%d", int(l))
}
