package entities

// LevelRecord counts attempts at a single level of a concept.
type LevelRecord struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

// Record registers one answer. Correct never exceeds Attempts.
func (r *LevelRecord) Record(correct bool) {
	r.Attempts++
	if correct {
		r.Correct++
	}
}

// ConceptProgress stores the mastery counters of one concept.
type ConceptProgress struct {
	Level1 LevelRecord `json:"level1"`
	Level2 LevelRecord `json:"level2"`
	Level3 LevelRecord `json:"level3"`
}

// NewConceptProgress creates empty progress for a concept.
func NewConceptProgress() *ConceptProgress {
	return &ConceptProgress{}
}

// Level returns the record for the given level, or nil for an unknown level.
func (p *ConceptProgress) Level(l Level) *LevelRecord {
	switch l {
	case Level1:
		return &p.Level1
	case Level2:
		return &p.Level2
	case Level3:
		return &p.Level3
	default:
		return nil
	}
}

// IsLevelPassed reports whether the level's correct count reached its threshold.
func (p *ConceptProgress) IsLevelPassed(l Level) bool {
	r := p.Level(l)
	if r == nil {
		return false
	}
	return r.Correct >= l.Threshold()
}

// CurrentLevel returns the first level that is not passed yet, or LevelLearned.
// Level 3 only exists when hasLevel3 is true.
func (p *ConceptProgress) CurrentLevel(hasLevel3 bool) Level {
	switch {
	case !p.IsLevelPassed(Level1):
		return Level1
	case !p.IsLevelPassed(Level2):
		return Level2
	case hasLevel3 && !p.IsLevelPassed(Level3):
		return Level3
	default:
		return LevelLearned
	}
}

// IsStarted reports whether the learner has attempted Level 1 at least once.
func (p *ConceptProgress) IsStarted() bool {
	return p.Level1.Attempts > 0
}

// Totals sums attempts and correct answers across all levels.
func (p *ConceptProgress) Totals() (attempts, correct int) {
	attempts = p.Level1.Attempts + p.Level2.Attempts + p.Level3.Attempts
	correct = p.Level1.Correct + p.Level2.Correct + p.Level3.Correct
	return attempts, correct
}

// Trouble spot thresholds.
const (
	TroubleSpotMinAttempts = 3
	TroubleSpotMaxAccuracy = 0.5
)

// IsTroubleSpot reports whether the concept was answered often enough with mostly wrong answers.
func (p *ConceptProgress) IsTroubleSpot() bool {
	attempts, correct := p.Totals()
	return attempts >= TroubleSpotMinAttempts && float64(correct)/float64(attempts) < TroubleSpotMaxAccuracy
}

// WeaknessScore is the error rate across all levels, 0 when nothing was attempted.
func (p *ConceptProgress) WeaknessScore() float64 {
	attempts, correct := p.Totals()
	if attempts == 0 {
		return 0
	}
	return float64(attempts-correct) / float64(attempts)
}
