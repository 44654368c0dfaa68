package entities

// ChapterStats summarises a learner's progress in one chapter. Skipped concepts are excluded.
type ChapterStats struct {
	ChapterID       string
	TotalConcepts   int
	StartedCount    int
	LearnedCount    int
	SkippedCount    int
	LevelsPassed    int
	LevelsTotal     int
	PercentComplete int
}

// IsComplete reports whether every non-skipped concept in the chapter is learned.
func (s ChapterStats) IsComplete() bool {
	return s.TotalConcepts > 0 && s.LearnedCount == s.TotalConcepts
}

// OverallStats summarises progress across several chapters.
type OverallStats struct {
	LearnedCount    int
	ChapterProgress map[string]int // chapter id -> percent complete
}

// SyncPayload is the snapshot pushed to the remote sync endpoint.
type SyncPayload struct {
	StudentName     string          `json:"studentName"`
	ChapterProgress map[string]int  `json:"chapterProgress"`
	FullData        *LearnerProfile `json:"fullData"`
}

// ConceptStatus is the per-concept view of a chapter.
type ConceptStatus struct {
	Concept      *Concept
	CurrentLevel Level // LevelLearned once every level is passed
	MaxLevel     Level
	Passed       map[Level]bool
	Learned      bool
	Skipped      bool
	TroubleSpot  bool
	ConfusedWith []string // terms of confusable concepts in the same chapter
}

// ChapterDetail lists every concept of a chapter with its mastery state.
type ChapterDetail struct {
	Chapter  *Chapter
	Stats    ChapterStats
	Concepts []ConceptStatus
}
