package service

import (
	"math"
	"sort"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

// Session sizing defaults.
const (
	DefaultSessionSize    = 10
	DefaultMaxNewConcepts = 5
	DefaultExamSize       = 50
)

// Priority tiers, lower is presented first.
const (
	tierSRDue      = 0
	tierInProgress = 1
	tierNew        = 2

	weaknessWeight = 0.1
	tieTolerance   = 0.01
)

// SessionConfig controls the size of adaptive study sessions.
type SessionConfig struct {
	Size           int // questions per session
	MaxNewConcepts int // concepts introduced for the first time per session
}

// withDefaults fills zero values with the defaults.
func (c SessionConfig) withDefaults() SessionConfig {
	if c.Size <= 0 {
		c.Size = DefaultSessionSize
	}
	if c.MaxNewConcepts < 0 {
		c.MaxNewConcepts = 0
	} else if c.MaxNewConcepts == 0 {
		c.MaxNewConcepts = DefaultMaxNewConcepts
	}
	return c
}

// QuestionSelector builds study and exam sessions from the learner's progress.
type QuestionSelector struct {
	store   *ProgressStore
	options *OptionGenerator
	rng     Random
}

// NewQuestionSelector creates a new QuestionSelector.
func NewQuestionSelector(store *ProgressStore, options *OptionGenerator, rng Random) *QuestionSelector {
	return &QuestionSelector{
		store:   store,
		options: options,
		rng:     rng,
	}
}

// BuildStudySession selects the next questions for adaptive study.
// Spaced repetition reviews come first, then concepts in progress, then new concepts;
// inside a tier weaker concepts come first. An empty result means nothing is left to study now.
func (s *QuestionSelector) BuildStudySession(chapters []*entities.Chapter, cfg SessionConfig) []entities.Question {
	cfg = cfg.withDefaults()

	var candidates []entities.Question
	newConcepts := 0

	for _, chapter := range chapters {
		for _, concept := range chapter.Concepts {
			if s.store.IsSkipped(concept.ID) {
				continue
			}

			started := s.store.IsStarted(concept)

			switch level := s.store.CurrentLevel(concept); level {
			case entities.LevelLearned:
				candidates = append(candidates, s.dueReviews(chapter, concept)...)

			case entities.Level1, entities.Level2:
				if !started {
					if newConcepts >= cfg.MaxNewConcepts {
						continue
					}
					newConcepts++
				}
				q := s.recognitionQuestion(chapter, concept, level)
				q.InProgress = started
				candidates = append(candidates, q)

			case entities.Level3:
				q, ok := s.randomApplicationQuestion(chapter, concept)
				if !ok {
					continue
				}
				q.InProgress = true
				candidates = append(candidates, q)
			}
		}
	}

	for i := range candidates {
		candidates[i].Weakness = s.store.ConceptProgress(candidates[i].ConceptID).WeaknessScore()
	}

	s.sortByPriority(candidates)

	return takeFirst(candidates, cfg.Size)
}

// BuildExamSession builds a shuffled pool with one question per reached level of every concept.
// Learned concepts contribute every level they have. A non-positive target returns the whole pool;
// a pool smaller than the target is returned as is, without repeats.
func (s *QuestionSelector) BuildExamSession(chapters []*entities.Chapter, target int) []entities.Question {
	var pool []entities.Question

	for _, chapter := range chapters {
		for _, concept := range chapter.Concepts {
			if s.store.IsSkipped(concept.ID) {
				continue
			}

			maxLevel := s.store.CurrentLevel(concept)
			if maxLevel == entities.LevelLearned {
				maxLevel = concept.MaxLevel()
			}
			started := s.store.IsStarted(concept)

			for lvl := entities.Level1; lvl <= maxLevel; lvl++ {
				var (
					q  entities.Question
					ok = true
				)
				if lvl == entities.Level3 {
					q, ok = s.randomApplicationQuestion(chapter, concept)
				} else {
					q = s.recognitionQuestion(chapter, concept, lvl)
				}
				if !ok {
					continue
				}
				q.InProgress = started
				pool = append(pool, q)
			}
		}
	}

	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if target <= 0 {
		return pool
	}
	return takeFirst(pool, target)
}

// dueReviews returns the review questions of a learned concept whose keys are due.
func (s *QuestionSelector) dueReviews(chapter *entities.Chapter, concept *entities.Concept) []entities.Question {
	var out []entities.Question

	for _, lvl := range []entities.Level{entities.Level1, entities.Level2} {
		if !s.store.IsDue(entities.ConceptQuestionKey(concept.ID, lvl)) {
			continue
		}
		q := s.recognitionQuestion(chapter, concept, lvl)
		q.SRDue = true
		q.InProgress = true
		out = append(out, q)
	}

	for _, id := range concept.Level3QuestionIDs {
		if !s.store.IsDue(entities.SupplementaryQuestionKey(id)) {
			continue
		}
		data := chapter.Question(id)
		if data == nil {
			continue
		}
		q := applicationQuestion(chapter, concept, data)
		q.SRDue = true
		q.InProgress = true
		out = append(out, q)
	}

	return out
}

// recognitionQuestion synthesizes a Level 1 or Level 2 question with generated distractors.
func (s *QuestionSelector) recognitionQuestion(
	chapter *entities.Chapter,
	concept *entities.Concept,
	level entities.Level,
) entities.Question {
	options, correctIndex := s.options.GenerateOptions(chapter, concept, level)

	prompt := concept.Definition
	if level == entities.Level1 {
		prompt = "What is the best definition of " + concept.Term + "?"
	}

	return entities.Question{
		Key:          entities.ConceptQuestionKey(concept.ID, level),
		ConceptID:    concept.ID,
		ChapterID:    chapter.ID,
		Level:        level,
		Prompt:       prompt,
		Choices:      options,
		CorrectIndex: correctIndex,
	}
}

// randomApplicationQuestion picks one Level 3 question of the concept uniformly at random.
func (s *QuestionSelector) randomApplicationQuestion(
	chapter *entities.Chapter,
	concept *entities.Concept,
) (entities.Question, bool) {
	ids := concept.Level3QuestionIDs
	if len(ids) == 0 {
		return entities.Question{}, false
	}

	data := chapter.Question(ids[s.rng.Intn(len(ids))])
	if data == nil {
		return entities.Question{}, false
	}

	return applicationQuestion(chapter, concept, data), true
}

// applicationQuestion wraps a pre-authored question; its choices are used verbatim.
func applicationQuestion(
	chapter *entities.Chapter,
	concept *entities.Concept,
	data *entities.SupplementaryQuestion,
) entities.Question {
	return entities.Question{
		Key:          entities.SupplementaryQuestionKey(data.ID),
		ConceptID:    concept.ID,
		ChapterID:    chapter.ID,
		Level:        entities.Level3,
		Prompt:       data.Prompt,
		Choices:      append([]string(nil), data.Choices...),
		CorrectIndex: data.CorrectIndex,
	}
}

// sortByPriority orders candidates by tier and weakness. Candidates whose priorities fall in the
// same tolerance bucket keep the order of a prior random shuffle.
func (s *QuestionSelector) sortByPriority(candidates []entities.Question) {
	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return priorityBucket(&candidates[i]) < priorityBucket(&candidates[j])
	})
}

// priority returns the scheduling priority of a candidate, lower first.
func priority(q *entities.Question) float64 {
	tier := tierNew
	switch {
	case q.SRDue:
		tier = tierSRDue
	case q.InProgress:
		tier = tierInProgress
	}
	return float64(tier) - q.Weakness*weaknessWeight
}

func priorityBucket(q *entities.Question) int64 {
	return int64(math.Round(priority(q) / tieTolerance))
}

// takeFirst returns the first n elements of questions, or the whole slice if it is shorter.
func takeFirst(questions []entities.Question, n int) []entities.Question {
	if n <= 0 {
		return nil
	}
	if len(questions) <= n {
		return questions
	}
	return questions[:n]
}
