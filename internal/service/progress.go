package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
	"github.com/aliskhannn/concept-review-bot/internal/repository"
)

// ProgressStore owns the learner profile.
//
// Concept and question records are created on first access (get-or-create) and only become
// durable with the next write. Every mutating method writes through to the repository before
// the change becomes visible.
type ProgressStore struct {
	learnerID  int64
	repository ProfileRepository
	logger     *zap.Logger
	now        func() time.Time

	profile *entities.LearnerProfile
}

// NewProgressStore creates a store holding an empty profile. Call Load to read persisted state.
func NewProgressStore(learnerID int64, repository ProfileRepository, logger *zap.Logger, now func() time.Time) *ProgressStore {
	if now == nil {
		now = time.Now
	}
	return &ProgressStore{
		learnerID:  learnerID,
		repository: repository,
		logger:     logger,
		now:        now,
		profile:    entities.NewLearnerProfile(),
	}
}

// Load reads the persisted profile. Missing or unreadable state falls back to defaults.
func (s *ProgressStore) Load(ctx context.Context) {
	p, err := s.repository.Load(ctx, s.learnerID)
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		s.logger.Debug("no stored profile, using defaults", zap.Int64("learner_id", s.learnerID))
		p = entities.NewLearnerProfile()
	case err != nil:
		s.logger.Warn("failed to load profile, using defaults",
			zap.Int64("learner_id", s.learnerID),
			zap.Error(err),
		)
		p = entities.NewLearnerProfile()
	case p == nil:
		p = entities.NewLearnerProfile()
	}

	p.Normalize()
	s.profile = p
}

// Save persists the current profile.
func (s *ProgressStore) Save(ctx context.Context) error {
	return s.repository.Save(ctx, s.learnerID, s.profile)
}

// Snapshot returns a deep copy of the profile for read-only consumers.
func (s *ProgressStore) Snapshot() *entities.LearnerProfile {
	return s.profile.Clone()
}

// LearnerID returns the id of the learner owning the store.
func (s *ProgressStore) LearnerID() int64 {
	return s.learnerID
}

// DisplayName returns the learner's display name.
func (s *ProgressStore) DisplayName() string {
	return s.profile.DisplayName
}

// SetDisplayName updates the learner's display name.
func (s *ProgressStore) SetDisplayName(ctx context.Context, name string) error {
	return s.mutate(ctx, func(p *entities.LearnerProfile) {
		p.DisplayName = name
	})
}

// ConceptProgress returns the mastery counters of a concept (get-or-create).
func (s *ProgressStore) ConceptProgress(conceptID string) *entities.ConceptProgress {
	return s.profile.ConceptProgress(conceptID)
}

// IsLevelPassed reports whether the concept passed the given level.
func (s *ProgressStore) IsLevelPassed(concept *entities.Concept, level entities.Level) bool {
	return s.ConceptProgress(concept.ID).IsLevelPassed(level)
}

// CurrentLevel returns the level the concept is being studied at, or LevelLearned.
func (s *ProgressStore) CurrentLevel(concept *entities.Concept) entities.Level {
	return s.ConceptProgress(concept.ID).CurrentLevel(concept.HasLevel3())
}

// IsStarted reports whether the concept was attempted at Level 1.
func (s *ProgressStore) IsStarted(concept *entities.Concept) bool {
	return s.ConceptProgress(concept.ID).IsStarted()
}

// IsLearned reports whether every applicable level of the concept is passed.
func (s *ProgressStore) IsLearned(concept *entities.Concept) bool {
	return s.CurrentLevel(concept) == entities.LevelLearned
}

// ReviewState returns the spaced repetition state of a key (get-or-create, due now).
func (s *ProgressStore) ReviewState(key entities.QuestionKey) *entities.QuestionReviewState {
	return s.profile.ReviewState(key, s.now())
}

// IsDue reports whether the question key is due for review.
func (s *ProgressStore) IsDue(key entities.QuestionKey) bool {
	return s.ReviewState(key).IsDue(s.now())
}

// IsSkipped reports whether the concept is excluded from scheduling and statistics.
func (s *ProgressStore) IsSkipped(conceptID string) bool {
	return s.profile.IsSkipped(conceptID)
}

// ToggleSkip flips the skip state of a concept and returns the new state.
func (s *ProgressStore) ToggleSkip(ctx context.Context, conceptID string) (bool, error) {
	var skipped bool
	err := s.mutate(ctx, func(p *entities.LearnerProfile) {
		skipped = p.ToggleSkip(conceptID)
	})
	if err != nil {
		return s.profile.IsSkipped(conceptID), err
	}
	return skipped, nil
}

// RecordAnswer updates mastery counters and review state for one answer as a single write.
func (s *ProgressStore) RecordAnswer(ctx context.Context, q *entities.Question, chosenIndex int) (bool, error) {
	now := s.now()
	correct := q.IsCorrect(chosenIndex)

	next := s.profile.Clone()
	next.ConceptProgress(q.ConceptID).Level(q.Level).Record(correct)
	next.ReviewState(q.Key, now).UpdateSRS(correct, now)

	event := &entities.AnswerEvent{
		QuestionKey: q.Key,
		ConceptID:   q.ConceptID,
		Level:       q.Level,
		ChosenIndex: chosenIndex,
		IsCorrect:   correct,
		AnsweredAt:  now,
	}
	if err := s.repository.SaveAnswer(ctx, s.learnerID, next, event); err != nil {
		return correct, fmt.Errorf("save answer: %w", err)
	}

	s.profile = next
	return correct, nil
}

// Merge folds a remote snapshot into the local profile.
func (s *ProgressStore) Merge(ctx context.Context, remote *entities.LearnerProfile) error {
	remote = remote.Clone()
	remote.Normalize()

	merged := entities.MergeProfiles(s.profile, remote)
	if err := s.repository.Save(ctx, s.learnerID, merged); err != nil {
		return fmt.Errorf("save merged profile: %w", err)
	}

	s.profile = merged
	return nil
}

// MarkSynced records a successful push.
func (s *ProgressStore) MarkSynced(ctx context.Context, at time.Time) error {
	return s.mutate(ctx, func(p *entities.LearnerProfile) {
		p.LastSyncAt = &at
	})
}

// LastSyncAt returns the time of the last successful push, if any.
func (s *ProgressStore) LastSyncAt() *time.Time {
	return s.profile.LastSyncAt
}

// Reset replaces the profile with defaults.
func (s *ProgressStore) Reset(ctx context.Context) error {
	fresh := entities.NewLearnerProfile()
	if err := s.repository.Save(ctx, s.learnerID, fresh); err != nil {
		return fmt.Errorf("reset profile: %w", err)
	}

	s.profile = fresh
	return nil
}

// ChapterStats computes completion statistics for a chapter, ignoring skipped concepts.
// Levels that are not passed yet earn partial credit for correct answers toward their threshold.
func (s *ProgressStore) ChapterStats(chapter *entities.Chapter) entities.ChapterStats {
	stats := entities.ChapterStats{ChapterID: chapter.ID}

	var progressSum float64
	for _, concept := range chapter.Concepts {
		if s.IsSkipped(concept.ID) {
			stats.SkippedCount++
			continue
		}

		stats.TotalConcepts++
		cp := s.ConceptProgress(concept.ID)
		current := cp.CurrentLevel(concept.HasLevel3())
		maxLevel := concept.MaxLevel()
		stats.LevelsTotal += int(maxLevel)

		if cp.IsStarted() {
			stats.StartedCount++
		}
		if current == entities.LevelLearned {
			stats.LearnedCount++
		}

		for lvl := entities.Level1; lvl <= maxLevel; lvl++ {
			switch {
			case cp.IsLevelPassed(lvl):
				stats.LevelsPassed++
				progressSum++
			case current != entities.LevelLearned && lvl <= current:
				threshold := lvl.Threshold()
				progressSum += float64(min(cp.Level(lvl).Correct, threshold)) / float64(threshold)
			}
		}
	}

	if stats.LevelsTotal > 0 {
		stats.PercentComplete = int(math.Round(progressSum / float64(stats.LevelsTotal) * 100))
	}

	return stats
}

// maxConfusableHints caps the confusable ids considered per concept.
const maxConfusableHints = 3

// ChapterDetail describes every concept of a chapter. Skipped concepts are listed without
// confusable hints.
func (s *ProgressStore) ChapterDetail(chapter *entities.Chapter) entities.ChapterDetail {
	detail := entities.ChapterDetail{
		Chapter:  chapter,
		Stats:    s.ChapterStats(chapter),
		Concepts: make([]entities.ConceptStatus, 0, len(chapter.Concepts)),
	}

	for _, concept := range chapter.Concepts {
		st := entities.ConceptStatus{
			Concept:      concept,
			CurrentLevel: s.CurrentLevel(concept),
			MaxLevel:     concept.MaxLevel(),
			Passed:       make(map[entities.Level]bool, 3),
			Learned:      s.IsLearned(concept),
			Skipped:      s.IsSkipped(concept.ID),
			TroubleSpot:  s.ConceptProgress(concept.ID).IsTroubleSpot(),
		}
		for lvl := entities.Level1; lvl <= st.MaxLevel; lvl++ {
			st.Passed[lvl] = s.IsLevelPassed(concept, lvl)
		}

		if !st.Skipped {
			ids := concept.ConfusableIDs[:min(maxConfusableHints, len(concept.ConfusableIDs))]
			for _, id := range ids {
				if other := chapter.Concept(id); other != nil {
					st.ConfusedWith = append(st.ConfusedWith, other.Term)
				}
			}
		}

		detail.Concepts = append(detail.Concepts, st)
	}

	return detail
}

// OverallStats aggregates chapter statistics.
func (s *ProgressStore) OverallStats(chapters []*entities.Chapter) entities.OverallStats {
	out := entities.OverallStats{ChapterProgress: make(map[string]int, len(chapters))}
	for _, ch := range chapters {
		st := s.ChapterStats(ch)
		out.LearnedCount += st.LearnedCount
		out.ChapterProgress[ch.ID] = st.PercentComplete
	}
	return out
}

// mutate applies fn to a copy of the profile and swaps it in once the copy is persisted.
func (s *ProgressStore) mutate(ctx context.Context, fn func(p *entities.LearnerProfile)) error {
	next := s.profile.Clone()
	fn(next)

	if err := s.repository.Save(ctx, s.learnerID, next); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	s.profile = next
	return nil
}
