package entities

import (
	"encoding/json"
	"time"
)

// LearnerProfile is the whole persisted state of one learner.
type LearnerProfile struct {
	DisplayName string                               `json:"studentName"`
	Skipped     map[string]SkipState                 `json:"skipped"`
	Concepts    map[string]*ConceptProgress          `json:"concepts"`
	Questions   map[QuestionKey]*QuestionReviewState `json:"questions"`
	LastSyncAt  *time.Time                           `json:"lastSync"`
}

// SkipState records whether a concept is skipped. Rev counts toggles so that the latest
// choice wins a merge; an un-skipped entry is kept as a tombstone.
type SkipState struct {
	Skipped bool `json:"skipped"`
	Rev     int  `json:"rev"`
}

// UnmarshalJSON also accepts a bare boolean written by earlier versions.
func (s *SkipState) UnmarshalJSON(data []byte) error {
	var skipped bool
	if err := json.Unmarshal(data, &skipped); err == nil {
		*s = SkipState{Skipped: skipped}
		if skipped {
			s.Rev = 1
		}
		return nil
	}

	type plain SkipState
	return json.Unmarshal(data, (*plain)(s))
}

// NewLearnerProfile creates an empty profile.
func NewLearnerProfile() *LearnerProfile {
	return &LearnerProfile{
		Skipped:   make(map[string]SkipState),
		Concepts:  make(map[string]*ConceptProgress),
		Questions: make(map[QuestionKey]*QuestionReviewState),
	}
}

// Normalize repairs a profile decoded from untrusted storage: nil maps are allocated and counters clamped.
func (p *LearnerProfile) Normalize() {
	if p.Skipped == nil {
		p.Skipped = make(map[string]SkipState)
	}
	if p.Concepts == nil {
		p.Concepts = make(map[string]*ConceptProgress)
	}
	if p.Questions == nil {
		p.Questions = make(map[QuestionKey]*QuestionReviewState)
	}

	for id, st := range p.Skipped {
		st.Rev = max(0, st.Rev)
		if st.Skipped && st.Rev == 0 {
			st.Rev = 1
		}
		p.Skipped[id] = st
	}

	for id, cp := range p.Concepts {
		if cp == nil {
			delete(p.Concepts, id)
			continue
		}
		for _, r := range []*LevelRecord{&cp.Level1, &cp.Level2, &cp.Level3} {
			r.Attempts = max(0, r.Attempts)
			r.Correct = min(max(0, r.Correct), r.Attempts)
		}
	}

	for key, s := range p.Questions {
		if s == nil {
			delete(p.Questions, key)
			continue
		}
		s.EaseFactor = min(MaxEaseFactor, max(MinEaseFactor, s.EaseFactor))
		s.IntervalDays = max(MinIntervalDays, s.IntervalDays)
		s.TimesAnswered = max(0, s.TimesAnswered)
		s.TimesCorrect = min(max(0, s.TimesCorrect), s.TimesAnswered)
	}
}

// ConceptProgress returns the progress of a concept, creating an empty record on first access.
func (p *LearnerProfile) ConceptProgress(conceptID string) *ConceptProgress {
	cp, ok := p.Concepts[conceptID]
	if !ok {
		cp = NewConceptProgress()
		p.Concepts[conceptID] = cp
	}
	return cp
}

// ReviewState returns the review state of a question key, creating a state due at now on first access.
func (p *LearnerProfile) ReviewState(key QuestionKey, now time.Time) *QuestionReviewState {
	s, ok := p.Questions[key]
	if !ok {
		s = NewQuestionReviewState(now)
		p.Questions[key] = s
	}
	return s
}

// IsSkipped reports whether the concept is excluded from scheduling and statistics.
func (p *LearnerProfile) IsSkipped(conceptID string) bool {
	return p.Skipped[conceptID].Skipped
}

// ToggleSkip flips the skip state of a concept and returns the new state.
// Stored progress is never touched.
func (p *LearnerProfile) ToggleSkip(conceptID string) bool {
	st := p.Skipped[conceptID]
	st.Skipped = !st.Skipped
	st.Rev++
	p.Skipped[conceptID] = st
	return st.Skipped
}

// Clone returns a deep copy of the profile.
func (p *LearnerProfile) Clone() *LearnerProfile {
	out := &LearnerProfile{
		DisplayName: p.DisplayName,
		Skipped:     make(map[string]SkipState, len(p.Skipped)),
		Concepts:    make(map[string]*ConceptProgress, len(p.Concepts)),
		Questions:   make(map[QuestionKey]*QuestionReviewState, len(p.Questions)),
	}
	for id, st := range p.Skipped {
		out.Skipped[id] = st
	}
	for id, cp := range p.Concepts {
		c := *cp
		out.Concepts[id] = &c
	}
	for key, s := range p.Questions {
		c := *s
		out.Questions[key] = &c
	}
	if p.LastSyncAt != nil {
		t := *p.LastSyncAt
		out.LastSyncAt = &t
	}
	return out
}

// MergeProfiles combines two snapshots of the same learner without coordination.
//
// Per concept level the record with more correct answers wins, per question key the state
// answered more often wins, per skip entry the one toggled more often wins. Ties fall through a fixed order of the remaining fields, so the
// result does not depend on argument order and merging a profile with itself is a no-op.
func MergeProfiles(a, b *LearnerProfile) *LearnerProfile {
	out := a.Clone()

	out.DisplayName = mergeDisplayName(a.DisplayName, b.DisplayName)
	out.LastSyncAt = laterTime(a.LastSyncAt, b.LastSyncAt)

	for id, rs := range b.Skipped {
		if ls, ok := out.Skipped[id]; !ok || preferSkipState(rs, ls) {
			out.Skipped[id] = rs
		}
	}

	for id, rc := range b.Concepts {
		lc, ok := out.Concepts[id]
		if !ok {
			c := *rc
			out.Concepts[id] = &c
			continue
		}
		lc.Level1 = preferLevelRecord(lc.Level1, rc.Level1)
		lc.Level2 = preferLevelRecord(lc.Level2, rc.Level2)
		lc.Level3 = preferLevelRecord(lc.Level3, rc.Level3)
	}

	for key, rq := range b.Questions {
		lq, ok := out.Questions[key]
		if !ok || preferReviewState(*rq, *lq) {
			c := *rq
			out.Questions[key] = &c
		}
	}

	return out
}

func preferLevelRecord(a, b LevelRecord) LevelRecord {
	if b.Correct != a.Correct {
		if b.Correct > a.Correct {
			return b
		}
		return a
	}
	if b.Attempts > a.Attempts {
		return b
	}
	return a
}

// preferSkipState reports whether b should replace a. Equal revisions favour skipping.
func preferSkipState(b, a SkipState) bool {
	if b.Rev != a.Rev {
		return b.Rev > a.Rev
	}
	return b.Skipped && !a.Skipped
}

// preferReviewState reports whether b should replace a.
func preferReviewState(b, a QuestionReviewState) bool {
	switch {
	case b.TimesAnswered != a.TimesAnswered:
		return b.TimesAnswered > a.TimesAnswered
	case b.TimesCorrect != a.TimesCorrect:
		return b.TimesCorrect > a.TimesCorrect
	case !b.NextReviewAt.Equal(a.NextReviewAt):
		return b.NextReviewAt.After(a.NextReviewAt)
	case b.IntervalDays != a.IntervalDays:
		return b.IntervalDays > a.IntervalDays
	default:
		return b.EaseFactor > a.EaseFactor
	}
}

func mergeDisplayName(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return max(a, b)
	}
}

func laterTime(a, b *time.Time) *time.Time {
	var t *time.Time
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		t = b
	case b == nil:
		t = a
	case b.After(*a):
		t = b
	default:
		t = a
	}
	out := *t
	return &out
}
