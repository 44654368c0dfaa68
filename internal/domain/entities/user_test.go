package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile(name string, l1Correct, l1Attempts, answered int, skipped ...string) *LearnerProfile {
	p := NewLearnerProfile()
	p.DisplayName = name
	for _, id := range skipped {
		p.ToggleSkip(id)
	}

	cp := p.ConceptProgress("c1")
	cp.Level1 = LevelRecord{Attempts: l1Attempts, Correct: l1Correct}
	cp.Level2 = LevelRecord{Attempts: 1, Correct: 1}

	s := p.ReviewState(ConceptQuestionKey("c1", Level1), t0)
	for i := 0; i < answered; i++ {
		s.UpdateSRS(i%2 == 0, t0)
	}
	return p
}

func TestMergeProfilesPrefersHigherCounts(t *testing.T) {
	local := sampleProfile("ana", 1, 3, 2)
	remote := sampleProfile("", 2, 2, 5, "c9")
	remote.ConceptProgress("c2").Level1 = LevelRecord{Attempts: 1, Correct: 1}

	merged := MergeProfiles(local, remote)

	assert.Equal(t, "ana", merged.DisplayName)
	assert.Equal(t, LevelRecord{Attempts: 2, Correct: 2}, merged.Concepts["c1"].Level1)
	assert.Equal(t, 5, merged.Questions[ConceptQuestionKey("c1", Level1)].TimesAnswered)
	assert.Contains(t, merged.Concepts, "c2")
	assert.True(t, merged.IsSkipped("c9"))

	// Inputs are untouched.
	assert.Equal(t, 1, local.Concepts["c1"].Level1.Correct)
	assert.NotContains(t, local.Concepts, "c2")
}

func TestMergeProfilesIsCommutative(t *testing.T) {
	sync1 := t0.Add(time.Hour)
	a := sampleProfile("ana", 2, 5, 3, "c3")
	a.LastSyncAt = &sync1
	b := sampleProfile("bea", 2, 4, 3, "c4")
	b.ReviewState(SupplementaryQuestionKey("q7"), t0).UpdateSRS(true, t0)

	require.Equal(t, MergeProfiles(a, b), MergeProfiles(b, a))
}

func TestMergeProfilesIsIdempotent(t *testing.T) {
	a := sampleProfile("ana", 2, 5, 3, "c3")

	assert.Equal(t, a, MergeProfiles(a, a))

	b := sampleProfile("bea", 1, 1, 7)
	once := MergeProfiles(a, b)
	assert.Equal(t, once, MergeProfiles(once, b))
}

func TestToggleSkipKeepsProgress(t *testing.T) {
	p := sampleProfile("ana", 2, 2, 1)

	assert.True(t, p.ToggleSkip("c1"))
	assert.True(t, p.IsSkipped("c1"))
	assert.Equal(t, 2, p.Concepts["c1"].Level1.Correct)

	assert.False(t, p.ToggleSkip("c1"))
	assert.False(t, p.IsSkipped("c1"))
	assert.Equal(t, 2, p.Concepts["c1"].Level1.Correct)
}

func TestMergeProfilesKeepsLaterUnskip(t *testing.T) {
	remote := sampleProfile("ana", 1, 1, 0, "c1")
	local := remote.Clone()
	assert.False(t, local.ToggleSkip("c1"))

	for _, merged := range []*LearnerProfile{MergeProfiles(local, remote), MergeProfiles(remote, local)} {
		assert.False(t, merged.IsSkipped("c1"))
		assert.Equal(t, SkipState{Skipped: false, Rev: 2}, merged.Skipped["c1"])
	}
}

func TestMergeProfilesSkipTieFavoursSkipped(t *testing.T) {
	a := NewLearnerProfile()
	a.Skipped["c1"] = SkipState{Skipped: false, Rev: 3}
	b := NewLearnerProfile()
	b.Skipped["c1"] = SkipState{Skipped: true, Rev: 3}

	assert.True(t, MergeProfiles(a, b).IsSkipped("c1"))
	assert.True(t, MergeProfiles(b, a).IsSkipped("c1"))
}

func TestSkipStateDecodesLegacyBoolean(t *testing.T) {
	var p LearnerProfile
	require.NoError(t, json.Unmarshal([]byte(`{"skipped":{"c1":true,"c2":false,"c3":{"skipped":false,"rev":4}}}`), &p))

	assert.Equal(t, SkipState{Skipped: true, Rev: 1}, p.Skipped["c1"])
	assert.Equal(t, SkipState{}, p.Skipped["c2"])
	assert.Equal(t, SkipState{Skipped: false, Rev: 4}, p.Skipped["c3"])
}

func TestNormalizeRepairsCorruptedProfile(t *testing.T) {
	p := &LearnerProfile{
		Concepts: map[string]*ConceptProgress{
			"c1": {Level1: LevelRecord{Attempts: 1, Correct: 4}},
			"c2": nil,
		},
		Questions: map[QuestionKey]*QuestionReviewState{
			"c1_L1": {EaseFactor: 9, IntervalDays: 0, TimesAnswered: 1, TimesCorrect: 3},
			"c1_L2": {EaseFactor: 3, IntervalDays: 4860, TimesAnswered: 8, TimesCorrect: 8},
		},
	}

	p.Normalize()

	require.NotNil(t, p.Skipped)
	assert.NotContains(t, p.Concepts, "c2")
	assert.Equal(t, 1, p.Concepts["c1"].Level1.Correct)
	s := p.Questions["c1_L1"]
	assert.Equal(t, MaxEaseFactor, s.EaseFactor)
	assert.Equal(t, 1, s.IntervalDays)
	assert.Equal(t, 1, s.TimesCorrect)
	assert.Equal(t, 4860, p.Questions["c1_L2"].IntervalDays)
}
