package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionMode selects how a session was built.
type SessionMode string

const (
	SessionModeStudy SessionMode = "study" // adaptive study with feedback
	SessionModeExam  SessionMode = "exam"  // flat exam pool
)

// Session status values.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// QuizSession holds an ordered list of questions and the learner's position in it.
type QuizSession struct {
	ID             string      // random session id, echoed in callback data
	LearnerID      int64       // learner who owns the session
	Mode           SessionMode // study or exam
	ChapterIDs     []string    // chapters in scope
	Questions      []Question  // questions in presentation order
	Current        int         // index of the question in flight
	CorrectAnswers int         // number of correct answers so far
	Status         string      // active or completed
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// NewQuizSession creates an active session over the given questions.
func NewQuizSession(learnerID int64, mode SessionMode, chapterIDs []string, questions []Question, now time.Time) *QuizSession {
	return &QuizSession{
		ID:         uuid.NewString(),
		LearnerID:  learnerID,
		Mode:       mode,
		ChapterIDs: chapterIDs,
		Questions:  questions,
		Status:     SessionStatusActive,
		StartedAt:  now,
	}
}

// IsEmpty reports whether there is nothing to study in the session.
func (s *QuizSession) IsEmpty() bool {
	return len(s.Questions) == 0
}

// CurrentQuestion returns the question in flight, or nil when the session is over.
func (s *QuizSession) CurrentQuestion() *Question {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Current]
}

// Advance moves to the next question and completes the session after the last one.
func (s *QuizSession) Advance(correct bool, now time.Time) {
	if correct {
		s.CorrectAnswers++
	}
	s.Current++
	if s.Current >= len(s.Questions) {
		s.Complete(now)
	}
}

// Total returns the number of questions in the session.
func (s *QuizSession) Total() int {
	return len(s.Questions)
}

// IsActive reports whether the session still has questions to answer.
func (s *QuizSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// Complete marks the session as completed.
func (s *QuizSession) Complete(now time.Time) {
	s.Status = SessionStatusCompleted
	s.CompletedAt = &now
}

// AnswerEvent is one recorded answer, kept as history next to the profile.
type AnswerEvent struct {
	QuestionKey QuestionKey `json:"questionKey"`
	ConceptID   string      `json:"conceptId"`
	Level       Level       `json:"level"`
	ChosenIndex int         `json:"chosenIndex"`
	IsCorrect   bool        `json:"isCorrect"`
	AnsweredAt  time.Time   `json:"answeredAt"`
}
