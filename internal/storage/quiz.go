package storage

import (
	"sync"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

// SessionStorage keeps the active quiz session of each learner in memory.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.QuizSession
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*entities.QuizSession),
	}
}

// Store replaces the learner's active session.
func (s *SessionStorage) Store(session *entities.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.LearnerID] = session
}

// Get returns the learner's session if its id matches sessionID.
func (s *SessionStorage) Get(learnerID int64, sessionID string) (*entities.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[learnerID]
	if !ok || session.ID != sessionID {
		return nil, false
	}
	return session, true
}

// Active returns the learner's current session, if any.
func (s *SessionStorage) Active(learnerID int64) (*entities.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[learnerID]
	if !ok || !session.IsActive() {
		return nil, false
	}
	return session, true
}

// Delete removes the learner's session.
func (s *SessionStorage) Delete(learnerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, learnerID)
}
