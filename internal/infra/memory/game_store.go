package memory

import (
	"context"
	"sync"

	"quizclash-service/internal/domain"
)

// GameStore keeps game sessions and answers in memory.
type GameStore struct {
	mu       sync.RWMutex
	sessions map[int64]domain.GameSession
	answers  map[int64][]domain.GameAnswer
	nextID   int64
}

func NewGameStore() *GameStore {
	return &GameStore{
		sessions: make(map[int64]domain.GameSession),
		answers:  make(map[int64][]domain.GameAnswer),
		nextID:   1,
	}
}

func (s *GameStore) CreateSession(ctx context.Context, session *domain.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = s.nextID
	s.nextID++
	s.sessions[session.ID] = *session
	return nil
}

func (s *GameStore) GetSession(ctx context.Context, id int64) (domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *GameStore) UpdateSession(ctx context.Context, session *domain.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *GameStore) SaveAnswer(ctx context.Context, answer *domain.GameAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	answer.ID = int64(len(s.answers[answer.GameSessionID]) + 1)
	s.answers[answer.GameSessionID] = append(s.answers[answer.GameSessionID], *answer)
	return nil
}

// SessionAnswers returns the recorded answers for one session.
func (s *GameStore) SessionAnswers(ctx context.Context, sessionID int64) ([]domain.GameAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.GameAnswer(nil), s.answers[sessionID]...), nil
}

// SessionsForUser returns completed sessions for stats aggregation.
func (s *GameStore) SessionsForUser(ctx context.Context, userID int64) ([]domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GameSession, 0)
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, session)
		}
	}
	return out, nil
}
