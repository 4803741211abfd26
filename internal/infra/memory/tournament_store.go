package memory

import (
	"context"
	"sort"
	"sync"

	"quizclash-service/internal/domain"
)

// TournamentStore keeps tournaments, participants, sessions, answers and
// prizes in memory.
type TournamentStore struct {
	mu           sync.RWMutex
	tournaments  map[int64]domain.Tournament
	participants map[int64]domain.TournamentParticipant
	sessions     map[int64]domain.TournamentSession
	answers      map[int64][]domain.TournamentAnswer
	prizes       []domain.TournamentPrize
	nextID       int64
}

func NewTournamentStore() *TournamentStore {
	return &TournamentStore{
		tournaments:  make(map[int64]domain.Tournament),
		participants: make(map[int64]domain.TournamentParticipant),
		sessions:     make(map[int64]domain.TournamentSession),
		answers:      make(map[int64][]domain.TournamentAnswer),
		nextID:       1,
	}
}

func (s *TournamentStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *TournamentStore) Create(ctx context.Context, t *domain.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	s.tournaments[t.ID] = *t
	return nil
}

func (s *TournamentStore) Get(ctx context.Context, id int64) (domain.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tournaments[id]
	if !ok {
		return domain.Tournament{}, domain.ErrTournamentNotFound
	}
	return t, nil
}

func (s *TournamentStore) List(ctx context.Context, status string) ([]domain.Tournament, error) {
	s.mu.RLock()
	out := make([]domain.Tournament, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *TournamentStore) Update(ctx context.Context, t *domain.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tournaments[t.ID]; !ok {
		return domain.ErrTournamentNotFound
	}
	s.tournaments[t.ID] = *t
	return nil
}

func (s *TournamentStore) AddParticipant(ctx context.Context, p *domain.TournamentParticipant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.participants {
		if existing.TournamentID == p.TournamentID && existing.UserID == p.UserID {
			return domain.ErrAlreadyRegistered
		}
	}
	p.ID = s.id()
	s.participants[p.ID] = *p
	return nil
}

func (s *TournamentStore) Participant(ctx context.Context, tournamentID, userID int64) (domain.TournamentParticipant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.participants {
		if p.TournamentID == tournamentID && p.UserID == userID {
			return p, nil
		}
	}
	return domain.TournamentParticipant{}, domain.ErrParticipantNotFound
}

func (s *TournamentStore) Participants(ctx context.Context, tournamentID int64, playedOnly bool) ([]domain.TournamentParticipant, error) {
	s.mu.RLock()
	out := make([]domain.TournamentParticipant, 0)
	for _, p := range s.participants {
		if p.TournamentID != tournamentID {
			continue
		}
		if playedOnly && !p.HasPlayed {
			continue
		}
		out = append(out, p)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *TournamentStore) ParticipantsForUser(ctx context.Context, userID int64) ([]domain.TournamentParticipant, error) {
	s.mu.RLock()
	out := make([]domain.TournamentParticipant, 0)
	for _, p := range s.participants {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *TournamentStore) CountParticipants(ctx context.Context, tournamentID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.participants {
		if p.TournamentID == tournamentID {
			n++
		}
	}
	return n, nil
}

func (s *TournamentStore) UpdateParticipant(ctx context.Context, p *domain.TournamentParticipant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[p.ID]; !ok {
		return domain.ErrParticipantNotFound
	}
	s.participants[p.ID] = *p
	return nil
}

func (s *TournamentStore) CreateSession(ctx context.Context, session *domain.TournamentSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = s.id()
	s.sessions[session.ID] = *session
	return nil
}

func (s *TournamentStore) GetSession(ctx context.Context, id int64) (domain.TournamentSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.TournamentSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *TournamentStore) UpdateSession(ctx context.Context, session *domain.TournamentSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *TournamentStore) SessionForParticipant(ctx context.Context, tournamentID, participantID int64) (domain.TournamentSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.TournamentID == tournamentID && session.ParticipantID == participantID {
			return session, nil
		}
	}
	return domain.TournamentSession{}, domain.ErrSessionNotFound
}

func (s *TournamentStore) SaveAnswer(ctx context.Context, a *domain.TournamentAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	s.answers[a.SessionID] = append(s.answers[a.SessionID], *a)
	return nil
}

func (s *TournamentStore) SessionAnswers(ctx context.Context, sessionID int64) ([]domain.TournamentAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TournamentAnswer(nil), s.answers[sessionID]...), nil
}

func (s *TournamentStore) SavePrize(ctx context.Context, p *domain.TournamentPrize) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.prizes = append(s.prizes, *p)
	return nil
}

// Prizes returns recorded prizes for a tournament.
func (s *TournamentStore) Prizes(ctx context.Context, tournamentID int64) ([]domain.TournamentPrize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TournamentPrize, 0)
	for _, p := range s.prizes {
		if p.TournamentID == tournamentID {
			out = append(out, p)
		}
	}
	return out, nil
}
