package memory

import (
	"context"
	"strings"
	"sync"

	"quizclash-service/internal/domain"
)

// UserStore keeps users and per-user game aggregates in memory. It backs
// both the user repository and the stats aggregation used by achievement
// evaluation.
type UserStore struct {
	mu     sync.RWMutex
	users  map[int64]domain.User
	stats  map[int64]domain.PlayerStats
	nextID int64
}

func NewUserStore(seed ...domain.User) *UserStore {
	s := &UserStore{
		users:  make(map[int64]domain.User),
		stats:  make(map[int64]domain.PlayerStats),
		nextID: 1,
	}
	for _, u := range seed {
		s.Add(u)
	}
	return s
}

// Add inserts a user, assigning an ID when absent, and returns it.
func (s *UserStore) Add(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID
	}
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	s.users[u.ID] = u
	return u
}

// Create inserts a new user, rejecting duplicate usernames or emails.
func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrUserExists
		}
	}
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) Get(ctx context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

// GetByUsername resolves a user for login.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

// Update overwrites an existing user record.
func (s *UserStore) Update(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	s.users[u.ID] = *u
	return nil
}

// RecordGame folds one finished game into the user's totals and aggregates.
func (s *UserStore) RecordGame(ctx context.Context, userID int64, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.GamesPlayed++
	u.TotalScore += score
	s.users[userID] = u

	agg := s.stats[userID]
	agg.GamesPlayed++
	agg.TotalScore += score
	if score > agg.BestScore {
		agg.BestScore = score
	}
	agg.AvgScore = float64(agg.TotalScore) / float64(agg.GamesPlayed)
	s.stats[userID] = agg
	return nil
}

// SpendPoints debits a powerup purchase from the user's total score.
func (s *UserStore) SpendPoints(ctx context.Context, userID int64, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.TotalScore < amount {
		return domain.ErrInsufficientPoints
	}
	u.TotalScore -= amount
	s.users[userID] = u
	return nil
}

// AggregateStats returns the per-user aggregate view.
func (s *UserStore) AggregateStats(ctx context.Context, userID int64) (domain.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats[userID], nil
}
