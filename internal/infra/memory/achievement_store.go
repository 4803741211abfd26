package memory

import (
	"context"
	"sync"

	"quizclash-service/internal/domain"
)

// AchievementStore keeps unlocked achievements in memory, unique by
// (user, name).
type AchievementStore struct {
	mu     sync.RWMutex
	byUser map[int64][]domain.Achievement
	nextID int64
}

func NewAchievementStore() *AchievementStore {
	return &AchievementStore{byUser: make(map[int64][]domain.Achievement), nextID: 1}
}

func (s *AchievementStore) ForUser(ctx context.Context, userID int64) ([]domain.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Achievement(nil), s.byUser[userID]...), nil
}

func (s *AchievementStore) Unlock(ctx context.Context, achievement *domain.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, held := range s.byUser[achievement.UserID] {
		if held.Name == achievement.Name {
			return nil
		}
	}
	achievement.ID = s.nextID
	s.nextID++
	s.byUser[achievement.UserID] = append(s.byUser[achievement.UserID], *achievement)
	return nil
}
