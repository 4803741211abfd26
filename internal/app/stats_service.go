package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizclash-service/internal/domain"
)

// DefaultStatsTTL bounds how stale the cached per-user aggregates may be.
const DefaultStatsTTL = 60 * time.Second

// StatsRepository aggregates completed-game stats for a user.
type StatsRepository interface {
	AggregateStats(ctx context.Context, userID int64) (domain.PlayerStats, error)
}

// StatsService serves per-user aggregates behind a short TTL cache.
// Concurrent misses for the same user are collapsed with singleflight so
// a burst of game completions does not stampede the aggregate query.
type StatsService struct {
	repo  StatsRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.RWMutex
	cache map[int64]cachedStats
}

type cachedStats struct {
	stats     domain.PlayerStats
	expiresAt time.Time
}

func NewStatsService(repo StatsRepository, ttl time.Duration) *StatsService {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	return &StatsService{
		repo:  repo,
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[int64]cachedStats),
	}
}

// UserStats returns the cached aggregate when fresh, recomputing otherwise.
func (s *StatsService) UserStats(ctx context.Context, userID int64) (domain.PlayerStats, error) {
	now := s.clock()

	s.mu.RLock()
	if entry, ok := s.cache[userID]; ok && entry.expiresAt.After(now) {
		s.mu.RUnlock()
		return entry.stats, nil
	}
	s.mu.RUnlock()

	result, err, _ := s.sf.Do(fmt.Sprint(userID), func() (interface{}, error) {
		now := s.clock()
		s.mu.RLock()
		if entry, ok := s.cache[userID]; ok && entry.expiresAt.After(now) {
			s.mu.RUnlock()
			return entry.stats, nil
		}
		s.mu.RUnlock()

		stats, err := s.repo.AggregateStats(ctx, userID)
		if err != nil {
			return domain.PlayerStats{}, err
		}

		s.mu.Lock()
		s.cache[userID] = cachedStats{stats: stats, expiresAt: now.Add(s.ttl)}
		s.mu.Unlock()
		return stats, nil
	})
	if err != nil {
		return domain.PlayerStats{}, err
	}
	return result.(domain.PlayerStats), nil
}

// Invalidate drops the cached aggregate after a game completes so the next
// read reflects it.
func (s *StatsService) Invalidate(userID int64) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}
