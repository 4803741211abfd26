package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"quizclash-service/internal/domain"
)

type countingStatsRepo struct {
	mu    sync.Mutex
	calls int
	stats domain.PlayerStats
}

func (r *countingStatsRepo) AggregateStats(ctx context.Context, userID int64) (domain.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.stats, nil
}

func TestStatsServiceCachesWithinTTL(t *testing.T) {
	repo := &countingStatsRepo{stats: domain.PlayerStats{GamesPlayed: 5, TotalScore: 900}}
	svc := NewStatsService(repo, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		stats, err := svc.UserStats(ctx, 1)
		if err != nil {
			t.Fatalf("user stats: %v", err)
		}
		if stats.GamesPlayed != 5 {
			t.Fatalf("games played = %d, want 5", stats.GamesPlayed)
		}
	}
	if repo.calls != 1 {
		t.Fatalf("repo called %d times, want 1", repo.calls)
	}
}

func TestStatsServiceExpires(t *testing.T) {
	repo := &countingStatsRepo{}
	svc := NewStatsService(repo, 30*time.Second)

	now := time.Unix(1000, 0)
	svc.clock = func() time.Time { return now }

	ctx := context.Background()
	if _, err := svc.UserStats(ctx, 1); err != nil {
		t.Fatalf("user stats: %v", err)
	}
	now = now.Add(31 * time.Second)
	if _, err := svc.UserStats(ctx, 1); err != nil {
		t.Fatalf("user stats after expiry: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("repo called %d times after expiry, want 2", repo.calls)
	}
}

func TestStatsServiceInvalidate(t *testing.T) {
	repo := &countingStatsRepo{}
	svc := NewStatsService(repo, time.Minute)
	ctx := context.Background()

	if _, err := svc.UserStats(ctx, 1); err != nil {
		t.Fatalf("user stats: %v", err)
	}
	svc.Invalidate(1)
	if _, err := svc.UserStats(ctx, 1); err != nil {
		t.Fatalf("user stats after invalidate: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("repo called %d times after invalidate, want 2", repo.calls)
	}
}

func TestStatsServiceCollapsesConcurrentMisses(t *testing.T) {
	repo := &countingStatsRepo{}
	svc := NewStatsService(repo, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.UserStats(ctx, 7)
		}()
	}
	wg.Wait()

	if repo.calls != 1 {
		t.Fatalf("repo called %d times under concurrency, want 1", repo.calls)
	}
}
