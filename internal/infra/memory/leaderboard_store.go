package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"quizclash-service/internal/domain"
)

// LeaderboardStore keeps per-subject/mode aggregates in memory.
type LeaderboardStore struct {
	mu      sync.RWMutex
	entries map[string]domain.LeaderboardEntry
	nextID  int64
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{entries: make(map[string]domain.LeaderboardEntry), nextID: 1}
}

func (s *LeaderboardStore) RecordGame(ctx context.Context, userID, subjectID int64, mode string, score int, accuracy float64) error {
	key := entryKey(userID, subjectID, mode)

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		entry = domain.LeaderboardEntry{
			ID:        s.nextID,
			UserID:    userID,
			SubjectID: subjectID,
			Mode:      mode,
		}
		s.nextID++
	}
	// Running average keeps accuracy meaningful across games.
	games := float64(entry.GamesCount)
	entry.Accuracy = (entry.Accuracy*games + accuracy) / (games + 1)
	entry.GamesCount++
	entry.Score += score
	entry.LastUpdated = time.Now()
	s.entries[key] = entry
	return nil
}

// Top returns the highest-scoring entries for a subject/mode pair. Zero
// subjectID or empty mode matches everything.
func (s *LeaderboardStore) Top(ctx context.Context, subjectID int64, mode string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	out := make([]domain.LeaderboardEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if subjectID != 0 && entry.SubjectID != subjectID {
			continue
		}
		if mode != "" && entry.Mode != mode {
			continue
		}
		out = append(out, entry)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func entryKey(userID, subjectID int64, mode string) string {
	return fmt.Sprintf("%s|%d|%d", mode, userID, subjectID)
}
