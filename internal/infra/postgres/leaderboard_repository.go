package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"quizclash-service/internal/domain"
)

// LeaderboardRepository keeps per-subject/mode aggregate rows in Postgres.
type LeaderboardRepository struct {
	db *bun.DB
}

func NewLeaderboardRepository(db *bun.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// RecordGame upserts the (user, subject, mode) row, accumulating score and
// folding accuracy into a running average.
func (r *LeaderboardRepository) RecordGame(ctx context.Context, userID, subjectID int64, mode string, score int, accuracy float64) error {
	entry := domain.LeaderboardEntry{
		UserID:      userID,
		SubjectID:   subjectID,
		Mode:        mode,
		Score:       score,
		Accuracy:    accuracy,
		GamesCount:  1,
		LastUpdated: time.Now(),
	}
	_, err := r.db.NewInsert().
		Model(&entry).
		On("CONFLICT (user_id, subject_id, mode) DO UPDATE").
		Set("score = lb.score + EXCLUDED.score").
		Set("accuracy = (lb.accuracy * lb.games_count + EXCLUDED.accuracy) / (lb.games_count + 1)").
		Set("games_count = lb.games_count + 1").
		Set("last_updated = EXCLUDED.last_updated").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboard upsert: %w", err)
	}
	return nil
}

// Top returns the highest-scoring rows for a subject/mode pair; zero
// subjectID or empty mode matches everything.
func (r *LeaderboardRepository) Top(ctx context.Context, subjectID int64, mode string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []domain.LeaderboardEntry
	q := r.db.NewSelect().
		Model(&entries).
		Order("score DESC").
		OrderExpr("user_id ASC").
		Limit(limit)
	if subjectID != 0 {
		q = q.Where("lb.subject_id = ?", subjectID)
	}
	if mode != "" {
		q = q.Where("lb.mode = ?", mode)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("leaderboard top: %w", err)
	}
	return entries, nil
}
