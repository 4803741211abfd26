package app

import (
	"context"

	"go.uber.org/zap"

	"quizclash-service/internal/domain"
)

// LeaderboardRowStore persists per-subject/mode aggregate rows.
type LeaderboardRowStore interface {
	RecordGame(ctx context.Context, userID, subjectID int64, mode string, score int, accuracy float64) error
	Top(ctx context.Context, subjectID int64, mode string, limit int) ([]domain.LeaderboardEntry, error)
}

// OverallBoard is the cross-subject ranking, typically Redis-backed.
type OverallBoard interface {
	Record(ctx context.Context, userID int64, score int) error
	Top(ctx context.Context, limit int) ([]domain.OverallScore, error)
	RankOf(ctx context.Context, userID int64) (int, error)
}

// LeaderboardService writes finished games through to the row store and
// the overall board. The overall board is optional and fail-soft: when it
// is down the per-subject rows still land.
type LeaderboardService struct {
	rows    LeaderboardRowStore
	overall OverallBoard
	log     *zap.Logger
}

func NewLeaderboardService(rows LeaderboardRowStore, overall OverallBoard, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{rows: rows, overall: overall, log: log}
}

// RecordGame implements LeaderboardRepository.
func (s *LeaderboardService) RecordGame(ctx context.Context, userID, subjectID int64, mode string, score int, accuracy float64) error {
	if err := s.rows.RecordGame(ctx, userID, subjectID, mode, score, accuracy); err != nil {
		return err
	}
	if s.overall != nil {
		if err := s.overall.Record(ctx, userID, score); err != nil {
			s.log.Warn("overall leaderboard write failed", zap.Error(err), zap.Int64("user", userID))
		}
	}
	return nil
}

// Top returns the per-subject/mode ranking rows.
func (s *LeaderboardService) Top(ctx context.Context, subjectID int64, mode string, limit int) ([]domain.LeaderboardEntry, error) {
	return s.rows.Top(ctx, subjectID, mode, limit)
}

// OverallTop returns the cross-subject top list when the board is available.
func (s *LeaderboardService) OverallTop(ctx context.Context, limit int) ([]domain.OverallScore, error) {
	if s.overall == nil {
		return nil, nil
	}
	return s.overall.Top(ctx, limit)
}

// OverallRank returns the user's overall rank, 0 when unranked or the
// board is unavailable.
func (s *LeaderboardService) OverallRank(ctx context.Context, userID int64) (int, error) {
	if s.overall == nil {
		return 0, nil
	}
	return s.overall.RankOf(ctx, userID)
}
