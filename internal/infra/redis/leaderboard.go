package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"quizclash-service/internal/domain"
)

// Leaderboard keeps the overall score ranking in a sorted set:
// ZINCRBY leaderboard:overall {score} {userID}.
type Leaderboard struct {
	client *redis.Client
	key    string
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client, key: "leaderboard:overall"}
}

// Record adds a finished game's score to the user's running total.
func (l *Leaderboard) Record(ctx context.Context, userID int64, score int) error {
	if err := l.client.ZIncrBy(ctx, l.key, float64(score), memberFor(userID)).Err(); err != nil {
		return fmt.Errorf("leaderboard incr: %w", err)
	}
	return nil
}

// Top returns the highest-scored users, ranks 1-based.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]domain.OverallScore, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard range: %w", err)
	}

	out := make([]domain.OverallScore, 0, len(rows))
	for i, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		userID, err := parseMember(member)
		if err != nil {
			continue
		}
		out = append(out, domain.OverallScore{
			UserID: userID,
			Score:  int(row.Score),
			Rank:   i + 1,
		})
	}
	return out, nil
}

// RankOf returns the user's 1-based overall rank, 0 when unranked.
func (l *Leaderboard) RankOf(ctx context.Context, userID int64) (int, error) {
	rank, err := l.client.ZRevRank(ctx, l.key, memberFor(userID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("leaderboard rank: %w", err)
	}
	return int(rank) + 1, nil
}

func memberFor(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

func parseMember(member string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(member, "user:"), 10, 64)
}
