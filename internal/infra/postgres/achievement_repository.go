package postgres

import (
	"context"

	"github.com/uptrace/bun"

	"quizclash-service/internal/domain"
)

// AchievementRepository persists unlocked achievements with bun.
type AchievementRepository struct {
	db *bun.DB
}

func NewAchievementRepository(db *bun.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) ForUser(ctx context.Context, userID int64) ([]domain.Achievement, error) {
	var achievements []domain.Achievement
	err := r.db.NewSelect().
		Model(&achievements).
		Where("a.user_id = ?", userID).
		Order("a.unlocked_at ASC").
		Scan(ctx)
	return achievements, err
}

// Unlock inserts the achievement; the (user_id, name) unique index makes a
// repeat unlock a no-op.
func (r *AchievementRepository) Unlock(ctx context.Context, achievement *domain.Achievement) error {
	_, err := r.db.NewInsert().
		Model(achievement).
		On("CONFLICT (user_id, name) DO NOTHING").
		Exec(ctx)
	return err
}
