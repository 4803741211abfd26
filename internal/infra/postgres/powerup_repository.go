package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"quizclash-service/internal/domain"
)

// PowerupRepository persists powerup purchases with bun.
type PowerupRepository struct {
	db *bun.DB
}

func NewPowerupRepository(db *bun.DB) *PowerupRepository {
	return &PowerupRepository{db: db}
}

func (r *PowerupRepository) SavePurchase(ctx context.Context, p *domain.PowerupPurchase) error {
	_, err := r.db.NewInsert().Model(p).Exec(ctx)
	return err
}

func (r *PowerupRepository) PurchasesForUser(ctx context.Context, userID int64) ([]domain.PowerupPurchase, error) {
	var purchases []domain.PowerupPurchase
	err := r.db.NewSelect().
		Model(&purchases).
		Where("pp.user_id = ?", userID).
		Order("pp.id ASC").
		Scan(ctx)
	return purchases, err
}

func (r *PowerupRepository) GetPurchase(ctx context.Context, id int64) (domain.PowerupPurchase, error) {
	var p domain.PowerupPurchase
	err := r.db.NewSelect().Model(&p).Where("pp.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PowerupPurchase{}, domain.ErrPowerupNotFound
	}
	return p, err
}

func (r *PowerupRepository) UpdatePurchase(ctx context.Context, p *domain.PowerupPurchase) error {
	res, err := r.db.NewUpdate().Model(p).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPowerupNotFound
	}
	return nil
}
