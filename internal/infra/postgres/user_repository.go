package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"quizclash-service/internal/domain"
)

// UserRepository persists users and aggregates their game history.
type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.NewInsert().Model(u).Exec(ctx)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return domain.ErrUserExists
	}
	return err
}

func (r *UserRepository) Get(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := r.db.NewSelect().Model(&u).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := r.db.NewSelect().Model(&u).Where("lower(u.username) = lower(?)", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	res, err := r.db.NewUpdate().Model(u).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RecordGame folds one finished game into the user's running totals.
func (r *UserRepository) RecordGame(ctx context.Context, userID int64, score int) error {
	res, err := r.db.NewUpdate().
		Model((*domain.User)(nil)).
		Set("games_played = games_played + 1").
		Set("total_score = total_score + ?", score).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("record game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SpendPoints debits a purchase, failing when the balance is short. The
// balance check rides in the WHERE clause so concurrent buys cannot
// overdraw.
func (r *UserRepository) SpendPoints(ctx context.Context, userID int64, amount int) error {
	res, err := r.db.NewUpdate().
		Model((*domain.User)(nil)).
		Set("total_score = total_score - ?", amount).
		Where("id = ? AND total_score >= ?", userID, amount).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("spend points: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInsufficientPoints
	}
	return nil
}

// AggregateStats computes the achievement-evaluation view from completed
// sessions.
func (r *UserRepository) AggregateStats(ctx context.Context, userID int64) (domain.PlayerStats, error) {
	var row struct {
		GamesPlayed int     `bun:"games_played"`
		TotalScore  int     `bun:"total_score"`
		BestScore   int     `bun:"best_score"`
		AvgScore    float64 `bun:"avg_score"`
	}
	err := r.db.NewSelect().
		TableExpr("game_sessions").
		ColumnExpr("count(*) AS games_played").
		ColumnExpr("coalesce(sum(total_score), 0) AS total_score").
		ColumnExpr("coalesce(max(total_score), 0) AS best_score").
		ColumnExpr("coalesce(avg(total_score), 0) AS avg_score").
		Where("user_id = ? AND is_completed", userID).
		Scan(ctx, &row)
	if err != nil {
		return domain.PlayerStats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	return domain.PlayerStats{
		GamesPlayed: row.GamesPlayed,
		TotalScore:  row.TotalScore,
		BestScore:   row.BestScore,
		AvgScore:    row.AvgScore,
	}, nil
}
