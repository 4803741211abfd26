package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"quizclash-service/internal/domain"
)

// GameRepository persists game sessions and answers with bun.
type GameRepository struct {
	db *bun.DB
}

func NewGameRepository(db *bun.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) CreateSession(ctx context.Context, session *domain.GameSession) error {
	_, err := r.db.NewInsert().Model(session).Exec(ctx)
	return err
}

func (r *GameRepository) GetSession(ctx context.Context, id int64) (domain.GameSession, error) {
	var session domain.GameSession
	err := r.db.NewSelect().Model(&session).Where("gs.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	return session, err
}

func (r *GameRepository) UpdateSession(ctx context.Context, session *domain.GameSession) error {
	res, err := r.db.NewUpdate().Model(session).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *GameRepository) SaveAnswer(ctx context.Context, answer *domain.GameAnswer) error {
	_, err := r.db.NewInsert().Model(answer).Exec(ctx)
	return err
}

// SessionAnswers returns the answers of one session in submission order.
func (r *GameRepository) SessionAnswers(ctx context.Context, sessionID int64) ([]domain.GameAnswer, error) {
	var answers []domain.GameAnswer
	err := r.db.NewSelect().
		Model(&answers).
		Where("ga.game_session_id = ?", sessionID).
		Order("id ASC").
		Scan(ctx)
	return answers, err
}
