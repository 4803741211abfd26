package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"quizclash-service/internal/domain"
)

// TournamentRepository persists tournaments and everything hanging off
// them with bun.
type TournamentRepository struct {
	db *bun.DB
}

func NewTournamentRepository(db *bun.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) Create(ctx context.Context, t *domain.Tournament) error {
	_, err := r.db.NewInsert().Model(t).Exec(ctx)
	return err
}

func (r *TournamentRepository) Get(ctx context.Context, id int64) (domain.Tournament, error) {
	var t domain.Tournament
	err := r.db.NewSelect().Model(&t).Where("tr.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tournament{}, domain.ErrTournamentNotFound
	}
	return t, err
}

func (r *TournamentRepository) List(ctx context.Context, status string) ([]domain.Tournament, error) {
	var tournaments []domain.Tournament
	q := r.db.NewSelect().Model(&tournaments).Order("id ASC")
	if status != "" {
		q = q.Where("tr.status = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return tournaments, nil
}

func (r *TournamentRepository) Update(ctx context.Context, t *domain.Tournament) error {
	res, err := r.db.NewUpdate().Model(t).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTournamentNotFound
	}
	return nil
}

func (r *TournamentRepository) AddParticipant(ctx context.Context, p *domain.TournamentParticipant) error {
	_, err := r.db.NewInsert().Model(p).Exec(ctx)
	return err
}

func (r *TournamentRepository) Participant(ctx context.Context, tournamentID, userID int64) (domain.TournamentParticipant, error) {
	var p domain.TournamentParticipant
	err := r.db.NewSelect().
		Model(&p).
		Where("tp.tournament_id = ? AND tp.user_id = ?", tournamentID, userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TournamentParticipant{}, domain.ErrParticipantNotFound
	}
	return p, err
}

func (r *TournamentRepository) Participants(ctx context.Context, tournamentID int64, playedOnly bool) ([]domain.TournamentParticipant, error) {
	var participants []domain.TournamentParticipant
	q := r.db.NewSelect().
		Model(&participants).
		ColumnExpr("tp.*").
		ColumnExpr("u.username AS username").
		Join("JOIN users AS u ON u.id = tp.user_id").
		Where("tp.tournament_id = ?", tournamentID).
		Order("tp.id ASC")
	if playedOnly {
		q = q.Where("tp.has_played")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

func (r *TournamentRepository) ParticipantsForUser(ctx context.Context, userID int64) ([]domain.TournamentParticipant, error) {
	var participants []domain.TournamentParticipant
	err := r.db.NewSelect().
		Model(&participants).
		Where("tp.user_id = ?", userID).
		Order("tp.id ASC").
		Scan(ctx)
	return participants, err
}

func (r *TournamentRepository) CountParticipants(ctx context.Context, tournamentID int64) (int, error) {
	return r.db.NewSelect().
		Model((*domain.TournamentParticipant)(nil)).
		Where("tp.tournament_id = ?", tournamentID).
		Count(ctx)
}

func (r *TournamentRepository) UpdateParticipant(ctx context.Context, p *domain.TournamentParticipant) error {
	res, err := r.db.NewUpdate().
		Model(p).
		ExcludeColumn("username").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *TournamentRepository) CreateSession(ctx context.Context, s *domain.TournamentSession) error {
	_, err := r.db.NewInsert().Model(s).Exec(ctx)
	return err
}

func (r *TournamentRepository) GetSession(ctx context.Context, id int64) (domain.TournamentSession, error) {
	var s domain.TournamentSession
	err := r.db.NewSelect().Model(&s).Where("ts.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TournamentSession{}, domain.ErrSessionNotFound
	}
	return s, err
}

func (r *TournamentRepository) UpdateSession(ctx context.Context, s *domain.TournamentSession) error {
	res, err := r.db.NewUpdate().Model(s).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *TournamentRepository) SessionForParticipant(ctx context.Context, tournamentID, participantID int64) (domain.TournamentSession, error) {
	var s domain.TournamentSession
	err := r.db.NewSelect().
		Model(&s).
		Where("ts.tournament_id = ? AND ts.participant_id = ?", tournamentID, participantID).
		Order("ts.id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TournamentSession{}, domain.ErrSessionNotFound
	}
	return s, err
}

func (r *TournamentRepository) SaveAnswer(ctx context.Context, a *domain.TournamentAnswer) error {
	_, err := r.db.NewInsert().Model(a).Exec(ctx)
	return err
}

func (r *TournamentRepository) SessionAnswers(ctx context.Context, sessionID int64) ([]domain.TournamentAnswer, error) {
	var answers []domain.TournamentAnswer
	err := r.db.NewSelect().
		Model(&answers).
		Where("ta.session_id = ?", sessionID).
		Order("ta.id ASC").
		Scan(ctx)
	return answers, err
}

func (r *TournamentRepository) SavePrize(ctx context.Context, p *domain.TournamentPrize) error {
	_, err := r.db.NewInsert().Model(p).Exec(ctx)
	return err
}
