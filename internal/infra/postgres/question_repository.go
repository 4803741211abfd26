package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/uptrace/bun"

	"quizclash-service/internal/domain"
)

// QuestionRepository serves questions with a split backend: bun handles
// CRUD and counter updates, while the read-heavy candidate pool query goes
// through a pgx pool.
type QuestionRepository struct {
	db   *bun.DB
	pool *pgxpool.Pool
}

func NewQuestionRepository(db *bun.DB, pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db, pool: pool}
}

// CandidatePool returns questions for the subject/topics/difficulty filter,
// ordered by times_asked ascending so the sampler probes the freshest rows.
func (r *QuestionRepository) CandidatePool(ctx context.Context, subjectID int64, topicIDs []int64, difficulty string, limit int) ([]domain.Question, error) {
	const query = `
		SELECT id, text, topic_id, subject_id, options, correct_answer,
		       difficulty, explanation, times_asked, times_correct
		FROM questions
		WHERE subject_id = $1
		  AND topic_id = ANY($2)
		  AND ($3 = '' OR difficulty = $3)
		ORDER BY times_asked ASC, id ASC
		LIMIT $4`

	rows, err := r.pool.Query(ctx, query, subjectID, topicIDs, difficulty, limit)
	if err != nil {
		return nil, fmt.Errorf("candidate pool: %w", err)
	}
	defer rows.Close()

	pool := make([]domain.Question, 0, limit)
	for rows.Next() {
		var q domain.Question
		var rawOptions []byte
		if err := rows.Scan(
			&q.ID, &q.Text, &q.TopicID, &q.SubjectID, &rawOptions,
			&q.CorrectAnswer, &q.Difficulty, &q.Explanation,
			&q.TimesAsked, &q.TimesCorrect,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for question %d: %w", q.ID, err)
		}
		pool = append(pool, q)
	}
	return pool, rows.Err()
}

func (r *QuestionRepository) Get(ctx context.Context, id int64) (domain.Question, error) {
	var q domain.Question
	err := r.db.NewSelect().Model(&q).Where("q.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// MarkAsked bumps times_asked by exactly 1 for every id in one statement.
func (r *QuestionRepository) MarkAsked(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.NewUpdate().
		Model((*domain.Question)(nil)).
		Set("times_asked = times_asked + 1").
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mark asked: %w", err)
	}
	return nil
}

func (r *QuestionRepository) MarkCorrect(ctx context.Context, id int64) error {
	_, err := r.db.NewUpdate().
		Model((*domain.Question)(nil)).
		Set("times_correct = times_correct + 1").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mark correct: %w", err)
	}
	return nil
}
