package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"quizclash-service/internal/domain"
)

// ContentRepository persists the quiz catalog with bun.
type ContentRepository struct {
	db *bun.DB
}

func NewContentRepository(db *bun.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) CreateSubject(ctx context.Context, s *domain.Subject) error {
	_, err := r.db.NewInsert().Model(s).Exec(ctx)
	return err
}

func (r *ContentRepository) GetSubject(ctx context.Context, id int64) (domain.Subject, error) {
	var s domain.Subject
	err := r.db.NewSelect().Model(&s).Where("s.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Subject{}, domain.ErrSubjectNotFound
	}
	return s, err
}

func (r *ContentRepository) GetSubjectBySlug(ctx context.Context, slug string) (domain.Subject, error) {
	var s domain.Subject
	err := r.db.NewSelect().Model(&s).Where("s.slug = ?", slug).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Subject{}, domain.ErrSubjectNotFound
	}
	return s, err
}

func (r *ContentRepository) ListSubjects(ctx context.Context, activeOnly bool) ([]domain.Subject, error) {
	var subjects []domain.Subject
	q := r.db.NewSelect().Model(&subjects).Order("id ASC")
	if activeOnly {
		q = q.Where("s.is_active")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

func (r *ContentRepository) UpdateSubject(ctx context.Context, s *domain.Subject) error {
	res, err := r.db.NewUpdate().Model(s).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSubjectNotFound
	}
	return nil
}

func (r *ContentRepository) CreateTopic(ctx context.Context, t *domain.Topic) error {
	_, err := r.db.NewInsert().Model(t).Exec(ctx)
	return err
}

func (r *ContentRepository) GetTopic(ctx context.Context, id int64) (domain.Topic, error) {
	var t domain.Topic
	err := r.db.NewSelect().Model(&t).Where("t.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Topic{}, domain.ErrTopicNotFound
	}
	return t, err
}

func (r *ContentRepository) ListTopics(ctx context.Context, subjectID int64) ([]domain.Topic, error) {
	var topics []domain.Topic
	q := r.db.NewSelect().Model(&topics).Order("id ASC")
	if subjectID != 0 {
		q = q.Where("t.subject_id = ?", subjectID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (r *ContentRepository) UpdateTopic(ctx context.Context, t *domain.Topic) error {
	res, err := r.db.NewUpdate().Model(t).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTopicNotFound
	}
	return nil
}

func (r *ContentRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(q).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().
			Model((*domain.Topic)(nil)).
			Set("question_count = question_count + 1").
			Where("id = ?", q.TopicID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

func (r *ContentRepository) ListQuestions(ctx context.Context, topicID int64, limit, offset int) ([]domain.Question, error) {
	var questions []domain.Question
	q := r.db.NewSelect().Model(&questions).Order("id ASC").Limit(limit).Offset(offset)
	if topicID != 0 {
		q = q.Where("q.topic_id = ?", topicID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func (r *ContentRepository) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	res, err := r.db.NewUpdate().Model(q).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *ContentRepository) DeleteQuestion(ctx context.Context, id int64) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var q domain.Question
		if err := tx.NewSelect().Model(&q).Where("q.id = ?", id).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrQuestionNotFound
			}
			return err
		}
		if _, err := tx.NewDelete().Model((*domain.Question)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().
			Model((*domain.Topic)(nil)).
			Set("question_count = GREATEST(question_count - 1, 0)").
			Where("id = ?", q.TopicID).
			Exec(ctx)
		return err
	})
	return err
}
