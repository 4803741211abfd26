package app

import (
	"context"

	"github.com/gosimple/slug"

	"quizclash-service/internal/domain"
)

// ContentRepository persists the quiz catalog: subjects, topics, questions.
type ContentRepository interface {
	CreateSubject(ctx context.Context, s *domain.Subject) error
	GetSubject(ctx context.Context, id int64) (domain.Subject, error)
	GetSubjectBySlug(ctx context.Context, slug string) (domain.Subject, error)
	ListSubjects(ctx context.Context, activeOnly bool) ([]domain.Subject, error)
	UpdateSubject(ctx context.Context, s *domain.Subject) error

	CreateTopic(ctx context.Context, t *domain.Topic) error
	GetTopic(ctx context.Context, id int64) (domain.Topic, error)
	ListTopics(ctx context.Context, subjectID int64) ([]domain.Topic, error)
	UpdateTopic(ctx context.Context, t *domain.Topic) error

	CreateQuestion(ctx context.Context, q *domain.Question) error
	ListQuestions(ctx context.Context, topicID int64, limit, offset int) ([]domain.Question, error)
	UpdateQuestion(ctx context.Context, q *domain.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
}

// ContentService is the admin surface over the quiz catalog. Slugs are
// derived from names, and questions are validated at the door so malformed
// records never reach the sampler.
type ContentService struct {
	repo ContentRepository
}

func NewContentService(repo ContentRepository) *ContentService {
	return &ContentService{repo: repo}
}

func (s *ContentService) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	subject.Slug = slug.Make(subject.Name)
	subject.IsActive = true
	return s.repo.CreateSubject(ctx, subject)
}

func (s *ContentService) Subject(ctx context.Context, id int64) (domain.Subject, error) {
	return s.repo.GetSubject(ctx, id)
}

func (s *ContentService) SubjectBySlug(ctx context.Context, slugText string) (domain.Subject, error) {
	return s.repo.GetSubjectBySlug(ctx, slugText)
}

func (s *ContentService) Subjects(ctx context.Context, activeOnly bool) ([]domain.Subject, error) {
	return s.repo.ListSubjects(ctx, activeOnly)
}

func (s *ContentService) UpdateSubject(ctx context.Context, subject *domain.Subject) error {
	subject.Slug = slug.Make(subject.Name)
	return s.repo.UpdateSubject(ctx, subject)
}

func (s *ContentService) CreateTopic(ctx context.Context, topic *domain.Topic) error {
	if _, err := s.repo.GetSubject(ctx, topic.SubjectID); err != nil {
		return err
	}
	topic.Slug = slug.Make(topic.Name)
	topic.IsActive = true
	return s.repo.CreateTopic(ctx, topic)
}

func (s *ContentService) Topic(ctx context.Context, id int64) (domain.Topic, error) {
	return s.repo.GetTopic(ctx, id)
}

func (s *ContentService) Topics(ctx context.Context, subjectID int64) ([]domain.Topic, error) {
	return s.repo.ListTopics(ctx, subjectID)
}

func (s *ContentService) UpdateTopic(ctx context.Context, topic *domain.Topic) error {
	topic.Slug = slug.Make(topic.Name)
	return s.repo.UpdateTopic(ctx, topic)
}

func (s *ContentService) CreateQuestion(ctx context.Context, q *domain.Question) error {
	if !q.Valid() {
		return domain.ErrMalformedQuestion
	}
	topic, err := s.repo.GetTopic(ctx, q.TopicID)
	if err != nil {
		return err
	}
	q.SubjectID = topic.SubjectID
	return s.repo.CreateQuestion(ctx, q)
}

func (s *ContentService) Questions(ctx context.Context, topicID int64, limit, offset int) ([]domain.Question, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListQuestions(ctx, topicID, limit, offset)
}

func (s *ContentService) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	if !q.Valid() {
		return domain.ErrMalformedQuestion
	}
	return s.repo.UpdateQuestion(ctx, q)
}

func (s *ContentService) DeleteQuestion(ctx context.Context, id int64) error {
	return s.repo.DeleteQuestion(ctx, id)
}
