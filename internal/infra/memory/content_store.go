package memory

import (
	"context"
	"sort"
	"sync"

	"quizclash-service/internal/domain"
)

// ContentStore keeps subjects and topics in memory and delegates question
// storage to a QuestionStore so the catalog and the sampler share records.
type ContentStore struct {
	questions *QuestionStore

	mu       sync.RWMutex
	subjects map[int64]domain.Subject
	topics   map[int64]domain.Topic
	nextID   int64
}

func NewContentStore(questions *QuestionStore) *ContentStore {
	return &ContentStore{
		questions: questions,
		subjects:  make(map[int64]domain.Subject),
		topics:    make(map[int64]domain.Topic),
		nextID:    1,
	}
}

func (s *ContentStore) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subject.ID = s.nextID
	s.nextID++
	s.subjects[subject.ID] = *subject
	return nil
}

func (s *ContentStore) GetSubject(ctx context.Context, id int64) (domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subject, ok := s.subjects[id]
	if !ok {
		return domain.Subject{}, domain.ErrSubjectNotFound
	}
	return subject, nil
}

func (s *ContentStore) GetSubjectBySlug(ctx context.Context, slug string) (domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, subject := range s.subjects {
		if subject.Slug == slug {
			return subject, nil
		}
	}
	return domain.Subject{}, domain.ErrSubjectNotFound
}

func (s *ContentStore) ListSubjects(ctx context.Context, activeOnly bool) ([]domain.Subject, error) {
	s.mu.RLock()
	out := make([]domain.Subject, 0, len(s.subjects))
	for _, subject := range s.subjects {
		if activeOnly && !subject.IsActive {
			continue
		}
		out = append(out, subject)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ContentStore) UpdateSubject(ctx context.Context, subject *domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[subject.ID]; !ok {
		return domain.ErrSubjectNotFound
	}
	s.subjects[subject.ID] = *subject
	return nil
}

func (s *ContentStore) CreateTopic(ctx context.Context, topic *domain.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	topic.ID = s.nextID
	s.nextID++
	s.topics[topic.ID] = *topic
	return nil
}

func (s *ContentStore) GetTopic(ctx context.Context, id int64) (domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topic, ok := s.topics[id]
	if !ok {
		return domain.Topic{}, domain.ErrTopicNotFound
	}
	return topic, nil
}

func (s *ContentStore) ListTopics(ctx context.Context, subjectID int64) ([]domain.Topic, error) {
	s.mu.RLock()
	out := make([]domain.Topic, 0)
	for _, topic := range s.topics {
		if subjectID == 0 || topic.SubjectID == subjectID {
			out = append(out, topic)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ContentStore) UpdateTopic(ctx context.Context, topic *domain.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.topics[topic.ID]; !ok {
		return domain.ErrTopicNotFound
	}
	s.topics[topic.ID] = *topic
	return nil
}

func (s *ContentStore) CreateQuestion(ctx context.Context, q *domain.Question) error {
	*q = s.questions.Add(*q)

	s.mu.Lock()
	if topic, ok := s.topics[q.TopicID]; ok {
		topic.QuestionCount++
		s.topics[q.TopicID] = topic
	}
	s.mu.Unlock()
	return nil
}

func (s *ContentStore) ListQuestions(ctx context.Context, topicID int64, limit, offset int) ([]domain.Question, error) {
	s.questions.mu.RLock()
	out := make([]domain.Question, 0)
	for _, q := range s.questions.questions {
		if topicID == 0 || q.TopicID == topicID {
			out = append(out, q)
		}
	}
	s.questions.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ContentStore) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	s.questions.mu.Lock()
	defer s.questions.mu.Unlock()
	if _, ok := s.questions.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions.questions[q.ID] = *q
	return nil
}

func (s *ContentStore) DeleteQuestion(ctx context.Context, id int64) error {
	s.questions.mu.Lock()
	q, ok := s.questions.questions[id]
	if !ok {
		s.questions.mu.Unlock()
		return domain.ErrQuestionNotFound
	}
	delete(s.questions.questions, id)
	s.questions.mu.Unlock()

	s.mu.Lock()
	if topic, ok := s.topics[q.TopicID]; ok && topic.QuestionCount > 0 {
		topic.QuestionCount--
		s.topics[q.TopicID] = topic
	}
	s.mu.Unlock()
	return nil
}
