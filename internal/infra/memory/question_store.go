package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"quizclash-service/internal/domain"
)

// QuestionStore is an in-memory question repository, used in tests and
// when the service runs without Postgres.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[int64]domain.Question
	nextID    int64
}

func NewQuestionStore(seed ...domain.Question) *QuestionStore {
	s := &QuestionStore{questions: make(map[int64]domain.Question), nextID: 1}
	for _, q := range seed {
		s.Add(q)
	}
	return s
}

// Add inserts a question, assigning an ID when absent, and returns it.
func (s *QuestionStore) Add(q domain.Question) domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == 0 {
		q.ID = s.nextID
	}
	if q.ID >= s.nextID {
		s.nextID = q.ID + 1
	}
	s.questions[q.ID] = q
	return q
}

func (s *QuestionStore) CandidatePool(ctx context.Context, subjectID int64, topicIDs []int64, difficulty string, limit int) ([]domain.Question, error) {
	wanted := make(map[int64]bool, len(topicIDs))
	for _, id := range topicIDs {
		wanted[id] = true
	}

	s.mu.RLock()
	pool := make([]domain.Question, 0, limit)
	for _, q := range s.questions {
		if q.SubjectID != subjectID || !wanted[q.TopicID] {
			continue
		}
		if difficulty != "" && !strings.EqualFold(q.Difficulty, difficulty) {
			continue
		}
		pool = append(pool, q)
	}
	s.mu.RUnlock()

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].TimesAsked != pool[j].TimesAsked {
			return pool[i].TimesAsked < pool[j].TimesAsked
		}
		return pool[i].ID < pool[j].ID
	})
	if limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}
	return pool, nil
}

func (s *QuestionStore) Get(ctx context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *QuestionStore) MarkAsked(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if q, ok := s.questions[id]; ok {
			q.TimesAsked++
			s.questions[id] = q
		}
	}
	return nil
}

func (s *QuestionStore) MarkCorrect(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	q.TimesCorrect++
	s.questions[id] = q
	return nil
}
