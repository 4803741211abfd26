package memory

import (
	"sync"
	"time"

	"quizclash-service/internal/domain"
)

// QuestionCache holds generated question sets under a TTL. Concurrent
// misses for the same key may each run compute; the race is accepted and
// last write wins, since any freshly computed set is equally valid.
type QuestionCache struct {
	ttl   time.Duration
	clock func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

// CacheOption configures a QuestionCache.
type CacheOption func(*QuestionCache)

// WithClock injects a clock for deterministic expiry tests.
func WithClock(clock func() time.Time) CacheOption {
	return func(c *QuestionCache) { c.clock = clock }
}

func NewQuestionCache(ttl time.Duration, opts ...CacheOption) *QuestionCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	c := &QuestionCache{
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[string]cachedSet),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the cached set when fresh, otherwise runs compute
// and caches its result. Errors from compute are never cached.
func (c *QuestionCache) GetOrCompute(key string, compute func() ([]domain.Question, error)) ([]domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return cloneQuestions(entry.questions), nil
	}
	c.mu.RUnlock()

	questions, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.pruneLocked(now)
	c.cache[key] = cachedSet{
		questions: cloneQuestions(questions),
		expiresAt: now.Add(c.ttl),
	}
	c.mu.Unlock()
	return questions, nil
}

// Invalidate drops one key.
func (c *QuestionCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.cache, key)
	c.mu.Unlock()
}

// Len reports the number of live entries.
func (c *QuestionCache) Len() int {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, entry := range c.cache {
		if entry.expiresAt.After(now) {
			n++
		}
	}
	return n
}

// pruneLocked evicts expired entries; called with the write lock held.
func (c *QuestionCache) pruneLocked(now time.Time) {
	for key, entry := range c.cache {
		if !entry.expiresAt.After(now) {
			delete(c.cache, key)
		}
	}
}

func cloneQuestions(qs []domain.Question) []domain.Question {
	return append([]domain.Question(nil), qs...)
}
