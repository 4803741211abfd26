package memory

import (
	"errors"
	"testing"
	"time"

	"quizclash-service/internal/domain"
)

func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func TestQuestionCacheComputesOncePerKey(t *testing.T) {
	cache := NewQuestionCache(time.Minute)

	calls := 0
	compute := func() ([]domain.Question, error) {
		calls++
		return []domain.Question{{ID: 1}, {ID: 2}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := cache.GetOrCompute("k", compute)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d questions, want 2", len(got))
		}
	}
	if calls != 1 {
		t.Fatalf("compute ran %d times, want 1", calls)
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	cache := NewQuestionCache(30*time.Minute, WithClock(fixedClock(&now)))

	calls := 0
	compute := func() ([]domain.Question, error) {
		calls++
		return []domain.Question{{ID: 1}}, nil
	}

	if _, err := cache.GetOrCompute("k", compute); err != nil {
		t.Fatalf("get: %v", err)
	}
	now = now.Add(29 * time.Minute)
	if _, err := cache.GetOrCompute("k", compute); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}
	if calls != 1 {
		t.Fatalf("compute ran %d times before expiry, want 1", calls)
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.GetOrCompute("k", compute); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("compute ran %d times after expiry, want 2", calls)
	}
}

func TestQuestionCacheDoesNotCacheErrors(t *testing.T) {
	cache := NewQuestionCache(time.Minute)

	boom := errors.New("pool unavailable")
	calls := 0
	if _, err := cache.GetOrCompute("k", func() ([]domain.Question, error) {
		calls++
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}

	got, err := cache.GetOrCompute("k", func() ([]domain.Question, error) {
		calls++
		return []domain.Question{{ID: 1}}, nil
	})
	if err != nil || len(got) != 1 {
		t.Fatalf("retry after error: %v (%d questions)", err, len(got))
	}
	if calls != 2 {
		t.Fatalf("compute ran %d times, want 2", calls)
	}
}

func TestQuestionCacheInvalidate(t *testing.T) {
	cache := NewQuestionCache(time.Minute)

	calls := 0
	compute := func() ([]domain.Question, error) {
		calls++
		return []domain.Question{{ID: 1}}, nil
	}
	if _, err := cache.GetOrCompute("k", compute); err != nil {
		t.Fatalf("get: %v", err)
	}
	cache.Invalidate("k")
	if _, err := cache.GetOrCompute("k", compute); err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if calls != 2 {
		t.Fatalf("compute ran %d times, want 2", calls)
	}
}

func TestQuestionCacheLenCountsLiveEntries(t *testing.T) {
	now := time.Unix(1000, 0)
	cache := NewQuestionCache(10*time.Minute, WithClock(fixedClock(&now)))

	one := func() ([]domain.Question, error) { return []domain.Question{{ID: 1}}, nil }
	if _, err := cache.GetOrCompute("a", one); err != nil {
		t.Fatalf("get: %v", err)
	}
	now = now.Add(6 * time.Minute)
	if _, err := cache.GetOrCompute("b", one); err != nil {
		t.Fatalf("get: %v", err)
	}
	if cache.Len() != 2 {
		t.Fatalf("len = %d, want 2", cache.Len())
	}

	// "a" expires first.
	now = now.Add(5 * time.Minute)
	if cache.Len() != 1 {
		t.Fatalf("len = %d after first expiry, want 1", cache.Len())
	}
}

func TestQuestionCacheReturnsCopies(t *testing.T) {
	cache := NewQuestionCache(time.Minute)

	if _, err := cache.GetOrCompute("k", func() ([]domain.Question, error) {
		return []domain.Question{{ID: 1, Text: "original"}}, nil
	}); err != nil {
		t.Fatalf("get: %v", err)
	}

	first, _ := cache.GetOrCompute("k", nil)
	first[0].Text = "mutated"

	second, _ := cache.GetOrCompute("k", nil)
	if second[0].Text != "original" {
		t.Fatalf("cached entry mutated through returned slice: %q", second[0].Text)
	}
}
