package app

import (
	"math/rand"
	"testing"

	"quizclash-service/internal/domain"
)

func question(id, topicID int64, timesAsked int) domain.Question {
	return domain.Question{
		ID:            id,
		TopicID:       topicID,
		SubjectID:     1,
		Text:          "q",
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: 0,
		TimesAsked:    timesAsked,
	}
}

func buildPool(perTopic map[int64]int, timesAsked int) []domain.Question {
	var pool []domain.Question
	id := int64(1)
	for topicID, n := range perTopic {
		for i := 0; i < n; i++ {
			pool = append(pool, question(id, topicID, timesAsked))
			id++
		}
	}
	return pool
}

func TestSampleExactCountNoDuplicates(t *testing.T) {
	pool := buildPool(map[int64]int{1: 20, 2: 20, 3: 20}, 0)
	s := NewSampler(WithRandSource(rand.NewSource(42)))

	got := s.Sample(pool, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(got))
	}
	seen := make(map[int64]bool)
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("duplicate question %d in sample", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSampleSmallPoolReturnsEverything(t *testing.T) {
	pool := buildPool(map[int64]int{1: 3, 2: 2}, 0)
	s := NewSampler(WithRandSource(rand.NewSource(1)))

	got := s.Sample(pool, 10)
	if len(got) != 5 {
		t.Fatalf("expected whole pool of 5, got %d", len(got))
	}
}

func TestSampleEmptyAndZero(t *testing.T) {
	s := NewSampler(WithRandSource(rand.NewSource(1)))
	if got := s.Sample(nil, 10); len(got) != 0 {
		t.Fatalf("expected empty for nil pool, got %d", len(got))
	}
	pool := buildPool(map[int64]int{1: 5}, 0)
	if got := s.Sample(pool, 0); got != nil {
		t.Fatalf("expected nil for zero count, got %d", len(got))
	}
}

func TestSampleFiltersMalformedQuestions(t *testing.T) {
	pool := buildPool(map[int64]int{1: 6}, 0)
	pool = append(pool,
		domain.Question{ID: 100, TopicID: 1, Options: []string{"a", "b"}, CorrectAnswer: 0},
		domain.Question{ID: 101, TopicID: 1, Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 7},
	)
	s := NewSampler(WithRandSource(rand.NewSource(7)))

	got := s.Sample(pool, 8)
	if len(got) != 6 {
		t.Fatalf("expected 6 valid questions, got %d", len(got))
	}
	for _, q := range got {
		if q.ID >= 100 {
			t.Fatalf("malformed question %d leaked into sample", q.ID)
		}
	}
}

func TestSampleBalancesTopics(t *testing.T) {
	pool := buildPool(map[int64]int{1: 30, 2: 30, 3: 30}, 5)
	s := NewSampler(WithRandSource(rand.NewSource(99)))

	got := s.Sample(pool, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(got))
	}
	perTopic := make(map[int64]int)
	for _, q := range got {
		perTopic[q.TopicID]++
	}
	// 10 across 3 topics: base 3 each, remainder 1 to the lowest topic id.
	for topicID, n := range perTopic {
		if n < 3 || n > 4 {
			t.Fatalf("topic %d got %d questions, want 3 or 4", topicID, n)
		}
	}
	if perTopic[1] != 4 {
		t.Fatalf("remainder slot should go to topic 1, distribution %v", perTopic)
	}
}

func TestSampleColdStartOrderVaries(t *testing.T) {
	pool := buildPool(map[int64]int{1: 40}, 0)
	s := NewSampler(WithRandSource(rand.NewSource(2024)))

	first := s.Sample(pool, 10)
	varied := false
	for trial := 0; trial < 50; trial++ {
		next := s.Sample(pool, 10)
		for i := range next {
			if next[i].ID != first[i].ID {
				varied = true
				break
			}
		}
		if varied {
			break
		}
	}
	if !varied {
		t.Fatal("50 cold-start samples returned an identical order")
	}
}

func TestSampleWornPoolPrefersLeastAsked(t *testing.T) {
	// Worn pool: probe sees no fresh questions, so selection must sort by
	// times_asked and take the least-asked prefix.
	var pool []domain.Question
	for i := int64(1); i <= 30; i++ {
		asked := 1
		if i > 20 {
			asked = 50
		}
		pool = append(pool, question(i, 1, asked))
	}
	s := NewSampler(WithRandSource(rand.NewSource(5)))

	got := s.Sample(pool, 10)
	for _, q := range got {
		if q.TimesAsked != 1 {
			t.Fatalf("expected only lightly-asked questions, got times_asked=%d", q.TimesAsked)
		}
	}
}

func TestSampleFreshPoolUsesWeights(t *testing.T) {
	// Mostly-unasked pool with one heavily worn question: over many draws
	// the worn question must appear less often than a fresh one.
	var pool []domain.Question
	for i := int64(1); i <= 19; i++ {
		pool = append(pool, question(i, 1, 0))
	}
	pool = append(pool, question(20, 1, 40))

	s := NewSampler(WithRandSource(rand.NewSource(11)))
	wornHits := 0
	for trial := 0; trial < 200; trial++ {
		for _, q := range s.Sample(pool, 5) {
			if q.ID == 20 {
				wornHits++
			}
		}
	}
	// Uniform selection would include it in about a quarter of draws.
	if wornHits > 25 {
		t.Fatalf("worn question selected %d/200 times, weights not applied", wornHits)
	}
}
