package app

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"quizclash-service/internal/domain"
)

func newTestEvaluator(t *testing.T, rules []Rule, opts ...EvaluatorOption) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(rules, zap.NewNop(), opts...)
	if err != nil {
		t.Fatalf("new evaluator: %v", err)
	}
	return e
}

func TestNewEvaluatorRejectsBadRules(t *testing.T) {
	if _, err := NewEvaluator(nil, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty rule list")
	}
	if _, err := NewEvaluator([]Rule{{ID: "x"}}, zap.NewNop()); err == nil {
		t.Fatal("expected error for rule without name")
	}
	if _, err := NewEvaluator([]Rule{{ID: "x", Name: "X"}}, zap.NewNop()); err == nil {
		t.Fatal("expected error for nil predicate")
	}
	dup := []Rule{
		{ID: "x", Name: "X", Unlocks: func(domain.PlayerStats, domain.GameResult) bool { return false }},
		{ID: "x", Name: "Y", Unlocks: func(domain.PlayerStats, domain.GameResult) bool { return false }},
	}
	if _, err := NewEvaluator(dup, zap.NewNop()); err == nil {
		t.Fatal("expected error for duplicate rule id")
	}
}

func TestEvaluateUnlocksMatchingRules(t *testing.T) {
	e := newTestEvaluator(t, DefaultRules())

	stats := domain.PlayerStats{GamesPlayed: 1}
	game := domain.GameResult{TotalScore: 120, Accuracy: 80, TimeSpent: 45}

	outcome := e.Evaluate(nil, stats, game)
	if outcome.Failed || outcome.BudgetHit {
		t.Fatalf("unexpected failure markers: %+v", outcome)
	}

	unlocked := make(map[string]bool)
	for _, r := range outcome.Unlocked {
		unlocked[r.ID] = true
	}
	if !unlocked["first_steps"] || !unlocked["century_club"] {
		t.Fatalf("expected first_steps and century_club, got %v", unlocked)
	}
	if unlocked["high_scorer"] {
		t.Fatal("high_scorer unlocked at 120 points")
	}
}

func TestEvaluateSkipsHeldWithoutCountingChecks(t *testing.T) {
	e := newTestEvaluator(t, DefaultRules(), WithMaxRuleChecks(3))

	held := map[string]bool{
		"First Steps":  true,
		"Century Club": true,
	}
	stats := domain.PlayerStats{GamesPlayed: 12}
	game := domain.GameResult{TotalScore: 600, Accuracy: 100}

	outcome := e.Evaluate(held, stats, game)
	if outcome.Checked != 3 {
		t.Fatalf("checked %d rules, want 3", outcome.Checked)
	}
	for _, r := range outcome.Unlocked {
		if held[r.Name] {
			t.Fatalf("re-unlocked held achievement %q", r.Name)
		}
	}
	// The three checks land on perfectionist, high_scorer, legend.
	unlocked := make(map[string]bool)
	for _, r := range outcome.Unlocked {
		unlocked[r.ID] = true
	}
	if !unlocked["perfectionist"] || !unlocked["high_scorer"] {
		t.Fatalf("expected perfectionist and high_scorer, got %v", unlocked)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	e := newTestEvaluator(t, DefaultRules())
	stats := domain.PlayerStats{GamesPlayed: 1}
	game := domain.GameResult{TotalScore: 150}

	first := e.Evaluate(nil, stats, game)
	held := make(map[string]bool)
	for _, r := range first.Unlocked {
		held[r.Name] = true
	}

	second := e.Evaluate(held, stats, game)
	if len(second.Unlocked) != 0 {
		t.Fatalf("second pass unlocked %d rules, want 0", len(second.Unlocked))
	}
}

func TestEvaluateBudgetCutoff(t *testing.T) {
	// Clock jumps 3s per reading, blowing the 8s budget after a few rules.
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(3 * time.Second)
		return now
	}
	e := newTestEvaluator(t, DefaultRules(), WithEvalClock(clock), WithMaxRuleChecks(100))

	outcome := e.Evaluate(nil, domain.PlayerStats{GamesPlayed: 100}, domain.GameResult{TotalScore: 2000})
	if !outcome.BudgetHit {
		t.Fatal("expected budget cutoff")
	}
	if outcome.Checked >= len(DefaultRules()) {
		t.Fatalf("checked %d rules, expected cutoff before %d", outcome.Checked, len(DefaultRules()))
	}
}

func TestEvaluatePanicDegradesToFailure(t *testing.T) {
	rules := []Rule{{
		ID:   "boom",
		Name: "Boom",
		Unlocks: func(domain.PlayerStats, domain.GameResult) bool {
			panic("rule exploded")
		},
	}}
	e := newTestEvaluator(t, rules)

	outcome := e.Evaluate(nil, domain.PlayerStats{}, domain.GameResult{})
	if !outcome.Failed {
		t.Fatal("expected failure marker after panic")
	}
	if len(outcome.Unlocked) != 0 {
		t.Fatalf("expected no unlocks after panic, got %d", len(outcome.Unlocked))
	}
}

func TestAggregateBenefits(t *testing.T) {
	rules := DefaultRules()
	held := map[string]bool{
		"Century Club": true,
		"High Scorer":  true,
		"First Steps":  true,
	}
	agg := AggregateBenefits(rules, held)
	if agg.ScoreMultiplier != 1.25 {
		t.Fatalf("multiplier = %v, want max 1.25", agg.ScoreMultiplier)
	}
	if agg.BonusPoints != 100 {
		t.Fatalf("bonus points = %d, want 100", agg.BonusPoints)
	}
	if agg.ExtraTime != 5 {
		t.Fatalf("extra time = %d, want 5", agg.ExtraTime)
	}
}

func TestAggregateBenefitsBaseline(t *testing.T) {
	agg := AggregateBenefits(DefaultRules(), nil)
	if agg.ScoreMultiplier != 1.0 {
		t.Fatalf("baseline multiplier = %v, want 1.0", agg.ScoreMultiplier)
	}
}
