package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"quizclash-service/internal/domain"
)

// Evaluation limits. The budget caps wall-clock time for one pass; the
// check limit caps how many rules are inspected even when time remains.
const (
	DefaultEvalBudget    = 8 * time.Second
	DefaultMaxRuleChecks = 5
)

// Evaluator runs the achievement rule list against a player's stats under
// a wall-clock budget. It never returns an error to callers: evaluation
// degrades to a partial (possibly empty) unlock list.
type Evaluator struct {
	rules     []Rule
	budget    time.Duration
	maxChecks int
	clock     func() time.Time
	log       *zap.Logger
}

// EvalOutcome is the result of one evaluation pass.
type EvalOutcome struct {
	Unlocked  []Rule `json:"unlocked"`
	Checked   int    `json:"checked"`
	BudgetHit bool   `json:"budgetHit"`
	// Failed is a soft error marker; callers still get a usable outcome.
	Failed bool `json:"failed,omitempty"`
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEvalBudget overrides the wall-clock budget.
func WithEvalBudget(d time.Duration) EvaluatorOption {
	return func(e *Evaluator) {
		if d > 0 {
			e.budget = d
		}
	}
}

// WithMaxRuleChecks overrides the rule-check cap.
func WithMaxRuleChecks(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxChecks = n
		}
	}
}

// WithEvalClock injects a clock for deterministic budget tests.
func WithEvalClock(clock func() time.Time) EvaluatorOption {
	return func(e *Evaluator) { e.clock = clock }
}

// NewEvaluator validates the rule list up front so malformed definitions
// fail at startup, not mid-request.
func NewEvaluator(rules []Rule, log *zap.Logger, opts ...EvaluatorOption) (*Evaluator, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("achievement rules: empty list")
	}
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.ID == "" || r.Name == "" {
			return nil, fmt.Errorf("achievement rule %d: missing id or name", i)
		}
		if r.Unlocks == nil {
			return nil, fmt.Errorf("achievement rule %q: nil predicate", r.ID)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("achievement rule %q: duplicate id", r.ID)
		}
		seen[r.ID] = true
	}
	e := &Evaluator{
		rules:     rules,
		budget:    DefaultEvalBudget,
		maxChecks: DefaultMaxRuleChecks,
		clock:     time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rules exposes the catalog for listing endpoints and benefit aggregation.
func (e *Evaluator) Rules() []Rule {
	return e.rules
}

// Evaluate walks the priority-ordered rules, unlocking each satisfied rule
// the player does not already hold. It stops when the wall-clock budget or
// the check limit is reached, whichever comes first. Held names are
// skipped without counting against the check limit, so a fully decorated
// player still gets fresh rules considered.
func (e *Evaluator) Evaluate(existing map[string]bool, stats domain.PlayerStats, game domain.GameResult) (outcome EvalOutcome) {
	start := e.clock()

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("achievement evaluation panicked", zap.Any("panic", r))
			outcome.Failed = true
			outcome.Unlocked = nil
		}
	}()

	for _, rule := range e.rules {
		if e.clock().Sub(start) > e.budget {
			e.log.Warn("achievement evaluation budget exceeded",
				zap.Duration("budget", e.budget),
				zap.Int("checked", outcome.Checked))
			outcome.BudgetHit = true
			break
		}
		if outcome.Checked >= e.maxChecks {
			break
		}
		if existing[rule.Name] {
			continue
		}
		outcome.Checked++
		if rule.Unlocks(stats, game) {
			outcome.Unlocked = append(outcome.Unlocked, rule)
		}
	}
	return outcome
}
