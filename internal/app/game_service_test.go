package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"quizclash-service/internal/domain"
	"quizclash-service/internal/infra/memory"
)

type gameFixture struct {
	service      *GameService
	questions    *memory.QuestionStore
	users        *memory.UserStore
	achievements *memory.AchievementStore
	user         domain.User
}

func newGameFixture(t *testing.T) *gameFixture {
	t.Helper()

	questions := memory.NewQuestionStore()
	for i := int64(1); i <= 30; i++ {
		questions.Add(domain.Question{
			Text:          "q",
			TopicID:       1 + (i % 3),
			SubjectID:     1,
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
			Difficulty:    "medium",
		})
	}

	users := memory.NewUserStore()
	user := users.Add(domain.User{Username: "player", Email: "p@example.com"})

	achievements := memory.NewAchievementStore()
	stats := NewStatsService(users, time.Minute)
	evaluator, err := NewEvaluator(DefaultRules(), zap.NewNop())
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}

	service := NewGameService(
		questions,
		memory.NewGameStore(),
		users,
		achievements,
		NewLeaderboardService(memory.NewLeaderboardStore(), nil, zap.NewNop()),
		memory.NewQuestionCache(time.Minute),
		NewSampler(),
		DefaultScoreConfig(),
		stats,
		evaluator,
		zap.NewNop(),
	)
	return &gameFixture{
		service:      service,
		questions:    questions,
		users:        users,
		achievements: achievements,
		user:         user,
	}
}

func TestGenerateQuestionsBumpsCountersOnceViaCache(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()
	req := QuestionRequest{SubjectID: 1, TopicIDs: []int64{1, 2, 3}, Difficulty: "medium", Count: 10}

	first, err := f.service.GenerateQuestions(ctx, req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(first) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(first))
	}

	asked := 0
	for _, q := range first {
		stored, err := f.questions.Get(ctx, q.ID)
		if err != nil {
			t.Fatalf("get question: %v", err)
		}
		asked += stored.TimesAsked
	}
	if asked != 10 {
		t.Fatalf("times_asked sum = %d after one generation, want 10", asked)
	}

	// Cache hit: same set back, counters untouched.
	second, err := f.service.GenerateQuestions(ctx, req)
	if err != nil {
		t.Fatalf("generate cached: %v", err)
	}
	if len(second) != 10 {
		t.Fatalf("expected cached 10 questions, got %d", len(second))
	}
	asked = 0
	for _, q := range second {
		stored, _ := f.questions.Get(ctx, q.ID)
		asked += stored.TimesAsked
	}
	if asked != 10 {
		t.Fatalf("times_asked sum = %d after cache hit, want still 10", asked)
	}
}

func TestGenerateQuestionsCacheKeyIgnoresTopicOrder(t *testing.T) {
	a := QuestionRequest{SubjectID: 1, TopicIDs: []int64{3, 1, 2}, Difficulty: "Medium", Count: 10}
	b := QuestionRequest{SubjectID: 1, TopicIDs: []int64{1, 2, 3}, Difficulty: "medium", Count: 10}
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("cache keys differ: %q vs %q", a.CacheKey(), b.CacheKey())
	}
}

func TestGameFlowScoresAndCompletes(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	session, err := f.service.StartGame(ctx, f.user.ID, 1, "classic", "medium", 3)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	questions, err := f.service.GenerateQuestions(ctx, QuestionRequest{
		SubjectID: 1, TopicIDs: []int64{1, 2, 3}, Difficulty: "medium", Count: 3,
	})
	if err != nil || len(questions) != 3 {
		t.Fatalf("generate: %v (%d questions)", err, len(questions))
	}

	// Two correct answers, one wrong.
	for i, q := range questions {
		selected := q.CorrectAnswer
		if i == 2 {
			selected = (q.CorrectAnswer + 1) % 4
		}
		outcome, err := f.service.SubmitAnswer(ctx, session.ID, q.ID, selected, 10)
		if err != nil {
			t.Fatalf("submit answer %d: %v", i, err)
		}
		if i < 2 && (!outcome.IsCorrect || outcome.PointsEarned != 130) {
			t.Fatalf("answer %d: got %+v, want correct 130 points", i, outcome)
		}
		if i == 2 && outcome.IsCorrect {
			t.Fatal("wrong answer marked correct")
		}
	}

	summary, err := f.service.CompleteGame(ctx, session.ID)
	if err != nil {
		t.Fatalf("complete game: %v", err)
	}
	if summary.FinalScore != 260 || summary.CorrectAnswers != 2 {
		t.Fatalf("summary = %+v, want 260 points and 2 correct", summary)
	}
	if summary.Accuracy < 66 || summary.Accuracy > 67 {
		t.Fatalf("accuracy = %v, want ~66.7", summary.Accuracy)
	}

	// First game unlocks gameplay and score achievements.
	names := make(map[string]bool)
	for _, r := range summary.NewAchievements {
		names[r.Name] = true
	}
	if !names["First Steps"] || !names["Century Club"] {
		t.Fatalf("expected First Steps and Century Club, got %v", names)
	}

	// Completing twice is rejected.
	if _, err := f.service.CompleteGame(ctx, session.ID); !errors.Is(err, domain.ErrSessionCompleted) {
		t.Fatalf("second complete: %v, want ErrSessionCompleted", err)
	}

	// User totals recorded.
	user, err := f.users.Get(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.GamesPlayed != 1 || user.TotalScore != 260 {
		t.Fatalf("user totals = %d games %d points, want 1/260", user.GamesPlayed, user.TotalScore)
	}
}

func TestSubmitAnswerAfterCompletionRejected(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	session, err := f.service.StartGame(ctx, f.user.ID, 1, "classic", "medium", 1)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	if _, err := f.service.CompleteGame(ctx, session.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := f.service.SubmitAnswer(ctx, session.ID, 1, 0, 5); !errors.Is(err, domain.ErrSessionCompleted) {
		t.Fatalf("submit after complete: %v, want ErrSessionCompleted", err)
	}
}

func TestAchievementUnlocksPersistedOnce(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	game := domain.GameResult{TotalScore: 150, Accuracy: 100, TimeSpent: 45}
	if err := f.users.RecordGame(ctx, f.user.ID, 150); err != nil {
		t.Fatalf("record game: %v", err)
	}

	first, total := f.service.EvaluateAchievements(ctx, f.user.ID, game)
	if len(first) == 0 || total == 0 {
		t.Fatalf("expected unlocks on first pass, got %d new %d total", len(first), total)
	}

	f.service.stats.Invalidate(f.user.ID)
	second, totalAfter := f.service.EvaluateAchievements(ctx, f.user.ID, game)
	if len(second) != 0 {
		t.Fatalf("second pass unlocked %d achievements, want 0", len(second))
	}
	if totalAfter != total {
		t.Fatalf("total changed from %d to %d on idempotent pass", total, totalAfter)
	}
}
