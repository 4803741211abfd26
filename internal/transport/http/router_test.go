package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"quizclash-service/internal/app"
	"quizclash-service/internal/auth"
	"quizclash-service/internal/domain"
	"quizclash-service/internal/infra/memory"
)

type testEnv struct {
	router      http.Handler
	tokens      *auth.TokenManager
	users       *memory.UserStore
	questions   *memory.QuestionStore
	tournaments *app.TournamentService
	live        *app.LiveBoard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()

	users := memory.NewUserStore()
	questions := memory.NewQuestionStore()
	for i := 0; i < 30; i++ {
		questions.Add(domain.Question{
			Text:          "q",
			TopicID:       int64(1 + i%3),
			SubjectID:     1,
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
			Difficulty:    "medium",
		})
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	achievements := memory.NewAchievementStore()
	stats := app.NewStatsService(users, time.Minute)
	evaluator, err := app.NewEvaluator(app.DefaultRules(), log)
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	leaderboards := app.NewLeaderboardService(memory.NewLeaderboardStore(), nil, log)

	games := app.NewGameService(
		questions,
		memory.NewGameStore(),
		users,
		achievements,
		leaderboards,
		memory.NewQuestionCache(time.Minute),
		app.NewSampler(),
		app.DefaultScoreConfig(),
		stats,
		evaluator,
		log,
	)
	live := app.NewLiveBoard()
	tournaments := app.NewTournamentService(
		memory.NewTournamentStore(), questions, users, app.DefaultScoreConfig(), live, log)

	handlers := Handlers{
		Auth:        NewAuthHandler(app.NewAuthService(users, tokens)),
		Content:     NewContentHandler(app.NewContentService(memory.NewContentStore(questions))),
		Game:        NewGameHandler(games, stats),
		Tournament:  NewTournamentHandler(tournaments),
		Achievement: NewAchievementHandler(games, achievements, evaluator),
		Leaderboard: NewLeaderboardHandler(leaderboards),
		Powerup:     NewPowerupHandler(app.NewPowerupService(memory.NewPowerupStore(), users)),
		WS:          NewWSHandler(tournaments, live, log),
	}
	return &testEnv{
		router:      NewRouter(handlers, tokens, log),
		tokens:      tokens,
		users:       users,
		questions:   questions,
		tournaments: tournaments,
		live:        live,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	register := map[string]string{"username": "alice", "email": "a@example.com", "password": "secret1"}
	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", register)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/auth/register", "", register)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"username": "alice", "password": "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" {
		t.Fatal("login returned no token")
	}

	rec = env.do(t, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d", rec.Code)
	}
	var profile domain.User
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Username != "alice" {
		t.Fatalf("profile username = %q, want alice", profile.Username)
	}
}

func TestAuthRequiredAndRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rec.Code)
	}
}

func TestWrongLoginRejected(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/auth/register", "",
		map[string]string{"username": "alice", "email": "a@example.com", "password": "secret1"})

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"username": "alice", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", rec.Code)
	}
}

func TestAdminRoutesEnforceRole(t *testing.T) {
	env := newTestEnv(t)

	user := env.users.Add(domain.User{Username: "player", Email: "p@example.com", Role: "user"})
	admin := env.users.Add(domain.User{Username: "root", Email: "r@example.com", Role: "admin"})

	userToken, err := env.tokens.Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	adminToken, err := env.tokens.Issue(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	body := map[string]string{"name": "Science"}
	rec := env.do(t, http.MethodPost, "/api/v1/subjects", userToken, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user creating subject status = %d, want 403", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/subjects", adminToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin creating subject status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGameFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	user := env.users.Add(domain.User{Username: "player", Email: "p@example.com", Role: "user"})
	token, err := env.tokens.Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/games", token, map[string]interface{}{
		"subjectId": 1, "mode": "classic", "difficulty": "medium", "totalQuestions": 3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start game status = %d: %s", rec.Code, rec.Body.String())
	}
	var session domain.GameSession
	if err := json.NewDecoder(rec.Body).Decode(&session); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/games/questions", token, map[string]interface{}{
		"subjectId": 1, "topicIds": []int64{1, 2, 3}, "difficulty": "medium", "count": 3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("generate questions status = %d: %s", rec.Code, rec.Body.String())
	}
	var questions []domain.Question
	if err := json.NewDecoder(rec.Body).Decode(&questions); err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(questions))
	}
}
