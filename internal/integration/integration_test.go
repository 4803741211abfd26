package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"quizclash-service/internal/app"
	"quizclash-service/internal/domain"
	"quizclash-service/internal/infra/memory"
	"quizclash-service/internal/infra/postgres"
	"quizclash-service/internal/infra/postgres/migrations"
	infraredis "quizclash-service/internal/infra/redis"
)

func TestGameFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := openBun(pgURL)
	defer db.Close()
	migrateDB(t, ctx, db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	userRepo := postgres.NewUserRepository(db)
	questionRepo := postgres.NewQuestionRepository(db, pool)
	contentRepo := postgres.NewContentRepository(db)

	user := seedCatalog(t, ctx, userRepo, contentRepo)

	log := zap.NewNop()
	stats := app.NewStatsService(userRepo, time.Minute)
	evaluator, err := app.NewEvaluator(app.DefaultRules(), log)
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	leaderboards := app.NewLeaderboardService(
		postgres.NewLeaderboardRepository(db),
		infraredis.NewLeaderboard(redisClient),
		log,
	)
	games := app.NewGameService(
		questionRepo,
		postgres.NewGameRepository(db),
		userRepo,
		postgres.NewAchievementRepository(db),
		leaderboards,
		memory.NewQuestionCache(time.Minute),
		app.NewSampler(),
		app.DefaultScoreConfig(),
		stats,
		evaluator,
		log,
	)

	session, err := games.StartGame(ctx, user.ID, 1, "classic", "easy", 3)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	questions, err := games.GenerateQuestions(ctx, app.QuestionRequest{
		SubjectID: 1, TopicIDs: []int64{1}, Difficulty: "easy", Count: 3,
	})
	if err != nil {
		t.Fatalf("generate questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(questions))
	}

	for _, q := range questions {
		outcome, err := games.SubmitAnswer(ctx, session.ID, q.ID, q.CorrectAnswer, 10)
		if err != nil {
			t.Fatalf("submit answer: %v", err)
		}
		if !outcome.IsCorrect || outcome.PointsEarned != 130 {
			t.Fatalf("outcome = %+v, want correct for 130 points", outcome)
		}
	}

	summary, err := games.CompleteGame(ctx, session.ID)
	if err != nil {
		t.Fatalf("complete game: %v", err)
	}
	if summary.FinalScore != 390 || summary.CorrectAnswers != 3 {
		t.Fatalf("summary = %+v, want 390 points and 3 correct", summary)
	}
	if summary.Accuracy != 100 {
		t.Fatalf("accuracy = %v, want 100", summary.Accuracy)
	}

	// Counters are persisted: every served question was marked asked.
	var asked int
	if err := db.NewSelect().Table("questions").
		ColumnExpr("COALESCE(SUM(times_asked), 0)").Scan(ctx, &asked); err != nil {
		t.Fatalf("sum times_asked: %v", err)
	}
	if asked != 3 {
		t.Fatalf("times_asked sum = %d, want 3", asked)
	}

	// User aggregates updated.
	updated, err := userRepo.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if updated.GamesPlayed != 1 || updated.TotalScore != 390 {
		t.Fatalf("user totals = %d games %d points, want 1/390", updated.GamesPlayed, updated.TotalScore)
	}

	// The overall redis ranking saw the score.
	top, err := leaderboards.OverallTop(ctx, 10)
	if err != nil {
		t.Fatalf("overall top: %v", err)
	}
	if len(top) != 1 || top[0].UserID != user.ID || top[0].Score != 390 {
		t.Fatalf("overall top = %+v, want user %d with 390", top, user.ID)
	}
}

func seedCatalog(t *testing.T, ctx context.Context, users *postgres.UserRepository, content *postgres.ContentRepository) domain.User {
	t.Helper()

	user := domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         "user",
		Level:        1,
		IsActive:     true,
	}
	if err := users.Create(ctx, &user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	subject := domain.Subject{Name: "Science", Slug: "science", IsActive: true}
	if err := content.CreateSubject(ctx, &subject); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	topic := domain.Topic{SubjectID: subject.ID, Name: "Physics", IsActive: true}
	if err := content.CreateTopic(ctx, &topic); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	for i := 0; i < 10; i++ {
		q := domain.Question{
			SubjectID:     subject.ID,
			TopicID:       topic.ID,
			Text:          fmt.Sprintf("question %d", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
			Difficulty:    "easy",
		}
		if err := content.CreateQuestion(ctx, &q); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	return user
}

func openBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func migrateDB(t *testing.T, ctx context.Context, db *bun.DB) {
	t.Helper()
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
