package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quizclash-service/internal/app"
	"quizclash-service/internal/auth"
	"quizclash-service/internal/config"
	"quizclash-service/internal/infra/memory"
	"quizclash-service/internal/infra/postgres"
	redisinfra "quizclash-service/internal/infra/redis"
	transport "quizclash-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// Repository wiring: Postgres when configured, in-memory otherwise.
	var (
		questionRepo    app.QuestionRepository
		gameRepo        app.GameRepository
		userRepo        app.UserRepository
		accountRepo     app.AccountRepository
		pointsAccount   app.PointsAccount
		statsRepo       app.StatsRepository
		achievementRepo app.AchievementRepository
		contentRepo     app.ContentRepository
		powerupRepo     app.PowerupRepository
		tournamentRepo  app.TournamentRepository
		rowStore        app.LeaderboardRowStore
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		db := openBun(cfg.Postgres.URL)
		defer db.Close()

		users := postgres.NewUserRepository(db)
		questionRepo = postgres.NewQuestionRepository(db, pool)
		gameRepo = postgres.NewGameRepository(db)
		userRepo = users
		accountRepo = users
		pointsAccount = users
		statsRepo = users
		achievementRepo = postgres.NewAchievementRepository(db)
		contentRepo = postgres.NewContentRepository(db)
		powerupRepo = postgres.NewPowerupRepository(db)
		tournamentRepo = postgres.NewTournamentRepository(db)
		rowStore = postgres.NewLeaderboardRepository(db)
	} else {
		log.Warn("postgres url not configured, using in-memory stores")
		questions := memory.NewQuestionStore()
		users := memory.NewUserStore()
		questionRepo = questions
		gameRepo = memory.NewGameStore()
		userRepo = users
		accountRepo = users
		pointsAccount = users
		statsRepo = users
		achievementRepo = memory.NewAchievementStore()
		contentRepo = memory.NewContentStore(questions)
		powerupRepo = memory.NewPowerupStore()
		tournamentRepo = memory.NewTournamentStore()
		rowStore = memory.NewLeaderboardStore()
	}

	var overall app.OverallBoard
	if redisClient != nil {
		overall = redisinfra.NewLeaderboard(redisClient)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret,
		config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))

	sampler := newSampler(cfg)
	cache := memory.NewQuestionCache(config.TTLDuration(cfg.Game.CacheTTL, 30*time.Minute))
	scoring := app.DefaultScoreConfig()

	evaluator, err := newEvaluator(cfg, log)
	if err != nil {
		return err
	}

	stats := app.NewStatsService(statsRepo,
		config.TTLDuration(cfg.Game.StatsTTL, app.DefaultStatsTTL))
	leaderboards := app.NewLeaderboardService(rowStore, overall, log)
	games := app.NewGameService(questionRepo, gameRepo, userRepo,
		achievementRepo, leaderboards, cache, sampler, scoring, stats, evaluator, log)
	live := app.NewLiveBoard()
	tournaments := app.NewTournamentService(tournamentRepo, questionRepo, userRepo, scoring, live, log)
	content := app.NewContentService(contentRepo)
	powerups := app.NewPowerupService(powerupRepo, pointsAccount)
	authService := app.NewAuthService(accountRepo, tokens)

	if len(cfg.Prewarm.Sets) > 0 {
		requests := make([]app.QuestionRequest, 0, len(cfg.Prewarm.Sets))
		for _, set := range cfg.Prewarm.Sets {
			requests = append(requests, app.QuestionRequest{
				SubjectID:  set.SubjectID,
				TopicIDs:   set.TopicIDs,
				Difficulty: set.Difficulty,
				Count:      set.Count,
			})
		}
		prewarmer := app.NewPrewarmer(games, requests,
			config.TTLDuration(cfg.Prewarm.Interval, 5*time.Minute), log)
		go prewarmer.Run(ctx)
	}

	handler := transport.NewRouter(transport.Handlers{
		Auth:        transport.NewAuthHandler(authService),
		Content:     transport.NewContentHandler(content),
		Game:        transport.NewGameHandler(games, stats),
		Tournament:  transport.NewTournamentHandler(tournaments),
		Achievement: transport.NewAchievementHandler(games, achievementRepo, evaluator),
		Leaderboard: transport.NewLeaderboardHandler(leaderboards),
		Powerup:     transport.NewPowerupHandler(powerups),
		WS:          transport.NewWSHandler(tournaments, live, log),
	}, tokens, log)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quizclash service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down")
	case <-ctx.Done():
		log.Info("context canceled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newSampler(cfg config.Config) *app.Sampler {
	opts := []app.SamplerOption{}
	if cfg.Game.ProbeSize > 0 {
		opts = append(opts, app.WithProbeSize(cfg.Game.ProbeSize))
	}
	if cfg.Game.FreshThreshold > 0 {
		opts = append(opts, app.WithFreshThreshold(cfg.Game.FreshThreshold))
	}
	return app.NewSampler(opts...)
}

func newEvaluator(cfg config.Config, log *zap.Logger) (*app.Evaluator, error) {
	opts := []app.EvaluatorOption{
		app.WithEvalBudget(config.TTLDuration(cfg.Achievements.EvalBudget, app.DefaultEvalBudget)),
	}
	if cfg.Achievements.MaxRuleChecks > 0 {
		opts = append(opts, app.WithMaxRuleChecks(cfg.Achievements.MaxRuleChecks))
	}
	return app.NewEvaluator(app.DefaultRules(), log, opts...)
}
