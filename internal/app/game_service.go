package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"quizclash-service/internal/domain"
)

// candidateOverfetch pulls more rows than requested so the sampler has
// headroom to balance topics and skip worn questions.
const candidateOverfetch = 3

// QuestionRequest identifies one generated question set.
type QuestionRequest struct {
	SubjectID  int64
	TopicIDs   []int64
	Difficulty string
	Count      int
}

// CacheKey is stable under topic reordering: topics are sorted before joining.
func (r QuestionRequest) CacheKey() string {
	ids := append([]int64(nil), r.TopicIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("%d|%s|%s|%d", r.SubjectID, strings.Join(parts, ","), strings.ToLower(r.Difficulty), r.Count)
}

// AnswerOutcome reports a single scored submission back to the client.
type AnswerOutcome struct {
	IsCorrect          bool `json:"isCorrect"`
	PointsEarned       int  `json:"pointsEarned"`
	TotalScore         int  `json:"totalScore"`
	QuestionsRemaining int  `json:"questionsRemaining"`
}

// GameSummary is returned when a session is finalized.
type GameSummary struct {
	FinalScore      int     `json:"finalScore"`
	CorrectAnswers  int     `json:"correctAnswers"`
	TotalQuestions  int     `json:"totalQuestions"`
	Accuracy        float64 `json:"accuracy"`
	TimeSpent       int     `json:"timeSpent"`
	NewAchievements []Rule  `json:"newAchievements"`
}

// GameService drives solo games: question generation through the sampler
// and cache, per-answer scoring, and session finalization.
type GameService struct {
	questions    QuestionRepository
	games        GameRepository
	users        UserRepository
	achievements AchievementRepository
	leaderboards LeaderboardRepository
	cache        QuestionSetCache
	sampler      *Sampler
	scoring      ScoreConfig
	stats        *StatsService
	evaluator    *Evaluator
	log          *zap.Logger
}

func NewGameService(
	questions QuestionRepository,
	games GameRepository,
	users UserRepository,
	achievements AchievementRepository,
	leaderboards LeaderboardRepository,
	cache QuestionSetCache,
	sampler *Sampler,
	scoring ScoreConfig,
	stats *StatsService,
	evaluator *Evaluator,
	log *zap.Logger,
) *GameService {
	return &GameService{
		questions:    questions,
		games:        games,
		users:        users,
		achievements: achievements,
		leaderboards: leaderboards,
		cache:        cache,
		sampler:      sampler,
		scoring:      scoring,
		stats:        stats,
		evaluator:    evaluator,
		log:          log,
	}
}

// StartGame opens a session for the user.
func (s *GameService) StartGame(ctx context.Context, userID, subjectID int64, mode, difficulty string, totalQuestions int) (domain.GameSession, error) {
	if totalQuestions <= 0 {
		totalQuestions = 10
	}
	session := domain.GameSession{
		UserID:         userID,
		SubjectID:      subjectID,
		Mode:           mode,
		Difficulty:     difficulty,
		TotalQuestions: totalQuestions,
		StartedAt:      time.Now(),
	}
	if err := s.games.CreateSession(ctx, &session); err != nil {
		return domain.GameSession{}, err
	}
	return session, nil
}

// GenerateQuestions returns a sampled question set for the request. Results
// are served from the TTL cache when fresh; on a cache miss the candidate
// pool is fetched, sampled, and its times_asked counters are batch-bumped.
// The increment lives inside the compute path so cache hits do not inflate
// usage counters.
func (s *GameService) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]domain.Question, error) {
	if req.Count <= 0 || len(req.TopicIDs) == 0 {
		return nil, nil
	}
	return s.cache.GetOrCompute(req.CacheKey(), func() ([]domain.Question, error) {
		pool, err := s.questions.CandidatePool(ctx, req.SubjectID, req.TopicIDs, req.Difficulty, req.Count*candidateOverfetch)
		if err != nil {
			return nil, err
		}
		selected := s.sampler.Sample(pool, req.Count)
		if len(selected) == 0 {
			return selected, nil
		}
		ids := make([]int64, len(selected))
		for i, q := range selected {
			ids[i] = q.ID
		}
		if err := s.questions.MarkAsked(ctx, ids); err != nil {
			// Usage counters are advisory; a failed bump must not fail the game.
			s.log.Warn("failed to bump times_asked", zap.Error(err), zap.Int("questions", len(ids)))
		}
		return selected, nil
	})
}

// SubmitAnswer scores one answer and folds it into the session accumulators.
func (s *GameService) SubmitAnswer(ctx context.Context, sessionID, questionID int64, selected, timeTaken int) (AnswerOutcome, error) {
	session, err := s.games.GetSession(ctx, sessionID)
	if err != nil {
		return AnswerOutcome{}, err
	}
	if session.IsCompleted {
		return AnswerOutcome{}, domain.ErrSessionCompleted
	}

	question, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return AnswerOutcome{}, err
	}

	correct, points := s.scoring.ScoreAnswer(question, selected, timeTaken)

	answer := domain.GameAnswer{
		GameSessionID:  sessionID,
		QuestionID:     questionID,
		SelectedAnswer: selected,
		IsCorrect:      correct,
		TimeTaken:      timeTaken,
		PointsEarned:   points,
		AnsweredAt:     time.Now(),
	}
	if err := s.games.SaveAnswer(ctx, &answer); err != nil {
		return AnswerOutcome{}, err
	}

	session.QuestionsAnswered++
	if correct {
		session.CorrectAnswers++
		if err := s.questions.MarkCorrect(ctx, questionID); err != nil {
			s.log.Warn("failed to bump times_correct", zap.Error(err), zap.Int64("question", questionID))
		}
	}
	session.TotalScore += points
	session.TimeSpent += timeTaken
	if err := s.games.UpdateSession(ctx, &session); err != nil {
		return AnswerOutcome{}, err
	}

	return AnswerOutcome{
		IsCorrect:          correct,
		PointsEarned:       points,
		TotalScore:         session.TotalScore,
		QuestionsRemaining: session.TotalQuestions - session.QuestionsAnswered,
	}, nil
}

// CompleteGame finalizes a session exactly once, updates the player's
// aggregates and leaderboards, and runs the achievement pass. Leaderboard
// and achievement failures degrade to log lines; the summary is always
// returned.
func (s *GameService) CompleteGame(ctx context.Context, sessionID int64) (GameSummary, error) {
	session, err := s.games.GetSession(ctx, sessionID)
	if err != nil {
		return GameSummary{}, err
	}
	if session.IsCompleted {
		return GameSummary{}, domain.ErrSessionCompleted
	}

	now := time.Now()
	session.IsCompleted = true
	session.CompletedAt = &now
	if err := s.games.UpdateSession(ctx, &session); err != nil {
		return GameSummary{}, err
	}

	accuracy := Accuracy(session.CorrectAnswers, session.QuestionsAnswered)

	if err := s.users.RecordGame(ctx, session.UserID, session.TotalScore); err != nil {
		s.log.Warn("failed to update user totals", zap.Error(err), zap.Int64("user", session.UserID))
	}
	if err := s.leaderboards.RecordGame(ctx, session.UserID, session.SubjectID, session.Mode, session.TotalScore, accuracy); err != nil {
		s.log.Warn("leaderboard update failed", zap.Error(err), zap.Int64("user", session.UserID))
	}
	s.stats.Invalidate(session.UserID)

	summary := GameSummary{
		FinalScore:     session.TotalScore,
		CorrectAnswers: session.CorrectAnswers,
		TotalQuestions: session.TotalQuestions,
		Accuracy:       accuracy,
		TimeSpent:      session.TimeSpent,
	}
	summary.NewAchievements = s.evaluateAchievements(ctx, session.UserID, domain.GameResult{
		TotalScore: session.TotalScore,
		Accuracy:   accuracy,
		TimeSpent:  session.TimeSpent,
	})
	return summary, nil
}

// EvaluateAchievements runs the rule pass for a finished game, persisting
// any unlocks. It never errors; see the evaluator contract.
func (s *GameService) EvaluateAchievements(ctx context.Context, userID int64, game domain.GameResult) ([]Rule, int) {
	unlocked := s.evaluateAchievements(ctx, userID, game)
	existing, err := s.achievements.ForUser(ctx, userID)
	if err != nil {
		s.log.Warn("failed to count achievements", zap.Error(err), zap.Int64("user", userID))
	}
	return unlocked, len(existing)
}

func (s *GameService) evaluateAchievements(ctx context.Context, userID int64, game domain.GameResult) []Rule {
	existing, err := s.achievements.ForUser(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load achievements", zap.Error(err), zap.Int64("user", userID))
		return nil
	}
	held := make(map[string]bool, len(existing))
	for _, a := range existing {
		held[a.Name] = true
	}

	stats, err := s.stats.UserStats(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load player stats", zap.Error(err), zap.Int64("user", userID))
		return nil
	}

	outcome := s.evaluator.Evaluate(held, stats, game)
	for _, rule := range outcome.Unlocked {
		achievement := domain.Achievement{
			UserID:           userID,
			Name:             rule.Name,
			Description:      rule.Description,
			BadgeIcon:        rule.BadgeIcon,
			Category:         rule.Category,
			RequirementValue: rule.Requirement,
			UnlockedAt:       time.Now(),
		}
		if err := s.achievements.Unlock(ctx, &achievement); err != nil {
			s.log.Warn("failed to persist achievement", zap.Error(err), zap.String("rule", rule.ID))
		}
	}
	return outcome.Unlocked
}
