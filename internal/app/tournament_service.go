package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizclash-service/internal/domain"
)

// TournamentService drives the competitive flow: registration and payment,
// the single play-through per participant, ranking, and prize distribution.
type TournamentService struct {
	tournaments TournamentRepository
	questions   QuestionRepository
	users       UserRepository
	scoring     ScoreConfig
	live        *LiveBoard
	log         *zap.Logger
}

func NewTournamentService(
	tournaments TournamentRepository,
	questions QuestionRepository,
	users UserRepository,
	scoring ScoreConfig,
	live *LiveBoard,
	log *zap.Logger,
) *TournamentService {
	return &TournamentService{
		tournaments: tournaments,
		questions:   questions,
		users:       users,
		scoring:     scoring,
		live:        live,
		log:         log,
	}
}

// Create persists a new tournament in draft state.
func (s *TournamentService) Create(ctx context.Context, t *domain.Tournament) error {
	if t.Status == "" {
		t.Status = domain.TournamentDraft
	}
	if t.QuestionsCount <= 0 {
		t.QuestionsCount = 10
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	return s.tournaments.Create(ctx, t)
}

// List returns tournaments, optionally filtered by status.
func (s *TournamentService) List(ctx context.Context, status string) ([]domain.Tournament, error) {
	return s.tournaments.List(ctx, status)
}

// Get returns one tournament.
func (s *TournamentService) Get(ctx context.Context, id int64) (domain.Tournament, error) {
	return s.tournaments.Get(ctx, id)
}

// UpdateStatus moves a tournament through its lifecycle.
func (s *TournamentService) UpdateStatus(ctx context.Context, id int64, status string) (domain.Tournament, error) {
	t, err := s.tournaments.Get(ctx, id)
	if err != nil {
		return domain.Tournament{}, err
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	if err := s.tournaments.Update(ctx, &t); err != nil {
		return domain.Tournament{}, err
	}
	return t, nil
}

// Join registers the user. Free tournaments are paid immediately; paid ones
// get a pending participant carrying a fresh payment reference.
func (s *TournamentService) Join(ctx context.Context, tournamentID, userID int64) (domain.TournamentParticipant, error) {
	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return domain.TournamentParticipant{}, err
	}
	if t.Status != domain.TournamentActive {
		return domain.TournamentParticipant{}, domain.ErrTournamentNotActive
	}
	if _, err := s.tournaments.Participant(ctx, tournamentID, userID); err == nil {
		return domain.TournamentParticipant{}, domain.ErrAlreadyRegistered
	}
	count, err := s.tournaments.CountParticipants(ctx, tournamentID)
	if err != nil {
		return domain.TournamentParticipant{}, err
	}
	if count >= t.MaxPlayers {
		return domain.TournamentParticipant{}, domain.ErrTournamentFull
	}

	p := domain.TournamentParticipant{
		TournamentID:  tournamentID,
		UserID:        userID,
		RegisteredAt:  time.Now(),
		PaymentAmount: t.SubscriptionFee,
		PaymentStatus: domain.PaymentPending,
		PaymentRef:    uuid.NewString(),
	}
	if t.SubscriptionFee == 0 {
		p.PaymentStatus = domain.PaymentPaid
		p.PaymentMethod = "free"
	}
	if err := s.tournaments.AddParticipant(ctx, &p); err != nil {
		return domain.TournamentParticipant{}, err
	}
	return p, nil
}

// ConfirmPayment marks a pending registration as paid.
func (s *TournamentService) ConfirmPayment(ctx context.Context, tournamentID, userID int64, method string) (domain.TournamentParticipant, error) {
	p, err := s.tournaments.Participant(ctx, tournamentID, userID)
	if err != nil {
		return domain.TournamentParticipant{}, err
	}
	p.PaymentStatus = domain.PaymentPaid
	p.PaymentMethod = method
	if err := s.tournaments.UpdateParticipant(ctx, &p); err != nil {
		return domain.TournamentParticipant{}, err
	}
	return p, nil
}

// StartSession opens the participant's single run through the questions.
func (s *TournamentService) StartSession(ctx context.Context, tournamentID, userID int64) (domain.TournamentSession, domain.Tournament, error) {
	p, err := s.tournaments.Participant(ctx, tournamentID, userID)
	if err != nil {
		return domain.TournamentSession{}, domain.Tournament{}, err
	}
	if p.HasPlayed {
		return domain.TournamentSession{}, domain.Tournament{}, domain.ErrAlreadyPlayed
	}
	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return domain.TournamentSession{}, domain.Tournament{}, err
	}
	session := domain.TournamentSession{
		TournamentID:   tournamentID,
		ParticipantID:  p.ID,
		TotalQuestions: t.QuestionsCount,
		StartedAt:      time.Now(),
	}
	if err := s.tournaments.CreateSession(ctx, &session); err != nil {
		return domain.TournamentSession{}, domain.Tournament{}, err
	}
	return session, t, nil
}

// SubmitAnswer scores one tournament answer and updates the session
// accumulators exactly once per submission.
func (s *TournamentService) SubmitAnswer(ctx context.Context, tournamentID, sessionID, userID, questionID int64, selected, timeTaken int) (AnswerOutcome, error) {
	session, err := s.tournaments.GetSession(ctx, sessionID)
	if err != nil || session.TournamentID != tournamentID {
		return AnswerOutcome{}, domain.ErrSessionNotFound
	}
	if session.IsCompleted {
		return AnswerOutcome{}, domain.ErrSessionCompleted
	}
	if err := s.authorizeParticipant(ctx, session.ParticipantID, tournamentID, userID); err != nil {
		return AnswerOutcome{}, err
	}

	question, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return AnswerOutcome{}, err
	}
	correct, points := s.scoring.ScoreAnswer(question, selected, timeTaken)

	answer := domain.TournamentAnswer{
		SessionID:      sessionID,
		QuestionID:     questionID,
		SelectedAnswer: selected,
		IsCorrect:      correct,
		TimeTaken:      timeTaken,
		PointsEarned:   points,
		AnsweredAt:     time.Now(),
	}
	if err := s.tournaments.SaveAnswer(ctx, &answer); err != nil {
		return AnswerOutcome{}, err
	}

	session.QuestionsAnswered++
	if correct {
		session.CorrectAnswers++
	}
	session.TotalScore += points
	session.TimeSpent += timeTaken
	session.Accuracy = Accuracy(session.CorrectAnswers, session.QuestionsAnswered)
	if err := s.tournaments.UpdateSession(ctx, &session); err != nil {
		return AnswerOutcome{}, err
	}

	return AnswerOutcome{
		IsCorrect:          correct,
		PointsEarned:       points,
		TotalScore:         session.TotalScore,
		QuestionsRemaining: session.TotalQuestions - session.QuestionsAnswered,
	}, nil
}

// SessionResult is the participant's final standing after completion.
type SessionResult struct {
	FinalScore int     `json:"finalScore"`
	Accuracy   float64 `json:"accuracy"`
	TimeTaken  int     `json:"timeTaken"`
	Rank       int     `json:"rank"`
}

// CompleteSession finalizes the run, copies the results onto the
// participant, and re-ranks everyone who has played. Ranks are recomputed
// in one canonical pass rather than patched per participant so ties
// resolve consistently.
func (s *TournamentService) CompleteSession(ctx context.Context, tournamentID, sessionID, userID int64) (SessionResult, error) {
	session, err := s.tournaments.GetSession(ctx, sessionID)
	if err != nil || session.TournamentID != tournamentID {
		return SessionResult{}, domain.ErrSessionNotFound
	}
	if session.IsCompleted {
		return SessionResult{}, domain.ErrSessionCompleted
	}
	p, err := s.tournaments.Participant(ctx, tournamentID, userID)
	if err != nil || p.ID != session.ParticipantID {
		return SessionResult{}, domain.ErrNotAuthorized
	}

	now := time.Now()
	session.IsCompleted = true
	session.CompletedAt = &now
	if err := s.tournaments.UpdateSession(ctx, &session); err != nil {
		return SessionResult{}, err
	}

	p.HasPlayed = true
	p.Score = session.TotalScore
	p.Accuracy = session.Accuracy
	p.TimeTaken = session.TimeSpent
	p.PlayedAt = &now
	if err := s.tournaments.UpdateParticipant(ctx, &p); err != nil {
		return SessionResult{}, err
	}

	ranked, err := s.rerank(ctx, tournamentID)
	if err != nil {
		return SessionResult{}, err
	}
	rank := 0
	for _, rp := range ranked {
		if rp.UserID == userID {
			rank = rp.Rank
			break
		}
	}

	s.live.Publish(tournamentID, ranked)

	return SessionResult{
		FinalScore: session.TotalScore,
		Accuracy:   session.Accuracy,
		TimeTaken:  session.TimeSpent,
		Rank:       rank,
	}, nil
}

// rerank recomputes and persists ranks for every played participant.
func (s *TournamentService) rerank(ctx context.Context, tournamentID int64) ([]RankedParticipant, error) {
	participants, err := s.tournaments.Participants(ctx, tournamentID, true)
	if err != nil {
		return nil, err
	}
	ranked := RankParticipants(participants)
	for i := range ranked {
		p := ranked[i].TournamentParticipant
		if err := s.tournaments.UpdateParticipant(ctx, &p); err != nil {
			s.log.Warn("failed to persist rank", zap.Error(err), zap.Int64("participant", p.ID))
		}
	}
	return ranked, nil
}

// Leaderboard returns the current canonical ranking.
func (s *TournamentService) Leaderboard(ctx context.Context, tournamentID int64) ([]RankedParticipant, error) {
	participants, err := s.tournaments.Participants(ctx, tournamentID, true)
	if err != nil {
		return nil, err
	}
	return RankParticipants(participants), nil
}

// DistributePrizes closes the tournament: final ranks are recomputed and
// the top three receive the configured prize amounts.
func (s *TournamentService) DistributePrizes(ctx context.Context, tournamentID int64) ([]RankedParticipant, error) {
	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	ranked, err := s.rerank(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	prizes := []float64{t.FirstPrize, t.SecondPrize, t.ThirdPrize}
	now := time.Now()
	for i := range ranked {
		if ranked[i].Rank > len(prizes) {
			break
		}
		amount := prizes[ranked[i].Rank-1]
		if amount <= 0 {
			continue
		}
		p := ranked[i].TournamentParticipant
		p.PrizeWon = amount
		ranked[i].PrizeWon = amount
		if err := s.tournaments.UpdateParticipant(ctx, &p); err != nil {
			s.log.Warn("failed to persist prize", zap.Error(err), zap.Int64("participant", p.ID))
			continue
		}
		prize := domain.TournamentPrize{
			TournamentID:  tournamentID,
			ParticipantID: p.ID,
			Rank:          ranked[i].Rank,
			PrizeAmount:   amount,
			IsDistributed: true,
			DistributedAt: &now,
		}
		if err := s.tournaments.SavePrize(ctx, &prize); err != nil {
			s.log.Warn("failed to record prize", zap.Error(err), zap.Int64("participant", p.ID))
		}
	}

	t.Status = domain.TournamentCompleted
	t.UpdatedAt = now
	if err := s.tournaments.Update(ctx, &t); err != nil {
		return nil, err
	}
	return ranked, nil
}

// QuestionBreakdown is one answered question in the detailed results.
type QuestionBreakdown struct {
	QuestionID     int64    `json:"questionId"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	CorrectAnswer  int      `json:"correctAnswer"`
	SelectedAnswer int      `json:"selectedAnswer"`
	IsCorrect      bool     `json:"isCorrect"`
	TimeTaken      int      `json:"timeTaken"`
	PointsEarned   int      `json:"pointsEarned"`
}

// ParticipantResult is one participant's full result sheet.
type ParticipantResult struct {
	UserID          int64               `json:"userId"`
	Username        string              `json:"username"`
	TotalScore      int                 `json:"totalScore"`
	Accuracy        float64             `json:"accuracy"`
	TimeTaken       int                 `json:"timeTaken"`
	TotalQuestions  int                 `json:"totalQuestions"`
	CorrectAnswers  int                 `json:"correctAnswers"`
	WrongAnswers    int                 `json:"wrongAnswers"`
	GradePercentage float64             `json:"gradePercentage"`
	GradeLetter     string              `json:"gradeLetter"`
	PrizeWon        float64             `json:"prizeWon"`
	Rank            int                 `json:"rank"`
	Questions       []QuestionBreakdown `json:"questions"`
}

// DetailedResults rebuilds every played participant's result from their
// recorded answers and ranks the sheets with the canonical ordering.
func (s *TournamentService) DetailedResults(ctx context.Context, tournamentID int64) ([]ParticipantResult, error) {
	participants, err := s.tournaments.Participants(ctx, tournamentID, true)
	if err != nil {
		return nil, err
	}

	results := make([]ParticipantResult, 0, len(participants))
	synthetic := make([]domain.TournamentParticipant, 0, len(participants))
	for _, p := range participants {
		session, err := s.tournaments.SessionForParticipant(ctx, tournamentID, p.ID)
		if err != nil {
			s.log.Warn("participant without session", zap.Int64("participant", p.ID))
			continue
		}
		answers, err := s.tournaments.SessionAnswers(ctx, session.ID)
		if err != nil {
			return nil, err
		}

		breakdown := make([]QuestionBreakdown, 0, len(answers))
		correct, score, totalTime := 0, 0, 0
		for _, a := range answers {
			q, err := s.questions.Get(ctx, a.QuestionID)
			if err != nil {
				continue
			}
			breakdown = append(breakdown, QuestionBreakdown{
				QuestionID:     q.ID,
				Text:           q.Text,
				Options:        q.Options,
				CorrectAnswer:  q.CorrectAnswer,
				SelectedAnswer: a.SelectedAnswer,
				IsCorrect:      a.IsCorrect,
				TimeTaken:      a.TimeTaken,
				PointsEarned:   a.PointsEarned,
			})
			if a.IsCorrect {
				correct++
			}
			score += a.PointsEarned
			totalTime += a.TimeTaken
		}

		username := p.Username
		if username == "" {
			if u, err := s.users.Get(ctx, p.UserID); err == nil {
				username = u.Username
			}
		}

		grade := Accuracy(correct, len(breakdown))
		results = append(results, ParticipantResult{
			UserID:          p.UserID,
			Username:        username,
			TotalScore:      score,
			Accuracy:        grade,
			TimeTaken:       totalTime,
			TotalQuestions:  len(breakdown),
			CorrectAnswers:  correct,
			WrongAnswers:    len(breakdown) - correct,
			GradePercentage: grade,
			GradeLetter:     LetterGrade(grade),
			PrizeWon:        p.PrizeWon,
			Questions:       breakdown,
		})
		synthetic = append(synthetic, domain.TournamentParticipant{
			UserID:    p.UserID,
			HasPlayed: true,
			Score:     score,
			Accuracy:  grade,
			TimeTaken: totalTime,
		})
	}

	rankByUser := make(map[int64]int, len(synthetic))
	for _, rp := range RankParticipants(synthetic) {
		rankByUser[rp.UserID] = rp.Rank
	}
	for i := range results {
		results[i].Rank = rankByUser[results[i].UserID]
	}
	return results, nil
}

// Statistics summarizes a tournament for the admin dashboard.
type Statistics struct {
	TotalParticipants     int                 `json:"totalParticipants"`
	CompletedParticipants int                 `json:"completedParticipants"`
	CompletionRate        float64             `json:"completionRate"`
	AverageScore          float64             `json:"averageScore"`
	AverageAccuracy       float64             `json:"averageAccuracy"`
	AverageTime           float64             `json:"averageTime"`
	HighestScore          int                 `json:"highestScore"`
	TotalPrizePool        float64             `json:"totalPrizePool"`
	TotalPrizesAwarded    float64             `json:"totalPrizesAwarded"`
	TotalEntryFees        float64             `json:"totalEntryFees"`
	NetRevenue            float64             `json:"netRevenue"`
	TopPerformers         []RankedParticipant `json:"topPerformers"`
}

// Stats computes tournament-level statistics from the participant list.
func (s *TournamentService) Stats(ctx context.Context, tournamentID int64) (Statistics, error) {
	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return Statistics{}, err
	}
	all, err := s.tournaments.Participants(ctx, tournamentID, false)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{TotalParticipants: len(all), TotalPrizePool: t.PrizePool}
	var scoreSum, accuracySum, timeSum float64
	for _, p := range all {
		if p.PaymentStatus == domain.PaymentPaid {
			stats.TotalEntryFees += p.PaymentAmount
		}
		if !p.HasPlayed {
			continue
		}
		stats.CompletedParticipants++
		scoreSum += float64(p.Score)
		accuracySum += p.Accuracy
		timeSum += float64(p.TimeTaken)
		stats.TotalPrizesAwarded += p.PrizeWon
		if p.Score > stats.HighestScore {
			stats.HighestScore = p.Score
		}
	}
	if stats.TotalParticipants > 0 {
		stats.CompletionRate = float64(stats.CompletedParticipants) / float64(stats.TotalParticipants) * 100
	}
	if stats.CompletedParticipants > 0 {
		n := float64(stats.CompletedParticipants)
		stats.AverageScore = scoreSum / n
		stats.AverageAccuracy = accuracySum / n
		stats.AverageTime = timeSum / n
	}
	stats.NetRevenue = stats.TotalEntryFees - stats.TotalPrizesAwarded

	ranked := RankParticipants(all)
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	stats.TopPerformers = ranked
	return stats, nil
}

// UserTournamentStats aggregates a user's record across tournaments.
type UserTournamentStats struct {
	TournamentsJoined int     `json:"tournamentsJoined"`
	TournamentsWon    int     `json:"tournamentsWon"`
	TopThreeFinishes  int     `json:"topThreeFinishes"`
	PrizeMoneyEarned  float64 `json:"prizeMoneyEarned"`
	TotalPoints       int     `json:"totalPoints"`
	BestScore         int     `json:"bestScore"`
	AverageRank       float64 `json:"averageRank"`
	CurrentWinStreak  int     `json:"currentWinStreak"`
}

// UserStats folds the user's participations into career totals.
func (s *TournamentService) UserStats(ctx context.Context, userID int64) (UserTournamentStats, error) {
	participations, err := s.tournaments.ParticipantsForUser(ctx, userID)
	if err != nil {
		return UserTournamentStats{}, err
	}

	stats := UserTournamentStats{TournamentsJoined: len(participations)}
	rankSum, rankCount := 0, 0
	for _, p := range participations {
		stats.TotalPoints += p.Score
		stats.PrizeMoneyEarned += p.PrizeWon
		if p.Score > stats.BestScore {
			stats.BestScore = p.Score
		}
		if p.Rank == 1 {
			stats.TournamentsWon++
		}
		if p.Rank >= 1 && p.Rank <= 3 {
			stats.TopThreeFinishes++
		}
		if p.Rank > 0 {
			rankSum += p.Rank
			rankCount++
		}
	}
	if rankCount > 0 {
		stats.AverageRank = float64(rankSum) / float64(rankCount)
	}
	// Streak counts consecutive wins over the most recent participations.
	for i := len(participations) - 1; i >= 0; i-- {
		if participations[i].Rank != 1 {
			break
		}
		stats.CurrentWinStreak++
	}
	return stats, nil
}

// HistoryEntry is one past tournament in a user's history.
type HistoryEntry struct {
	Tournament domain.Tournament            `json:"tournament"`
	Entry      domain.TournamentParticipant `json:"entry"`
}

// UserHistory lists the user's participations with their tournaments,
// most recent first.
func (s *TournamentService) UserHistory(ctx context.Context, userID int64) ([]HistoryEntry, error) {
	participations, err := s.tournaments.ParticipantsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	history := make([]HistoryEntry, 0, len(participations))
	for i := len(participations) - 1; i >= 0; i-- {
		p := participations[i]
		t, err := s.tournaments.Get(ctx, p.TournamentID)
		if err != nil {
			s.log.Warn("participation without tournament", zap.Int64("tournament", p.TournamentID))
			continue
		}
		history = append(history, HistoryEntry{Tournament: t, Entry: p})
	}
	return history, nil
}

func (s *TournamentService) authorizeParticipant(ctx context.Context, participantID, tournamentID, userID int64) error {
	p, err := s.tournaments.Participant(ctx, tournamentID, userID)
	if err != nil {
		return domain.ErrNotAuthorized
	}
	if p.ID != participantID {
		return domain.ErrNotAuthorized
	}
	return nil
}
