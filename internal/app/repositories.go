package app

import (
	"context"

	"quizclash-service/internal/domain"
)

// QuestionRepository abstracts the question store (Postgres, in-memory).
type QuestionRepository interface {
	// CandidatePool returns questions filtered by subject, topics and
	// difficulty, ordered by times_asked ascending.
	CandidatePool(ctx context.Context, subjectID int64, topicIDs []int64, difficulty string, limit int) ([]domain.Question, error)
	Get(ctx context.Context, id int64) (domain.Question, error)
	// MarkAsked increments times_asked by exactly 1 for every id, batched.
	MarkAsked(ctx context.Context, ids []int64) error
	MarkCorrect(ctx context.Context, id int64) error
}

// GameRepository persists game sessions and their answers.
type GameRepository interface {
	CreateSession(ctx context.Context, session *domain.GameSession) error
	GetSession(ctx context.Context, id int64) (domain.GameSession, error)
	UpdateSession(ctx context.Context, session *domain.GameSession) error
	SaveAnswer(ctx context.Context, answer *domain.GameAnswer) error
}

// UserRepository covers the user fields the game flow mutates.
type UserRepository interface {
	Get(ctx context.Context, id int64) (domain.User, error)
	RecordGame(ctx context.Context, userID int64, score int) error
}

// AchievementRepository persists unlocked achievements.
type AchievementRepository interface {
	ForUser(ctx context.Context, userID int64) ([]domain.Achievement, error)
	Unlock(ctx context.Context, achievement *domain.Achievement) error
}

// LeaderboardRepository records finished games in ranking stores.
type LeaderboardRepository interface {
	RecordGame(ctx context.Context, userID, subjectID int64, mode string, score int, accuracy float64) error
}

// TournamentRepository persists tournaments, participants, sessions and answers.
type TournamentRepository interface {
	Create(ctx context.Context, t *domain.Tournament) error
	Get(ctx context.Context, id int64) (domain.Tournament, error)
	List(ctx context.Context, status string) ([]domain.Tournament, error)
	Update(ctx context.Context, t *domain.Tournament) error

	AddParticipant(ctx context.Context, p *domain.TournamentParticipant) error
	Participant(ctx context.Context, tournamentID, userID int64) (domain.TournamentParticipant, error)
	Participants(ctx context.Context, tournamentID int64, playedOnly bool) ([]domain.TournamentParticipant, error)
	ParticipantsForUser(ctx context.Context, userID int64) ([]domain.TournamentParticipant, error)
	CountParticipants(ctx context.Context, tournamentID int64) (int, error)
	UpdateParticipant(ctx context.Context, p *domain.TournamentParticipant) error

	CreateSession(ctx context.Context, s *domain.TournamentSession) error
	GetSession(ctx context.Context, id int64) (domain.TournamentSession, error)
	UpdateSession(ctx context.Context, s *domain.TournamentSession) error
	SessionForParticipant(ctx context.Context, tournamentID, participantID int64) (domain.TournamentSession, error)

	SaveAnswer(ctx context.Context, a *domain.TournamentAnswer) error
	SessionAnswers(ctx context.Context, sessionID int64) ([]domain.TournamentAnswer, error)

	SavePrize(ctx context.Context, p *domain.TournamentPrize) error
}

// QuestionSetCache is the TTL cache in front of question generation.
type QuestionSetCache interface {
	GetOrCompute(key string, compute func() ([]domain.Question, error)) ([]domain.Question, error)
}
