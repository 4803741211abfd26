package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// User is a registered player or admin.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                int64      `bun:"id,pk,autoincrement" json:"id"`
	Username          string     `bun:"username,notnull,unique" json:"username"`
	Email             string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash      string     `bun:"password_hash,notnull" json:"-"`
	Role              string     `bun:"role,notnull,default:'user'" json:"role"`
	IsActive          bool       `bun:"is_active,notnull,default:true" json:"isActive"`
	TotalScore        int        `bun:"total_score,notnull,default:0" json:"totalScore"`
	GamesPlayed       int        `bun:"games_played,notnull,default:0" json:"gamesPlayed"`
	Level             int        `bun:"level,notnull,default:1" json:"level"`
	AchievementsCount int        `bun:"achievements_count,notnull,default:0" json:"achievementsCount"`
	CreatedAt         time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	LastLogin         *time.Time `bun:"last_login" json:"lastLogin,omitempty"`
}

// Subject groups topics (e.g. Science, History).
type Subject struct {
	bun.BaseModel `bun:"table:subjects,alias:s"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull,unique" json:"name"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Description string    `bun:"description" json:"description,omitempty"`
	Icon        string    `bun:"icon" json:"icon,omitempty"`
	IsActive    bool      `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedBy   int64     `bun:"created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// Topic is a sub-area of a subject (e.g. Physics under Science).
type Topic struct {
	bun.BaseModel `bun:"table:topics,alias:t"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Slug          string    `bun:"slug,notnull" json:"slug"`
	Description   string    `bun:"description" json:"description,omitempty"`
	SubjectID     int64     `bun:"subject_id,notnull" json:"subjectId"`
	IsActive      bool      `bun:"is_active,notnull,default:true" json:"isActive"`
	QuestionCount int       `bun:"question_count,notnull,default:0" json:"questionCount"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// Question is a four-option multiple-choice question with usage counters.
type Question struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Text          string    `bun:"text,notnull" json:"text"`
	TopicID       int64     `bun:"topic_id,notnull" json:"topicId"`
	SubjectID     int64     `bun:"subject_id,notnull" json:"subjectId"`
	Options       []string  `bun:"options,type:jsonb,notnull" json:"options"`
	CorrectAnswer int       `bun:"correct_answer,notnull" json:"correctAnswer"`
	Difficulty    string    `bun:"difficulty,notnull,default:'medium'" json:"difficulty"`
	Explanation   string    `bun:"explanation" json:"explanation,omitempty"`
	TimesAsked    int       `bun:"times_asked,notnull,default:0" json:"timesAsked"`
	TimesCorrect  int       `bun:"times_correct,notnull,default:0" json:"timesCorrect"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// Valid reports whether the options/answer invariant holds: exactly
// OptionCount options and CorrectAnswer indexing into them. Records that
// fail it are filtered before sampling or scoring, never served.
func (q Question) Valid() bool {
	return len(q.Options) == OptionCount && q.CorrectAnswer >= 0 && q.CorrectAnswer < OptionCount
}

// GameSession tracks one solo game from start to completion.
type GameSession struct {
	bun.BaseModel `bun:"table:game_sessions,alias:gs"`

	ID                int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID            int64      `bun:"user_id,notnull" json:"userId"`
	SubjectID         int64      `bun:"subject_id,notnull" json:"subjectId"`
	Mode              string     `bun:"mode,notnull" json:"mode"`
	Difficulty        string     `bun:"difficulty,notnull,default:'medium'" json:"difficulty"`
	TotalQuestions    int        `bun:"total_questions,notnull" json:"totalQuestions"`
	QuestionsAnswered int        `bun:"questions_answered,notnull,default:0" json:"questionsAnswered"`
	CorrectAnswers    int        `bun:"correct_answers,notnull,default:0" json:"correctAnswers"`
	TotalScore        int        `bun:"total_score,notnull,default:0" json:"totalScore"`
	TimeSpent         int        `bun:"time_spent,notnull,default:0" json:"timeSpent"`
	IsCompleted       bool       `bun:"is_completed,notnull,default:false" json:"isCompleted"`
	StartedAt         time.Time  `bun:"started_at,nullzero,notnull,default:current_timestamp" json:"startedAt"`
	CompletedAt       *time.Time `bun:"completed_at" json:"completedAt,omitempty"`
}

// GameAnswer is one submitted answer inside a game session.
type GameAnswer struct {
	bun.BaseModel `bun:"table:game_answers,alias:ga"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	GameSessionID  int64     `bun:"game_session_id,notnull" json:"gameSessionId"`
	QuestionID     int64     `bun:"question_id,notnull" json:"questionId"`
	SelectedAnswer int       `bun:"selected_answer,notnull" json:"selectedAnswer"`
	IsCorrect      bool      `bun:"is_correct,notnull,default:false" json:"isCorrect"`
	TimeTaken      int       `bun:"time_taken,notnull,default:0" json:"timeTaken"`
	PointsEarned   int       `bun:"points_earned,notnull,default:0" json:"pointsEarned"`
	AnsweredAt     time.Time `bun:"answered_at,nullzero,notnull,default:current_timestamp" json:"answeredAt"`
}

// Achievement is an unlocked badge for a user. Uniqueness is by (user, name).
type Achievement struct {
	bun.BaseModel `bun:"table:achievements,alias:a"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID           int64     `bun:"user_id,notnull" json:"userId"`
	Name             string    `bun:"name,notnull" json:"name"`
	Description      string    `bun:"description" json:"description,omitempty"`
	BadgeIcon        string    `bun:"badge_icon" json:"badgeIcon,omitempty"`
	Category         string    `bun:"category" json:"category,omitempty"`
	RequirementValue int       `bun:"requirement_value" json:"requirementValue"`
	UnlockedAt       time.Time `bun:"unlocked_at,nullzero,notnull,default:current_timestamp" json:"unlockedAt"`
}

// LeaderboardEntry is a per-subject/mode aggregate row.
type LeaderboardEntry struct {
	bun.BaseModel `bun:"table:leaderboards,alias:lb"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64     `bun:"user_id,notnull" json:"userId"`
	SubjectID   int64     `bun:"subject_id" json:"subjectId,omitempty"`
	Mode        string    `bun:"mode" json:"mode,omitempty"`
	Score       int       `bun:"score,notnull" json:"score"`
	Accuracy    float64   `bun:"accuracy" json:"accuracy"`
	GamesCount  int       `bun:"games_count,notnull,default:1" json:"gamesCount"`
	LastUpdated time.Time `bun:"last_updated,nullzero,notnull,default:current_timestamp" json:"lastUpdated"`
}

// PowerupPurchase tracks powerups bought with points.
type PowerupPurchase struct {
	bun.BaseModel `bun:"table:powerup_purchases,alias:pp"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id,notnull" json:"userId"`
	PowerupID     string    `bun:"powerup_id,notnull" json:"powerupId"`
	PowerupName   string    `bun:"powerup_name,notnull" json:"powerupName"`
	PricePaid     int       `bun:"price_paid,notnull" json:"pricePaid"`
	UsesRemaining int       `bun:"uses_remaining,notnull,default:1" json:"usesRemaining"`
	IsActive      bool      `bun:"is_active,notnull,default:true" json:"isActive"`
	PurchasedAt   time.Time `bun:"purchased_at,nullzero,notnull,default:current_timestamp" json:"purchasedAt"`
}

// OverallScore is one row of the overall (cross-subject) leaderboard.
type OverallScore struct {
	UserID int64 `json:"userId"`
	Score  int   `json:"score"`
	Rank   int   `json:"rank"`
}

// PlayerStats is the aggregated view used by achievement evaluation.
type PlayerStats struct {
	GamesPlayed int     `json:"gamesPlayed"`
	TotalScore  int     `json:"totalScore"`
	BestScore   int     `json:"bestScore"`
	GamesWon    int     `json:"gamesWon"`
	WinRate     float64 `json:"winRate"`
	AvgScore    float64 `json:"avgScore"`
}

// GameResult is the outcome snapshot of a single finished game.
type GameResult struct {
	TotalScore int     `json:"totalScore"`
	Accuracy   float64 `json:"accuracy"`
	TimeSpent  int     `json:"timeSpent"`
}
