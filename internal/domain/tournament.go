package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Tournament lifecycle states.
const (
	TournamentDraft     = "draft"
	TournamentPublished = "published"
	TournamentActive    = "active"
	TournamentCompleted = "completed"
	TournamentCancelled = "cancelled"
)

// Participant payment states.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Tournament is a scheduled competitive quiz with an entry fee and prizes.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:tr"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Title       string `bun:"title,notnull" json:"title"`
	Description string `bun:"description" json:"description,omitempty"`
	Subject     string `bun:"subject,notnull" json:"subject"`
	Difficulty  string `bun:"difficulty,notnull" json:"difficulty"`

	SubscriptionFee float64 `bun:"subscription_fee,notnull,default:0" json:"subscriptionFee"`
	PrizePool       float64 `bun:"prize_pool,notnull,default:0" json:"prizePool"`
	FirstPrize      float64 `bun:"first_prize,notnull,default:0" json:"firstPrize"`
	SecondPrize     float64 `bun:"second_prize,notnull,default:0" json:"secondPrize"`
	ThirdPrize      float64 `bun:"third_prize,notnull,default:0" json:"thirdPrize"`

	MinPlayers     int `bun:"min_players,notnull,default:2" json:"minPlayers"`
	MaxPlayers     int `bun:"max_players,notnull,default:100" json:"maxPlayers"`
	QuestionsCount int `bun:"questions_count,notnull,default:10" json:"questionsCount"`
	TimeLimit      int `bun:"time_limit,notnull,default:30" json:"timeLimit"`

	Status               string     `bun:"status,notnull,default:'draft'" json:"status"`
	StartDate            *time.Time `bun:"start_date" json:"startDate,omitempty"`
	EndDate              *time.Time `bun:"end_date" json:"endDate,omitempty"`
	RegistrationDeadline *time.Time `bun:"registration_deadline" json:"registrationDeadline,omitempty"`

	CreatedBy int64     `bun:"created_by,notnull" json:"createdBy"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	TopicIDs    []int64 `bun:"topic_ids,array" json:"topicIds,omitempty"`
	QuestionIDs []int64 `bun:"question_ids,array" json:"questionIds,omitempty"`
}

// TournamentParticipant is one user's entry in a tournament. Rank is
// assigned only after HasPlayed flips true.
type TournamentParticipant struct {
	bun.BaseModel `bun:"table:tournament_participants,alias:tp"`

	ID           int64 `bun:"id,pk,autoincrement" json:"id"`
	TournamentID int64 `bun:"tournament_id,notnull" json:"tournamentId"`
	UserID       int64 `bun:"user_id,notnull" json:"userId"`

	RegisteredAt   time.Time `bun:"registered_at,nullzero,notnull,default:current_timestamp" json:"registeredAt"`
	PaymentStatus  string    `bun:"payment_status,notnull,default:'pending'" json:"paymentStatus"`
	PaymentAmount  float64   `bun:"payment_amount,notnull,default:0" json:"paymentAmount"`
	PaymentMethod  string    `bun:"payment_method" json:"paymentMethod,omitempty"`
	PaymentRef     string    `bun:"payment_ref" json:"paymentRef,omitempty"`
	PaymentDetails string    `bun:"payment_details" json:"paymentDetails,omitempty"`

	HasPlayed bool       `bun:"has_played,notnull,default:false" json:"hasPlayed"`
	Score     int        `bun:"score,notnull,default:0" json:"score"`
	Accuracy  float64    `bun:"accuracy,notnull,default:0" json:"accuracy"`
	TimeTaken int        `bun:"time_taken,notnull,default:0" json:"timeTaken"`
	Rank      int        `bun:"rank,nullzero" json:"rank,omitempty"`
	PrizeWon  float64    `bun:"prize_won,notnull,default:0" json:"prizeWon"`
	PlayedAt  *time.Time `bun:"played_at" json:"playedAt,omitempty"`

	Username string `bun:"username,scanonly" json:"username,omitempty"`
}

// TournamentSession accumulates a participant's run through the questions.
type TournamentSession struct {
	bun.BaseModel `bun:"table:tournament_sessions,alias:ts"`

	ID            int64 `bun:"id,pk,autoincrement" json:"id"`
	TournamentID  int64 `bun:"tournament_id,notnull" json:"tournamentId"`
	ParticipantID int64 `bun:"participant_id,notnull" json:"participantId"`

	TotalQuestions    int     `bun:"total_questions,notnull" json:"totalQuestions"`
	QuestionsAnswered int     `bun:"questions_answered,notnull,default:0" json:"questionsAnswered"`
	CorrectAnswers    int     `bun:"correct_answers,notnull,default:0" json:"correctAnswers"`
	TotalScore        int     `bun:"total_score,notnull,default:0" json:"totalScore"`
	TimeSpent         int     `bun:"time_spent,notnull,default:0" json:"timeSpent"`
	Accuracy          float64 `bun:"accuracy,notnull,default:0" json:"accuracy"`

	IsCompleted bool       `bun:"is_completed,notnull,default:false" json:"isCompleted"`
	StartedAt   time.Time  `bun:"started_at,nullzero,notnull,default:current_timestamp" json:"startedAt"`
	CompletedAt *time.Time `bun:"completed_at" json:"completedAt,omitempty"`
}

// TournamentAnswer is one answer inside a tournament session.
type TournamentAnswer struct {
	bun.BaseModel `bun:"table:tournament_answers,alias:ta"`

	ID         int64 `bun:"id,pk,autoincrement" json:"id"`
	SessionID  int64 `bun:"session_id,notnull" json:"sessionId"`
	QuestionID int64 `bun:"question_id,notnull" json:"questionId"`

	SelectedAnswer int       `bun:"selected_answer,notnull" json:"selectedAnswer"`
	IsCorrect      bool      `bun:"is_correct,notnull" json:"isCorrect"`
	TimeTaken      int       `bun:"time_taken,notnull" json:"timeTaken"`
	PointsEarned   int       `bun:"points_earned,notnull,default:0" json:"pointsEarned"`
	AnsweredAt     time.Time `bun:"answered_at,nullzero,notnull,default:current_timestamp" json:"answeredAt"`
}

// TournamentPrize records a prize awarded to a ranked participant.
type TournamentPrize struct {
	bun.BaseModel `bun:"table:tournament_prizes,alias:tz"`

	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	TournamentID  int64      `bun:"tournament_id,notnull" json:"tournamentId"`
	ParticipantID int64      `bun:"participant_id,notnull" json:"participantId"`
	Rank          int        `bun:"rank,notnull" json:"rank"`
	PrizeAmount   float64    `bun:"prize_amount,notnull" json:"prizeAmount"`
	PrizeType     string     `bun:"prize_type,notnull,default:'cash'" json:"prizeType"`
	IsDistributed bool       `bun:"is_distributed,notnull,default:false" json:"isDistributed"`
	DistributedAt *time.Time `bun:"distributed_at" json:"distributedAt,omitempty"`
}
