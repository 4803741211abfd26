package app

import (
	"testing"

	"quizclash-service/internal/domain"
)

func TestScoreAnswer(t *testing.T) {
	cfg := DefaultScoreConfig()
	q := question(1, 1, 0)

	tests := []struct {
		name      string
		selected  int
		timeTaken int
		correct   bool
		points    int
	}{
		{"correct fast answer", 0, 10, true, 130},
		{"correct instant answer", 0, 0, true, 150},
		{"correct at speed cap", 0, 25, true, 100},
		{"correct past speed cap", 0, 60, true, 100},
		{"wrong answer", 2, 5, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, points := cfg.ScoreAnswer(q, tt.selected, tt.timeTaken)
			if correct != tt.correct || points != tt.points {
				t.Fatalf("got correct=%v points=%d, want correct=%v points=%d",
					correct, points, tt.correct, tt.points)
			}
		})
	}
}

func TestScoreAnswerMalformedQuestion(t *testing.T) {
	cfg := DefaultScoreConfig()
	bad := domain.Question{ID: 1, Options: []string{"a", "b"}, CorrectAnswer: 0}
	if correct, points := cfg.ScoreAnswer(bad, 0, 1); correct || points != 0 {
		t.Fatalf("malformed question scored: correct=%v points=%d", correct, points)
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy(0, 0); got != 0 {
		t.Fatalf("accuracy with no answers = %v, want 0", got)
	}
	if got := Accuracy(7, 10); got != 70 {
		t.Fatalf("accuracy = %v, want 70", got)
	}
}

func participant(userID int64, score int, accuracy float64, timeTaken int) domain.TournamentParticipant {
	return domain.TournamentParticipant{
		UserID:    userID,
		HasPlayed: true,
		Score:     score,
		Accuracy:  accuracy,
		TimeTaken: timeTaken,
	}
}

func TestRankParticipantsTieBreaks(t *testing.T) {
	participants := []domain.TournamentParticipant{
		participant(1, 500, 80, 120),
		participant(2, 700, 90, 100),
		participant(3, 700, 90, 90),
		participant(4, 700, 95, 110),
		participant(5, 700, 90, 90),
		{UserID: 6, HasPlayed: false, Score: 9999},
	}

	ranked := RankParticipants(participants)
	if len(ranked) != 5 {
		t.Fatalf("expected 5 played participants ranked, got %d", len(ranked))
	}

	wantOrder := []int64{4, 3, 5, 2, 1}
	for i, want := range wantOrder {
		if ranked[i].UserID != want {
			t.Fatalf("rank %d: got user %d, want %d", i+1, ranked[i].UserID, want)
		}
		if ranked[i].Rank != i+1 {
			t.Fatalf("user %d has rank %d, want %d", ranked[i].UserID, ranked[i].Rank, i+1)
		}
	}
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{95, "A+"}, {90, "A+"}, {87, "A"}, {82, "A-"}, {76, "B+"},
		{71, "B"}, {66, "B-"}, {61, "C+"}, {56, "C"}, {51, "C-"},
		{46, "D"}, {30, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := LetterGrade(tt.pct); got != tt.want {
			t.Fatalf("LetterGrade(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}
