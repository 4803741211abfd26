package app

import (
	"sort"

	"quizclash-service/internal/domain"
)

// ScoreConfig holds the per-answer scoring constants.
type ScoreConfig struct {
	BasePoints  int
	SpeedCap    int
	SpeedFactor int
}

// DefaultScoreConfig mirrors the live tuning: 100 base points plus up to
// 50 bonus points decaying by 2 per second taken.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{BasePoints: 100, SpeedCap: 50, SpeedFactor: 2}
}

// ScoreAnswer returns whether the selection is correct and the points
// awarded: base points plus a linear speed bonus for correct answers,
// zero otherwise. Malformed questions score zero.
func (c ScoreConfig) ScoreAnswer(q domain.Question, selected, timeTaken int) (bool, int) {
	if !q.Valid() || selected != q.CorrectAnswer {
		return false, 0
	}
	bonus := c.SpeedCap - timeTaken*c.SpeedFactor
	if bonus < 0 {
		bonus = 0
	}
	return true, c.BasePoints + bonus
}

// Accuracy returns correct/answered as a percentage, 0 when nothing answered.
func Accuracy(correct, answered int) float64 {
	if answered == 0 {
		return 0
	}
	return float64(correct) / float64(answered) * 100
}

// RankedParticipant pairs a participant with their 1-based rank.
type RankedParticipant struct {
	domain.TournamentParticipant
	Rank int `json:"rank"`
}

// RankParticipants orders participants who have completed play by the
// canonical tie-break chain: score desc, accuracy desc, time taken asc,
// user ID asc. The user-ID key makes full ties deterministic, and every
// ranking path in the service uses this one ordering.
func RankParticipants(participants []domain.TournamentParticipant) []RankedParticipant {
	played := make([]domain.TournamentParticipant, 0, len(participants))
	for _, p := range participants {
		if p.HasPlayed {
			played = append(played, p)
		}
	}

	sort.SliceStable(played, func(i, j int) bool {
		a, b := played[i], played[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		if a.TimeTaken != b.TimeTaken {
			return a.TimeTaken < b.TimeTaken
		}
		return a.UserID < b.UserID
	})

	ranked := make([]RankedParticipant, len(played))
	for i, p := range played {
		p.Rank = i + 1
		ranked[i] = RankedParticipant{TournamentParticipant: p, Rank: i + 1}
	}
	return ranked
}

// LetterGrade maps an accuracy percentage to a report-card grade.
func LetterGrade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 85:
		return "A"
	case percentage >= 80:
		return "A-"
	case percentage >= 75:
		return "B+"
	case percentage >= 70:
		return "B"
	case percentage >= 65:
		return "B-"
	case percentage >= 60:
		return "C+"
	case percentage >= 55:
		return "C"
	case percentage >= 50:
		return "C-"
	case percentage >= 45:
		return "D"
	default:
		return "F"
	}
}
