package app

import "quizclash-service/internal/domain"

// Benefits are the powerup perks an achievement grants. Multipliers are
// combined by max, counters by sum, flags by or.
type Benefits struct {
	ScoreMultiplier    float64 `json:"scoreMultiplier,omitempty"`
	BonusPoints        int     `json:"bonusPoints,omitempty"`
	ExtraTime          int     `json:"extraTime,omitempty"`
	ExtraPowerups      int     `json:"extraPowerups,omitempty"`
	PerfectStreakBonus int     `json:"perfectStreakBonus,omitempty"`
	DoubleHint         bool    `json:"doubleHint,omitempty"`
	MasterHint         bool    `json:"masterHint,omitempty"`
	TimeFreeze         bool    `json:"timeFreeze,omitempty"`
	LuckyGuess         bool    `json:"luckyGuess,omitempty"`
	AllPowerups        bool    `json:"allPowerups,omitempty"`
	UnlimitedHints     bool    `json:"unlimitedHints,omitempty"`
	ChampionAura       bool    `json:"championAura,omitempty"`
	PressureImmunity   bool    `json:"pressureImmunity,omitempty"`
}

// Rule is one achievement definition. Unlocks decides from the player's
// aggregate stats and the game just finished whether the rule fires.
type Rule struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BadgeIcon   string   `json:"badgeIcon"`
	Category    string   `json:"category"`
	Requirement int      `json:"requirement"`
	Benefits    Benefits `json:"benefits"`

	Unlocks func(stats domain.PlayerStats, game domain.GameResult) bool `json:"-"`
}

// DefaultRules returns the achievement catalog in evaluation priority
// order: the cheap, commonly-hit rules come first so a budget cutoff
// still covers the cases players actually trigger.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "first_steps",
			Name:        "First Steps",
			Description: "Complete your first quiz game",
			BadgeIcon:   "🎮",
			Category:    "gameplay",
			Requirement: 1,
			Unlocks: func(stats domain.PlayerStats, _ domain.GameResult) bool {
				return stats.GamesPlayed >= 1
			},
			Benefits: Benefits{ExtraTime: 5},
		},
		{
			ID:          "century_club",
			Name:        "Century Club",
			Description: "Score 100+ points in a single game",
			BadgeIcon:   "💯",
			Category:    "performance",
			Requirement: 100,
			Unlocks: func(_ domain.PlayerStats, game domain.GameResult) bool {
				return game.TotalScore >= 100
			},
			Benefits: Benefits{ScoreMultiplier: 1.1},
		},
		{
			ID:          "perfectionist",
			Name:        "Perfectionist",
			Description: "Achieve 100% accuracy in a game",
			BadgeIcon:   "🎯",
			Category:    "performance",
			Requirement: 100,
			Unlocks: func(_ domain.PlayerStats, game domain.GameResult) bool {
				return game.Accuracy >= 100
			},
			Benefits: Benefits{PerfectStreakBonus: 50},
		},
		{
			ID:          "high_scorer",
			Name:        "High Scorer",
			Description: "Score 500+ points in a single game",
			BadgeIcon:   "🚀",
			Category:    "performance",
			Requirement: 500,
			Unlocks: func(_ domain.PlayerStats, game domain.GameResult) bool {
				return game.TotalScore >= 500
			},
			Benefits: Benefits{ScoreMultiplier: 1.25, BonusPoints: 100},
		},
		{
			ID:          "legend",
			Name:        "Legend",
			Description: "Score 1000+ points in a single game",
			BadgeIcon:   "👑",
			Category:    "performance",
			Requirement: 1000,
			Unlocks: func(_ domain.PlayerStats, game domain.GameResult) bool {
				return game.TotalScore >= 1000
			},
			Benefits: Benefits{ScoreMultiplier: 1.5, AllPowerups: true, UnlimitedHints: true},
		},
		{
			ID:          "getting_started",
			Name:        "Getting Started",
			Description: "Play 10 games",
			BadgeIcon:   "🔥",
			Category:    "gameplay",
			Requirement: 10,
			Unlocks: func(stats domain.PlayerStats, _ domain.GameResult) bool {
				return stats.GamesPlayed >= 10
			},
			Benefits: Benefits{DoubleHint: true},
		},
		{
			ID:          "speed_demon",
			Name:        "Speed Demon",
			Description: "Answer all questions in under 30 seconds total",
			BadgeIcon:   "⚡",
			Category:    "performance",
			Requirement: 30,
			Unlocks: func(_ domain.PlayerStats, game domain.GameResult) bool {
				return game.TimeSpent > 0 && game.TimeSpent <= 30
			},
			Benefits: Benefits{TimeFreeze: true},
		},
		{
			ID:          "sharpshooter",
			Name:        "Sharpshooter",
			Description: "Maintain 80%+ win rate over 10+ games",
			BadgeIcon:   "🏹",
			Category:    "performance",
			Requirement: 80,
			Unlocks: func(stats domain.PlayerStats, _ domain.GameResult) bool {
				return stats.GamesPlayed >= 10 && stats.WinRate >= 80
			},
			Benefits: Benefits{LuckyGuess: true},
		},
		{
			ID:          "quiz_master",
			Name:        "Quiz Master",
			Description: "Play 50 games",
			BadgeIcon:   "🎓",
			Category:    "gameplay",
			Requirement: 50,
			Unlocks: func(stats domain.PlayerStats, _ domain.GameResult) bool {
				return stats.GamesPlayed >= 50
			},
			Benefits: Benefits{MasterHint: true, ExtraPowerups: 1},
		},
	}
}

// AggregateBenefits folds the benefits of every held achievement into one
// view: max for multipliers, sum for counters, or for flags.
func AggregateBenefits(rules []Rule, held map[string]bool) Benefits {
	agg := Benefits{ScoreMultiplier: 1.0}
	for _, r := range rules {
		if !held[r.Name] {
			continue
		}
		b := r.Benefits
		if b.ScoreMultiplier > agg.ScoreMultiplier {
			agg.ScoreMultiplier = b.ScoreMultiplier
		}
		agg.BonusPoints += b.BonusPoints
		agg.ExtraTime += b.ExtraTime
		agg.ExtraPowerups += b.ExtraPowerups
		agg.PerfectStreakBonus += b.PerfectStreakBonus
		agg.DoubleHint = agg.DoubleHint || b.DoubleHint
		agg.MasterHint = agg.MasterHint || b.MasterHint
		agg.TimeFreeze = agg.TimeFreeze || b.TimeFreeze
		agg.LuckyGuess = agg.LuckyGuess || b.LuckyGuess
		agg.AllPowerups = agg.AllPowerups || b.AllPowerups
		agg.UnlimitedHints = agg.UnlimitedHints || b.UnlimitedHints
		agg.ChampionAura = agg.ChampionAura || b.ChampionAura
		agg.PressureImmunity = agg.PressureImmunity || b.PressureImmunity
	}
	return agg
}
