package http

import (
	"net/http"

	"quizclash-service/internal/app"
	"quizclash-service/internal/domain"
)

type AchievementHandler struct {
	games        *app.GameService
	achievements app.AchievementRepository
	evaluator    *app.Evaluator
}

func NewAchievementHandler(games *app.GameService, achievements app.AchievementRepository, evaluator *app.Evaluator) *AchievementHandler {
	return &AchievementHandler{games: games, achievements: achievements, evaluator: evaluator}
}

// Catalog lists every achievement rule in the system.
func (h *AchievementHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.evaluator.Rules())
}

// Mine lists the caller's unlocked achievements.
func (h *AchievementHandler) Mine(w http.ResponseWriter, r *http.Request) {
	unlocked, err := h.achievements.ForUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unlocked)
}

type checkRequest struct {
	TotalScore int     `json:"totalScore"`
	Accuracy   float64 `json:"accuracy"`
	TimeSpent  int     `json:"timeSpent"`
}

type checkResponse struct {
	NewAchievements []app.Rule `json:"newAchievements"`
	TotalUnlocked   int        `json:"totalUnlocked"`
}

// Check runs the rule pass for a finished game on demand.
func (h *AchievementHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	unlocked, total := h.games.EvaluateAchievements(r.Context(), userIDFrom(r.Context()), domain.GameResult{
		TotalScore: req.TotalScore,
		Accuracy:   req.Accuracy,
		TimeSpent:  req.TimeSpent,
	})
	writeJSON(w, http.StatusOK, checkResponse{NewAchievements: unlocked, TotalUnlocked: total})
}

// Benefits aggregates powerup benefits across the caller's achievements.
func (h *AchievementHandler) Benefits(w http.ResponseWriter, r *http.Request) {
	unlocked, err := h.achievements.ForUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	held := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		held[a.Name] = true
	}
	writeJSON(w, http.StatusOK, app.AggregateBenefits(h.evaluator.Rules(), held))
}
