package http

import (
	"net/http"

	"quizclash-service/internal/app"
)

type LeaderboardHandler struct {
	service *app.LeaderboardService
}

func NewLeaderboardHandler(service *app.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// Top serves the per-subject/mode ranking rows.
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	subjectID := int64(queryInt(r, "subjectId", 0))
	entries, err := h.service.Top(r.Context(), subjectID,
		r.URL.Query().Get("mode"), queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Overall serves the cross-subject top list from the sorted set.
func (h *LeaderboardHandler) Overall(w http.ResponseWriter, r *http.Request) {
	scores, err := h.service.OverallTop(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// MyRank returns the caller's overall rank.
func (h *LeaderboardHandler) MyRank(w http.ResponseWriter, r *http.Request) {
	rank, err := h.service.OverallRank(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"rank": rank})
}
