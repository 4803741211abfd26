package http

import (
	"net/http"

	"quizclash-service/internal/app"
	"quizclash-service/internal/domain"
)

type TournamentHandler struct {
	service *app.TournamentService
}

func NewTournamentHandler(service *app.TournamentService) *TournamentHandler {
	return &TournamentHandler{service: service}
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tournaments)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t domain.Tournament
	if err := decodeBody(r, &t); err != nil || t.Title == "" {
		badRequest(w, "tournament title required")
		return
	}
	t.CreatedBy = userIDFrom(r.Context())
	if err := h.service.Create(r.Context(), &t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *TournamentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	var req statusRequest
	if err := decodeBody(r, &req); err != nil || req.Status == "" {
		badRequest(w, "status required")
		return
	}
	t, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TournamentHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	p, err := h.service.Join(r.Context(), id, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type paymentRequest struct {
	Method string `json:"method"`
}

func (h *TournamentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	var req paymentRequest
	if err := decodeBody(r, &req); err != nil || req.Method == "" {
		badRequest(w, "payment method required")
		return
	}
	p, err := h.service.ConfirmPayment(r.Context(), id, userIDFrom(r.Context()), req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *TournamentHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	session, tournament, err := h.service.StartSession(r.Context(), id, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session":    session,
		"tournament": tournament,
	})
}

func (h *TournamentHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	sessionID, ok := pathID(r, "sessionID")
	if !ok {
		badRequest(w, "invalid session id")
		return
	}
	var req submitAnswerRequest
	if err := decodeBody(r, &req); err != nil || req.QuestionID == 0 {
		badRequest(w, "questionId required")
		return
	}
	outcome, err := h.service.SubmitAnswer(r.Context(), tournamentID, sessionID,
		userIDFrom(r.Context()), req.QuestionID, req.SelectedAnswer, req.TimeTaken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *TournamentHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	sessionID, ok := pathID(r, "sessionID")
	if !ok {
		badRequest(w, "invalid session id")
		return
	}
	result, err := h.service.CompleteSession(r.Context(), tournamentID, sessionID, userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *TournamentHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	ranked, err := h.service.Leaderboard(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (h *TournamentHandler) DetailedResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	results, err := h.service.DetailedResults(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *TournamentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	stats, err := h.service.Stats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *TournamentHandler) DistributePrizes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "tournamentID")
	if !ok {
		badRequest(w, "invalid tournament id")
		return
	}
	ranked, err := h.service.DistributePrizes(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (h *TournamentHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.UserStats(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *TournamentHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.UserHistory(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
