package http

import (
	"net/http"

	"quizclash-service/internal/app"
)

type GameHandler struct {
	games *app.GameService
	stats *app.StatsService
}

func NewGameHandler(games *app.GameService, stats *app.StatsService) *GameHandler {
	return &GameHandler{games: games, stats: stats}
}

type startGameRequest struct {
	SubjectID      int64  `json:"subjectId"`
	Mode           string `json:"mode"`
	Difficulty     string `json:"difficulty"`
	TotalQuestions int    `json:"totalQuestions"`
}

func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := decodeBody(r, &req); err != nil || req.SubjectID == 0 {
		badRequest(w, "subjectId required")
		return
	}
	if req.Mode == "" {
		req.Mode = "classic"
	}
	session, err := h.games.StartGame(r.Context(), userIDFrom(r.Context()),
		req.SubjectID, req.Mode, req.Difficulty, req.TotalQuestions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

type generateQuestionsRequest struct {
	SubjectID  int64   `json:"subjectId"`
	TopicIDs   []int64 `json:"topicIds"`
	Difficulty string  `json:"difficulty"`
	Count      int     `json:"count"`
}

func (h *GameHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateQuestionsRequest
	if err := decodeBody(r, &req); err != nil || req.SubjectID == 0 || len(req.TopicIDs) == 0 {
		badRequest(w, "subjectId and topicIds required")
		return
	}
	if req.Count <= 0 {
		req.Count = 10
	}
	questions, err := h.games.GenerateQuestions(r.Context(), app.QuestionRequest{
		SubjectID:  req.SubjectID,
		TopicIDs:   req.TopicIDs,
		Difficulty: req.Difficulty,
		Count:      req.Count,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

type submitAnswerRequest struct {
	QuestionID     int64 `json:"questionId"`
	SelectedAnswer int   `json:"selectedAnswer"`
	TimeTaken      int   `json:"timeTaken"`
}

func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
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
	outcome, err := h.games.SubmitAnswer(r.Context(), sessionID,
		req.QuestionID, req.SelectedAnswer, req.TimeTaken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *GameHandler) Complete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "sessionID")
	if !ok {
		badRequest(w, "invalid session id")
		return
	}
	summary, err := h.games.CompleteGame(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *GameHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.UserStats(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
