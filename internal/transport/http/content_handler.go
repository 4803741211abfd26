package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quizclash-service/internal/app"
	"quizclash-service/internal/domain"
)

type ContentHandler struct {
	service *app.ContentService
}

func NewContentHandler(service *app.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func (h *ContentHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.service.Subjects(r.Context(), r.URL.Query().Get("all") == "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (h *ContentHandler) GetSubject(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(r, "subjectID"); ok {
		subject, err := h.service.Subject(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, subject)
		return
	}
	// Fall back to slug lookup for pretty URLs.
	subject, err := h.service.SubjectBySlug(r.Context(), chi.URLParam(r, "subjectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

func (h *ContentHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var subject domain.Subject
	if err := decodeBody(r, &subject); err != nil || subject.Name == "" {
		badRequest(w, "subject name required")
		return
	}
	subject.CreatedBy = userIDFrom(r.Context())
	if err := h.service.CreateSubject(r.Context(), &subject); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

func (h *ContentHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	subjectID, _ := pathID(r, "subjectID")
	topics, err := h.service.Topics(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (h *ContentHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var topic domain.Topic
	if err := decodeBody(r, &topic); err != nil || topic.Name == "" || topic.SubjectID == 0 {
		badRequest(w, "topic name and subjectId required")
		return
	}
	if err := h.service.CreateTopic(r.Context(), &topic); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, topic)
}

func (h *ContentHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	topicID, _ := pathID(r, "topicID")
	questions, err := h.service.Questions(r.Context(), topicID,
		queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *ContentHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var question domain.Question
	if err := decodeBody(r, &question); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if err := h.service.CreateQuestion(r.Context(), &question); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (h *ContentHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "questionID")
	if !ok {
		badRequest(w, "invalid question id")
		return
	}
	var question domain.Question
	if err := decodeBody(r, &question); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	question.ID = id
	if err := h.service.UpdateQuestion(r.Context(), &question); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *ContentHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "questionID")
	if !ok {
		badRequest(w, "invalid question id")
		return
	}
	if err := h.service.DeleteQuestion(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
