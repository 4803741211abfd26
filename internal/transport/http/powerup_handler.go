package http

import (
	"net/http"

	"quizclash-service/internal/app"
)

type PowerupHandler struct {
	service *app.PowerupService
}

func NewPowerupHandler(service *app.PowerupService) *PowerupHandler {
	return &PowerupHandler{service: service}
}

func (h *PowerupHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Catalog())
}

type buyRequest struct {
	PowerupID string `json:"powerupId"`
}

func (h *PowerupHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if err := decodeBody(r, &req); err != nil || req.PowerupID == "" {
		badRequest(w, "powerupId required")
		return
	}
	purchase, err := h.service.Buy(r.Context(), userIDFrom(r.Context()), req.PowerupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

func (h *PowerupHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.service.Inventory(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (h *PowerupHandler) Use(w http.ResponseWriter, r *http.Request) {
	purchaseID, ok := pathID(r, "purchaseID")
	if !ok {
		badRequest(w, "invalid purchase id")
		return
	}
	purchase, err := h.service.Use(r.Context(), userIDFrom(r.Context()), purchaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}
