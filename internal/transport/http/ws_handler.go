package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quizclash-service/internal/app"
)

// WSHandler streams live tournament leaderboard snapshots over websockets.
type WSHandler struct {
	tournaments *app.TournamentService
	live        *app.LiveBoard
	upgrader    websocket.Upgrader
	log         *zap.Logger
}

func NewWSHandler(tournaments *app.TournamentService, live *app.LiveBoard, log *zap.Logger) *WSHandler {
	return &WSHandler{
		tournaments: tournaments,
		live:        live,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type wsMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ServeWS upgrades the request and pushes the current leaderboard followed
// by every re-ranked snapshot until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := strconv.ParseInt(chi.URLParam(r, "tournamentID"), 10, 64)
	if err != nil || tournamentID <= 0 {
		badRequest(w, "invalid tournament id")
		return
	}
	if _, err := h.tournaments.Get(r.Context(), tournamentID); err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.live.Subscribe(tournamentID)
	defer cancel()

	current, err := h.tournaments.Leaderboard(r.Context(), tournamentID)
	if err == nil {
		if err := conn.WriteJSON(wsMessage{Type: "leaderboard", Payload: current}); err != nil {
			return
		}
	}

	done := make(chan struct{})

	// Reader goroutine notices the disconnect; all writes stay on this
	// goroutine so the connection never sees concurrent writers.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(wsMessage{Type: "leaderboard", Payload: snapshot}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
