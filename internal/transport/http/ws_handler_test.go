package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizclash-service/internal/app"
	"quizclash-service/internal/domain"
)

func dialLive(t *testing.T, server *httptest.Server, tournamentID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/tournaments/" + tournamentID + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) (string, []app.RankedParticipant) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string                  `json:"type"`
		Payload []app.RankedParticipant `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	return msg.Type, msg.Payload
}

func TestLiveLeaderboardStream(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()
	ctx := context.Background()

	tournament := domain.Tournament{
		Title:          "Live Cup",
		Subject:        "Science",
		Difficulty:     "medium",
		MaxPlayers:     10,
		QuestionsCount: 3,
		Status:         domain.TournamentActive,
		CreatedBy:      1,
	}
	if err := env.tournaments.Create(ctx, &tournament); err != nil {
		t.Fatalf("create tournament: %v", err)
	}
	user := env.users.Add(domain.User{Username: "player", Email: "p@example.com"})
	if _, err := env.tournaments.Join(ctx, tournament.ID, user.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	conn := dialLive(t, server, "1")

	// Initial snapshot arrives before anyone has played.
	msgType, payload := readSnapshot(t, conn)
	if msgType != "leaderboard" {
		t.Fatalf("message type = %q, want leaderboard", msgType)
	}
	if len(payload) != 0 {
		t.Fatalf("initial snapshot has %d entries, want 0", len(payload))
	}

	// Completing a run publishes a fresh ranking to the stream.
	session, _, err := env.tournaments.StartSession(ctx, tournament.ID, user.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	for q := int64(1); q <= 3; q++ {
		if _, err := env.tournaments.SubmitAnswer(ctx, tournament.ID, session.ID, user.ID, q, 0, 5); err != nil {
			t.Fatalf("submit answer: %v", err)
		}
	}
	if _, err := env.tournaments.CompleteSession(ctx, tournament.ID, session.ID, user.ID); err != nil {
		t.Fatalf("complete session: %v", err)
	}

	msgType, payload = readSnapshot(t, conn)
	if msgType != "leaderboard" {
		t.Fatalf("message type = %q, want leaderboard", msgType)
	}
	if len(payload) != 1 || payload[0].UserID != user.ID || payload[0].Rank != 1 {
		t.Fatalf("snapshot = %+v, want user %d at rank 1", payload, user.ID)
	}
}

func TestLiveStreamRejectsUnknownTournament(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/tournaments/99/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected handshake failure for unknown tournament")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("handshake response = %+v, want 404", resp)
	}
}
