package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"quizclash-service/internal/auth"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	Content     *ContentHandler
	Game        *GameHandler
	Tournament  *TournamentHandler
	Achievement *AchievementHandler
	Leaderboard *LeaderboardHandler
	Powerup     *PowerupHandler
	WS          *WSHandler
}

// NewRouter wires the REST and websocket surface.
func NewRouter(h Handlers, tokens *auth.TokenManager, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Get("/subjects", h.Content.ListSubjects)
		r.Get("/subjects/{subjectID}", h.Content.GetSubject)
		r.Get("/subjects/{subjectID}/topics", h.Content.ListTopics)
		r.Get("/topics/{topicID}/questions", h.Content.ListQuestions)

		r.Get("/tournaments", h.Tournament.List)
		r.Get("/tournaments/{tournamentID}", h.Tournament.Get)
		r.Get("/tournaments/{tournamentID}/leaderboard", h.Tournament.Leaderboard)
		r.Get("/tournaments/{tournamentID}/live", h.WS.ServeWS)

		r.Get("/leaderboards", h.Leaderboard.Top)
		r.Get("/leaderboards/overall", h.Leaderboard.Overall)

		r.Get("/powerups", h.Powerup.Catalog)
		r.Get("/achievements/catalog", h.Achievement.Catalog)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(Authenticator(tokens))

			r.Get("/auth/me", h.Auth.Profile)

			r.Post("/games", h.Game.Start)
			r.Post("/games/questions", h.Game.GenerateQuestions)
			r.Post("/games/{sessionID}/answers", h.Game.SubmitAnswer)
			r.Post("/games/{sessionID}/complete", h.Game.Complete)
			r.Get("/games/stats", h.Game.MyStats)

			r.Post("/tournaments/{tournamentID}/join", h.Tournament.Join)
			r.Post("/tournaments/{tournamentID}/payment", h.Tournament.ConfirmPayment)
			r.Post("/tournaments/{tournamentID}/sessions", h.Tournament.StartSession)
			r.Post("/tournaments/{tournamentID}/sessions/{sessionID}/answers", h.Tournament.SubmitAnswer)
			r.Post("/tournaments/{tournamentID}/sessions/{sessionID}/complete", h.Tournament.CompleteSession)
			r.Get("/tournaments/me/stats", h.Tournament.MyStats)
			r.Get("/tournaments/me/history", h.Tournament.MyHistory)

			r.Get("/achievements", h.Achievement.Mine)
			r.Post("/achievements/check", h.Achievement.Check)
			r.Get("/achievements/benefits", h.Achievement.Benefits)

			r.Get("/leaderboards/me", h.Leaderboard.MyRank)

			r.Post("/powerups/buy", h.Powerup.Buy)
			r.Get("/powerups/inventory", h.Powerup.Inventory)
			r.Post("/powerups/{purchaseID}/use", h.Powerup.Use)

			// Admin surface.
			r.Group(func(r chi.Router) {
				r.Use(AdminOnly)

				r.Post("/subjects", h.Content.CreateSubject)
				r.Post("/topics", h.Content.CreateTopic)
				r.Post("/questions", h.Content.CreateQuestion)
				r.Put("/questions/{questionID}", h.Content.UpdateQuestion)
				r.Delete("/questions/{questionID}", h.Content.DeleteQuestion)

				r.Post("/tournaments", h.Tournament.Create)
				r.Put("/tournaments/{tournamentID}/status", h.Tournament.UpdateStatus)
				r.Get("/tournaments/{tournamentID}/results", h.Tournament.DetailedResults)
				r.Get("/tournaments/{tournamentID}/statistics", h.Tournament.Stats)
				r.Post("/tournaments/{tournamentID}/prizes", h.Tournament.DistributePrizes)
			})
		})
	})

	return r
}
