package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"roster/middleware"
)

type RouterConfig struct {
	Logger         zerolog.Logger
	DB             *gorm.DB
	RequestTimeout time.Duration

	Auth    *AuthHandler
	Roster  *RosterHandler
	Invites *InviteHandler
	Stream  *StreamHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		router.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	// Public routes
	router.Get("/healthz", health(cfg.DB))
	router.Post("/api/auth/register", cfg.Auth.Register)
	router.Post("/api/auth/login", cfg.Auth.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Get("/api/me", cfg.Auth.Me)
		r.Post("/api/auth/logout", cfg.Auth.Logout)
		r.Post("/api/auth/password", cfg.Auth.ChangePassword)

		r.Get("/api/roster", cfg.Roster.Get)
		r.Post("/api/roster/reload", cfg.Roster.Reload)
		r.Get("/api/players/search", cfg.Roster.SearchPlayers)

		r.Post("/api/players", cfg.Roster.CreatePlayer)
		r.Patch("/api/players/{id}", cfg.Roster.UpdatePlayer)
		r.Delete("/api/players/{id}", cfg.Roster.DeletePlayer)
		r.Post("/api/players/{id}/assignments", cfg.Roster.AddPlayerAssignment)
		r.Post("/api/players/{id}/invite", cfg.Invites.InvitePlayer)
		r.Patch("/api/player-assignments/{id}", cfg.Roster.UpdatePlayerAssignment)
		r.Delete("/api/player-assignments/{id}", cfg.Roster.DeletePlayerAssignment)

		r.Post("/api/coaches", cfg.Roster.CreateCoach)
		r.Patch("/api/coaches/{id}", cfg.Roster.UpdateCoach)
		r.Delete("/api/coaches/{id}", cfg.Roster.DeleteCoach)
		r.Post("/api/coaches/{id}/assignments", cfg.Roster.AddCoachAssignment)
		r.Post("/api/coaches/{id}/invite", cfg.Invites.InviteCoach)
		r.Patch("/api/coach-assignments/{id}", cfg.Roster.UpdateCoachAssignment)
		r.Delete("/api/coach-assignments/{id}", cfg.Roster.DeleteCoachAssignment)

		r.Post("/api/teams", cfg.Roster.CreateTeam)
		r.Patch("/api/teams/{id}", cfg.Roster.UpdateTeam)
		r.Delete("/api/teams/{id}", cfg.Roster.DeleteTeam)

		r.Post("/api/seasons", cfg.Roster.CreateSeason)
		r.Patch("/api/seasons/{id}", cfg.Roster.UpdateSeason)
		r.Delete("/api/seasons/{id}", cfg.Roster.DeleteSeason)

		r.Post("/api/invites/{code}/accept", cfg.Invites.Accept)

		r.Post("/api/stream", cfg.Stream.Proxy)
	})

	return router
}

func health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
