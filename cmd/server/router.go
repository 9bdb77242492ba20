package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/wordstone/internal/api"
	apiMiddleware "github.com/phrazzld/wordstone/internal/api/middleware"
)

// setupRouter mounts every handler under /api. Health is public; the game
// and insight routes require a bearer token.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)
	if timeout := app.config.Server.RequestTimeout; timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	sessionHandler := api.NewSessionHandler(app.games, app.logger)
	insightHandler := api.NewInsightHandler(app.insights, app.logger)
	healthHandler := api.NewHealthHandler(app.healthChecks(), app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/sessions", sessionHandler.StartSession)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSession)
				r.Delete("/", sessionHandler.Abandon)
				r.Post("/pointer", sessionHandler.TrackPointer)
				r.Post("/stones", sessionHandler.PlaceStone)
				r.Post("/submit", sessionHandler.Submit)
			})

			r.Get("/progression", insightHandler.GetProgression)
			r.Get("/rhythm", insightHandler.GetRhythm)
		})
	})

	return r
}
