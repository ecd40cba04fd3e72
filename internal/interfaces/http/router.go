// Package http assembles the chi router shared by the Lambda entrypoints
// and the local server.
package http

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"karmdeep-backend/internal/interfaces/http/middleware"
)

const requestTimeout = 25 * time.Second

// Registrar mounts a handler's routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter builds the standard middleware stack and mounts every handler
// under /api. All routes behind /api require an authenticated principal.
func NewRouter(logger *zap.Logger, handlers ...Registrar) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticator)
		for _, h := range handlers {
			h.Register(r)
		}
	})

	return r
}
