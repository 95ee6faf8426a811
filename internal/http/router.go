package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pocket/internal/http/auth"
	"github.com/MrJamesThe3rd/pocket/internal/http/capture"
	"github.com/MrJamesThe3rd/pocket/internal/http/categories"
	"github.com/MrJamesThe3rd/pocket/internal/http/export"
	"github.com/MrJamesThe3rd/pocket/internal/http/records"
	"github.com/MrJamesThe3rd/pocket/internal/http/sync"
)

type Handlers struct {
	Records    *records.Handler
	Capture    *capture.Handler
	Categories *categories.Handler
	Sync       *sync.Handler
	Export     *export.Handler
}

// New builds the API router. A nil authenticator leaves the API open.
func New(h Handlers, allowedOrigins []string, authenticator *auth.Authenticator) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if authenticator != nil {
			r.Use(authenticator.Middleware)
		}

		r.Route("/records", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Records.Routes(r)
		})

		// Capture also accepts raw text bodies in legacy charsets.
		r.Route("/capture", h.Capture.Routes)

		r.Route("/categories", h.Categories.Routes)
		r.Route("/sync", h.Sync.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}
