package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the API routes. limiter may be nil to disable rate
// limiting.
func NewRouter(proforma *ProformaHandler, coa *COAHandler, limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(RateLimitMiddleware(limiter))
		}

		r.Route("/proforma", func(r chi.Router) {
			r.Post("/lot-development", proforma.CalculateLotDevelopment)
			r.Post("/lot-development/sensitivity", proforma.AnalyzeSensitivity)
			r.Post("/lot-purchase", proforma.CalculateLotPurchase)
			r.Get("/runs", proforma.ListRuns)
			r.Get("/runs/{id}", proforma.GetRun)
		})

		r.Route("/coa", func(r chi.Router) {
			r.Get("/templates", coa.ListTemplates)
			r.Post("/classify", coa.Classify)
			r.Post("/generate", coa.Generate)
			r.Get("/entities/{entityID}/accounts", coa.ListAccounts)
		})
	})

	return r
}
