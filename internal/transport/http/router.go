// Package http assembles the HTTP surface: middleware chain, case routes,
// and the operational endpoints.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"caseflow/internal/cases/handler"
	"caseflow/internal/platform/middleware"
)

// NewRouter builds the full router. Case routes sit behind authentication;
// health and metrics do not.
func NewRouter(h *handler.Handler, verifier *middleware.TokenVerifier, log *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestMeta)
	r.Use(middleware.Tracing)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireActor(verifier, log))
		h.Register(r)
	})

	return r
}
