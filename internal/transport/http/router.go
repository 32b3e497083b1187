package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the authorization server routes.
func NewRouter(authorizeHandler *AuthorizeHandler, tokenHandler *TokenHandler, bcHandler *BCAuthorizeHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/authorize", authorizeHandler.ServeHTTP)
	r.Post("/token", tokenHandler.ServeHTTP)
	r.Post("/bc-authorize", bcHandler.HandleOpen)
	r.Post("/bc-authorize/callback", bcHandler.HandleCallback)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
