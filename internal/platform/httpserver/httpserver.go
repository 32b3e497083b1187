package httpserver

import (
	"net/http"
	"time"
)

// New builds the front HTTP server. Authorization and token requests are
// small and short-lived, so the timeouts are tight; slow CIBA approvals
// happen out of band and never hold a connection open.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
