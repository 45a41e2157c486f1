package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server carrying the ops API, with the timeout
// defaults the deployment relies on.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
