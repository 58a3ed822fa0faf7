// Package httpserver constructs the process's single HTTP server. The
// parcel read API is GET-only with small JSON bodies, so only the header
// read gets a timeout; response deadlines would cut off slow upstream
// document fetches that the services already bound with client timeouts.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server for the read API.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
