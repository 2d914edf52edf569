package server

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server wraps the HTTP server with h2c support so clients can speak HTTP/2
// without TLS.
type Server struct {
	httpServer *http.Server
}

func New(addr string, handler http.Handler) *Server {
	h2s := &http2.Server{}
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: h2c.NewHandler(handler, h2s),
		},
	}
}

func (s *Server) Start() error {
	log.Printf("Gitalyzer listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
