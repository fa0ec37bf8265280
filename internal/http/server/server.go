// Package server envuelve http.Server con arranque y apagado prolijo.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
)

// Server es el servidor HTTP de la aplicación.
type Server struct {
	srv *http.Server
}

func New(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Run levanta el listener y bloquea hasta que ctx se cancele o el
// listener falle. El shutdown espera hasta 10s a que drenen los requests.
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("server")

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.Any("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
