// Package serve publishes the HTML profile over HTTP and keeps it fresh
// while digests change.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct {
	router     *chi.Mux
	port       int
	regenerate func() error
}

// NewServer serves dir at / and calls regenerate on POST /api/regenerate.
// regenerate may be nil.
func NewServer(dir string, port int, regenerate func() error) *Server {
	router := chi.NewRouter()
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:     router,
		port:       port,
		regenerate: regenerate,
	}

	router.Get("/health", s.health)
	router.Post("/api/regenerate", s.regen)
	router.Handle("/*", http.FileServer(http.Dir(dir)))

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("profile server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) regen(w http.ResponseWriter, r *http.Request) {
	if s.regenerate == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "regeneration disabled"})
		return
	}
	if err := s.regenerate(); err != nil {
		log.Warn().Err(err).Msg("regenerate profile")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "regenerated"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
