// Package web serves the table over HTTP. The dataset is loaded before the
// server starts; handlers only read an immutable app.State, so concurrent
// requests share nothing mutable.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"csvbrowse/internal/app"
	"csvbrowse/internal/config"
	"csvbrowse/internal/util/logx"
	"csvbrowse/internal/view"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP surface for one loaded dataset.
type Server struct {
	state  app.State
	theme  config.Theme
	router *chi.Mux
	server *http.Server
}

func NewServer(state app.State, theme config.Theme) *Server {
	s := &Server{
		state:  state,
		theme:  theme,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handlePage)
	s.router.Get("/rows", s.handleRows)
	s.router.Get("/api/rows", s.handleAPIRows)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logx.Infof("web: listening on %s", addr)
		errc <- s.server.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logx.Infof("web: stopped")
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	data := PageData{
		Title:   s.state.Ref,
		Query:   q,
		Theme:   s.theme,
		Model:   s.state.View(q),
		Total:   len(s.state.Rows),
		Skipped: len(s.state.Skipped),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Page(data).Render(r.Context(), w); err != nil {
		logx.Warnf("web: render page: %v", err)
	}
}

// handleRows returns only the <tbody> content for live filtering.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	dm := s.state.View(r.URL.Query().Get("q"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := TableBody(dm).Render(r.Context(), w); err != nil {
		logx.Warnf("web: render rows: %v", err)
	}
}

func (s *Server) handleAPIRows(w http.ResponseWriter, r *http.Request) {
	dm := s.state.View(r.URL.Query().Get("q"))
	if dm.Rows == nil {
		dm.Rows = []view.Row{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dm); err != nil {
		logx.Warnf("web: encode rows: %v", err)
	}
}

// requestLogger writes one logx line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logx.Infof("web: %s %s %d %s ip=%s id=%s",
			r.Method, r.URL.RequestURI(), ww.Status(), time.Since(start).Round(time.Microsecond),
			r.RemoteAddr, middleware.GetReqID(r.Context()))
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		// The page carries one inline script and one inline style block
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
