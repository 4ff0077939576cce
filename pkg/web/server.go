// Package web serves the activity board as HTML pages and relays form posts
// from those pages to the board.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jakechorley/activity-board/pkg/core/board"
	"github.com/jakechorley/activity-board/pkg/core/render"
)

const shutdownTimeout = 10 * time.Second

// Server is the web front for one board
type Server struct {
	board  *board.Board
	logger *zap.Logger
	title  string
	router chi.Router
}

// NewServer wires the routes for b
func NewServer(b *board.Board, logger *zap.Logger, title string) *Server {
	s := &Server{
		board:  b,
		logger: logger,
		title:  title,
		router: chi.NewRouter(),
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(accessLog(logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post(render.SignupAction, s.handleSignup)
	s.router.Post(render.RemoveAction, s.handleRemove)

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, alert string) {
	view := s.board.Snapshot()
	templ.Handler(render.Page(s.title, &view, alert)).ServeHTTP(w, r)
}

// handleIndex handles GET /; every page view is a fresh load
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// A failed load is already logged and shown in the list area
	_ = s.board.Load(r.Context())
	s.renderPage(w, r, "")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleSignup handles POST /signup with form fields email and activity
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s.board.SubmitSignup(r.Context(), r.PostFormValue("email"), r.PostFormValue("activity"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleRemove handles POST /participants/remove.
// The control field names the clicked remove control on the rendered list.
// Without confirmed=yes a confirmation page is shown instead of removing.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	control := r.PostFormValue("control")
	view := s.board.Snapshot()
	activity, email, ok, err := render.ResolveRemoveControl(r.Context(), &view, control)
	if err != nil {
		s.logger.Error("Failed to resolve remove control", zap.String("control", control), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	confirmation := &formConfirmation{
		confirmed: r.PostFormValue("confirmed") == "yes" &&
			r.PostFormValue("activity") == activity &&
			r.PostFormValue("email") == email,
	}
	alert := &pageAlert{}

	outcome, err := s.board.RemoveParticipant(r.Context(), activity, email, confirmation, alert)
	if err != nil {
		s.logger.Error("Failed to remove participant", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	switch outcome {
	case board.RemoveDeclined:
		templ.Handler(render.ConfirmPage(s.title, confirmation.prompt, control, activity, email)).ServeHTTP(w, r)
	case board.RemoveFailed:
		s.renderPage(w, r, alert.text)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// formConfirmation answers from the posted form and remembers the question asked
type formConfirmation struct {
	confirmed bool
	prompt    string
}

func (f *formConfirmation) Confirm(ctx context.Context, prompt string) (bool, error) {
	f.prompt = prompt
	return f.confirmed, nil
}

// pageAlert keeps the notification so it can be shown on the rendered page
type pageAlert struct {
	text string
}

func (p *pageAlert) Notify(ctx context.Context, message string) {
	p.text = message
}

// accessLog logs one line per request
func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request",
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
