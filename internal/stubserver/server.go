// Package stubserver is a small local implementation of the scheduling API
// for development and contract tests.
package stubserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/logger"
	"github.com/julianstephens/shiftdesk/internal/validation"
)

// Server routes the API onto a Store.
type Server struct {
	store     Store
	tokens    *TokenManager
	validator *validation.Validator
	router    *mux.Router
}

// New builds the router.
func New(store Store, tokens *TokenManager) *Server {
	s := &Server{
		store:     store,
		tokens:    tokens,
		validator: validation.New(),
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(logRequests)

	s.router.HandleFunc(constants.PathSignup, s.handleSignup).Methods(http.MethodPost)
	s.router.HandleFunc(constants.PathLogin, s.handleLogin).Methods(http.MethodPost)

	authed := s.router.NewRoute().Subrouter()
	authed.Use(requireAuth(s.tokens))
	authed.HandleFunc(constants.PathSchedules, s.handleListSchedules).Methods(http.MethodGet)
	authed.HandleFunc(constants.PathSchedules, s.handleCreateSchedule).Methods(http.MethodPost)
	authed.HandleFunc(constants.PathUserJob, s.handleOwnJob).Methods(http.MethodGet)
	authed.Handle(constants.PathSchedules+"/{id}/status", requireAdmin(http.HandlerFunc(s.handleUpdateStatus))).Methods(http.MethodPatch)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		<-errCh
		return nil
	}
}

// ListenAndServe listens on addr, records the bound port in the lockfile
// under lockDir while serving, and removes it on exit.
func (s *Server) ListenAndServe(ctx context.Context, addr, lockDir string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	lockPath, err := WriteLockfile(lockDir, port)
	if err != nil {
		ln.Close()
		return err
	}
	defer RemoveLockfile(lockPath)

	logger.Info("stub backend listening", "addr", ln.Addr().String(), "lockfile", lockPath)
	fmt.Println("Stub backend listening on http://127.0.0.1:" + strconv.Itoa(port))
	return s.Serve(ctx, ln)
}
