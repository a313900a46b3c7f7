// Package server exposes the graphic test trigger over HTTP.
//
// GET /graphictests runs the configured demo with its self-test argument and
// answers with the demo's exit code as a decimal plain-text body. Runs are
// serialized: demos share the display, so a second request waits for the
// first to finish.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"vrt/internal/config"
	"vrt/internal/domain"
	"vrt/internal/execution"
)

// Server runs demos on request
type Server struct {
	config   *config.Config
	launcher execution.Launcher
	cases    map[string]domain.TestCase
	logger   *log.Logger

	mu     sync.Mutex // held while a demo runs
	server *http.Server
}

// New creates a new Server. cases are the suite entries reachable through /graphictests/{case}.
func New(cfg *config.Config, launcher execution.Launcher, cases []domain.TestCase, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	byName := make(map[string]domain.TestCase, len(cases))
	for _, tc := range cases {
		byName[tc.Name] = tc
	}
	return &Server{
		config:   cfg,
		launcher: launcher,
		cases:    byName,
		logger:   logger,
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/graphictests", s.handleTrigger).Methods("GET")
	router.HandleFunc("/graphictests/{case}", s.handleTriggerCase).Methods("GET")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	return router
}

// ListenAndServe serves on the configured address until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ServerAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.ServerAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Graphic test trigger listening on %s", ln.Addr())
		errCh <- s.server.Serve(ln)
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
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	dir := s.config.ResolveFolder(s.config.TriggerFolder)
	s.run(w, r, "trigger", dir, s.config.TriggerExecutable)
}

func (s *Server) handleTriggerCase(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["case"]
	tc, ok := s.cases[name]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown test case %q", name), http.StatusNotFound)
		return
	}
	s.run(w, r, tc.Name, s.config.ResolveFolder(tc.Folder), tc.Executable)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, name, dir, executable string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	code, err := execution.RunToExit(r.Context(), s.launcher, dir, executable, []string{s.config.TriggerArg})
	if err != nil {
		s.logger.Printf("%s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Printf("%s: exit code %d in %s", name, code, time.Since(start).Round(time.Millisecond))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strconv.Itoa(code)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
