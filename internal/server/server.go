// Package server exposes a duckframe session over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/duckframe/internal/state"
	"github.com/leapstack-labs/duckframe/pkg/dataframe"
	"golang.org/x/sync/errgroup"
)

const (
	maxRows      = 1000
	queryTimeout = 30 * time.Second
)

// Config holds configuration for the HTTP server.
type Config struct {
	Session *dataframe.Session
	// History is optional.
	History state.Store
	Addr    string
	// WatchDir, if set, is watched for data files to load as tables.
	WatchDir string
	Logger   *slog.Logger
}

// Server serves one session over HTTP.
type Server struct {
	session  *dataframe.Session
	history  state.Store
	addr     string
	watchDir string
	logger   *slog.Logger
}

// New creates a new server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		session:  cfg.Session,
		history:  cfg.History,
		addr:     cfg.Addr,
		watchDir: cfg.WatchDir,
		logger:   logger,
	}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
			NoColor: true,
		}),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(queryTimeout))
		r.Post("/sql", s.handleSQL)
		r.Post("/dataframes", s.handleDataFrames)
		r.Get("/tables", s.handleTables)
	})
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting server", slog.String("addr", s.addr), slog.String("session", s.session.ID()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watchDir != "" {
		eg.Go(func() error {
			return s.watch(egctx, s.watchDir)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// record stores one execution in the history, if enabled.
func (s *Server) record(ctx context.Context, kind state.Kind, statement string, rows int64, start time.Time, runErr error) {
	if s.history == nil {
		return
	}
	e := &state.Entry{
		SessionID: s.session.ID(),
		Kind:      kind,
		Statement: statement,
		RowCount:  rows,
		Duration:  time.Since(start),
		Status:    state.StatusOK,
	}
	if runErr != nil {
		e.Status = state.StatusError
		e.Error = runErr.Error()
	}
	if err := s.history.Record(context.WithoutCancel(ctx), e); err != nil {
		s.logger.Warn("failed to record history", slog.Any("error", err))
	}
}
