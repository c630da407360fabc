// Package commands implements the duckframe CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/leapstack-labs/duckframe/internal/cli/config"
	"github.com/leapstack-labs/duckframe/internal/state"
	"github.com/leapstack-labs/duckframe/pkg/dataframe"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Session *dataframe.Session
	// History is nil when history is disabled or could not be opened.
	History state.Store
}

// NewCommandContext creates a CommandContext with a connected session.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutSession(cmd)

	sess, err := dataframe.NewBuilder().
		AppName(cc.Cfg.AppName).
		EngineConfig(cc.Cfg.Engine.Core()).
		Logger(cc.Logger).
		Create(cmd.Context())
	if err != nil {
		cc.close()
		return nil, nil, fmt.Errorf("failed to start session: %w", err)
	}
	cc.Session = sess

	return cc, cc.close, nil
}

// NewCommandContextWithoutSession creates a CommandContext without an engine.
// Useful for commands that only read history.
func NewCommandContextWithoutSession(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	return &CommandContext{
		Cfg:     cfg,
		Logger:  logger,
		History: openHistory(cfg.HistoryPath, logger),
	}
}

func (c *CommandContext) close() {
	if c.Session != nil {
		_ = c.Session.Stop()
	}
	if c.History != nil {
		_ = c.History.Close()
	}
}

func (c *CommandContext) sessionID() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.ID()
}

// openHistory opens the history store. An empty path disables history;
// open failures are logged and also disable it.
func openHistory(path string, logger *slog.Logger) state.Store {
	if path == "" {
		return nil
	}
	store := state.NewSQLiteStore(logger)
	if err := store.Open(path); err != nil {
		logger.Warn("history disabled", slog.String("path", path), slog.Any("error", err))
		return nil
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		logger.Warn("history disabled", slog.String("path", path), slog.Any("error", err))
		return nil
	}
	return store
}

// record stores one execution in the history. Failures are logged only.
func (c *CommandContext) record(ctx context.Context, kind state.Kind, statement string, rows int64, start time.Time, runErr error) {
	if c.History == nil {
		return
	}
	e := &state.Entry{
		SessionID: c.sessionID(),
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
	if err := c.History.Record(ctx, e); err != nil {
		c.Logger.Warn("failed to record history", slog.Any("error", err))
	}
}

// isInteractive reports whether r is a terminal.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
