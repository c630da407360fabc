package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/leapstack-labs/duckframe/internal/state"
	"github.com/leapstack-labs/duckframe/pkg/engine"
	"github.com/spf13/cobra"
)

// SQLOptions holds options for the sql command.
type SQLOptions struct {
	Input string
	Limit int
}

// NewSQLCommand creates the sql command.
func NewSQLCommand() *cobra.Command {
	opts := &SQLOptions{}

	cmd := &cobra.Command{
		Use:   "sql [QUERY]",
		Short: "Run SQL against the configured engine",
		Long: `Run one or more SQL statements and print their results.

The SQL is taken from the arguments, from --input, or from stdin when it is
piped. Statements are separated by semicolons; statements that produce no
relation (DDL, INSERT, SET) print OK.`,
		Example: `  # Run a query
  duckframe sql "SELECT 42 AS answer"

  # Run a script file against a database file
  duckframe sql -i setup.sql --database warehouse.duckdb

  # Pipe SQL and render as JSON
  echo "SELECT * FROM range(3)" | duckframe sql -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum rows to print per statement (0 = all)")

	return cmd
}

func runSQL(cmd *cobra.Command, args []string, opts *SQLOptions) error {
	var script string

	switch {
	case len(args) > 0:
		script = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		script = string(content)
	case !isInteractive(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		script = string(content)
	default:
		return fmt.Errorf("no SQL given\nHint: pass a query, use --input, or run 'duckframe shell' for interactive mode")
	}

	stmts := engine.SplitStatements(script)
	if len(stmts) == 0 {
		return fmt.Errorf("no SQL statements found")
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, stmt := range stmts {
		if err := cc.executeAndRender(cmd.Context(), cmd.OutOrStdout(), stmt, opts.Limit); err != nil {
			return err
		}
	}
	return nil
}

// executeAndRender runs one statement, renders its result and records it.
func (c *CommandContext) executeAndRender(ctx context.Context, w io.Writer, stmt string, limit int) error {
	start := time.Now()
	n, err := c.execute(ctx, w, stmt, limit)
	c.record(ctx, state.KindSQL, stmt, n, start, err)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return nil
}

func (c *CommandContext) execute(ctx context.Context, w io.Writer, stmt string, limit int) (int64, error) {
	df, err := c.Session.SQL(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if df == nil {
		_, _ = fmt.Fprintln(w, "OK")
		return 0, nil
	}
	if limit > 0 {
		if df, err = df.Limit(ctx, limit); err != nil {
			return 0, err
		}
	}
	rows, err := df.Collect(ctx)
	if err != nil {
		return 0, err
	}
	if err := renderRows(w, df.Columns(), rows, c.Cfg.Output); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}
