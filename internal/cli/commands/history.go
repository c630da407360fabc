package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/duckframe/internal/state"
	"github.com/spf13/cobra"
)

// errHistoryDisabled is returned when no history store is available.
var errHistoryDisabled = errors.New("history is disabled\nHint: set history_path in duckframe.yaml or pass --history")

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
	Clear bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed statements",
		Long: `Show statements run by sql, load, describe, shell and serve, newest first.

Every execution is recorded with its kind, status, row count and duration
in the history database (history_path).`,
		Example: `  duckframe history --limit 5
  duckframe history -o json
  duckframe history --clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum entries to show (0 = all)")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete all history entries")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cc := NewCommandContextWithoutSession(cmd)
	defer cc.close()

	if cc.History == nil {
		return errHistoryDisabled
	}

	if opts.Clear {
		n, err := cc.History.Clear(cmd.Context())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", n)
		return nil
	}

	entries, err := cc.History.List(cmd.Context(), opts.Limit)
	if err != nil {
		return err
	}
	return renderHistory(cmd.OutOrStdout(), entries, cc.Cfg.Output)
}

type historyJSON struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Kind       string    `json:"kind"`
	Statement  string    `json:"statement"`
	RowCount   int64     `json:"row_count"`
	DurationMS int64     `json:"duration_ms"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func renderHistory(w io.Writer, entries []state.Entry, format string) error {
	if format == "json" {
		out := make([]historyJSON, len(entries))
		for i, e := range entries {
			out[i] = historyJSON{
				ID:         e.ID,
				SessionID:  e.SessionID,
				Kind:       string(e.Kind),
				Statement:  e.Statement,
				RowCount:   e.RowCount,
				DurationMS: e.Duration.Milliseconds(),
				Status:     string(e.Status),
				Error:      e.Error,
				CreatedAt:  e.CreatedAt,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "(no history)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "Kind", "Status", "Rows", "Duration", "Statement"})
	for _, e := range entries {
		status := string(e.Status)
		if e.Error != "" {
			status += ": " + truncate(e.Error, 40)
		}
		t.AppendRow(table.Row{
			e.CreatedAt.Local().Format(time.DateTime),
			string(e.Kind),
			status,
			e.RowCount,
			e.Duration.String(),
			truncate(e.Statement, 60),
		})
	}
	t.Render()
	return nil
}

// truncate shortens s to one line of at most n runes.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
