package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/duckframe/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr  string
	Watch string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over HTTP",
		Long: `Start an HTTP API over a single session.

Endpoints:
  GET  /healthz         liveness and session info
  POST /v1/sql          run a statement: {"query": "...", "args": [], "limit": 100}
  POST /v1/dataframes   materialize rows: {"rows": [[...]], "schema": [{"name": "id", "type": "bigint"}], "table": "t"}
  GET  /v1/tables       list tables (?schema=)

With --watch, data files written to the directory are loaded into tables
named after the file.`,
		Example: `  duckframe serve --addr :8080 --database warehouse.duckdb
  duckframe serve --watch ./incoming`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Session:  cc.Session,
				History:  cc.History,
				Addr:     opts.Addr,
				WatchDir: opts.Watch,
				Logger:   cc.Logger,
			})
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&opts.Watch, "watch", "", "Directory of data files to load on change")

	return cmd
}
