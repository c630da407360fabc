package commands

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/duckframe/internal/state"
	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var schema string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables and views",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tables, err := cc.Session.Catalog().ListTables(cmd.Context(), schema)
			if err != nil {
				return fmt.Errorf("failed to list tables: %w", err)
			}
			return renderRows(cmd.OutOrStdout(), []string{"schema", "name", "type"}, tableRows(tables), cc.Cfg.Output)
		},
	}

	cmd.Flags().StringVarP(&schema, "schema", "s", "", "Schema to list (default: the engine's default schema)")
	return cmd
}

func tableRows(tables []core.TableInfo) []core.Row {
	rows := make([]core.Row, len(tables))
	for i, t := range tables {
		rows[i] = core.Row{t.Schema, t.Name, t.Type}
	}
	return rows
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe TABLE",
		Short: "Show the columns of a table or view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			start := time.Now()
			meta, err := cc.Session.Catalog().Describe(cmd.Context(), args[0])
			if err != nil {
				cc.record(cmd.Context(), state.KindTable, args[0], 0, start, err)
				return err
			}
			cc.record(cmd.Context(), state.KindTable, args[0], meta.RowCount, start, nil)

			if cc.Cfg.Output == "table" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Table: %s.%s (%d rows)\n", meta.Schema, meta.Name, meta.RowCount)
			}
			return renderRows(cmd.OutOrStdout(), []string{"column", "type", "nullable"}, columnRows(meta.Columns), cc.Cfg.Output)
		},
	}
}

func columnRows(cols []core.Column) []core.Row {
	rows := make([]core.Row, len(cols))
	for i, c := range cols {
		nullable := "YES"
		if !c.Nullable {
			nullable = "NO"
		}
		rows[i] = core.Row{c.Name, c.Type, nullable}
	}
	return rows
}
