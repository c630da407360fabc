package commands

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/duckframe/internal/loader"
	"github.com/leapstack-labs/duckframe/internal/state"
	"github.com/leapstack-labs/duckframe/pkg/types"
	"github.com/spf13/cobra"
)

// LoadOptions holds options for the load command.
type LoadOptions struct {
	Table  string
	Schema string
}

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	opts := &LoadOptions{}

	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Load a data file into a table",
		Long: `Load a data file into a table, replacing the table if it exists.

YAML and JSON row documents (.yaml, .yml, .json) are materialized as
DataFrames in-process. CSV, Parquet and newline-delimited JSON (.ndjson,
.jsonl) are read by the engine. An optional schema file renames columns by
position and casts the typed ones:

  columns:
    - name: id
      type: bigint
    - name: label`,
		Example: `  duckframe load people.yaml --table people
  duckframe load sales.csv --table sales --schema sales.schema.yaml --database warehouse.duckdb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "Target table (default: derived from the file name)")
	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "Schema file (YAML)")

	return cmd
}

func runLoad(cmd *cobra.Command, path string, opts *LoadOptions) error {
	if !loader.Supported(path) {
		return fmt.Errorf("%w: %s", loader.ErrUnknownFormat, path)
	}

	var schema *types.StructType
	if opts.Schema != "" {
		var err error
		if schema, err = loader.LoadSchemaFile(opts.Schema); err != nil {
			return err
		}
	}

	table := opts.Table
	if table == "" {
		table = loader.TableName(path)
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	kind := state.KindRead
	if loader.IsRowDocument(path) {
		kind = state.KindLoad
	}

	start := time.Now()
	res, err := loader.ToTable(cmd.Context(), cc.Session, path, table, schema)
	if err != nil {
		cc.record(cmd.Context(), kind, path, 0, start, err)
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	cc.record(cmd.Context(), kind, path, res.Rows, start, nil)

	cc.Logger.Debug("loaded file",
		"path", path,
		"table", res.Table,
		"source", res.Source.String(),
		"columns", res.Columns)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d rows into %s\n", res.Rows, res.Table)
	return nil
}
