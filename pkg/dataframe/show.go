package dataframe

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Show prints up to n rows as a table. n <= 0 prints every row.
func (df *DataFrame) Show(ctx context.Context, w io.Writer, n int) error {
	if df == nil {
		return ErrNilDataFrame
	}
	src := df
	if n > 0 {
		var err error
		if src, err = df.Limit(ctx, n); err != nil {
			return err
		}
	}
	rows, err := src.Collect(ctx)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(df.rel.Columns))
	for i, c := range df.rel.Columns {
		header[i] = c.Name
	}
	t.AppendHeader(header)

	for _, r := range rows {
		out := make(table.Row, len(r))
		for i, v := range r {
			out[i] = FormatValue(v)
		}
		t.AppendRow(out)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

// FormatValue renders a cell for display.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
