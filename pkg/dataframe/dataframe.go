package dataframe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/types"
)

// DataFrame is a lazy relation bound to a session. Transformations return
// new DataFrames; nothing is read until Collect, Count or Show.
type DataFrame struct {
	session *Session
	rel     *core.Relation
	art     *artifact
}

// Relation returns the underlying relation.
func (df *DataFrame) Relation() *core.Relation {
	return df.rel
}

// Columns returns the column names in order.
func (df *DataFrame) Columns() []string {
	return df.rel.ColumnNames()
}

// Schema returns the columns with their engine-native types.
func (df *DataFrame) Schema() []core.Column {
	out := make([]core.Column, len(df.rel.Columns))
	copy(out, df.rel.Columns)
	return out
}

func (df *DataFrame) dialect() *core.DialectConfig {
	return df.session.engine.DialectConfig()
}

// derive executes a query built over this frame. The result shares this
// frame's registered artifact.
func (df *DataFrame) derive(ctx context.Context, query string) (*DataFrame, error) {
	if df == nil {
		return nil, ErrNilDataFrame
	}
	if err := df.session.checkOpen(); err != nil {
		return nil, err
	}
	rel, err := df.session.engine.Execute(ctx, query, df.rel.Args...)
	if err != nil {
		return nil, err
	}
	return df.session.frame(rel, df.art), nil
}

// positional returns a FROM item exposing this frame's columns as _1.._k.
func (df *DataFrame) positional() (string, []string) {
	d := df.dialect()
	aliases := make([]string, len(df.rel.Columns))
	quoted := make([]string, len(aliases))
	for i := range aliases {
		aliases[i] = "_" + strconv.Itoa(i+1)
		quoted[i] = d.QuoteIdentifier(aliases[i])
	}
	from := "(" + df.rel.Query + ") AS " + d.QuoteIdentifier("t") + "(" + strings.Join(quoted, ", ") + ")"
	return from, aliases
}

// CastTypes casts columns by position to engine-native type names. An empty
// type name leaves its column unchanged. Column names are preserved.
func (df *DataFrame) CastTypes(ctx context.Context, nativeTypes ...string) (*DataFrame, error) {
	if df == nil {
		return nil, ErrNilDataFrame
	}
	if len(nativeTypes) != len(df.rel.Columns) {
		return nil, fmt.Errorf("%w: %d types for %d columns", core.ErrSchemaMismatch, len(nativeTypes), len(df.rel.Columns))
	}
	d := df.dialect()
	from, aliases := df.positional()
	exprs := make([]string, len(aliases))
	for i, a := range aliases {
		col := d.QuoteIdentifier(a)
		if nativeTypes[i] != "" {
			col = "CAST(" + col + " AS " + nativeTypes[i] + ")"
		}
		exprs[i] = col + " AS " + d.QuoteIdentifier(df.rel.Columns[i].Name)
	}
	return df.derive(ctx, "SELECT "+strings.Join(exprs, ", ")+" FROM "+from)
}

// ToDF renames every column by position.
func (df *DataFrame) ToDF(ctx context.Context, names ...string) (*DataFrame, error) {
	if df == nil {
		return nil, ErrNilDataFrame
	}
	if len(names) != len(df.rel.Columns) {
		return nil, fmt.Errorf("%w: %d names for %d columns", core.ErrSchemaMismatch, len(names), len(df.rel.Columns))
	}
	d := df.dialect()
	from, aliases := df.positional()
	exprs := make([]string, len(aliases))
	for i, a := range aliases {
		exprs[i] = d.QuoteIdentifier(a) + " AS " + d.QuoteIdentifier(names[i])
	}
	return df.derive(ctx, "SELECT "+strings.Join(exprs, ", ")+" FROM "+from)
}

// applySchema casts typed fields and then renames every column.
func (df *DataFrame) applySchema(ctx context.Context, schema *types.StructType) (*DataFrame, error) {
	if schema.Len() != len(df.rel.Columns) {
		return nil, fmt.Errorf("%w: schema has %d fields, relation has %d columns",
			core.ErrSchemaMismatch, schema.Len(), len(df.rel.Columns))
	}
	out := df
	if schema.HasTypes() {
		var err error
		out, err = df.CastTypes(ctx, schema.NativeTypes(df.dialect().Name)...)
		if err != nil {
			return nil, err
		}
	}
	return out.ToDF(ctx, schema.FieldNames()...)
}

// WithSchema applies schema the way CreateDataFrame does. A nil schema
// returns df unchanged.
func (df *DataFrame) WithSchema(ctx context.Context, schema *types.StructType) (*DataFrame, error) {
	if df == nil {
		return nil, ErrNilDataFrame
	}
	if schema == nil {
		return df, nil
	}
	return df.applySchema(ctx, schema)
}

// Limit returns at most n rows.
func (df *DataFrame) Limit(ctx context.Context, n int) (*DataFrame, error) {
	if df == nil {
		return nil, ErrNilDataFrame
	}
	if n < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}
	return df.derive(ctx, "SELECT * FROM "+df.dialect().Subquery(df.rel.Query, "t")+" LIMIT "+strconv.Itoa(n))
}

// Collect runs the relation and returns every row.
func (df *DataFrame) Collect(ctx context.Context) ([]core.Row, error) {
	if df == nil {
		return nil, ErrNilDataFrame
	}
	if err := df.session.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := df.session.engine.Query(ctx, df.rel)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	width := len(df.rel.Columns)
	var out []core.Row
	for rows.Next() {
		vals := make(core.Row, width)
		ptrs := make([]any, width)
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// Count returns the number of rows.
func (df *DataFrame) Count(ctx context.Context) (int64, error) {
	if df == nil {
		return 0, ErrNilDataFrame
	}
	cnt, err := df.derive(ctx, "SELECT count(*) AS n FROM "+df.dialect().Subquery(df.rel.Query, "t"))
	if err != nil {
		return 0, err
	}
	rows, err := cnt.Collect(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) != 1 || len(rows[0]) != 1 {
		return 0, fmt.Errorf("count returned %d rows", len(rows))
	}
	switch v := rows[0][0].(type) {
	case int64:
		return v, nil
	default:
		return strconv.ParseInt(fmt.Sprint(v), 10, 64)
	}
}

// SaveAsTable writes the rows to a persistent table, replacing any
// existing table of that name.
func (df *DataFrame) SaveAsTable(ctx context.Context, name string) error {
	if df == nil {
		return ErrNilDataFrame
	}
	if err := df.session.checkOpen(); err != nil {
		return err
	}
	eng := df.session.engine
	target := df.dialect().QuoteQualified(name)
	if err := eng.Exec(ctx, "DROP TABLE IF EXISTS "+target); err != nil {
		return err
	}
	if err := eng.Exec(ctx, "CREATE TABLE "+target+" AS "+df.rel.Query, df.rel.Args...); err != nil {
		return fmt.Errorf("failed to save table %s: %w", name, err)
	}
	return nil
}

// Close releases the engine artifact backing this frame, if any. Frames
// derived from it share the artifact and become unusable too.
func (df *DataFrame) Close() error {
	if df == nil || df.art == nil {
		return nil
	}
	return df.art.close()
}
