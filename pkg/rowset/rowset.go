// Package rowset turns caller-supplied tuples into a literal-table query.
//
// A row set of n rows of width k becomes
//
//	SELECT * FROM (VALUES ($1, ..., $k), ($k+1, ..., $2k), ...)
//
// with the values flattened row-major into one parameter list, so that
// parameter i binds placeholder i+1. Placeholders for time.Time values are
// cast to the dialect's timestamp type.
package rowset

import (
	"strings"

	"github.com/leapstack-labs/duckframe/pkg/core"
)

// EmptyQuery defines a zero-row relation with a single dummy column.
const EmptyQuery = "SELECT 42 WHERE 1=0"

// Plan is a synthesized literal-table query with its bound parameters.
type Plan struct {
	Query  string
	Params []any
	Rows   int
	Width  int
}

// Normalize realizes any row iterable into an owned, fixed-order row set.
func Normalize(in core.RowIterable) core.RowSet {
	if in == nil {
		return nil
	}
	return in.Realize()
}

// CheckArity verifies that every row has the first row's length.
func CheckArity(rows core.RowSet) error {
	if len(rows) <= 1 {
		return nil
	}
	want := len(rows[0])
	for i, r := range rows[1:] {
		if len(r) != want {
			return &core.ArityError{Row: i + 1, Want: want, Got: len(r)}
		}
	}
	return nil
}

// Build validates rows and synthesizes the query and parameters for them.
// Nothing is sent to an engine.
func Build(rows core.RowSet, d *core.DialectConfig) (Plan, error) {
	if len(rows) == 0 {
		return Plan{Query: EmptyQuery, Width: 1}, nil
	}
	if err := CheckArity(rows); err != nil {
		return Plan{}, err
	}

	width := len(rows[0])
	params := Flatten(rows)
	return Plan{
		Query:  ValuesQuery(len(rows), width, d, params...),
		Params: params,
		Rows:   len(rows),
		Width:  width,
	}, nil
}

// ValuesQuery renders a VALUES query for n rows of width k. Placeholders are
// numbered row-major: row i holds i*k+1 through i*k+k. When params are given,
// placeholder i+1 is typed for params[i] by the dialect.
func ValuesQuery(n, k int, d *core.DialectConfig, params ...any) string {
	var b strings.Builder
	b.WriteString("VALUES ")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := 0; j < k; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			idx := i*k + j + 1
			if idx <= len(params) {
				b.WriteString(d.FormatValuePlaceholder(idx, params[idx-1]))
			} else {
				b.WriteString(d.FormatPlaceholder(idx))
			}
		}
		b.WriteByte(')')
	}

	if d.DerivedTableAlias {
		return "SELECT * FROM " + d.Subquery(b.String(), "t")
	}
	return "SELECT * FROM (" + b.String() + ")"
}

// Flatten concatenates row values in row-major order.
func Flatten(rows core.RowSet) []any {
	n := 0
	for _, r := range rows {
		n += len(r)
	}
	params := make([]any, 0, n)
	for _, r := range rows {
		params = append(params, r...)
	}
	return params
}
