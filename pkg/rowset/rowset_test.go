package rowset

import (
	"errors"
	"math/rand"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dollar   = &core.DialectConfig{Name: "duckdb", Placeholder: core.PlaceholderDollar}
	aliased  = &core.DialectConfig{Name: "postgres", Placeholder: core.PlaceholderDollar, DerivedTableAlias: true, Identifiers: core.IdentifierConfig{Quote: `"`, QuoteEnd: `"`, Escape: `""`}}
	question = &core.DialectConfig{Name: "sqlite", Placeholder: core.PlaceholderQuestion}
	typed    = &core.DialectConfig{Name: "duckdb", Placeholder: core.PlaceholderDollar, TimestampParam: "TIMESTAMP"}

	stamp = time.Date(2002, 12, 25, 13, 45, 59, 510241000, time.UTC)
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name       string
		rows       core.RowSet
		dialect    *core.DialectConfig
		wantQuery  string
		wantParams []any
		wantErr    error
	}{
		{
			name:       "two rows of two",
			rows:       core.NewRowSet(core.Row{1, "a"}, core.Row{2, "b"}),
			dialect:    dollar,
			wantQuery:  "SELECT * FROM (VALUES ($1, $2), ($3, $4))",
			wantParams: []any{1, "a", 2, "b"},
		},
		{
			name:       "single row",
			rows:       core.NewRowSet(core.Row{3.5, nil, true}),
			dialect:    dollar,
			wantQuery:  "SELECT * FROM (VALUES ($1, $2, $3))",
			wantParams: []any{3.5, nil, true},
		},
		{
			name:       "derived alias",
			rows:       core.NewRowSet(core.Row{1}, core.Row{2}),
			dialect:    aliased,
			wantQuery:  `SELECT * FROM (VALUES ($1), ($2)) AS "t"`,
			wantParams: []any{1, 2},
		},
		{
			name:       "question placeholders",
			rows:       core.NewRowSet(core.Row{1, 2}),
			dialect:    question,
			wantQuery:  "SELECT * FROM (VALUES (?, ?))",
			wantParams: []any{1, 2},
		},
		{
			name:       "time values get typed placeholders",
			rows:       core.NewRowSet(core.Row{1, stamp}, core.Row{nil, stamp}),
			dialect:    typed,
			wantQuery:  "SELECT * FROM (VALUES ($1, CAST($2 AS TIMESTAMP)), ($3, CAST($4 AS TIMESTAMP)))",
			wantParams: []any{1, stamp, nil, stamp},
		},
		{
			name:       "time values stay untyped without a timestamp type",
			rows:       core.NewRowSet(core.Row{stamp}),
			dialect:    dollar,
			wantQuery:  "SELECT * FROM (VALUES ($1))",
			wantParams: []any{stamp},
		},
		{
			name:      "empty",
			rows:      core.RowSet{},
			dialect:   dollar,
			wantQuery: EmptyQuery,
		},
		{
			name:    "mixed arity",
			rows:    core.NewRowSet(core.Row{1, 2}, core.Row{3, 4, 5}),
			dialect: dollar,
			wantErr: core.ErrArityMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Build(tt.rows, tt.dialect)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, plan.Query)
			assert.Equal(t, tt.wantParams, plan.Params)
		})
	}
}

func TestCheckArity(t *testing.T) {
	err := CheckArity(core.NewRowSet(core.Row{1, 2}, core.Row{3, 4}, core.Row{5}))
	require.Error(t, err)

	var arityErr *core.ArityError
	require.True(t, errors.As(err, &arityErr))
	assert.Equal(t, 2, arityErr.Row)
	assert.Equal(t, 2, arityErr.Want)
	assert.Equal(t, 1, arityErr.Got)
	assert.Contains(t, err.Error(), "row 2 has 1 values, expected 2")

	assert.NoError(t, CheckArity(nil))
	assert.NoError(t, CheckArity(core.NewRowSet(core.Row{1, 2, 3})))
}

func TestNormalize(t *testing.T) {
	calls := 0
	seq := core.RowSeq(func(yield func(core.Row) bool) {
		for i := 0; i < 3; i++ {
			calls++
			if !yield(core.Row{i, strconv.Itoa(i)}) {
				return
			}
		}
	})

	rows := Normalize(seq)
	assert.Equal(t, 3, calls)
	assert.Equal(t, core.NewRowSet(core.Row{0, "0"}, core.Row{1, "1"}, core.Row{2, "2"}), rows)

	owned := core.NewRowSet(core.Row{1})
	assert.Equal(t, owned, Normalize(owned))
	assert.Nil(t, Normalize(nil))
}

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// Placeholder i+1 must bind parameter i, numbered row-major, for any shape.
func TestPlaceholderParameterMapping(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(20) + 1
		k := rng.Intn(8) + 1

		rows := make(core.RowSet, n)
		for i := range rows {
			rows[i] = make(core.Row, k)
			for j := range rows[i] {
				rows[i][j] = i*1000 + j
			}
		}

		// Every third cell is a timestamp so typed placeholders are mixed in.
		for i := range rows {
			for j := range rows[i] {
				if (i*k+j)%3 == 0 {
					rows[i][j] = stamp.Add(time.Duration(i*k+j) * time.Second)
				}
			}
		}

		plan, err := Build(rows, typed)
		require.NoError(t, err)
		require.Len(t, plan.Params, n*k)
		assert.Equal(t, n, plan.Rows)
		assert.Equal(t, k, plan.Width)

		matches := placeholderRe.FindAllStringSubmatch(plan.Query, -1)
		require.Len(t, matches, n*k)
		for pos, m := range matches {
			idx, err := strconv.Atoi(m[1])
			require.NoError(t, err)
			require.Equal(t, pos+1, idx, "placeholders must increase row-major")

			row, col := pos/k, pos%k
			assert.Equal(t, rows[row][col], plan.Params[idx-1])
		}
	}
}

func TestValuesQuery(t *testing.T) {
	assert.Equal(t, "SELECT * FROM (VALUES ($1, $2), ($3, $4))", ValuesQuery(2, 2, typed))
	assert.Equal(t, "SELECT * FROM (VALUES (CAST($1 AS TIMESTAMP)), ($2))", ValuesQuery(2, 1, typed, stamp, "x"))
}
