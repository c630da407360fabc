package dataframe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/duckframe/internal/testutil"
	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/engine"
	"github.com/leapstack-labs/duckframe/pkg/engines/duckdb"
	"github.com/leapstack-labs/duckframe/pkg/types"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewBuilder().AppName(t.Name()).Logger(testutil.NewTestLogger(t)).Create(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

// mockEngine runs the shared SQL engine over sqlmock with the DuckDB dialect.
type mockEngine struct {
	engine.BaseSQLEngine
}

func (m *mockEngine) Connect(context.Context, core.EngineConfig) error { return nil }

func (m *mockEngine) GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	return m.GetTableMetadataCommon(ctx, table)
}

func (m *mockEngine) ListTables(ctx context.Context, schema string) ([]core.TableInfo, error) {
	return m.ListTablesCommon(ctx, schema)
}

func newMockSession(t *testing.T) (*Session, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	eng := &mockEngine{engine.BaseSQLEngine{DB: db, Dialect: duckdb.DuckDB.Config()}}
	s, err := NewBuilder().WithEngine(eng).Create(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s, mock
}

func TestCreateDataFrame_Rows(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	df, err := s.CreateDataFrame(ctx, core.NewRowSet(core.Row{1, "a"}, core.Row{2, "b"}), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"col0", "col1"}, df.Columns())
	schema := df.Schema()
	assert.Equal(t, "BIGINT", schema[0].Type)
	assert.Equal(t, "VARCHAR", schema[1].Type)

	rows, err := df.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Row{{int64(1), "a"}, {int64(2), "b"}}, rows)
}

func TestCreateDataFrame_ScalarRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rows core.RowSet
		want []core.Row
	}{
		{
			name: "integers",
			rows: core.NewRowSet(core.Row{int64(1), int64(-2)}, core.Row{int64(3), int64(4)}),
			want: []core.Row{{int64(1), int64(-2)}, {int64(3), int64(4)}},
		},
		{
			name: "floats",
			rows: core.NewRowSet(core.Row{1.5}, core.Row{-0.25}),
			want: []core.Row{{1.5}, {-0.25}},
		},
		{
			name: "unicode strings",
			rows: core.NewRowSet(core.Row{"héllo"}, core.Row{"日本語"}),
			want: []core.Row{{"héllo"}, {"日本語"}},
		},
		{
			name: "booleans",
			rows: core.NewRowSet(core.Row{true}, core.Row{false}),
			want: []core.Row{{true}, {false}},
		},
		{
			name: "nulls",
			rows: core.NewRowSet(core.Row{"x", nil}, core.Row{nil, "y"}),
			want: []core.Row{{"x", nil}, {nil, "y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestSession(t)

			df, err := s.CreateDataFrame(ctx, tt.rows, nil)
			require.NoError(t, err)
			got, err := df.Collect(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateDataFrame_Empty(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	for _, in := range []core.TabularInput{core.RowSet{}, core.RowSet(nil), core.RowSeq(nil)} {
		df, err := s.CreateDataFrame(ctx, in, nil)
		require.NoError(t, err)
		assert.Len(t, df.Columns(), 1, "empty input yields one placeholder column")

		n, err := df.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}

func TestCreateDataFrame_RowSeq(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	seq := core.RowSeq(func(yield func(core.Row) bool) {
		for i := range 3 {
			if !yield(core.Row{int64(i), fmt.Sprintf("r%d", i)}) {
				return
			}
		}
	})

	df, err := s.CreateDataFrame(ctx, seq, types.Names("n", "label"))
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "label"}, df.Columns())

	rows, err := df.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Row{{int64(0), "r0"}, {int64(1), "r1"}, {int64(2), "r2"}}, rows)
}

func TestCreateDataFrame_ArityMismatchSubmitsNothing(t *testing.T) {
	s, mock := newMockSession(t)

	_, err := s.CreateDataFrame(context.Background(), core.NewRowSet(core.Row{1, "a"}, core.Row{2}), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrArityMismatch)

	var arity *core.ArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 1, arity.Row)
	assert.Equal(t, 2, arity.Want)
	assert.Equal(t, 1, arity.Got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDataFrame_SubmitsFlattenedParameters(t *testing.T) {
	s, mock := newMockSession(t)

	emptySelect := "SELECT * FROM (\nSELECT * FROM (VALUES ($1, $2), ($3, $4))\n) AS \"t\" LIMIT 0"
	mock.ExpectQuery(regexp.QuoteMeta(emptySelect)).
		WithArgs(1, "a", 2, "b").
		WillReturnRows(sqlmock.NewRows([]string{"col0", "col1"}))

	df, err := s.CreateDataFrame(context.Background(), core.NewRowSet(core.Row{1, "a"}, core.Row{2, "b"}), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1, "a", 2, "b"}, df.Relation().Args)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDataFrame_EngineErrorPropagates(t *testing.T) {
	s, mock := newMockSession(t)
	mock.ExpectQuery("VALUES").WillReturnError(assert.AnError)

	_, err := s.CreateDataFrame(context.Background(), core.NewRowSet(core.Row{1}), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCreateDataFrame_UnsupportedInput(t *testing.T) {
	s := newTestSession(t)
	_, err := s.CreateDataFrame(context.Background(), nil, nil)
	assert.ErrorIs(t, err, core.ErrUnsupportedInput)
}

func TestCreateDataFrame_Schema(t *testing.T) {
	tests := []struct {
		name      string
		schema    *types.StructType
		wantNames []string
		wantTypes []string
		wantErr   error
	}{
		{
			name:      "names only",
			schema:    types.Names("id", "label"),
			wantNames: []string{"id", "label"},
			wantTypes: []string{"BIGINT", "VARCHAR"},
		},
		{
			name:      "typed fields cast then rename",
			schema:    types.Struct(types.Field("id", types.IntegerType), types.Field("label", types.StringType)),
			wantNames: []string{"id", "label"},
			wantTypes: []string{"INTEGER", "VARCHAR"},
		},
		{
			name: "partially typed",
			schema: types.Struct(
				types.Field("amount", types.Decimal(10, 2)),
				types.StructField{Name: "label"},
			),
			wantNames: []string{"amount", "label"},
			wantTypes: []string{"DECIMAL(10,2)", "VARCHAR"},
		},
		{
			name:      "rename to a source column name",
			schema:    types.Names("col1", "col0"),
			wantNames: []string{"col1", "col0"},
			wantTypes: []string{"BIGINT", "VARCHAR"},
		},
		{
			name:    "field count mismatch",
			schema:  types.Names("only"),
			wantErr: core.ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestSession(t)

			df, err := s.CreateDataFrame(ctx, core.NewRowSet(core.Row{1, "a"}, core.Row{2, "b"}), tt.schema)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, df.Columns())

			var gotTypes []string
			for _, c := range df.Schema() {
				gotTypes = append(gotTypes, c.Type)
			}
			assert.Equal(t, tt.wantTypes, gotTypes)

			n, err := df.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)
		})
	}
}

func TestCreateDataFrame_TemporalTypes(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	day := time.Date(2002, 12, 25, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2002, 12, 25, 13, 45, 59, 510241000, time.UTC)

	df, err := s.CreateDataFrame(ctx,
		core.NewRowSet(core.Row{day, ts, ts}),
		types.Struct(
			types.Field("d", types.DateType),
			types.Field("ts", types.TimestampNTZType),
			types.Field("ts_ms", types.TimestampMSType),
		))
	require.NoError(t, err)

	rows, err := df.Collect(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	gotDay, ok := rows[0][0].(time.Time)
	require.True(t, ok)
	assert.True(t, day.Equal(gotDay), "date %v", gotDay)

	gotTS, ok := rows[0][1].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 510241000, gotTS.Nanosecond())

	gotMS, ok := rows[0][2].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 510000000, gotMS.Nanosecond(), "millisecond resolution truncates")
}

func TestCreateDataFrame_TimeValuesWithoutSchema(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	ts := time.Date(2002, 12, 25, 13, 45, 59, 510241000, time.UTC)
	df, err := s.CreateDataFrame(ctx, core.NewRowSet(core.Row{int64(1), ts}, core.Row{int64(2), nil}), nil)
	require.NoError(t, err)

	schema := df.Schema()
	require.Len(t, schema, 2)
	assert.Equal(t, "TIMESTAMP", schema[1].Type)

	rows, err := df.Collect(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	got, ok := rows[0][1].(time.Time)
	require.True(t, ok)
	assert.True(t, ts.Equal(got), "timestamp %v", got)
	assert.Nil(t, rows[1][1])
}

func TestCreateDataFrame_TimeOfDay(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	ts := time.Date(2002, 12, 25, 13, 45, 59, 510241000, time.UTC)
	df, err := s.CreateDataFrame(ctx, core.NewRowSet(core.Row{ts}), types.Struct(types.Field("t", types.TimeType)))
	require.NoError(t, err)
	assert.Equal(t, "TIME", df.Schema()[0].Type)
	require.NoError(t, df.SaveAsTable(ctx, "tod"))

	out, err := s.SQL(ctx, "SELECT CAST(t AS VARCHAR) AS v FROM tod")
	require.NoError(t, err)
	rows, err := out.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Row{{"13:45:59.510241"}}, rows)
}

func TestCreateDataFrame_MillisecondTruncation(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	ts := time.Date(2002, 12, 25, 13, 45, 59, 510241000, time.UTC)
	df, err := s.CreateDataFrame(ctx, core.NewRowSet(core.Row{ts}), types.Struct(types.Field("ts", types.TimestampMSType)))
	require.NoError(t, err)

	rows, err := df.Collect(ctx)
	require.NoError(t, err)
	got, ok := rows[0][0].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 510000, got.Nanosecond()/1000, "read back as 510000 microseconds")
}

func arrowData(t *testing.T, ids []int64, labels []string) core.Columnar {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "label", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues(ids, nil)
	b.Field(1).(*array.StringBuilder).AppendValues(labels, nil)
	rec := b.NewRecord()
	defer rec.Release()

	data, err := core.ColumnarFromRecords(schema, rec)
	require.NoError(t, err)
	t.Cleanup(data.Reader.Release)
	return data
}

func TestCreateDataFrame_Columnar(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	df, err := s.CreateDataFrame(ctx, arrowData(t, []int64{1, 2}, []string{"a", "b"}), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label"}, df.Columns())

	rows, err := df.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Row{{int64(1), "a"}, {int64(2), "b"}}, rows)

	renamed, err := s.CreateDataFrame(ctx, arrowData(t, []int64{3}, []string{"c"}), types.Names("key", "value"))
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "value"}, renamed.Columns())

	require.NoError(t, df.Close())
	_, err = df.Collect(ctx)
	assert.Error(t, err, "registered table is dropped on close")

	// Other registrations are unaffected.
	n, err := renamed.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCreateDataFrame_ConcurrentRegistrations(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	const workers = 8
	frames := make([]*DataFrame, workers)
	inputs := make([]core.Columnar, workers)
	for i := range workers {
		ids := make([]int64, i+1)
		labels := make([]string, i+1)
		for j := range ids {
			ids[j] = int64(j)
			labels[j] = fmt.Sprintf("w%d", i)
		}
		inputs[i] = arrowData(t, ids, labels)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		g.Go(func() error {
			df, err := s.CreateDataFrame(gctx, inputs[i], nil)
			if err != nil {
				return err
			}
			frames[i] = df
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]bool)
	for i, df := range frames {
		q := df.Relation().Query
		assert.False(t, seen[q], "registration names must be unique")
		seen[q] = true

		n, err := df.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), n)
	}
}

func TestSession_SQL(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	df, err := s.SQL(ctx, "CREATE TABLE test (x INTEGER)")
	require.NoError(t, err)
	assert.Nil(t, df, "statements yield no DataFrame")

	_, err = s.SQL(ctx, "INSERT INTO test VALUES (1), (2), (3)")
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		args  []any
		want  []string
	}{
		{"cte with literal", "WITH one AS (SELECT 1) SELECT * FROM one", nil, []string{"1"}},
		{"cte over table", "WITH testCTE AS (SELECT * FROM test) SELECT * FROM testCTE", nil, []string{"x"}},
		{"parameters", "SELECT x FROM test WHERE x > $1", []any{1}, []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df, err := s.SQL(ctx, tt.query, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, df.Columns())
		})
	}

	filtered, err := s.SQL(ctx, "SELECT x FROM test WHERE x > $1 ORDER BY x", 1)
	require.NoError(t, err)
	rows, err := filtered.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Row{{int32(2)}, {int32(3)}}, rows)

	_, err = s.SQL(ctx, "SELECT * FROM missing_table")
	assert.Error(t, err)

	var nilDF *DataFrame
	_, err = nilDF.Collect(ctx)
	assert.ErrorIs(t, err, ErrNilDataFrame)
}

func TestSession_TableAndSave(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	df, err := s.CreateDataFrame(ctx, core.NewRowSet(core.Row{1, "a"}, core.Row{2, "b"}), types.Names("id", "label"))
	require.NoError(t, err)
	require.NoError(t, df.SaveAsTable(ctx, "saved"))
	require.NoError(t, df.SaveAsTable(ctx, "saved"), "saving twice replaces the table")

	tbl, err := s.Table(ctx, "saved")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label"}, tbl.Columns())

	limited, err := tbl.Limit(ctx, 1)
	require.NoError(t, err)
	n, err := limited.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Table(ctx, "nope")
	assert.Error(t, err)
}

func TestSession_Range(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	df, err := s.Range(ctx, 0, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, df.Columns())

	rows, err := df.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Row{{int64(0)}, {int64(3)}, {int64(6)}, {int64(9)}}, rows)

	_, err = s.Range(ctx, 0, 10, 0)
	assert.Error(t, err)
}

func TestSession_RangeUnsupported(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	cfg := *duckdb.DuckDB.Config()
	cfg.RangeFunction = ""
	eng := &mockEngine{engine.BaseSQLEngine{DB: db, Dialect: &cfg}}
	s, err := NewBuilder().WithEngine(eng).Create(context.Background())
	require.NoError(t, err)
	defer func() { _ = s.Stop() }()

	_, err = s.Range(context.Background(), 0, 1, 1)
	assert.ErrorIs(t, err, core.ErrUnsupported)
}

func TestSession_Conf(t *testing.T) {
	ctx := context.Background()
	s, err := NewBuilder().Config("threads", "2").Logger(testutil.NewTestLogger(t)).Create(ctx)
	require.NoError(t, err)
	defer func() { _ = s.Stop() }()

	v, err := s.Conf().Get(ctx, "threads")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	require.NoError(t, s.Conf().Set(ctx, "threads", "3"))
	assert.Equal(t, "3", s.Conf().GetOrDefault(ctx, "threads", "x"))
	assert.Equal(t, "fallback", s.Conf().GetOrDefault(ctx, "no_such_setting", "fallback"))
}

func TestSession_Catalog(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	_, err := s.SQL(ctx, "CREATE TABLE orders (id INTEGER, amount DOUBLE)")
	require.NoError(t, err)

	tables, err := s.Catalog().ListTables(ctx, "")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "orders", tables[0].Name)

	cols, err := s.Catalog().ListColumns(ctx, "orders")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "amount", cols[1].Name)

	_, err = s.SQL(ctx, "INSERT INTO orders VALUES (1, 9.5), (2, 3.25)")
	require.NoError(t, err)
	meta, err := s.Catalog().Describe(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.RowCount)

	ok, err := s.Catalog().TableExists(ctx, "orders")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Catalog().TableExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	meta, err = s.Catalog().Describe(ctx, "Orders")
	require.NoError(t, err, "unquoted names fold to the stored name")
	assert.Equal(t, "orders", meta.Name)

	ok, err = s.Catalog().TableExists(ctx, "Missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Catalog().Describe(ctx, `"Orders"`)
	assert.ErrorIs(t, err, engine.ErrTableNotFound)
}

func TestSession_Read(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nada,36\ngrace,45\n"), 0600))

	format, ok := FormatFromPath(path)
	require.True(t, ok)

	df, err := s.Read().Load(ctx, format, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, df.Columns())

	n, err := df.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = s.Read().CSV(ctx, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestDataFrame_Show(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	df, err := s.CreateDataFrame(ctx, core.NewRowSet(core.Row{1, "a"}, core.Row{2, nil}, core.Row{3, "c"}), types.Names("id", "label"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, df.Show(ctx, &buf, 2))
	out := buf.String()
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "label")
	assert.NotContains(t, out, "LABEL", "headers keep their case")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")
	assert.NotContains(t, out, " c ")
}

func TestSession_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := NewBuilder().AppName("lifecycle").Create(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, "lifecycle", s.AppName())
	assert.Equal(t, "1.0.0", s.Version())
	assert.Same(t, s, ActiveSession())

	same, err := NewBuilder().GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Same(t, s, same, "GetOrCreate returns the active session")

	child := s.NewSession()
	assert.NotEqual(t, s.ID(), child.ID())
	assert.Same(t, s.Engine(), child.Engine())
	require.NoError(t, child.Stop())

	// The shared engine survives the child.
	_, err = s.SQL(ctx, "SELECT 1")
	require.NoError(t, err)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "stop is idempotent")
	assert.Nil(t, ActiveSession())

	_, err = s.SQL(ctx, "SELECT 1")
	assert.True(t, errors.Is(err, ErrSessionStopped))
}

func TestBuilder_UnknownEngine(t *testing.T) {
	_, err := NewBuilder().Engine("nosuchdb").Create(context.Background())
	var unknown *engine.UnknownEngineError
	assert.ErrorAs(t, err, &unknown)
}
