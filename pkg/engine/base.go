package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/leapstack-labs/duckframe/pkg/core"
)

// BaseSQLEngine provides common database/sql functionality for engines.
// Embed this struct in concrete engine implementations to get standard
// Close, Exec, Execute and Query implementations.
type BaseSQLEngine struct {
	DB      *sql.DB
	Cfg     core.EngineConfig
	Logger  *slog.Logger
	Dialect *core.DialectConfig

	// mu orders Close against ExecIfOpen.
	mu sync.RWMutex
}

var settingKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

func (b *BaseSQLEngine) log() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Pin limits the pool to one connection. Temporary objects and settings are
// scoped to a connection, so every call of a session must share it.
func Pin(db *sql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
}

// Close closes the database connection.
func (b *BaseSQLEngine) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.DB != nil {
		b.log().Debug("closing database connection")
		err := b.DB.Close()
		b.DB = nil
		return err
	}
	return nil
}

// DialectConfig returns the engine's dialect configuration.
func (b *BaseSQLEngine) DialectConfig() *core.DialectConfig {
	return b.Dialect
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLEngine) IsConnected() bool {
	return b.DB != nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLEngine) Exec(ctx context.Context, sqlStr string, args ...any) error {
	if b.DB == nil {
		return core.ErrNotConnected
	}
	if _, err := b.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// ExecIfOpen executes a statement unless the engine is closed, in which case
// it does nothing. Close waits for a running statement to finish.
func (b *BaseSQLEngine) ExecIfOpen(ctx context.Context, sqlStr string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.DB == nil {
		return nil
	}
	return b.Exec(ctx, sqlStr)
}

// Execute validates a query and returns a relation describing its result.
//
// Queries are described by wrapping them in a zero-row select, so nothing runs
// until the relation is queried. Utility statements (SHOW, DESCRIBE, ...) run
// once to learn their columns. Commands run immediately and yield a relation
// with an empty Query.
func (b *BaseSQLEngine) Execute(ctx context.Context, query string, args ...any) (*core.Relation, error) {
	if b.DB == nil {
		return nil, core.ErrNotConnected
	}
	query = TrimStatement(query)
	if query == "" {
		return nil, core.ErrEmptyQuery
	}

	switch Classify(query) {
	case KindQuery:
		emptySelect := "SELECT * FROM " + b.Dialect.Subquery("\n"+query+"\n", "t") + " LIMIT 0"
		cols, err := b.describe(ctx, emptySelect, args)
		if err != nil {
			return nil, err
		}
		return &core.Relation{Query: query, Args: args, Columns: cols}, nil
	case KindUtility:
		cols, err := b.describe(ctx, query, args)
		if err != nil {
			return nil, err
		}
		return &core.Relation{Query: query, Args: args, Columns: cols}, nil
	default:
		b.log().Debug("executing command", slog.String("sql", query))
		if err := b.Exec(ctx, query, args...); err != nil {
			return nil, err
		}
		return &core.Relation{}, nil
	}
}

// describe runs sqlStr and reports the columns of its result without reading rows.
func (b *BaseSQLEngine) describe(ctx context.Context, sqlStr string, args []any) ([]core.Column, error) {
	rows, err := b.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return ColumnsOf(rows)
}

// ColumnsOf converts the column types of a result set into core columns.
func ColumnsOf(rows *sql.Rows) ([]core.Column, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	cols := make([]core.Column, len(types))
	for i, ct := range types {
		nullable, ok := ct.Nullable()
		cols[i] = core.Column{
			Name:     ct.Name(),
			Type:     ct.DatabaseTypeName(),
			Nullable: nullable || !ok,
			Position: i + 1,
		}
	}
	return cols, nil
}

// Query runs a relation and returns its rows.
func (b *BaseSQLEngine) Query(ctx context.Context, rel *core.Relation) (*core.Rows, error) {
	if b.DB == nil {
		return nil, core.ErrNotConnected
	}
	if rel == nil || rel.Query == "" {
		return nil, core.ErrEmptyQuery
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, rel.Query, rel.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// Table returns a relation over every row of a table or view.
func (b *BaseSQLEngine) Table(ctx context.Context, name string) (*core.Relation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("table name is required")
	}
	rel, err := b.Execute(ctx, "SELECT * FROM "+b.Dialect.QuoteQualified(name))
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}
	return rel, nil
}

// Register is unsupported unless a concrete engine overrides it.
func (b *BaseSQLEngine) Register(_ context.Context, name core.Token, _ core.Columnar) (func() error, error) {
	return nil, fmt.Errorf("%s: registering %s: %w", b.Cfg.Type, name, core.ErrUnsupported)
}

// ReadFile is unsupported unless a concrete engine overrides it.
func (b *BaseSQLEngine) ReadFile(_ context.Context, format core.FileFormat, _ string) (*core.Relation, error) {
	return nil, fmt.Errorf("%s: reading %s files: %w", b.Cfg.Type, format, core.ErrUnsupported)
}

// SetSetting changes a session-level setting with SET.
func (b *BaseSQLEngine) SetSetting(ctx context.Context, key, value string) error {
	if !settingKey.MatchString(key) {
		return fmt.Errorf("invalid setting name %q", key)
	}
	//nolint:gosec // key is validated above, value is a quoted literal
	return b.Exec(ctx, fmt.Sprintf("SET %s = %s", key, core.QuoteLiteral(value)))
}

// GetSetting reads a session-level setting with current_setting().
func (b *BaseSQLEngine) GetSetting(ctx context.Context, key string) (string, error) {
	if b.DB == nil {
		return "", core.ErrNotConnected
	}
	if !settingKey.MatchString(key) {
		return "", fmt.Errorf("invalid setting name %q", key)
	}
	// Some engines require a constant argument, so the key is inlined.
	var v any
	err := b.DB.QueryRowContext(ctx, "SELECT current_setting("+core.QuoteLiteral(key)+")").Scan(&v)
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case []byte:
		return string(t), nil
	default:
		return fmt.Sprint(t), nil
	}
}

// ParseQualifiedName splits a table reference into schema and name.
// Uses the dialect's default schema if not specified.
func ParseQualifiedName(table string, d *core.DialectConfig) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return d.DefaultSchema, table
}

// ListTablesCommon lists the tables and views of a schema from information_schema.
func (b *BaseSQLEngine) ListTablesCommon(ctx context.Context, schema string) ([]core.TableInfo, error) {
	if b.DB == nil {
		return nil, core.ErrNotConnected
	}
	if schema == "" {
		schema = b.Dialect.DefaultSchema
	}

	//nolint:gosec // Placeholders are safe - they come from dialect.FormatPlaceholder
	query := fmt.Sprintf(`
		SELECT table_schema, table_name, table_type
		FROM information_schema.tables
		WHERE table_schema = %s
		ORDER BY table_name
	`, b.Dialect.FormatPlaceholder(1))

	rows, err := b.DB.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []core.TableInfo
	for rows.Next() {
		var t core.TableInfo
		if err := rows.Scan(&t.Schema, &t.Name, &t.Type); err != nil {
			return nil, fmt.Errorf("failed to scan table info: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

// ErrTableNotFound is returned when a table has no columns in information_schema.
var ErrTableNotFound = errors.New("table not found")

// GetTableMetadataCommon provides a shared implementation of GetTableMetadata.
// Uses information_schema.columns with dialect-appropriate placeholders.
func (b *BaseSQLEngine) GetTableMetadataCommon(ctx context.Context, table string) (*core.TableMetadata, error) {
	if b.DB == nil {
		return nil, core.ErrNotConnected
	}

	schema, tableName := ParseQualifiedName(table, b.Dialect)

	//nolint:gosec // Placeholders are safe - they come from dialect.FormatPlaceholder
	query := fmt.Sprintf(`
		SELECT 
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns 
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, b.Dialect.FormatPlaceholder(1), b.Dialect.FormatPlaceholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	countQuery := "SELECT COUNT(*) FROM " + b.Dialect.QuoteIdentifier(schema) + "." + b.Dialect.QuoteIdentifier(tableName)
	var rowCount int64
	if err := b.DB.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		// Non-fatal error, just set to 0
		rowCount = 0
	}

	return &core.TableMetadata{
		Schema:   schema,
		Name:     tableName,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}
