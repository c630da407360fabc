// Package postgres provides the PostgreSQL engine for duckframe.
package postgres

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/engine"
	"github.com/leapstack-labs/duckframe/pkg/types"
)

// Engine implements core.Engine for PostgreSQL.
type Engine struct {
	engine.BaseSQLEngine
	files *core.TokenSource
}

// New creates a new PostgreSQL engine instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		BaseSQLEngine: engine.BaseSQLEngine{Logger: logger, Dialect: Postgres.Config()},
		files:         core.NewTokenSource("file"),
	}
}

// Connect establishes a connection to PostgreSQL.
func (e *Engine) Connect(ctx context.Context, cfg core.EngineConfig) error {
	dsn := buildPostgresDSN(cfg)

	e.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	engine.Pin(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	e.DB = db
	e.Cfg = cfg

	if cfg.Schema != "" {
		if err := e.SetSetting(ctx, "search_path", cfg.Schema); err != nil {
			_ = e.Close()
			return err
		}
	}
	return nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg core.EngineConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}

// GetTableMetadata retrieves metadata for a specified table.
func (e *Engine) GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	return e.GetTableMetadataCommon(ctx, table)
}

// ListTables lists tables and views in a schema.
func (e *Engine) ListTables(ctx context.Context, schema string) ([]core.TableInfo, error) {
	return e.ListTablesCommon(ctx, schema)
}

// withPgx runs fn on the pinned connection's underlying pgx connection.
func (e *Engine) withPgx(ctx context.Context, fn func(*pgx.Conn) error) error {
	if e.DB == nil {
		return core.ErrNotConnected
	}
	conn, err := e.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	return conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		return fn(sc.Conn())
	})
}

// Register creates a temporary table named by the token from the Arrow
// schema and loads the record stream with COPY. Release drops the table.
func (e *Engine) Register(ctx context.Context, name core.Token, data core.Columnar) (func() error, error) {
	if e.DB == nil {
		return nil, core.ErrNotConnected
	}
	if data.Reader == nil {
		return nil, fmt.Errorf("columnar input has no reader: %w", core.ErrUnsupportedInput)
	}

	st, err := types.StructFromArrow(data.Reader.Schema())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrUnsupportedInput, err)
	}
	table := e.Dialect.QuoteIdentifier(name.String())
	defs := make([]string, st.Len())
	for i, f := range st.Fields {
		defs[i] = e.Dialect.QuoteIdentifier(f.Name) + " " + f.DataType.NativeName(e.Dialect.Name)
	}

	err = e.withPgx(ctx, func(conn *pgx.Conn) error {
		if _, err := conn.Exec(ctx, "CREATE TEMP TABLE "+table+" ("+strings.Join(defs, ", ")+")"); err != nil {
			return fmt.Errorf("failed to create temp table: %w", err)
		}
		var rows [][]any
		for data.Reader.Next() {
			rows = append(rows, engine.RecordRows(data.Reader.Record())...)
		}
		if err := data.Reader.Err(); err != nil {
			return fmt.Errorf("failed to read arrow stream: %w", err)
		}
		if _, err := conn.CopyFrom(ctx, pgx.Identifier{name.String()}, st.FieldNames(), pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("failed to copy arrow data: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.Logger.Debug("registered columnar data", slog.String("token", name.String()))

	var once sync.Once
	var dropErr error
	return func() error {
		once.Do(func() {
			dropErr = e.ExecIfOpen(context.Background(), "DROP TABLE IF EXISTS "+table)
		})
		return dropErr
	}, nil
}

// ReadFile loads a CSV file into a temporary table of TEXT columns using
// COPY FROM STDIN and returns a relation over it. Other formats are unsupported.
func (e *Engine) ReadFile(ctx context.Context, format core.FileFormat, path string) (*core.Relation, error) {
	if format != core.FormatCSV {
		return nil, fmt.Errorf("file format %q: %w", format, core.ErrUnsupported)
	}
	if e.DB == nil {
		return nil, core.ErrNotConnected
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	file, err := os.Open(absPath) //nolint:gosec // reading a user-provided data file is the point
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	headers, err := csv.NewReader(file).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to reset file: %w", err)
	}

	name := e.files.Next().String()
	table := e.Dialect.QuoteIdentifier(name)
	defs := make([]string, len(headers))
	for i, h := range headers {
		defs[i] = e.Dialect.QuoteIdentifier(h) + " TEXT"
	}

	err = e.withPgx(ctx, func(conn *pgx.Conn) error {
		if _, err := conn.Exec(ctx, "CREATE TEMP TABLE "+table+" ("+strings.Join(defs, ", ")+")"); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
		copySQL := "COPY " + table + " FROM STDIN WITH (FORMAT csv, HEADER true)"
		if _, err := conn.PgConn().CopyFrom(ctx, file, copySQL); err != nil {
			return fmt.Errorf("failed to copy data: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e.Table(ctx, name)
}

// Ensure Engine implements core.Engine interface
var _ core.Engine = (*Engine)(nil)
