// Package duckdb provides the DuckDB engine for duckframe.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sync"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/engine"
)

// Engine implements core.Engine for DuckDB.
type Engine struct {
	engine.BaseSQLEngine
}

// New creates a new DuckDB engine instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		BaseSQLEngine: engine.BaseSQLEngine{Logger: logger, Dialect: DuckDB.Config()},
	}
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" (or an empty path) for an in-memory database.
func (e *Engine) Connect(ctx context.Context, cfg core.EngineConfig) error {
	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		path = ":memory:"
	}

	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	e.Logger.Debug("connecting to duckdb", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	engine.Pin(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	e.DB = db
	e.Cfg = cfg

	if err := e.applyParams(ctx, params); err != nil {
		_ = e.Close()
		return err
	}
	return nil
}

var extensionName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func (e *Engine) applyParams(ctx context.Context, p *Params) error {
	for _, ext := range p.Extensions {
		if !extensionName.MatchString(ext) {
			return fmt.Errorf("invalid extension name %q", ext)
		}
		e.Logger.Debug("loading extension", slog.String("extension", ext))
		if err := e.Exec(ctx, "INSTALL "+ext); err != nil {
			return fmt.Errorf("failed to install extension %s: %w", ext, err)
		}
		if err := e.Exec(ctx, "LOAD "+ext); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", ext, err)
		}
	}
	for _, s := range p.Secrets {
		if err := e.Exec(ctx, buildCreateSecretSQL(s)); err != nil {
			return fmt.Errorf("failed to create %s secret: %w", s.Type, err)
		}
	}
	for k, v := range p.Settings {
		if err := e.SetSetting(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

// Register copies an Arrow record stream into a temporary table named by
// the token. The stream is consumed. Release drops the table.
func (e *Engine) Register(ctx context.Context, name core.Token, data core.Columnar) (func() error, error) {
	if e.DB == nil {
		return nil, core.ErrNotConnected
	}
	if data.Reader == nil {
		return nil, fmt.Errorf("columnar input has no reader: %w", core.ErrUnsupportedInput)
	}

	table := e.Dialect.QuoteIdentifier(name.String())
	view := e.Dialect.QuoteIdentifier(name.String() + "_arrow")

	conn, err := e.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Inside Raw the pool's only connection is held, so statements must
	// go through the driver connection.
	err = conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		execer, ok := driverConn.(driver.ExecerContext)
		if !ok {
			return fmt.Errorf("driver connection %T cannot execute statements", driverConn)
		}

		ar, err := goduckdb.NewArrowFromConn(dc)
		if err != nil {
			return fmt.Errorf("failed to open arrow interface: %w", err)
		}
		releaseView, err := ar.RegisterView(data.Reader, name.String()+"_arrow")
		if err != nil {
			return fmt.Errorf("failed to register arrow view: %w", err)
		}
		defer releaseView()

		if _, err := execer.ExecContext(ctx, "CREATE TEMP TABLE "+table+" AS SELECT * FROM "+view, nil); err != nil {
			return fmt.Errorf("failed to copy arrow data: %w", err)
		}
		if _, err := execer.ExecContext(ctx, "DROP VIEW IF EXISTS "+view, nil); err != nil {
			_, _ = execer.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+table, nil)
			return fmt.Errorf("failed to drop arrow view: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.Logger.Debug("registered columnar data", slog.String("token", name.String()))

	var once sync.Once
	var dropErr error
	release := func() error {
		once.Do(func() {
			dropErr = e.ExecIfOpen(context.Background(), "DROP TABLE IF EXISTS "+table)
		})
		return dropErr
	}
	return release, nil
}

var fileReaders = map[core.FileFormat]string{
	core.FormatCSV:     "read_csv_auto",
	core.FormatParquet: "read_parquet",
	core.FormatJSON:    "read_json_auto",
}

// ReadFile returns a relation over a CSV, Parquet or JSON file.
func (e *Engine) ReadFile(ctx context.Context, format core.FileFormat, path string) (*core.Relation, error) {
	fn, ok := fileReaders[format]
	if !ok {
		return nil, fmt.Errorf("file format %q: %w", format, core.ErrUnsupported)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	return e.Execute(ctx, fmt.Sprintf("SELECT * FROM %s(%s)", fn, core.QuoteLiteral(absPath)))
}

// GetTableMetadata retrieves metadata for a specified table.
func (e *Engine) GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	return e.GetTableMetadataCommon(ctx, table)
}

// ListTables lists tables and views, including temporary ones, in a schema.
func (e *Engine) ListTables(ctx context.Context, schema string) ([]core.TableInfo, error) {
	return e.ListTablesCommon(ctx, schema)
}

// Ensure Engine implements core.Engine interface
var _ core.Engine = (*Engine)(nil)
