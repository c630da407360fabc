package core

import (
	"context"
	"database/sql"
)

// Engine defines the interface that all query engines must implement.
// An engine owns planning, execution and storage; duckframe only
// forwards calls to it.
type Engine interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg EngineConfig) error

	// Close closes the database connection.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string, args ...any) error

	// Execute prepares a query with its parameters and returns a relation
	// describing its result. The query is validated by the engine before return.
	Execute(ctx context.Context, query string, args ...any) (*Relation, error)

	// Query runs a relation and returns its rows.
	Query(ctx context.Context, rel *Relation) (*Rows, error)

	// Table returns a relation selecting every row of a table or view.
	Table(ctx context.Context, name string) (*Relation, error)

	// Register binds a transient name to a columnar structure. The returned
	// release function drops the artifact.
	Register(ctx context.Context, name Token, data Columnar) (release func() error, err error)

	// ReadFile returns a relation over a data file.
	ReadFile(ctx context.Context, format FileFormat, path string) (*Relation, error)

	// GetTableMetadata retrieves metadata for a table.
	GetTableMetadata(ctx context.Context, table string) (*TableMetadata, error)

	// ListTables lists tables and views in a schema. Empty schema means the default.
	ListTables(ctx context.Context, schema string) ([]TableInfo, error)

	// SetSetting changes a session-level engine setting.
	SetSetting(ctx context.Context, key, value string) error

	// GetSetting reads a session-level engine setting.
	GetSetting(ctx context.Context, key string) (string, error)

	// DialectConfig returns the static dialect configuration.
	DialectConfig() *DialectConfig
}

// EngineConfig holds configuration for connecting to a database.
type EngineConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}

// FileFormat identifies a data file format readable by an engine.
type FileFormat string

// Supported file formats.
const (
	FormatCSV     FileFormat = "csv"
	FormatParquet FileFormat = "parquet"
	FormatJSON    FileFormat = "json"
)

// Column represents a column in a relation or table.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
	Position   int
}

// TableMetadata holds metadata about a database table.
type TableMetadata struct {
	Schema    string
	Name      string
	Columns   []Column
	RowCount  int64
	SizeBytes int64
}

// TableInfo is a catalog entry for a table or view.
type TableInfo struct {
	Schema string
	Name   string
	Type   string // "BASE TABLE", "VIEW", "LOCAL TEMPORARY"
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}

// Relation is a lazy handle to a query result. It can be executed any number
// of times through the engine that produced it.
type Relation struct {
	Query   string
	Args    []any
	Columns []Column
}

// ColumnNames returns the relation's column names in order.
func (r *Relation) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}
