package duckdb

import "github.com/leapstack-labs/duckframe/pkg/dialect"

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect configuration.
var DuckDB = dialect.NewDialect("duckdb").
	Identifiers(`"`, `"`, `""`, dialect.NormCaseInsensitive).
	DefaultSchema("main").
	Placeholder(dialect.PlaceholderDollar).
	RangeFunction("range").
	TimestampParam("TIMESTAMP").
	Build()
