package postgres

import "github.com/leapstack-labs/duckframe/pkg/dialect"

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect configuration.
var Postgres = dialect.NewDialect("postgres").
	Identifiers(`"`, `"`, `""`, dialect.NormLowercase).
	DefaultSchema("public").
	Placeholder(dialect.PlaceholderDollar).
	RequireDerivedAlias().
	TimestampParam("TIMESTAMPTZ").
	Build()
