package core

import (
	"strconv"
	"strings"
	"time"
)

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data plus formatting helpers.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "duckdb", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// DefaultSchema is the default schema name ("main" for DuckDB, "public" for Postgres)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// DerivedTableAlias is true when a subquery in FROM must carry an alias.
	DerivedTableAlias bool

	// RangeFunction names the table function backing Session.Range. Empty if unsupported.
	RangeFunction string

	// TimestampParam is the native type a placeholder bound to a time.Time is
	// cast to. Empty leaves such placeholders untyped.
	TimestampParam string
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL, ClickHouse).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (BigQuery, Hive, DuckDB).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (DuckDB, PostgreSQL).
	PlaceholderDollar
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *DialectConfig) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// FormatValuePlaceholder returns the placeholder for index as bound to v.
// A time.Time value gets a placeholder cast to TimestampParam.
func (d *DialectConfig) FormatValuePlaceholder(index int, v any) string {
	p := d.FormatPlaceholder(index)
	if _, ok := v.(time.Time); ok && d.TimestampParam != "" {
		return "CAST(" + p + " AS " + d.TimestampParam + ")"
	}
	return p
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *DialectConfig) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., " -> "")
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteQualified quotes each dot-separated part of a qualified name.
func (d *DialectConfig) QuoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// Subquery wraps a query so it can be used as a FROM item.
func (d *DialectConfig) Subquery(query, alias string) string {
	return "(" + query + ") AS " + d.QuoteIdentifier(alias)
}

// QuoteLiteral renders a string as a single-quoted SQL literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
