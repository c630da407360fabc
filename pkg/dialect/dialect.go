// Package dialect provides the SQL dialect definitions used to synthesize
// queries for a particular engine.
//
// Concrete dialects are registered by the engine packages under pkg/engines/.
package dialect

import (
	"strings"

	"github.com/leapstack-labs/duckframe/pkg/core"
)

// Re-exported so engine packages can configure dialects without importing core.
const (
	NormLowercase       = core.NormLowercase
	NormUppercase       = core.NormUppercase
	NormCaseSensitive   = core.NormCaseSensitive
	NormCaseInsensitive = core.NormCaseInsensitive

	PlaceholderQuestion = core.PlaceholderQuestion
	PlaceholderDollar   = core.PlaceholderDollar
)

// Dialect is a registered SQL dialect.
type Dialect struct {
	core.DialectConfig
}

// Config returns the underlying static configuration.
func (d *Dialect) Config() *core.DialectConfig {
	return &d.DialectConfig
}

// NormalizeName normalizes an unquoted identifier according to the dialect.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormCaseSensitive:
		return name
	default:
		return strings.ToLower(name)
	}
}

// Builder assembles a Dialect.
type Builder struct {
	d *Dialect
}

// NewDialect starts a dialect definition with ANSI defaults.
func NewDialect(name string) *Builder {
	return &Builder{d: &Dialect{DialectConfig: core.DialectConfig{
		Name:        name,
		Identifiers: core.IdentifierConfig{Quote: `"`, QuoteEnd: `"`, Escape: `""`},
		Placeholder: core.PlaceholderQuestion,
	}}}
}

// Identifiers sets quoting and normalization rules.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.d.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the schema used for unqualified names.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.d.DefaultSchema = schema
	return b
}

// Placeholder sets the parameter placeholder style.
func (b *Builder) Placeholder(style core.PlaceholderStyle) *Builder {
	b.d.Placeholder = style
	return b
}

// RequireDerivedAlias marks subqueries in FROM as needing an alias.
func (b *Builder) RequireDerivedAlias() *Builder {
	b.d.DerivedTableAlias = true
	return b
}

// RangeFunction names the integer range table function.
func (b *Builder) RangeFunction(name string) *Builder {
	b.d.RangeFunction = name
	return b
}

// TimestampParam sets the type placeholders bound to time.Time values are cast to.
func (b *Builder) TimestampParam(nativeType string) *Builder {
	b.d.TimestampParam = nativeType
	return b
}

// Build returns the finished dialect.
func (b *Builder) Build() *Dialect {
	return b.d
}
