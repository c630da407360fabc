// Package duckdb provides the DuckDB engine for duckframe.
//
// This file registers the DuckDB engine with the engine registry.
// Import this package with a blank identifier to register the engine:
//
//	import _ "github.com/leapstack-labs/duckframe/pkg/engines/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/engine"
)

func init() {
	engine.Register("duckdb", func(logger *slog.Logger) core.Engine { return New(logger) })
}
