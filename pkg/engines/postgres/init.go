// Package postgres provides the PostgreSQL engine for duckframe.
//
// This file registers the PostgreSQL engine with the engine registry.
// Import this package with a blank identifier to register the engine:
//
//	import _ "github.com/leapstack-labs/duckframe/pkg/engines/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/engine"
)

func init() {
	engine.Register("postgres", func(logger *slog.Logger) core.Engine { return New(logger) })
}
