// Package engine provides the engine contract and shared database/sql
// plumbing for duckframe's query engines.
//
// This package contains the public contract that all engines must implement.
// Concrete engines live in pkg/engines/ subdirectories and register
// themselves from init().
package engine

import (
	"github.com/leapstack-labs/duckframe/pkg/core"
)

// Type aliases so callers can depend on this package alone.
type (
	// Engine is an alias for core.Engine.
	Engine = core.Engine

	// Config is an alias for core.EngineConfig.
	Config = core.EngineConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata

	// Rows is an alias for core.Rows.
	Rows = core.Rows

	// Relation is an alias for core.Relation.
	Relation = core.Relation
)
