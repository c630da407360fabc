// Package core defines the shared language of duckframe.
//
// This package contains:
//   - Input shapes accepted by the materializer (Row, RowSet, RowSeq, Columnar)
//   - The engine contract (Engine, EngineConfig, Relation, Rows)
//   - Static dialect configuration (DialectConfig)
//   - Registration tokens and sentinel errors
//
// The Golden Rule: pkg/core imports only the standard library and Arrow.
// All other packages depend on core, not the reverse.
package core
