// Package dataframe is the session API of duckframe.
//
// A Session wraps one connected engine. It turns SQL text, catalog tables,
// data files and caller-supplied rows into DataFrames, which are lazy
// relations evaluated by the engine only when collected:
//
//	s, err := dataframe.NewBuilder().AppName("demo").Create(ctx)
//	df, err := s.CreateDataFrame(ctx, core.NewRowSet(core.Row{1, "a"}, core.Row{2, "b"}),
//		types.Names("id", "label"))
//	rows, err := df.Collect(ctx)
//
// All planning and execution is delegated to the engine.
package dataframe

import "errors"

// Version is reported by Session.Version.
const Version = "1.0.0"

var (
	// ErrSessionStopped is returned when a stopped session is used.
	ErrSessionStopped = errors.New("session has been stopped")

	// ErrNilDataFrame is returned when a statement produced no relation.
	ErrNilDataFrame = errors.New("statement produced no relation")
)
