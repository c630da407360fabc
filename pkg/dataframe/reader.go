package dataframe

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/duckframe/pkg/core"
)

// DataFrameReader loads data files as DataFrames.
type DataFrameReader struct {
	session *Session
}

// CSV reads a CSV file with a header row.
func (r *DataFrameReader) CSV(ctx context.Context, path string) (*DataFrame, error) {
	return r.Load(ctx, core.FormatCSV, path)
}

// Parquet reads a Parquet file.
func (r *DataFrameReader) Parquet(ctx context.Context, path string) (*DataFrame, error) {
	return r.Load(ctx, core.FormatParquet, path)
}

// JSON reads a JSON file (array or newline-delimited objects).
func (r *DataFrameReader) JSON(ctx context.Context, path string) (*DataFrame, error) {
	return r.Load(ctx, core.FormatJSON, path)
}

// Load reads a file of the given format.
func (r *DataFrameReader) Load(ctx context.Context, format core.FileFormat, path string) (*DataFrame, error) {
	if err := r.session.checkOpen(); err != nil {
		return nil, err
	}
	rel, err := r.session.engine.ReadFile(ctx, format, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r.session.frame(rel, nil), nil
}

// FormatFromPath infers a file format from a file extension.
func FormatFromPath(path string) (core.FileFormat, bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"):
		return core.FormatCSV, true
	case strings.HasSuffix(lower, ".parquet"):
		return core.FormatParquet, true
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".ndjson"), strings.HasSuffix(lower, ".jsonl"):
		return core.FormatJSON, true
	default:
		return "", false
	}
}
