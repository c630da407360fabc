package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/leapstack-labs/duckframe/pkg/dataframe"
	"github.com/leapstack-labs/duckframe/pkg/types"
)

// Source tells how a file was turned into a DataFrame.
type Source int

// File sources.
const (
	// SourceRows is a YAML/JSON row document materialized in-process.
	SourceRows Source = iota
	// SourceFile is a data file scanned by the engine.
	SourceFile
)

func (s Source) String() string {
	if s == SourceRows {
		return "rows"
	}
	return "file"
}

// ErrUnknownFormat is returned for files with an unrecognized extension.
var ErrUnknownFormat = errors.New("unknown file format")

// Result describes a completed load.
type Result struct {
	Table   string
	Source  Source
	Rows    int64
	Columns []string
}

// IsRowDocument reports whether path is loaded through the row materializer.
func IsRowDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Open returns a DataFrame over path with schema applied. Row documents are
// decoded and materialized; other files are read by the engine.
func Open(ctx context.Context, sess *dataframe.Session, path string, schema *types.StructType) (*dataframe.DataFrame, Source, error) {
	if IsRowDocument(path) {
		df, err := openRows(ctx, sess, path, schema)
		return df, SourceRows, err
	}

	format, ok := dataframe.FormatFromPath(path)
	if !ok {
		return nil, SourceFile, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	df, err := sess.Read().Load(ctx, format, path)
	if err != nil {
		return nil, SourceFile, err
	}
	out, err := df.WithSchema(ctx, schema)
	if err != nil {
		return nil, SourceFile, err
	}
	return out, SourceFile, nil
}

func openRows(ctx context.Context, sess *dataframe.Session, path string, schema *types.StructType) (*dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := ParseRows(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	if len(doc.Rows) == 0 {
		return nil, fmt.Errorf("%s contains no rows", path)
	}
	if schema == nil && doc.Columns != nil {
		schema = types.Names(doc.Columns...)
	}
	return sess.CreateDataFrame(ctx, doc.Rows, schema)
}

// ToTable loads path and saves it as table, replacing any existing table.
func ToTable(ctx context.Context, sess *dataframe.Session, path, table string, schema *types.StructType) (*Result, error) {
	df, src, err := Open(ctx, sess, path, schema)
	if err != nil {
		return nil, err
	}
	defer func() { _ = df.Close() }()

	if err := df.SaveAsTable(ctx, table); err != nil {
		return nil, err
	}

	saved, err := sess.Table(ctx, table)
	if err != nil {
		return nil, err
	}
	n, err := saved.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Table: table, Source: src, Rows: n, Columns: saved.Columns()}, nil
}

// TableName derives a table name from a file name: the base name without
// extension, with characters outside [A-Za-z0-9_] replaced by '_'.
func TableName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	for i, r := range base {
		switch {
		case r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if i == 0 && unicode.IsDigit(r) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return strings.ToLower(b.String())
}

// Supported reports whether path has an extension the loader understands.
func Supported(path string) bool {
	if IsRowDocument(path) {
		return true
	}
	_, ok := dataframe.FormatFromPath(path)
	return ok
}
