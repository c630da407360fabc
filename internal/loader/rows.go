// Package loader turns data files into DataFrames: YAML/JSON row documents
// go through the row-set materializer, while CSV, Parquet and
// newline-delimited JSON are handed to the engine's file readers.
package loader

import (
	"fmt"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"gopkg.in/yaml.v3"
)

// RowData is a decoded row document.
type RowData struct {
	// Columns is nil when the rows are positional and no names were given.
	Columns []string
	Rows    core.RowSet
}

// ParseRows decodes a YAML or JSON row document. Accepted shapes:
//
//	[[1, "a"], [2, "b"]]                     # positional rows
//	[{id: 1, name: a}, {id: 2, name: b}]     # named rows, key order of the first row
//	{columns: [id, name], rows: [[1, a]]}    # envelope
func ParseRows(data []byte) (*RowData, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if len(doc.Content) == 0 {
		return &RowData{Rows: core.RowSet{}}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		return parseSequence(root, nil)
	case yaml.MappingNode:
		return parseEnvelope(root)
	default:
		return nil, &ParseError{Line: root.Line, Message: "expected a sequence of rows"}
	}
}

func parseEnvelope(m *yaml.Node) (*RowData, error) {
	var (
		columns []string
		rows    *yaml.Node
	)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		switch key.Value {
		case "columns":
			if err := val.Decode(&columns); err != nil {
				return nil, &ParseError{Line: val.Line, Message: fmt.Sprintf("columns: %v", err)}
			}
		case "rows":
			if val.Kind != yaml.SequenceNode {
				return nil, &ParseError{Line: val.Line, Message: "rows must be a sequence"}
			}
			rows = val
		default:
			return nil, &UnknownFieldError{Field: key.Value, Line: key.Line}
		}
	}
	if rows == nil {
		return &RowData{Columns: columns, Rows: core.RowSet{}}, nil
	}
	return parseSequence(rows, columns)
}

// parseSequence decodes rows. A non-nil columns fixes the order of named rows.
func parseSequence(seq *yaml.Node, columns []string) (*RowData, error) {
	out := &RowData{Columns: columns, Rows: make(core.RowSet, 0, len(seq.Content))}
	if len(seq.Content) == 0 {
		return out, nil
	}

	named := seq.Content[0].Kind == yaml.MappingNode
	if named && out.Columns == nil {
		first := seq.Content[0]
		for i := 0; i < len(first.Content); i += 2 {
			out.Columns = append(out.Columns, first.Content[i].Value)
		}
	}

	for n, item := range seq.Content {
		var (
			row core.Row
			err error
		)
		switch {
		case named && item.Kind == yaml.MappingNode:
			row, err = namedRow(item, out.Columns)
		case !named && item.Kind == yaml.SequenceNode:
			row, err = positionalRow(item)
		default:
			return nil, &ParseError{Line: item.Line, Message: fmt.Sprintf("row %d: mixed row shapes", n+1)}
		}
		if err != nil {
			return nil, err
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func positionalRow(item *yaml.Node) (core.Row, error) {
	row := make(core.Row, len(item.Content))
	for i, cell := range item.Content {
		v, err := decodeValue(cell)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func namedRow(item *yaml.Node, columns []string) (core.Row, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	row := make(core.Row, len(columns))
	for i := 0; i+1 < len(item.Content); i += 2 {
		key := item.Content[i]
		pos, ok := index[key.Value]
		if !ok {
			return nil, &ParseError{Line: key.Line, Message: fmt.Sprintf("unknown column %q", key.Value)}
		}
		v, err := decodeValue(item.Content[i+1])
		if err != nil {
			return nil, err
		}
		row[pos] = v
	}
	return row, nil
}

func decodeValue(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, &ParseError{Line: n.Line, Message: err.Error()}
	}
	return v, nil
}

// ParseError represents a malformed row or schema document.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	default:
		return e.Message
	}
}

// UnknownFieldError is returned for keys a document does not define.
type UnknownFieldError struct {
	Field string
	Line  int
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("line %d: unknown field %q", e.Line, e.Field)
}
