package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/duckframe/pkg/types"
	"gopkg.in/yaml.v3"
)

type schemaDoc struct {
	Columns []columnDoc `yaml:"columns"`
}

type columnDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable *bool  `yaml:"nullable"`
}

// ParseSchema decodes a schema document:
//
//	columns:
//	  - name: id
//	    type: bigint
//	  - name: label        # untyped: rename only
func ParseSchema(data []byte) (*types.StructType, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc schemaDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Message: "empty schema"}
		}
		return nil, &ParseError{Message: fmt.Sprintf("invalid schema: %v", err)}
	}
	if len(doc.Columns) == 0 {
		return nil, &ParseError{Message: "schema declares no columns"}
	}

	fields := make([]types.StructField, len(doc.Columns))
	for i, c := range doc.Columns {
		if c.Name == "" {
			return nil, &ParseError{Message: fmt.Sprintf("column %d: name is required", i+1)}
		}
		f := types.StructField{Name: c.Name, Nullable: true}
		if c.Nullable != nil {
			f.Nullable = *c.Nullable
		}
		if c.Type != "" {
			dt, err := types.Parse(c.Type)
			if err != nil {
				return nil, &ParseError{Message: fmt.Sprintf("column %q: %v", c.Name, err)}
			}
			f.DataType = dt
		}
		fields[i] = f
	}
	return types.Struct(fields...), nil
}

// LoadSchemaFile reads and parses a schema file.
func LoadSchemaFile(path string) (*types.StructType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	schema, err := ParseSchema(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return schema, nil
}
