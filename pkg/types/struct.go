package types

import (
	"fmt"
	"strings"
)

// StructField is one named, optionally typed, column of a schema.
// A nil DataType leaves the engine-inferred type untouched.
type StructField struct {
	Name     string
	DataType DataType
	Nullable bool
}

// StructType is an ordered list of fields describing a relation's columns.
type StructType struct {
	Fields []StructField
}

// Struct builds a StructType from fields.
func Struct(fields ...StructField) *StructType {
	return &StructType{Fields: fields}
}

// Field builds a nullable StructField.
func Field(name string, dt DataType) StructField {
	return StructField{Name: name, DataType: dt, Nullable: true}
}

// Names builds an untyped schema that only renames columns.
func Names(names ...string) *StructType {
	fields := make([]StructField, len(names))
	for i, n := range names {
		fields[i] = StructField{Name: n, Nullable: true}
	}
	return &StructType{Fields: fields}
}

// Len returns the number of fields.
func (s *StructType) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Fields)
}

// FieldNames returns the field names in order.
func (s *StructType) FieldNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// HasTypes reports whether any field declares a data type.
func (s *StructType) HasTypes() bool {
	if s == nil {
		return false
	}
	for _, f := range s.Fields {
		if f.DataType != nil {
			return true
		}
	}
	return false
}

// NativeTypes returns, per position, the native type name for the dialect,
// or "" where the field carries no type.
func (s *StructType) NativeTypes(dialect string) []string {
	out := make([]string, s.Len())
	if s == nil {
		return out
	}
	for i, f := range s.Fields {
		if f.DataType != nil {
			out[i] = f.DataType.NativeName(dialect)
		}
	}
	return out
}

// SimpleString renders the schema as struct<name:type,...>.
func (s *StructType) SimpleString() string {
	if s == nil {
		return "struct<>"
	}
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		tn := "?"
		if f.DataType != nil {
			tn = f.DataType.TypeName()
		}
		parts[i] = fmt.Sprintf("%s:%s", f.Name, tn)
	}
	return "struct<" + strings.Join(parts, ",") + ">"
}
