// Package types defines the logical data types used to declare a schema for
// CreateDataFrame, and their translation to engine-native type names.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// DataType is a logical column type.
type DataType interface {
	// TypeName is the lowercase logical name, e.g. "integer" or "decimal(10,2)".
	TypeName() string
	// NativeName returns the engine type name for a dialect.
	NativeName(dialect string) string
}

// atomic is a non-parameterized type with per-dialect native names.
type atomic struct {
	name     string
	duckdb   string
	postgres string
}

func (a atomic) TypeName() string { return a.name }

func (a atomic) NativeName(dialect string) string {
	if strings.EqualFold(dialect, "postgres") && a.postgres != "" {
		return a.postgres
	}
	return a.duckdb
}

func (a atomic) String() string { return a.name }

// Logical types.
var (
	NullType         DataType = atomic{"void", "NULL", "TEXT"}
	BooleanType      DataType = atomic{"boolean", "BOOLEAN", "BOOLEAN"}
	ByteType         DataType = atomic{"byte", "TINYINT", "SMALLINT"}
	ShortType        DataType = atomic{"short", "SMALLINT", "SMALLINT"}
	IntegerType      DataType = atomic{"integer", "INTEGER", "INTEGER"}
	LongType         DataType = atomic{"long", "BIGINT", "BIGINT"}
	FloatType        DataType = atomic{"float", "FLOAT", "REAL"}
	DoubleType       DataType = atomic{"double", "DOUBLE", "DOUBLE PRECISION"}
	StringType       DataType = atomic{"string", "VARCHAR", "TEXT"}
	BinaryType       DataType = atomic{"binary", "BLOB", "BYTEA"}
	DateType         DataType = atomic{"date", "DATE", "DATE"}
	TimeType         DataType = atomic{"time", "TIME", "TIME"}
	TimestampType    DataType = atomic{"timestamp", "TIMESTAMPTZ", "TIMESTAMPTZ"}
	TimestampNTZType DataType = atomic{"timestamp_ntz", "TIMESTAMP", "TIMESTAMP"}
	TimestampMSType  DataType = atomic{"timestamp_ms", "TIMESTAMP_MS", "TIMESTAMP(3)"}
	UUIDType         DataType = atomic{"uuid", "UUID", "UUID"}
)

// DecimalType is a fixed-point number.
type DecimalType struct {
	Precision int
	Scale     int
}

// Decimal returns a DecimalType; zero precision means the default (10,0).
func Decimal(precision, scale int) DecimalType {
	if precision == 0 {
		precision = 10
	}
	return DecimalType{Precision: precision, Scale: scale}
}

// TypeName returns e.g. "decimal(10,2)".
func (d DecimalType) TypeName() string {
	return fmt.Sprintf("decimal(%d,%d)", d.Precision, d.Scale)
}

// NativeName returns DECIMAL(p,s) for every supported dialect.
func (d DecimalType) NativeName(string) string {
	return fmt.Sprintf("DECIMAL(%d,%d)", d.Precision, d.Scale)
}

func (d DecimalType) String() string { return d.TypeName() }

// ArrayType is a list of a single element type.
type ArrayType struct {
	Element DataType
}

// TypeName returns e.g. "array<integer>".
func (a ArrayType) TypeName() string {
	return "array<" + a.Element.TypeName() + ">"
}

// NativeName returns the element's native name followed by [].
func (a ArrayType) NativeName(dialect string) string {
	return a.Element.NativeName(dialect) + "[]"
}

func (a ArrayType) String() string { return a.TypeName() }

var byName = map[string]DataType{
	"void":          NullType,
	"null":          NullType,
	"boolean":       BooleanType,
	"bool":          BooleanType,
	"byte":          ByteType,
	"tinyint":       ByteType,
	"short":         ShortType,
	"smallint":      ShortType,
	"integer":       IntegerType,
	"int":           IntegerType,
	"long":          LongType,
	"bigint":        LongType,
	"float":         FloatType,
	"real":          FloatType,
	"double":        DoubleType,
	"string":        StringType,
	"varchar":       StringType,
	"binary":        BinaryType,
	"date":          DateType,
	"time":          TimeType,
	"timestamp":     TimestampType,
	"timestamp_ntz": TimestampNTZType,
	"timestamp_ms":  TimestampMSType,
	"uuid":          UUIDType,
}

// Parse reads a logical type from its simple string form, e.g. "long",
// "decimal(12,4)" or "array<string>".
func Parse(s string) (DataType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if dt, ok := byName[name]; ok {
		return dt, nil
	}

	if inner, ok := strings.CutPrefix(name, "array<"); ok && strings.HasSuffix(inner, ">") {
		elem, err := Parse(strings.TrimSuffix(inner, ">"))
		if err != nil {
			return nil, err
		}
		return ArrayType{Element: elem}, nil
	}

	if name == "decimal" {
		return Decimal(0, 0), nil
	}
	if args, ok := strings.CutPrefix(name, "decimal("); ok && strings.HasSuffix(args, ")") {
		p, sc, found := strings.Cut(strings.TrimSuffix(args, ")"), ",")
		precision, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid decimal precision in %q", s)
		}
		scale := 0
		if found {
			if scale, err = strconv.Atoi(strings.TrimSpace(sc)); err != nil {
				return nil, fmt.Errorf("invalid decimal scale in %q", s)
			}
		}
		if scale > precision {
			return nil, fmt.Errorf("decimal scale %d exceeds precision %d", scale, precision)
		}
		return Decimal(precision, scale), nil
	}

	return nil, fmt.Errorf("unknown data type %q", s)
}
