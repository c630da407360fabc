package types

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// FromArrow maps an Arrow data type to the closest logical type.
func FromArrow(dt arrow.DataType) (DataType, error) {
	switch t := dt.(type) {
	case *arrow.NullType:
		return NullType, nil
	case *arrow.BooleanType:
		return BooleanType, nil
	case *arrow.Int8Type:
		return ByteType, nil
	case *arrow.Int16Type, *arrow.Uint8Type:
		return ShortType, nil
	case *arrow.Int32Type, *arrow.Uint16Type:
		return IntegerType, nil
	case *arrow.Int64Type, *arrow.Uint32Type:
		return LongType, nil
	case *arrow.Uint64Type:
		return Decimal(20, 0), nil
	case *arrow.Float16Type, *arrow.Float32Type:
		return FloatType, nil
	case *arrow.Float64Type:
		return DoubleType, nil
	case *arrow.StringType, *arrow.LargeStringType:
		return StringType, nil
	case *arrow.BinaryType, *arrow.LargeBinaryType, *arrow.FixedSizeBinaryType:
		return BinaryType, nil
	case *arrow.Date32Type, *arrow.Date64Type:
		return DateType, nil
	case *arrow.Time32Type, *arrow.Time64Type:
		return TimeType, nil
	case *arrow.TimestampType:
		if t.TimeZone == "" {
			return TimestampNTZType, nil
		}
		return TimestampType, nil
	case *arrow.Decimal128Type:
		return Decimal(int(t.Precision), int(t.Scale)), nil
	case *arrow.ListType:
		elem, err := FromArrow(t.Elem())
		if err != nil {
			return nil, err
		}
		return ArrayType{Element: elem}, nil
	default:
		return nil, fmt.Errorf("no logical type for arrow type %s", dt)
	}
}

// StructFromArrow converts an Arrow schema to a struct type.
func StructFromArrow(schema *arrow.Schema) (*StructType, error) {
	fields := make([]StructField, schema.NumFields())
	for i, f := range schema.Fields() {
		dt, err := FromArrow(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		fields[i] = StructField{Name: f.Name, DataType: dt, Nullable: f.Nullable}
	}
	return &StructType{Fields: fields}, nil
}
