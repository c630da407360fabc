package core

import (
	"fmt"
	"iter"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Value is a single scalar cell: integer, float, string, bool, []byte,
// time.Time or nil. Type support beyond that is decided by the engine.
type Value = any

// Row is an ordered, fixed-length sequence of scalar values.
type Row []Value

// TabularInput is the data accepted by the materializer. It is a closed set:
// Columnar, RowSet and RowSeq.
type TabularInput interface {
	isTabularInput()
}

// RowIterable is a TabularInput made of fixed-arity tuples.
type RowIterable interface {
	TabularInput
	// Realize returns the rows as an owned, fixed-order slice.
	Realize() RowSet
}

// RowSet is an ordered, owned sequence of rows. An empty RowSet is valid.
type RowSet []Row

func (RowSet) isTabularInput() {}

// Realize returns the row set itself.
func (s RowSet) Realize() RowSet { return s }

// NewRowSet builds a RowSet from its arguments.
func NewRowSet(rows ...Row) RowSet {
	return RowSet(rows)
}

// RowSeq is a lazy sequence of rows. It is consumed once, when realized.
type RowSeq iter.Seq[Row]

func (RowSeq) isTabularInput() {}

// Realize drains the sequence into a RowSet.
func (s RowSeq) Realize() RowSet {
	var out RowSet
	if s == nil {
		return out
	}
	for r := range s {
		out = append(out, r)
	}
	return out
}

// Columnar is tabular data with named columns of equal length, carried as an
// Arrow record stream.
type Columnar struct {
	Reader array.RecordReader
}

func (Columnar) isTabularInput() {}

// ColumnarFromRecords wraps in-memory Arrow records sharing one schema.
func ColumnarFromRecords(schema *arrow.Schema, recs ...arrow.Record) (Columnar, error) {
	rdr, err := array.NewRecordReader(schema, recs)
	if err != nil {
		return Columnar{}, fmt.Errorf("failed to build record reader: %w", err)
	}
	return Columnar{Reader: rdr}, nil
}
