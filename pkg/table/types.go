// Package table implements Arbor's in-memory columnar data model: a Table is
// an ordered set of named, typed, nullable columns of equal length, backed by
// Apache Arrow arrays.
//
// Tables are immutable after construction. Operators in pkg/compute never
// mutate a Table; they produce new Tables that share unchanged columns by
// reference through Arrow's reference counting. A Table is released exactly
// once by its owner; derived zero-copy views (see buffer.go) are valid only
// while the owning Table is alive.
//
// A Column is logically flat but may consist of several contiguous physical
// chunks, an artifact of batch-wise ingestion. Chunk boundaries are invisible
// to every operation except cell access, which translates a logical row index
// into a (chunk, offset) pair.
package table

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// DataType identifies the scalar kind of a column's elements.
type DataType uint8

const (
	// Invalid is the zero value; no column carries it
	Invalid DataType = iota
	// Int64 is a signed 64-bit integer column
	Int64
	// Float64 is an IEEE-754 double column
	Float64
	// Boolean is a true/false column
	Boolean
	// String is a UTF-8 string column
	String
)

// String returns the lower-case name of the type.
func (t DataType) String() string {
	switch t {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	default:
		return "invalid"
	}
}

// Numeric reports whether the type participates in arithmetic and aggregation.
func (t DataType) Numeric() bool {
	return t == Int64 || t == Float64
}

// Arrow returns the Arrow data type backing this scalar kind.
func (t DataType) Arrow() arrow.DataType {
	switch t {
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case Float64:
		return arrow.PrimitiveTypes.Float64
	case Boolean:
		return arrow.FixedWidthTypes.Boolean
	case String:
		return arrow.BinaryTypes.String
	default:
		return nil
	}
}

// FromArrow maps an Arrow data type onto Arbor's scalar kinds.
// The second result is false for Arrow types the engine does not model.
func FromArrow(dt arrow.DataType) (DataType, bool) {
	switch dt.ID() {
	case arrow.INT64:
		return Int64, true
	case arrow.FLOAT64:
		return Float64, true
	case arrow.BOOL:
		return Boolean, true
	case arrow.STRING:
		return String, true
	default:
		return Invalid, false
	}
}
