package table

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/arbordata/arbor/pkg/arborerrors"
)

// Column is a typed, possibly chunked, nullable value sequence. It is
// read-only once built. A Column owns one reference on each of its chunks;
// sharing a Column between Tables adds a reference per owner through Retain.
type Column struct {
	dtype  DataType
	chunks []arrow.Array
	length int
}

// NewColumn wraps existing Arrow arrays as one logical column, taking
// ownership of one reference on each chunk. All chunks must carry the
// Arrow type matching dtype.
func NewColumn(dtype DataType, chunks []arrow.Array) (*Column, error) {
	want := dtype.Arrow()
	if want == nil {
		return nil, arborerrors.New(arborerrors.ErrorTypeValidation, "invalid column data type")
	}
	length := 0
	for _, c := range chunks {
		if c.DataType().ID() != want.ID() {
			return nil, arborerrors.NewUnsupportedType("", dtype.String(), c.DataType().Name())
		}
		length += c.Len()
	}
	cs := make([]arrow.Array, len(chunks))
	copy(cs, chunks)
	return &Column{dtype: dtype, chunks: cs, length: length}, nil
}

// Len returns the logical number of rows, the sum of all chunk lengths.
func (c *Column) Len() int {
	return c.length
}

// Type returns the column's element type.
func (c *Column) Type() DataType {
	return c.dtype
}

// NumChunks returns the number of physical chunks.
func (c *Column) NumChunks() int {
	return len(c.chunks)
}

// Chunk returns the i-th physical chunk. The column keeps its reference;
// callers that retain the chunk beyond the column's lifetime must Retain it.
func (c *Column) Chunk(i int) arrow.Array {
	return c.chunks[i]
}

// Retain adds one reference to every chunk. Each new owning Table calls this.
func (c *Column) Retain() {
	for _, chunk := range c.chunks {
		chunk.Retain()
	}
}

// Release drops one reference from every chunk.
func (c *Column) Release() {
	for _, chunk := range c.chunks {
		chunk.Release()
	}
}

// resolve translates a logical row index into its physical chunk and offset
// by walking chunk lengths cumulatively.
func (c *Column) resolve(row int) (arrow.Array, int) {
	for _, chunk := range c.chunks {
		if row < chunk.Len() {
			return chunk, row
		}
		row -= chunk.Len()
	}
	return nil, 0
}

// IsNull reports whether the value at the logical row index is null.
func (c *Column) IsNull(row int) bool {
	chunk, off := c.resolve(row)
	if chunk == nil {
		return true
	}
	return chunk.IsNull(off)
}

// Value returns the value at the logical row index as an interface, or nil
// for null. Rows outside [0, Len) yield nil.
func (c *Column) Value(row int) interface{} {
	chunk, off := c.resolve(row)
	if chunk == nil || chunk.IsNull(off) {
		return nil
	}
	switch arr := chunk.(type) {
	case *array.Int64:
		return arr.Value(off)
	case *array.Float64:
		return arr.Value(off)
	case *array.Boolean:
		return arr.Value(off)
	case *array.String:
		return arr.Value(off)
	default:
		return nil
	}
}

// Int64At returns the int64 value at row; the second result is false for null.
func (c *Column) Int64At(row int) (int64, bool) {
	chunk, off := c.resolve(row)
	if chunk == nil || chunk.IsNull(off) {
		return 0, false
	}
	return chunk.(*array.Int64).Value(off), true
}

// Float64At returns the float64 value at row; the second result is false for null.
func (c *Column) Float64At(row int) (float64, bool) {
	chunk, off := c.resolve(row)
	if chunk == nil || chunk.IsNull(off) {
		return 0, false
	}
	return chunk.(*array.Float64).Value(off), true
}

// BooleanAt returns the bool value at row; the second result is false for null.
func (c *Column) BooleanAt(row int) (bool, bool) {
	chunk, off := c.resolve(row)
	if chunk == nil || chunk.IsNull(off) {
		return false, false
	}
	return chunk.(*array.Boolean).Value(off), true
}

// StringAt returns the string value at row; the second result is false for null.
func (c *Column) StringAt(row int) (string, bool) {
	chunk, off := c.resolve(row)
	if chunk == nil || chunk.IsNull(off) {
		return "", false
	}
	return chunk.(*array.String).Value(off), true
}

// NumberAt returns the value at row widened to float64. It is valid only for
// Int64 and Float64 columns; the second result is false for null.
func (c *Column) NumberAt(row int) (float64, bool) {
	chunk, off := c.resolve(row)
	if chunk == nil || chunk.IsNull(off) {
		return 0, false
	}
	switch arr := chunk.(type) {
	case *array.Int64:
		return float64(arr.Value(off)), true
	case *array.Float64:
		return arr.Value(off), true
	default:
		return 0, false
	}
}

// Int64Values materializes the whole column as a value slice plus a validity
// slice, copying across chunk boundaries. Null positions hold the zero value.
func (c *Column) Int64Values() ([]int64, []bool) {
	values := make([]int64, 0, c.length)
	valid := make([]bool, 0, c.length)
	for _, chunk := range c.chunks {
		arr := chunk.(*array.Int64)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				values = append(values, 0)
				valid = append(valid, false)
			} else {
				values = append(values, arr.Value(i))
				valid = append(valid, true)
			}
		}
	}
	return values, valid
}

// Float64Values materializes the whole column as a value slice plus a
// validity slice, copying across chunk boundaries.
func (c *Column) Float64Values() ([]float64, []bool) {
	values := make([]float64, 0, c.length)
	valid := make([]bool, 0, c.length)
	for _, chunk := range c.chunks {
		arr := chunk.(*array.Float64)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				values = append(values, 0)
				valid = append(valid, false)
			} else {
				values = append(values, arr.Value(i))
				valid = append(valid, true)
			}
		}
	}
	return values, valid
}

// BooleanValues materializes the whole column as a value slice plus a
// validity slice, copying across chunk boundaries.
func (c *Column) BooleanValues() ([]bool, []bool) {
	values := make([]bool, 0, c.length)
	valid := make([]bool, 0, c.length)
	for _, chunk := range c.chunks {
		arr := chunk.(*array.Boolean)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				values = append(values, false)
				valid = append(valid, false)
			} else {
				values = append(values, arr.Value(i))
				valid = append(valid, true)
			}
		}
	}
	return values, valid
}

// StringValues materializes the whole column as a value slice plus a
// validity slice, copying across chunk boundaries.
func (c *Column) StringValues() ([]string, []bool) {
	values := make([]string, 0, c.length)
	valid := make([]bool, 0, c.length)
	for _, chunk := range c.chunks {
		arr := chunk.(*array.String)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				values = append(values, "")
				valid = append(valid, false)
			} else {
				values = append(values, arr.Value(i))
				valid = append(valid, true)
			}
		}
	}
	return values, valid
}
