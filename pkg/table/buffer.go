package table

import (
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Float64Buffer exposes the column's backing storage as a contiguous
// []float64 without copying. It succeeds only when the column is a Float64
// column made of exactly one physical chunk; otherwise the second result is
// false.
//
// The slice aliases Arrow buffer memory. It is valid only while the owning
// Column (and the Table it belongs to) stays alive; the exporter performs no
// lifetime extension. Callers must not write through the slice.
func (c *Column) Float64Buffer() ([]float64, bool) {
	if c.dtype != Float64 || len(c.chunks) != 1 {
		return nil, false
	}
	return c.chunks[0].(*array.Float64).Float64Values(), true
}

// Int64Buffer exposes the column's backing storage as a contiguous []int64
// without copying, under the same contract as Float64Buffer.
func (c *Column) Int64Buffer() ([]int64, bool) {
	if c.dtype != Int64 || len(c.chunks) != 1 {
		return nil, false
	}
	return c.chunks[0].(*array.Int64).Int64Values(), true
}
