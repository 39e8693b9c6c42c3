package table

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

var alloc = memory.NewGoAllocator()

// Allocator returns the allocator backing all engine-built arrays.
func Allocator() memory.Allocator {
	return alloc
}

// NewInt64Column builds a single-chunk Int64 column from values. A nil valid
// slice means no nulls; otherwise valid[i]==false marks row i null.
func NewInt64Column(values []int64, valid []bool) *Column {
	b := array.NewInt64Builder(alloc)
	defer b.Release()
	for i, v := range values {
		if valid != nil && !valid[i] {
			b.AppendNull()
		} else {
			b.Append(v)
		}
	}
	return wrapFreshChunk(Int64, b.NewArray())
}

// NewFloat64Column builds a single-chunk Float64 column from values.
func NewFloat64Column(values []float64, valid []bool) *Column {
	b := array.NewFloat64Builder(alloc)
	defer b.Release()
	for i, v := range values {
		if valid != nil && !valid[i] {
			b.AppendNull()
		} else {
			b.Append(v)
		}
	}
	return wrapFreshChunk(Float64, b.NewArray())
}

// NewBooleanColumn builds a single-chunk Boolean column from values.
func NewBooleanColumn(values []bool, valid []bool) *Column {
	b := array.NewBooleanBuilder(alloc)
	defer b.Release()
	for i, v := range values {
		if valid != nil && !valid[i] {
			b.AppendNull()
		} else {
			b.Append(v)
		}
	}
	return wrapFreshChunk(Boolean, b.NewArray())
}

// NewStringColumn builds a single-chunk String column from values.
func NewStringColumn(values []string, valid []bool) *Column {
	b := array.NewStringBuilder(alloc)
	defer b.Release()
	for i, v := range values {
		if valid != nil && !valid[i] {
			b.AppendNull()
		} else {
			b.Append(v)
		}
	}
	return wrapFreshChunk(String, b.NewArray())
}

// NewBuilderFor returns a fresh Arrow builder for the given type.
// Callers own the builder and the arrays it produces.
func NewBuilderFor(dtype DataType) array.Builder {
	return array.NewBuilder(alloc, dtype.Arrow())
}

// WrapArray wraps a freshly built single-chunk array, taking ownership of
// the builder's reference.
func WrapArray(dtype DataType, arr arrow.Array) *Column {
	return wrapFreshChunk(dtype, arr)
}

func wrapFreshChunk(dtype DataType, arr arrow.Array) *Column {
	return &Column{dtype: dtype, chunks: []arrow.Array{arr}, length: arr.Len()}
}
