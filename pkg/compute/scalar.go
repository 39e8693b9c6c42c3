package compute

import (
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/arbordata/arbor/pkg/arborerrors"
	"github.com/arbordata/arbor/pkg/table"
)

// ScalarOp is one of the four scalar arithmetic operations.
type ScalarOp uint8

const (
	// OpAdd computes v + scalar
	OpAdd ScalarOp = iota
	// OpMultiply computes v * scalar
	OpMultiply
	// OpSubtract computes v - scalar
	OpSubtract
	// OpDivide computes v / scalar under IEEE-754 semantics; division by
	// zero yields ±Inf or NaN, never an error
	OpDivide
)

func (op ScalarOp) apply(v, scalar float64) float64 {
	switch op {
	case OpAdd:
		return v + scalar
	case OpMultiply:
		return v * scalar
	case OpSubtract:
		return v - scalar
	default:
		return v / scalar
	}
}

// AddScalar replaces the named column with v + scalar for every non-null v.
func AddScalar(t *table.Table, name string, scalar float64) (*table.Table, error) {
	return Scalar(t, name, scalar, OpAdd)
}

// MultiplyScalar replaces the named column with v * scalar for every non-null v.
func MultiplyScalar(t *table.Table, name string, scalar float64) (*table.Table, error) {
	return Scalar(t, name, scalar, OpMultiply)
}

// SubtractScalar replaces the named column with v - scalar for every non-null v.
func SubtractScalar(t *table.Table, name string, scalar float64) (*table.Table, error) {
	return Scalar(t, name, scalar, OpSubtract)
}

// DivideScalar replaces the named column with v / scalar for every non-null v.
func DivideScalar(t *table.Table, name string, scalar float64) (*table.Table, error) {
	return Scalar(t, name, scalar, OpDivide)
}

// Scalar returns a table identical to the input except the named column is
// replaced by a Float64 column holding op(v, scalar) elementwise. Int64
// sources are widened to Float64; the output column type is always Float64.
// Nulls propagate unchanged. Non-numeric columns are an unsupported-type
// error; unresolved names a column-not-found error.
func Scalar(t *table.Table, name string, scalar float64, op ScalarOp) (*table.Table, error) {
	schema := t.Schema()
	idx, ok := schema.FieldIndex(name)
	if !ok {
		return nil, arborerrors.NewColumnNotFound(name)
	}
	src := t.Column(idx)
	if !src.Type().Numeric() {
		return nil, arborerrors.NewUnsupportedType(name, "int64 or float64", src.Type().String())
	}

	b := array.NewFloat64Builder(table.Allocator())
	defer b.Release()
	for row := 0; row < src.Len(); row++ {
		if v, valid := src.NumberAt(row); valid {
			b.Append(op.apply(v, scalar))
		} else {
			b.AppendNull()
		}
	}
	result := table.WrapArray(table.Float64, b.NewArray())

	fields := schema.Fields()
	fields[idx].Type = table.Float64
	cols := make([]*table.Column, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		if i == idx {
			cols[i] = result
			continue
		}
		cols[i] = t.Column(i)
		cols[i].Retain()
	}

	out, err := table.New(table.NewSchema(fields), cols)
	if err != nil {
		for _, col := range cols {
			col.Release()
		}
		return nil, err
	}
	return out, nil
}
