package table

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbordata/arbor/pkg/arborerrors"
)

func buildInt64Chunk(t *testing.T, values []int64, valid []bool) arrow.Array {
	t.Helper()
	b := array.NewInt64Builder(Allocator())
	defer b.Release()
	for i, v := range values {
		if valid != nil && !valid[i] {
			b.AppendNull()
		} else {
			b.Append(v)
		}
	}
	return b.NewArray()
}

func TestNewTableValidation(t *testing.T) {
	schema := NewSchema([]Field{
		{Name: "a", Type: Int64},
		{Name: "b", Type: Float64},
	})

	a := NewInt64Column([]int64{1, 2, 3}, nil)
	b := NewFloat64Column([]float64{1.5, 2.5, 3.5}, nil)

	tbl, err := New(schema, []*Column{a, b})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
	tbl.Release()

	// column count must match schema
	short := NewInt64Column([]int64{1}, nil)
	_, err = New(schema, []*Column{short})
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeShapeMismatch))
	short.Release()

	// lengths must agree
	c1 := NewInt64Column([]int64{1, 2, 3}, nil)
	c2 := NewFloat64Column([]float64{1.5}, nil)
	_, err = New(schema, []*Column{c1, c2})
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeShapeMismatch))
	c1.Release()
	c2.Release()

	// column type must match the schema field
	wrong := NewStringColumn([]string{"x", "y", "z"}, nil)
	c3 := NewInt64Column([]int64{1, 2, 3}, nil)
	_, err = New(schema, []*Column{c3, wrong})
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeUnsupportedType))
	wrong.Release()
	c3.Release()
}

func TestSchemaFieldIndexFirstMatch(t *testing.T) {
	schema := NewSchema([]Field{
		{Name: "x", Type: Int64},
		{Name: "dup", Type: Float64},
		{Name: "dup", Type: String},
	})

	i, ok := schema.FieldIndex("dup")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, Float64, schema.Field(i).Type)

	_, ok = schema.FieldIndex("missing")
	assert.False(t, ok)
}

func TestColumnByName(t *testing.T) {
	schema := NewSchema([]Field{{Name: "v", Type: Int64}})
	col := NewInt64Column([]int64{7}, nil)
	tbl, err := New(schema, []*Column{col})
	require.NoError(t, err)
	defer tbl.Release()

	got, err := tbl.ColumnByName("v")
	require.NoError(t, err)
	v, ok := got.Int64At(0)
	require.True(t, ok)
	assert.Equal(t, int64(7), v)

	_, err = tbl.ColumnByName("nope")
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeColumnNotFound))
}

func TestChunkedCellAccess(t *testing.T) {
	c1 := buildInt64Chunk(t, []int64{10, 20}, nil)
	c2 := buildInt64Chunk(t, []int64{30, 0, 50}, []bool{true, false, true})

	col, err := NewColumn(Int64, []arrow.Array{c1, c2})
	require.NoError(t, err)
	defer col.Release()

	assert.Equal(t, 5, col.Len())
	assert.Equal(t, 2, col.NumChunks())

	// logical indices cross the chunk boundary transparently
	want := []struct {
		v    int64
		null bool
	}{{10, false}, {20, false}, {30, false}, {0, true}, {50, false}}
	for i, w := range want {
		v, ok := col.Int64At(i)
		assert.Equal(t, !w.null, ok, "row %d validity", i)
		if ok {
			assert.Equal(t, w.v, v, "row %d value", i)
		}
		assert.Equal(t, w.null, col.IsNull(i), "row %d IsNull", i)
	}

	values, valid := col.Int64Values()
	assert.Equal(t, []int64{10, 20, 30, 0, 50}, values)
	assert.Equal(t, []bool{true, true, true, false, true}, valid)
}

func TestColumnValueInterface(t *testing.T) {
	col := NewStringColumn([]string{"a", ""}, []bool{true, false})
	defer col.Release()

	assert.Equal(t, "a", col.Value(0))
	assert.Nil(t, col.Value(1))
}

func TestNewColumnRejectsMismatchedChunks(t *testing.T) {
	chunk := buildInt64Chunk(t, []int64{1}, nil)
	defer chunk.Release()

	_, err := NewColumn(Float64, []arrow.Array{chunk})
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeUnsupportedType))
}

func TestReleaseIsIdempotentAndRefCounted(t *testing.T) {
	schema := NewSchema([]Field{{Name: "v", Type: Float64}})
	col := NewFloat64Column([]float64{1, 2}, nil)
	tbl, err := New(schema, []*Column{col})
	require.NoError(t, err)

	// a second holder keeps the table alive across the first release
	tbl.Retain()
	tbl.Release()
	v, ok := tbl.Column(0).Float64At(1)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	tbl.Release()
	// extra release after the last reference must be a no-op
	tbl.Release()
}

func TestDataTypeMapping(t *testing.T) {
	for _, dt := range []DataType{Int64, Float64, Boolean, String} {
		adt := dt.Arrow()
		require.NotNil(t, adt, dt.String())
		back, ok := FromArrow(adt)
		require.True(t, ok, dt.String())
		assert.Equal(t, dt, back)
	}

	_, ok := FromArrow(arrow.PrimitiveTypes.Int32)
	assert.False(t, ok)
	assert.False(t, Boolean.Numeric())
	assert.True(t, Int64.Numeric())
	assert.True(t, Float64.Numeric())
}
