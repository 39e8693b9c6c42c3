package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbordata/arbor/pkg/arborerrors"
	"github.com/arbordata/arbor/pkg/table"
)

// The reference example: cat = [A, A, B], val = [1, 2, null].
func newReferenceTable(t *testing.T) *table.Table {
	t.Helper()
	schema := table.NewSchema([]table.Field{
		{Name: "cat", Type: table.String},
		{Name: "val", Type: table.Float64},
	})
	cols := []*table.Column{
		table.NewStringColumn([]string{"A", "A", "B"}, nil),
		table.NewFloat64Column([]float64{1, 2, 0}, []bool{true, true, false}),
	}
	tbl, err := table.New(schema, cols)
	require.NoError(t, err)
	return tbl
}

func TestGroupSumReferenceExample(t *testing.T) {
	tbl := newReferenceTable(t)
	defer tbl.Release()

	g, err := GroupBy(tbl, "cat")
	require.NoError(t, err)
	defer g.Release()

	out, err := g.Sum("val")
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, 2, out.NumRows())
	require.Equal(t, 2, out.NumCols())
	assert.Equal(t, "cat", out.Schema().Field(0).Name)
	assert.Equal(t, table.String, out.Schema().Field(0).Type)
	assert.Equal(t, "val", out.Schema().Field(1).Name)
	assert.Equal(t, table.Float64, out.Schema().Field(1).Type)

	cat, _ := out.Column(0).StringValues()
	assert.Equal(t, []string{"A", "B"}, cat)

	v, ok := out.Column(1).Float64At(0)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
	// all-null group sums to null, not zero
	assert.True(t, out.Column(1).IsNull(1))
}

func TestGroupCountReferenceExample(t *testing.T) {
	tbl := newReferenceTable(t)
	defer tbl.Release()

	g, err := GroupBy(tbl, "cat")
	require.NoError(t, err)
	defer g.Release()

	out, err := g.Count()
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, "n", out.Schema().Field(1).Name)
	values, valid := out.Column(1).Float64Values()
	// counts include null rows and are never null themselves
	assert.Equal(t, []float64{2, 1}, values)
	assert.Equal(t, []bool{true, true}, valid)
}

func TestGroupMeanExcludesNullsFromDivisor(t *testing.T) {
	schema := table.NewSchema([]table.Field{
		{Name: "cat", Type: table.String},
		{Name: "val", Type: table.Float64},
	})
	cols := []*table.Column{
		table.NewStringColumn([]string{"A", "A", "A", "B"}, nil),
		table.NewFloat64Column([]float64{1, 0, 5, 0}, []bool{true, false, true, false}),
	}
	tbl, err := table.New(schema, cols)
	require.NoError(t, err)
	defer tbl.Release()

	g, err := GroupBy(tbl, "cat")
	require.NoError(t, err)
	defer g.Release()

	out, err := g.Mean("val")
	require.NoError(t, err)
	defer out.Release()

	// mean of {1, 5} over two non-null values, not three rows
	v, ok := out.Column(1).Float64At(0)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
	assert.True(t, out.Column(1).IsNull(1))
}

func TestGroupSumWidensInt64Target(t *testing.T) {
	schema := table.NewSchema([]table.Field{
		{Name: "k", Type: table.Int64},
		{Name: "v", Type: table.Int64},
	})
	cols := []*table.Column{
		table.NewInt64Column([]int64{7, 7, 8}, nil),
		table.NewInt64Column([]int64{10, 20, 30}, nil),
	}
	tbl, err := table.New(schema, cols)
	require.NoError(t, err)
	defer tbl.Release()

	g, err := GroupBy(tbl, "k")
	require.NoError(t, err)
	defer g.Release()

	out, err := g.Sum("v")
	require.NoError(t, err)
	defer out.Release()

	// key column keeps its original Int64 type, aggregate is Float64
	assert.Equal(t, table.Int64, out.Schema().Field(0).Type)
	assert.Equal(t, table.Float64, out.Schema().Field(1).Type)

	keys, _ := out.Column(0).Int64Values()
	assert.Equal(t, []int64{7, 8}, keys)
	values, _ := out.Column(1).Float64Values()
	assert.Equal(t, []float64{30, 30}, values)
}

func TestAggregateUnsupportedTargetType(t *testing.T) {
	tbl := newReferenceTable(t)
	defer tbl.Release()

	g, err := GroupBy(tbl, "cat")
	require.NoError(t, err)
	defer g.Release()

	_, err = g.Sum("cat")
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeUnsupportedType))
	_, err = g.Mean("cat")
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeUnsupportedType))
}

func TestAggregateUnknownTarget(t *testing.T) {
	tbl := newReferenceTable(t)
	defer tbl.Release()

	g, err := GroupBy(tbl, "cat")
	require.NoError(t, err)
	defer g.Release()

	_, err = g.Sum("ghost")
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeColumnNotFound))
}

func TestAggregateMultiKeyReconstruction(t *testing.T) {
	schema := table.NewSchema([]table.Field{
		{Name: "a", Type: table.String},
		{Name: "b", Type: table.Boolean},
		{Name: "v", Type: table.Float64},
	})
	cols := []*table.Column{
		table.NewStringColumn([]string{"x", "x", "y"}, nil),
		table.NewBooleanColumn([]bool{true, false, true}, nil),
		table.NewFloat64Column([]float64{1, 2, 3}, nil),
	}
	tbl, err := table.New(schema, cols)
	require.NoError(t, err)
	defer tbl.Release()

	g, err := GroupBy(tbl, "a", "b")
	require.NoError(t, err)
	defer g.Release()

	out, err := g.Sum("v")
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, 3, out.NumCols())
	require.Equal(t, 3, out.NumRows())
	assert.Equal(t, table.Boolean, out.Schema().Field(1).Type)

	bs, valid := out.Column(1).BooleanValues()
	assert.Equal(t, []bool{true, false, true}, bs)
	assert.Equal(t, []bool{true, true, true}, valid)
}

func TestAggregateEmptyGrouping(t *testing.T) {
	schema := table.NewSchema([]table.Field{
		{Name: "k", Type: table.String},
		{Name: "v", Type: table.Float64},
	})
	cols := []*table.Column{
		table.NewStringColumn(nil, nil),
		table.NewFloat64Column(nil, nil),
	}
	tbl, err := table.New(schema, cols)
	require.NoError(t, err)
	defer tbl.Release()

	g, err := GroupBy(tbl, "k")
	require.NoError(t, err)
	defer g.Release()

	out, err := g.Count()
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, 0, out.NumRows())
	assert.Equal(t, 2, out.NumCols())
}
