package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbordata/arbor/pkg/arborerrors"
	"github.com/arbordata/arbor/pkg/table"
)

// newSampleTable builds a small three-column table used across the
// transform tests:
//
//	id:    1, 2, 3, 4
//	score: 2.5, null, 1.5, 2.5
//	name:  "b", "a", "c", "a"
func newSampleTable(t *testing.T) *table.Table {
	t.Helper()
	schema := table.NewSchema([]table.Field{
		{Name: "id", Type: table.Int64},
		{Name: "score", Type: table.Float64},
		{Name: "name", Type: table.String},
	})
	cols := []*table.Column{
		table.NewInt64Column([]int64{1, 2, 3, 4}, nil),
		table.NewFloat64Column([]float64{2.5, 0, 1.5, 2.5}, []bool{true, false, true, true}),
		table.NewStringColumn([]string{"b", "a", "c", "a"}, nil),
	}
	tbl, err := table.New(schema, cols)
	require.NoError(t, err)
	return tbl
}

func int64ColumnOf(t *testing.T, tbl *table.Table, name string) []int64 {
	t.Helper()
	col, err := tbl.ColumnByName(name)
	require.NoError(t, err)
	values, valid := col.Int64Values()
	for i, ok := range valid {
		require.True(t, ok, "unexpected null at row %d", i)
	}
	return values
}

func TestProjectReordersAndSubsets(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Project(tbl, "name", "id")
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, 2, out.NumCols())
	assert.Equal(t, "name", out.Schema().Field(0).Name)
	assert.Equal(t, "id", out.Schema().Field(1).Name)
	assert.Equal(t, 4, out.NumRows())
	assert.Equal(t, []int64{1, 2, 3, 4}, int64ColumnOf(t, out, "id"))
}

func TestProjectDuplicateNamesShareColumn(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Project(tbl, "id", "id")
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, 2, out.NumCols())
	// both positions reference the same underlying column, no copy
	assert.Same(t, out.Column(0), out.Column(1))
}

func TestProjectUnknownColumnIsError(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Project(tbl, "id", "ghost")
	assert.Nil(t, out)
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeColumnNotFound))
}

func TestProjectComposition(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	ab, err := Project(tbl, "id", "name")
	require.NoError(t, err)
	defer ab.Release()

	aViaAB, err := Project(ab, "id")
	require.NoError(t, err)
	defer aViaAB.Release()

	aDirect, err := Project(tbl, "id")
	require.NoError(t, err)
	defer aDirect.Release()

	assert.Equal(t, int64ColumnOf(t, aDirect, "id"), int64ColumnOf(t, aViaAB, "id"))
}

func TestFilterKeepsMaskedRowsAligned(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Filter(tbl, []bool{true, false, true, false})
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, []int64{1, 3}, int64ColumnOf(t, out, "id"))

	score, err := out.ColumnByName("score")
	require.NoError(t, err)
	v, ok := score.Float64At(0)
	require.True(t, ok)
	assert.Equal(t, 2.5, v)
	v, ok = score.Float64At(1)
	require.True(t, ok)
	assert.Equal(t, 1.5, v)

	name, err := out.ColumnByName("name")
	require.NoError(t, err)
	s, ok := name.StringAt(1)
	require.True(t, ok)
	assert.Equal(t, "c", s)
}

func TestFilterMaskLengthMismatch(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Filter(tbl, []bool{true})
	assert.Nil(t, out)
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeShapeMismatch))
}

func TestFilterAllFalseYieldsEmptyTable(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Filter(tbl, []bool{false, false, false, false})
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, 0, out.NumRows())
	assert.Equal(t, tbl.NumCols(), out.NumCols())
}

func TestSortAscendingWithNullsLast(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Sort(tbl, "score", true)
	require.NoError(t, err)
	defer out.Release()

	// score: 1.5, 2.5, 2.5, null — null last; ties keep original order (ids 1 then 4)
	assert.Equal(t, []int64{3, 1, 4, 2}, int64ColumnOf(t, out, "id"))

	score, err := out.ColumnByName("score")
	require.NoError(t, err)
	assert.True(t, score.IsNull(3))
}

func TestSortDescendingKeepsNullsLast(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Sort(tbl, "score", false)
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []int64{1, 4, 3, 2}, int64ColumnOf(t, out, "id"))
}

func TestSortByStringColumnIsStable(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Sort(tbl, "name", true)
	require.NoError(t, err)
	defer out.Release()

	// "a" twice: ids 2 then 4, original relative order preserved
	assert.Equal(t, []int64{2, 4, 1, 3}, int64ColumnOf(t, out, "id"))
}

func TestSortUnknownColumn(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	_, err := Sort(tbl, "ghost", true)
	assert.True(t, arborerrors.IsType(err, arborerrors.ErrorTypeColumnNotFound))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	tbl := newSampleTable(t)
	defer tbl.Release()

	out, err := Sort(tbl, "id", false)
	require.NoError(t, err)
	out.Release()

	assert.Equal(t, []int64{1, 2, 3, 4}, int64ColumnOf(t, tbl, "id"))
}
