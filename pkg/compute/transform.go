// Package compute implements Arbor's transformation primitives: projection,
// boolean filtering, stable sorting, scalar arithmetic, and hash-based
// grouping with aggregation.
//
// Every operator is a pure function from Table to Table. Inputs are never
// mutated; columns untouched by an operator are shared with the result by
// reference, and columns whose rows change are rebuilt as fresh single-chunk
// arrays. On failure no partial table is returned and no references move.
package compute

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/arbordata/arbor/pkg/arborerrors"
	"github.com/arbordata/arbor/pkg/table"
)

// Project returns a table with columns reordered or subset to names, in the
// given order. Duplicate names are permitted; each occurrence references the
// same underlying column without copying. Any unresolved name fails the whole
// operation with a column-not-found error.
func Project(t *table.Table, names ...string) (*table.Table, error) {
	schema := t.Schema()
	indices := make([]int, len(names))
	for i, name := range names {
		idx, ok := schema.FieldIndex(name)
		if !ok {
			return nil, arborerrors.NewColumnNotFound(name)
		}
		indices[i] = idx
	}

	fields := make([]table.Field, len(names))
	cols := make([]*table.Column, len(names))
	for i, idx := range indices {
		fields[i] = schema.Field(idx)
		cols[i] = t.Column(idx)
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

// Filter returns a table containing only the rows where mask is true,
// preserving row order. The mask length must equal the row count; a mismatch
// is a caller contract violation reported as a shape-mismatch error, never a
// silent truncation.
func Filter(t *table.Table, mask []bool) (*table.Table, error) {
	if len(mask) != t.NumRows() {
		return nil, arborerrors.NewShapeMismatch("mask length does not match row count",
			t.NumRows(), len(mask))
	}

	rows := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			rows = append(rows, i)
		}
	}

	cols := make([]*table.Column, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		cols[i] = take(t.Column(i), rows)
	}
	return rebuild(t.Schema(), cols)
}

// Sort returns a table with all rows reordered by the named column, stable
// with respect to original order on ties. Nulls sort last in both ascending
// and descending order. The implementation computes a permutation of row
// indices and then takes every column by it, which keeps all columns
// row-aligned by construction.
func Sort(t *table.Table, name string, ascending bool) (*table.Table, error) {
	col, err := t.ColumnByName(name)
	if err != nil {
		return nil, err
	}

	perm := make([]int, t.NumRows())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, lessFunc(col, perm, ascending))

	cols := make([]*table.Column, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		cols[i] = take(t.Column(i), perm)
	}
	return rebuild(t.Schema(), cols)
}

// lessFunc builds the permutation comparator for one column. Values are
// materialized once so the comparator does no chunk walking per probe.
func lessFunc(col *table.Column, perm []int, ascending bool) func(a, b int) bool {
	switch col.Type() {
	case table.Int64:
		values, valid := col.Int64Values()
		return func(a, b int) bool {
			i, j := perm[a], perm[b]
			if !valid[i] || !valid[j] {
				return valid[i] && !valid[j]
			}
			if ascending {
				return values[i] < values[j]
			}
			return values[i] > values[j]
		}
	case table.Float64:
		values, valid := col.Float64Values()
		return func(a, b int) bool {
			i, j := perm[a], perm[b]
			if !valid[i] || !valid[j] {
				return valid[i] && !valid[j]
			}
			if ascending {
				return values[i] < values[j]
			}
			return values[i] > values[j]
		}
	case table.Boolean:
		values, valid := col.BooleanValues()
		return func(a, b int) bool {
			i, j := perm[a], perm[b]
			if !valid[i] || !valid[j] {
				return valid[i] && !valid[j]
			}
			if values[i] == values[j] {
				return false
			}
			// false sorts before true ascending
			if ascending {
				return !values[i]
			}
			return values[i]
		}
	default:
		values, valid := col.StringValues()
		return func(a, b int) bool {
			i, j := perm[a], perm[b]
			if !valid[i] || !valid[j] {
				return valid[i] && !valid[j]
			}
			if ascending {
				return values[i] < values[j]
			}
			return values[i] > values[j]
		}
	}
}

// take builds a fresh single-chunk column holding col's values at the given
// logical rows, in order. Nulls carry over.
func take(col *table.Column, rows []int) *table.Column {
	b := table.NewBuilderFor(col.Type())
	defer b.Release()
	for _, row := range rows {
		appendRow(b, col, row)
	}
	return table.WrapArray(col.Type(), b.NewArray())
}

// appendRow copies one cell from col into an Arrow builder of matching type.
func appendRow(b array.Builder, col *table.Column, row int) {
	switch bb := b.(type) {
	case *array.Int64Builder:
		if v, ok := col.Int64At(row); ok {
			bb.Append(v)
		} else {
			bb.AppendNull()
		}
	case *array.Float64Builder:
		if v, ok := col.Float64At(row); ok {
			bb.Append(v)
		} else {
			bb.AppendNull()
		}
	case *array.BooleanBuilder:
		if v, ok := col.BooleanAt(row); ok {
			bb.Append(v)
		} else {
			bb.AppendNull()
		}
	case *array.StringBuilder:
		if v, ok := col.StringAt(row); ok {
			bb.Append(v)
		} else {
			bb.AppendNull()
		}
	}
}

// rebuild assembles freshly built columns under an existing schema,
// releasing them if assembly fails so no reference leaks.
func rebuild(schema *table.Schema, cols []*table.Column) (*table.Table, error) {
	out, err := table.New(schema, cols)
	if err != nil {
		for _, col := range cols {
			col.Release()
		}
		return nil, err
	}
	return out, nil
}
