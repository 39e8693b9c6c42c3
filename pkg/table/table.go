package table

import (
	"sync/atomic"

	"github.com/arbordata/arbor/pkg/arborerrors"
)

// Table is an immutable columnar dataset: a schema plus one equal-length
// column per schema field. Construction takes ownership of the provided
// columns and one reference on the table itself; holders that outlive the
// primary owner, such as a Grouping, Retain the table and Release it when
// done. The columns are released when the last reference is dropped.
type Table struct {
	schema *Schema
	cols   []*Column
	rows   int
	refs   atomic.Int64
}

// New creates a table from a schema and matching columns. Every column must
// carry the schema field's type and the same length. On error nothing is
// retained or released; the caller keeps ownership of the columns.
func New(schema *Schema, cols []*Column) (*Table, error) {
	if schema.NumFields() != len(cols) {
		return nil, arborerrors.NewShapeMismatch("schema field count does not match column count",
			schema.NumFields(), len(cols))
	}
	rows := 0
	for i, col := range cols {
		if f := schema.Field(i); col.Type() != f.Type {
			return nil, arborerrors.NewUnsupportedType(f.Name, f.Type.String(), col.Type().String())
		}
		if i == 0 {
			rows = col.Len()
		} else if col.Len() != rows {
			return nil, arborerrors.NewShapeMismatch("column lengths differ", rows, col.Len())
		}
	}
	cs := make([]*Column, len(cols))
	copy(cs, cols)
	t := &Table{schema: schema, cols: cs, rows: rows}
	t.refs.Store(1)
	return t, nil
}

// Schema returns the table's schema.
func (t *Table) Schema() *Schema {
	return t.schema
}

// NumRows returns the shared row count of all columns.
func (t *Table) NumRows() int {
	return t.rows
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Column returns the column at position i.
func (t *Table) Column(i int) *Column {
	return t.cols[i]
}

// ColumnByName resolves a name against the schema, first match wins, and
// returns the column. This is the single resolve-then-fetch path every
// name-based operation goes through.
func (t *Table) ColumnByName(name string) (*Column, error) {
	i, ok := t.schema.FieldIndex(name)
	if !ok {
		return nil, arborerrors.NewColumnNotFound(name)
	}
	return t.cols[i], nil
}

// Retain adds one reference to the table.
func (t *Table) Retain() {
	t.refs.Add(1)
}

// Release drops one reference. When the last reference is dropped the
// table's columns are released. Each owner calls it exactly once; a stray
// extra release on a dead table is ignored rather than corrupting shared
// chunks.
func (t *Table) Release() {
	for {
		n := t.refs.Load()
		if n <= 0 {
			return
		}
		if t.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				for _, col := range t.cols {
					col.Release()
				}
			}
			return
		}
	}
}
