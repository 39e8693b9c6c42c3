package compute

import (
	"strconv"
	"sync/atomic"

	"github.com/arbordata/arbor/pkg/arborerrors"
	stringpool "github.com/arbordata/arbor/pkg/strings"
	"github.com/arbordata/arbor/pkg/table"
)

// keyPool holds builders for composite group keys.
var keyPool = stringpool.NewPool(8, 64)

// Grouping is a partition of a table's rows into groups by key-column
// equality, numbered in first-occurrence order of the key tuple. Every row
// index appears in exactly one group and no group is empty.
//
// A Grouping retains its source table for its whole lifetime; the table
// cannot go away under it. Release drops that reference, exactly once.
type Grouping struct {
	source   *table.Table
	keyNames []string
	keyIdx   []int
	groups   [][]int
	firstRow []int
	keys     [][]string
	released atomic.Bool
}

// GroupBy partitions the table's rows by equality of the named key columns.
// Two rows land in the same group iff every key column renders to the same
// canonical form: integers in decimal, floats in their shortest
// round-trippable decimal form, booleans as true/false, strings verbatim,
// nulls as a marker distinct from every possible value. Rendered cells are
// length-prefix framed into the composite key, so no byte of a value can
// ever read as a cell boundary.
func GroupBy(t *table.Table, keyNames ...string) (*Grouping, error) {
	if len(keyNames) == 0 {
		return nil, arborerrors.New(arborerrors.ErrorTypeEmptyKeyList, "group_by requires at least one key column")
	}

	schema := t.Schema()
	keyIdx := make([]int, len(keyNames))
	keyCols := make([]*table.Column, len(keyNames))
	for i, name := range keyNames {
		idx, ok := schema.FieldIndex(name)
		if !ok {
			return nil, arborerrors.NewColumnNotFound(name)
		}
		keyIdx[i] = idx
		keyCols[i] = t.Column(idx)
	}

	g := &Grouping{
		source:   t,
		keyNames: append([]string(nil), keyNames...),
		keyIdx:   keyIdx,
	}

	b := keyPool.Get()
	defer keyPool.Put(b)

	byKey := make(map[string]int)
	for row := 0; row < t.NumRows(); row++ {
		b.Reset()
		for _, col := range keyCols {
			frameCell(b, col, row)
		}
		composite := b.String()

		id, seen := byKey[composite]
		if !seen {
			id = len(g.groups)
			byKey[stringpool.Clone(composite)] = id
			g.groups = append(g.groups, nil)
			g.firstRow = append(g.firstRow, row)
			g.keys = append(g.keys, renderKeyTuple(keyCols, row))
		}
		g.groups[id] = append(g.groups[id], row)
	}

	t.Retain()
	return g, nil
}

// NumGroups returns the number of groups.
func (g *Grouping) NumGroups() int {
	return len(g.groups)
}

// GroupRows returns the original row indices of group id, in source order.
// The slice is owned by the Grouping; callers must not modify it.
func (g *Grouping) GroupRows(id int) []int {
	return g.groups[id]
}

// GroupKey returns group id's key tuple rendered as display strings, one per
// key column; nulls render as "null".
func (g *Grouping) GroupKey(id int) []string {
	return g.keys[id]
}

// KeyNames returns the key column names the grouping was built with.
func (g *Grouping) KeyNames() []string {
	return append([]string(nil), g.keyNames...)
}

// Release drops the grouping's reference on its source table. Calling it
// more than once is a no-op. Result tables produced by the aggregations are
// independent and survive the grouping.
func (g *Grouping) Release() {
	if g.released.CompareAndSwap(false, true) {
		g.source.Release()
	}
}

// frameCell appends one cell to the composite key: "n" for null, or
// "v<len>:<canonical bytes>" for a value.
func frameCell(b *stringpool.Builder, col *table.Column, row int) {
	s, null := canonicalCell(col, row)
	if null {
		b.WriteByte('n')
		return
	}
	b.WriteByte('v')
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// canonicalCell renders one cell in its canonical grouping form. The float
// rendering is strconv's shortest round-trippable decimal, so distinct floats
// never merge and equal floats never split; all NaNs render "NaN" and form a
// single group.
func canonicalCell(col *table.Column, row int) (string, bool) {
	switch col.Type() {
	case table.Int64:
		if v, ok := col.Int64At(row); ok {
			return strconv.FormatInt(v, 10), false
		}
	case table.Float64:
		if v, ok := col.Float64At(row); ok {
			return strconv.FormatFloat(v, 'g', -1, 64), false
		}
	case table.Boolean:
		if v, ok := col.BooleanAt(row); ok {
			return strconv.FormatBool(v), false
		}
	case table.String:
		if v, ok := col.StringAt(row); ok {
			return v, false
		}
	}
	return "", true
}

func renderKeyTuple(keyCols []*table.Column, row int) []string {
	tuple := make([]string, len(keyCols))
	for i, col := range keyCols {
		s, null := canonicalCell(col, row)
		if null {
			s = "null"
		}
		tuple[i] = s
	}
	return tuple
}
