package compute

import (
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/arbordata/arbor/pkg/arborerrors"
	"github.com/arbordata/arbor/pkg/table"
)

// CountColumnName is the name of the aggregate column produced by Count.
const CountColumnName = "n"

type aggKind uint8

const (
	aggSum aggKind = iota
	aggMean
)

// Sum reduces each group to the sum of the target column's non-null values.
// A group whose members are all null yields a null aggregate, not zero.
// The result table holds the key columns in their original types, one row
// per group in group order, followed by a Float64 column named after the
// target.
func (g *Grouping) Sum(name string) (*table.Table, error) {
	return g.reduce(name, aggSum)
}

// Mean reduces each group to the mean over the target column's non-null
// values; the divisor excludes nulls. An all-null group yields null.
func (g *Grouping) Mean(name string) (*table.Table, error) {
	return g.reduce(name, aggMean)
}

// Count reduces each group to its row count, independent of any column's
// nullness, into a Float64 column named "n". Counts are never null.
func (g *Grouping) Count() (*table.Table, error) {
	b := array.NewFloat64Builder(table.Allocator())
	defer b.Release()
	for _, rows := range g.groups {
		b.Append(float64(len(rows)))
	}
	return g.buildResult(CountColumnName, table.WrapArray(table.Float64, b.NewArray()))
}

func (g *Grouping) reduce(name string, kind aggKind) (*table.Table, error) {
	target, err := g.source.ColumnByName(name)
	if err != nil {
		return nil, err
	}
	if !target.Type().Numeric() {
		return nil, arborerrors.NewUnsupportedType(name, "int64 or float64", target.Type().String())
	}

	b := array.NewFloat64Builder(table.Allocator())
	defer b.Release()
	for _, rows := range g.groups {
		sum := 0.0
		count := 0
		for _, row := range rows {
			// Int64 values widen to float64 before reduction
			if v, valid := target.NumberAt(row); valid {
				sum += v
				count++
			}
		}
		if count == 0 {
			b.AppendNull()
			continue
		}
		if kind == aggMean {
			b.Append(sum / float64(count))
		} else {
			b.Append(sum)
		}
	}
	return g.buildResult(name, table.WrapArray(table.Float64, b.NewArray()))
}

// buildResult reconstructs a table from the grouping: the original key
// columns re-typed to their schema types, one row per group ordered by group
// index, then the aggregate column.
func (g *Grouping) buildResult(aggName string, aggCol *table.Column) (*table.Table, error) {
	schema := g.source.Schema()
	fields := make([]table.Field, 0, len(g.keyIdx)+1)
	cols := make([]*table.Column, 0, len(g.keyIdx)+1)
	for _, idx := range g.keyIdx {
		fields = append(fields, schema.Field(idx))
		cols = append(cols, take(g.source.Column(idx), g.firstRow))
	}
	fields = append(fields, table.Field{Name: aggName, Type: table.Float64})
	cols = append(cols, aggCol)

	out, err := table.New(table.NewSchema(fields), cols)
	if err != nil {
		for _, col := range cols {
			col.Release()
		}
		return nil, err
	}
	return out, nil
}
