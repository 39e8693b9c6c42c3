// Package arbor provides an in-memory columnar table engine built on
// Apache Arrow, designed for embedding behind host-language bindings.
//
// Arbor models data as immutable tables: a schema plus equal-length,
// nullable, chunked columns of four element types (Int64, Float64,
// Boolean, String). Every operator produces a new table and shares the
// columns it did not touch by reference, so transformation pipelines
// stay cheap even on wide tables.
//
// # Architecture
//
// Arbor is built on three principles:
//
// 1. Immutable Tables: operators never mutate their input. Unchanged
// columns are shared between input and output via Arrow reference
// counting.
//
// 2. Explicit Lifecycle: tables and groupings are reference counted and
// released deterministically, matching the ownership discipline a
// foreign-function boundary requires.
//
// 3. Zero-Copy Export: single-chunk numeric columns expose their
// backing buffers directly, so host runtimes can read column data
// without a copy.
//
// # Quick Start
//
// Load a CSV file, group, and aggregate:
//
//	import (
//	    "github.com/arbordata/arbor/pkg/compute"
//	    "github.com/arbordata/arbor/pkg/config"
//	    "github.com/arbordata/arbor/pkg/ingest"
//	)
//
//	tbl, err := ingest.ReadCSV("trades.csv", config.Default().CSV)
//	defer tbl.Release()
//
//	g, err := compute.GroupBy(tbl, "symbol")
//	defer g.Release()
//
//	out, err := g.Sum("volume")
//	defer out.Release()
//
// # Key Packages
//
//	pkg/table       - Schema, column, and table model over Arrow arrays
//	pkg/compute     - Projection, filter, sort, scalar math, group-by, aggregation
//	pkg/ingest      - Type-inferring CSV reader
//	pkg/handle      - Generation-checked handle registry for host bindings
//	pkg/config      - YAML configuration with environment substitution
//	pkg/arborerrors - Structured error handling
//	pkg/logger      - Structured logging
//
// Environment variables are supported in configuration files with
// ${VAR_NAME} syntax.
package arbor
