// Package ingest is Arbor's ingestion boundary. Parsing and schema inference
// are wholly delegated to the Arrow CSV reader; this package only assembles
// the reader's record batches into a Table and propagates failures.
package ingest

import (
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"go.uber.org/zap"

	"github.com/arbordata/arbor/pkg/arborerrors"
	"github.com/arbordata/arbor/pkg/config"
	"github.com/arbordata/arbor/pkg/logger"
	"github.com/arbordata/arbor/pkg/table"
)

// ReadCSV reads a CSV file into a Table using the Arrow inferring reader.
// Each record batch the reader produces becomes one physical chunk of every
// column, so files larger than cfg.ChunkSize rows yield multi-chunk columns.
// On success the caller owns the returned table; on failure nothing is
// retained and the reader's error is wrapped as an ingest error.
func ReadCSV(path string, cfg config.CSVConfig) (*table.Table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return nil, arborerrors.Wrap(err, arborerrors.ErrorTypeIngest, "failed to open csv file").
			WithDetail("path", path)
	}
	defer f.Close()

	r := csv.NewInferringReader(f,
		csv.WithAllocator(table.Allocator()),
		csv.WithComma([]rune(cfg.Comma)[0]),
		csv.WithHeader(!cfg.NoHeader),
		csv.WithChunk(cfg.ChunkSize),
		csv.WithNullReader(true, cfg.NullStrings...),
	)
	defer r.Release()

	var chunks [][]arrow.Array
	releaseChunks := func() {
		for _, colChunks := range chunks {
			for _, c := range colChunks {
				c.Release()
			}
		}
	}

	for r.Next() {
		rec := r.Record()
		if chunks == nil {
			chunks = make([][]arrow.Array, rec.NumCols())
		}
		for i := 0; i < int(rec.NumCols()); i++ {
			col := rec.Column(i)
			col.Retain()
			chunks[i] = append(chunks[i], col)
		}
	}
	if err := r.Err(); err != nil {
		releaseChunks()
		return nil, arborerrors.Wrap(err, arborerrors.ErrorTypeIngest, "csv reader failed").
			WithDetail("path", path)
	}

	arrowSchema := r.Schema()
	if arrowSchema == nil {
		releaseChunks()
		return nil, arborerrors.New(arborerrors.ErrorTypeIngest, "csv file produced no schema").
			WithDetail("path", path)
	}

	fields := make([]table.Field, arrowSchema.NumFields())
	cols := make([]*table.Column, arrowSchema.NumFields())
	if chunks == nil {
		chunks = make([][]arrow.Array, arrowSchema.NumFields())
	}
	for i := 0; i < arrowSchema.NumFields(); i++ {
		af := arrowSchema.Field(i)
		dtype, ok := table.FromArrow(af.Type)
		if !ok {
			releaseChunks()
			return nil, arborerrors.New(arborerrors.ErrorTypeIngest, "csv column type not supported by engine").
				WithDetail("column", af.Name).
				WithDetail("arrow_type", af.Type.Name())
		}
		fields[i] = table.Field{Name: af.Name, Type: dtype}
		col, err := table.NewColumn(dtype, chunks[i])
		if err != nil {
			releaseChunks()
			return nil, arborerrors.Wrap(err, arborerrors.ErrorTypeIngest, "csv chunk assembly failed").
				WithDetail("column", af.Name)
		}
		cols[i] = col
	}

	t, err := table.New(table.NewSchema(fields), cols)
	if err != nil {
		releaseChunks()
		return nil, arborerrors.Wrap(err, arborerrors.ErrorTypeIngest, "csv table assembly failed")
	}

	logger.Debug("csv ingested",
		zap.String("path", path),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumCols()))
	return t, nil
}
