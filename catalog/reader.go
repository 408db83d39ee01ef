package catalog

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

const defaultCountWorkers = 4

// Reader materializes catalog snapshots from one open, read-only connection.
type Reader struct {
	db      *sql.DB
	dialect Dialect

	// CountWorkers bounds how many row-count queries run concurrently.
	CountWorkers int
}

// NewReader creates a Reader over an open connection.
func NewReader(db *sql.DB, dialect Dialect) *Reader {
	return &Reader{
		db:           db,
		dialect:      dialect,
		CountWorkers: defaultCountWorkers,
	}
}

// ReadSnapshot enumerates every object category and counts the rows of each
// table. A failed enumeration query aborts the read with a *QueryError. A row
// count that cannot be obtained degrades that single table's entry to a null
// count instead of failing the read; cancellation of ctx is fatal.
func (r *Reader) ReadSnapshot(ctx context.Context) (*Snapshot, error) {
	slog.Debug("reading catalog snapshot", "dialect", r.dialect.Name())

	snap := NewSnapshot()

	tables, err := r.dialect.Tables(ctx, r.db)
	if err != nil {
		return nil, &QueryError{Op: "list tables", Err: err}
	}
	for _, id := range tables {
		snap.Tables[id] = struct{}{}
	}

	views, err := r.dialect.Views(ctx, r.db)
	if err != nil {
		return nil, &QueryError{Op: "list views", Err: err}
	}
	for _, id := range views {
		snap.Views[id] = struct{}{}
	}

	procedures, err := r.dialect.Procedures(ctx, r.db)
	if err != nil {
		return nil, &QueryError{Op: "list procedures", Err: err}
	}
	for _, id := range procedures {
		snap.Procedures[id] = struct{}{}
	}

	functions, err := r.dialect.Functions(ctx, r.db)
	if err != nil {
		return nil, &QueryError{Op: "list functions", Err: err}
	}
	for _, id := range functions {
		snap.Functions[id] = struct{}{}
	}

	indexes, err := r.dialect.Indexes(ctx, r.db)
	if err != nil {
		return nil, &QueryError{Op: "list indexes", Err: err}
	}
	for _, ix := range indexes {
		snap.AddIndex(ix)
	}

	constraints, err := r.dialect.Constraints(ctx, r.db)
	if err != nil {
		return nil, &QueryError{Op: "list constraints", Err: err}
	}
	for _, c := range constraints {
		snap.AddConstraint(c)
	}

	counts, err := r.rowCounts(ctx, snap.Tables)
	if err != nil {
		return nil, err
	}
	snap.RowCounts = counts

	slog.Info("catalog snapshot complete",
		"dialect", r.dialect.Name(),
		"tables", len(snap.Tables),
		"views", len(snap.Views),
		"procedures", len(snap.Procedures),
		"functions", len(snap.Functions),
		"indexes", len(snap.Indexes),
		"constraints", len(snap.Constraints))

	return snap, nil
}

func (r *Reader) rowCounts(ctx context.Context, tables map[Identity]struct{}) (map[Identity]sql.NullInt64, error) {
	counts := make(map[Identity]sql.NullInt64, len(tables))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	workers := r.CountWorkers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for id := range tables {
		g.Go(func() error {
			n, err := r.dialect.RowCount(gctx, r.db, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("row count unavailable",
					"schema", id.Schema, "table", id.Name, "error", err)
				mu.Lock()
				counts[id] = sql.NullInt64{}
				mu.Unlock()
				return nil
			}

			mu.Lock()
			counts[id] = sql.NullInt64{Int64: n, Valid: true}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &QueryError{Op: "count table rows", Err: err}
	}

	return counts, nil
}
