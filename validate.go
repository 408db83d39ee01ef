package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alc6/dbparity/catalog"
)

// validateCore connects to one database, reads its full catalog and renders
// a summary. healthy is false when any table's row count was unavailable.
// Separated from the CLI for testing.
func validateCore(ctx context.Context, source CatalogSource) (summary string, healthy bool, err error) {
	if err := source.Connect(ctx); err != nil {
		return "", false, fmt.Errorf("failed to connect database: %w", err)
	}
	defer func() {
		if err := source.Close(); err != nil {
			slog.Error("failed to close catalog source", "error", err)
		}
	}()

	snap, err := source.ReadSnapshot(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to read catalog: %w", err)
	}

	healthy = true
	for _, count := range snap.RowCounts {
		if !count.Valid {
			healthy = false
			break
		}
	}

	return catalog.FormatSnapshotSummary(snap), healthy, nil
}
