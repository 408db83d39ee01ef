package main

import (
	"context"

	"github.com/alc6/dbparity/catalog"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// CatalogSource handles the connection lifecycle of one database in a comparison
type CatalogSource interface {
	// Connect opens and verifies the database connection
	Connect(ctx context.Context) error
	// Close releases the database connection
	Close() error
	// ReadSnapshot reads the catalog snapshot of the connected database
	ReadSnapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// PolicyLoader reads exclusion policies from configuration files
type PolicyLoader interface {
	// LoadPolicy reads an exclusion policy from the file at path
	LoadPolicy(path string) (catalog.Policy, error)
}
