package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alc6/dbparity/catalog"
)

type SQLCatalogSource struct {
	driver       string
	dsn          string
	countWorkers int

	database *Database
	reader   *catalog.Reader
}

// NewSQLCatalogSource builds a catalog source for any registered driver.
// countWorkers bounds the concurrent row count queries; zero keeps the
// reader default.
func NewSQLCatalogSource(driver, dsn string, countWorkers int) CatalogSource {
	return &SQLCatalogSource{
		driver:       driver,
		dsn:          dsn,
		countWorkers: countWorkers,
	}
}

func (s *SQLCatalogSource) Connect(ctx context.Context) error {
	registry := defaultDialects()
	dialect, ok := registry.Get(s.driver)
	if !ok {
		return fmt.Errorf("unsupported driver %q (supported: %s)", s.driver, strings.Join(registry.Names(), ", "))
	}

	database, err := OpenDatabase(ctx, s.driver, s.dsn)
	if err != nil {
		return err
	}

	reader := catalog.NewReader(database.DB, dialect)
	if s.countWorkers > 0 {
		reader.CountWorkers = s.countWorkers
	}

	s.database = database
	s.reader = reader

	slog.Debug("catalog source connected", "driver", s.driver)
	return nil
}

func (s *SQLCatalogSource) Close() error {
	if s.database == nil {
		return nil
	}
	return s.database.Close()
}

func (s *SQLCatalogSource) ReadSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	if s.reader == nil {
		return nil, fmt.Errorf("catalog source is not connected")
	}
	return s.reader.ReadSnapshot(ctx)
}

func defaultDialects() *catalog.DialectRegistry {
	registry := catalog.NewDialectRegistry()
	registry.Register(catalog.NewPostgresDialect())
	registry.Register(catalog.NewMySQLDialect())
	registry.Register(catalog.NewSQLiteDialect())
	registry.Register(catalog.NewSQLServerDialect())
	return registry
}

type FilePolicyLoader struct{}

func NewFilePolicyLoader() PolicyLoader {
	return &FilePolicyLoader{}
}

func (l *FilePolicyLoader) LoadPolicy(path string) (catalog.Policy, error) {
	return LoadPolicyFile(path)
}
