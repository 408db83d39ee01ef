package catalog

import (
	"context"
	"database/sql"
	"sort"
)

// Dialect issues the metadata queries for one database engine. All methods
// are read-only; enumeration results are normalized into sets by the Reader,
// so their ordering does not matter.
type Dialect interface {
	// Name returns the database/sql driver name the dialect serves
	Name() string

	// Tables lists base tables
	Tables(ctx context.Context, db *sql.DB) ([]Identity, error)

	// Views lists views
	Views(ctx context.Context, db *sql.DB) ([]Identity, error)

	// Procedures lists stored procedures
	Procedures(ctx context.Context, db *sql.DB) ([]Identity, error)

	// Functions lists functions
	Functions(ctx context.Context, db *sql.DB) ([]Identity, error)

	// Indexes lists indexes joined to their owning tables
	Indexes(ctx context.Context, db *sql.DB) ([]Index, error)

	// Constraints lists table constraints classified by kind
	Constraints(ctx context.Context, db *sql.DB) ([]Constraint, error)

	// RowCount counts the rows of one table
	RowCount(ctx context.Context, db *sql.DB, table Identity) (int64, error)
}

// DialectRegistry manages the available dialects keyed by driver name.
type DialectRegistry struct {
	dialects map[string]Dialect
}

// NewDialectRegistry creates an empty dialect registry.
func NewDialectRegistry() *DialectRegistry {
	return &DialectRegistry{
		dialects: make(map[string]Dialect),
	}
}

// Register adds a dialect to the registry.
func (r *DialectRegistry) Register(d Dialect) {
	r.dialects[d.Name()] = d
}

// Get retrieves a dialect by driver name.
func (r *DialectRegistry) Get(name string) (Dialect, bool) {
	d, exists := r.dialects[name]
	return d, exists
}

// Names returns the registered driver names, sorted.
func (r *DialectRegistry) Names() []string {
	var names []string
	for name := range r.dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// collectIdentities runs a query whose rows are (schema, name) pairs.
func collectIdentities(ctx context.Context, db *sql.DB, query string) ([]Identity, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []Identity
	for rows.Next() {
		var id Identity
		if err := rows.Scan(&id.Schema, &id.Name); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// scanCount runs a single-value count query.
func scanCount(ctx context.Context, db *sql.DB, query string) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
