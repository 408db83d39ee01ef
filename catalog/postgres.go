package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PostgresDialect reads catalog metadata from PostgreSQL. System schemas
// (pg_catalog, information_schema, pg_toast) are never part of a snapshot.
type PostgresDialect struct{}

// NewPostgresDialect creates the PostgreSQL dialect.
func NewPostgresDialect() Dialect {
	return &PostgresDialect{}
}

// Name returns the driver name
func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) Tables(ctx context.Context, db *sql.DB) ([]Identity, error) {
	query := `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		AND table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name
	`
	return collectIdentities(ctx, db, query)
}

func (d *PostgresDialect) Views(ctx context.Context, db *sql.DB) ([]Identity, error) {
	query := `
		SELECT table_schema, table_name
		FROM information_schema.views
		WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name
	`
	return collectIdentities(ctx, db, query)
}

func (d *PostgresDialect) Procedures(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return d.routines(ctx, db, "PROCEDURE")
}

func (d *PostgresDialect) Functions(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return d.routines(ctx, db, "FUNCTION")
}

func (d *PostgresDialect) routines(ctx context.Context, db *sql.DB, routineType string) ([]Identity, error) {
	query := `
		SELECT DISTINCT routine_schema, routine_name
		FROM information_schema.routines
		WHERE routine_type = $1
		AND routine_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY routine_schema, routine_name
	`

	rows, err := db.QueryContext(ctx, query, routineType)
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

func (d *PostgresDialect) Indexes(ctx context.Context, db *sql.DB) ([]Index, error) {
	query := `
		SELECT n.nspname, t.relname, i.relname, am.amname, ix.indisunique, ix.indisprimary
		FROM pg_index ix
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_am am ON am.oid = i.relam
		WHERE n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY n.nspname, t.relname, i.relname
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var ix Index
		if err := rows.Scan(&ix.Schema, &ix.Table, &ix.Name, &ix.Type, &ix.Unique, &ix.Primary); err != nil {
			return nil, err
		}
		indexes = append(indexes, ix)
	}

	return indexes, rows.Err()
}

func (d *PostgresDialect) Constraints(ctx context.Context, db *sql.DB) ([]Constraint, error) {
	// pg_constraint rather than information_schema.table_constraints: the
	// latter reports every NOT NULL column as a CHECK constraint with an
	// oid-derived name, which never matches across two databases.
	query := `
		SELECT n.nspname, t.relname, c.conname,
			CASE c.contype
				WHEN 'p' THEN 'PRIMARY KEY'
				WHEN 'f' THEN 'FOREIGN KEY'
				WHEN 'u' THEN 'UNIQUE'
				WHEN 'c' THEN 'CHECK'
			END
		FROM pg_constraint c
		JOIN pg_class t ON t.oid = c.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE c.contype IN ('p', 'f', 'u', 'c')
		AND n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY n.nspname, t.relname, c.conname
	`
	return collectConstraints(ctx, db, query)
}

func (d *PostgresDialect) RowCount(ctx context.Context, db *sql.DB, table Identity) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s",
		quoteDouble(table.Schema), quoteDouble(table.Name))
	return scanCount(ctx, db, query)
}

// quoteDouble quotes an identifier with double quotes, doubling any embedded
// quote characters.
func quoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// collectConstraints runs a query whose rows are
// (schema, table, constraint name, constraint kind) tuples.
func collectConstraints(ctx context.Context, db *sql.DB, query string) ([]Constraint, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var constraints []Constraint
	for rows.Next() {
		var c Constraint
		var kind string
		if err := rows.Scan(&c.Schema, &c.Table, &c.Name, &kind); err != nil {
			return nil, err
		}
		c.Kind = ConstraintKind(kind)
		constraints = append(constraints, c)
	}

	return constraints, rows.Err()
}
