package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// MySQLDialect reads catalog metadata from MySQL/MariaDB. The snapshot is
// scoped to the schema the connection is attached to (DATABASE()).
type MySQLDialect struct{}

// NewMySQLDialect creates the MySQL dialect.
func NewMySQLDialect() Dialect {
	return &MySQLDialect{}
}

// Name returns the driver name
func (d *MySQLDialect) Name() string {
	return "mysql"
}

func (d *MySQLDialect) Tables(ctx context.Context, db *sql.DB) ([]Identity, error) {
	query := `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	return collectIdentities(ctx, db, query)
}

func (d *MySQLDialect) Views(ctx context.Context, db *sql.DB) ([]Identity, error) {
	query := `
		SELECT table_schema, table_name
		FROM information_schema.views
		WHERE table_schema = DATABASE()
		ORDER BY table_name
	`
	return collectIdentities(ctx, db, query)
}

func (d *MySQLDialect) Procedures(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return d.routines(ctx, db, "PROCEDURE")
}

func (d *MySQLDialect) Functions(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return d.routines(ctx, db, "FUNCTION")
}

func (d *MySQLDialect) routines(ctx context.Context, db *sql.DB, routineType string) ([]Identity, error) {
	query := `
		SELECT routine_schema, routine_name
		FROM information_schema.routines
		WHERE routine_schema = DATABASE()
		AND routine_type = ?
		ORDER BY routine_name
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

func (d *MySQLDialect) Indexes(ctx context.Context, db *sql.DB) ([]Index, error) {
	// statistics has one row per indexed column; DISTINCT collapses an index
	// back to a single entry.
	query := `
		SELECT DISTINCT table_schema, table_name, index_name, index_type,
			non_unique = 0, index_name = 'PRIMARY'
		FROM information_schema.statistics
		WHERE table_schema = DATABASE()
		ORDER BY table_name, index_name
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

func (d *MySQLDialect) Constraints(ctx context.Context, db *sql.DB) ([]Constraint, error) {
	query := `
		SELECT table_schema, table_name, constraint_name, constraint_type
		FROM information_schema.table_constraints
		WHERE table_schema = DATABASE()
		AND constraint_type IN ('PRIMARY KEY', 'FOREIGN KEY', 'UNIQUE', 'CHECK')
		ORDER BY table_name, constraint_name
	`
	return collectConstraints(ctx, db, query)
}

func (d *MySQLDialect) RowCount(ctx context.Context, db *sql.DB, table Identity) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s",
		quoteBacktick(table.Schema), quoteBacktick(table.Name))
	return scanCount(ctx, db, query)
}

// quoteBacktick quotes an identifier with backticks, doubling any embedded
// backticks.
func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
