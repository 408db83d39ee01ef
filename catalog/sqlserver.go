package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SQLServerDialect reads catalog metadata from SQL Server / Azure SQL.
type SQLServerDialect struct{}

// NewSQLServerDialect creates the SQL Server dialect.
func NewSQLServerDialect() Dialect {
	return &SQLServerDialect{}
}

// Name returns the driver name
func (d *SQLServerDialect) Name() string {
	return "sqlserver"
}

func (d *SQLServerDialect) Tables(ctx context.Context, db *sql.DB) ([]Identity, error) {
	query := `
		SELECT TABLE_SCHEMA, TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_SCHEMA, TABLE_NAME
	`
	return collectIdentities(ctx, db, query)
}

func (d *SQLServerDialect) Views(ctx context.Context, db *sql.DB) ([]Identity, error) {
	query := `
		SELECT TABLE_SCHEMA, TABLE_NAME
		FROM INFORMATION_SCHEMA.VIEWS
		ORDER BY TABLE_SCHEMA, TABLE_NAME
	`
	return collectIdentities(ctx, db, query)
}

func (d *SQLServerDialect) Procedures(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return d.routines(ctx, db, "PROCEDURE")
}

func (d *SQLServerDialect) Functions(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return d.routines(ctx, db, "FUNCTION")
}

func (d *SQLServerDialect) routines(ctx context.Context, db *sql.DB, routineType string) ([]Identity, error) {
	query := `
		SELECT ROUTINE_SCHEMA, ROUTINE_NAME
		FROM INFORMATION_SCHEMA.ROUTINES
		WHERE ROUTINE_TYPE = @p1
		ORDER BY ROUTINE_SCHEMA, ROUTINE_NAME
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

func (d *SQLServerDialect) Indexes(ctx context.Context, db *sql.DB) ([]Index, error) {
	// i.type > 0 drops heap entries, which describe the absence of a
	// clustered index rather than an index.
	query := `
		SELECT s.name, t.name, i.name, i.type_desc, i.is_unique, i.is_primary_key
		FROM sys.indexes i
		INNER JOIN sys.tables t ON i.object_id = t.object_id
		INNER JOIN sys.schemas s ON t.schema_id = s.schema_id
		WHERE i.type > 0
		ORDER BY s.name, t.name, i.name
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

func (d *SQLServerDialect) Constraints(ctx context.Context, db *sql.DB) ([]Constraint, error) {
	query := `
		SELECT TABLE_SCHEMA, TABLE_NAME, CONSTRAINT_NAME, CONSTRAINT_TYPE
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS
		WHERE CONSTRAINT_TYPE IN ('PRIMARY KEY', 'FOREIGN KEY', 'UNIQUE', 'CHECK')
		ORDER BY TABLE_SCHEMA, TABLE_NAME, CONSTRAINT_NAME
	`
	return collectConstraints(ctx, db, query)
}

func (d *SQLServerDialect) RowCount(ctx context.Context, db *sql.DB, table Identity) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT_BIG(*) FROM %s.%s",
		quoteBracket(table.Schema), quoteBracket(table.Name))
	return scanCount(ctx, db, query)
}

// quoteBracket quotes an identifier with square brackets, doubling any
// embedded closing brackets.
func quoteBracket(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}
