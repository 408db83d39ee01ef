package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteDialect reads catalog metadata from SQLite. SQLite has a single
// implicit schema, reported here as "main", and no stored routines, so the
// procedure and function categories are always empty. CHECK constraints are
// not enumerable through the pragma interface and are absent from snapshots.
type SQLiteDialect struct{}

// NewSQLiteDialect creates the SQLite dialect.
func NewSQLiteDialect() Dialect {
	return &SQLiteDialect{}
}

// Name returns the driver name
func (d *SQLiteDialect) Name() string {
	return "sqlite3"
}

const sqliteSchema = "main"

func (d *SQLiteDialect) Tables(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return d.masterObjects(ctx, db, "table")
}

func (d *SQLiteDialect) Views(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return d.masterObjects(ctx, db, "view")
}

func (d *SQLiteDialect) masterObjects(ctx context.Context, db *sql.DB, objectType string) ([]Identity, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = ?
		AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := db.QueryContext(ctx, query, objectType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []Identity
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		ids = append(ids, Identity{Schema: sqliteSchema, Name: name})
	}

	return ids, rows.Err()
}

func (d *SQLiteDialect) Procedures(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return nil, nil
}

func (d *SQLiteDialect) Functions(ctx context.Context, db *sql.DB) ([]Identity, error) {
	return nil, nil
}

func (d *SQLiteDialect) Indexes(ctx context.Context, db *sql.DB) ([]Index, error) {
	tables, err := d.Tables(ctx, db)
	if err != nil {
		return nil, err
	}

	var indexes []Index
	for _, table := range tables {
		entries, err := d.indexList(ctx, db, table.Name)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			indexes = append(indexes, Index{
				Schema:  sqliteSchema,
				Table:   table.Name,
				Name:    e.name,
				Type:    "btree",
				Unique:  e.unique,
				Primary: e.origin == "pk",
			})
		}
	}

	return indexes, nil
}

func (d *SQLiteDialect) Constraints(ctx context.Context, db *sql.DB) ([]Constraint, error) {
	tables, err := d.Tables(ctx, db)
	if err != nil {
		return nil, err
	}

	var constraints []Constraint
	for _, table := range tables {
		entries, err := d.indexList(ctx, db, table.Name)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			// index_list reports constraint-backed indexes through their
			// origin: "pk" for primary keys, "u" for unique constraints.
			switch e.origin {
			case "pk":
				constraints = append(constraints, Constraint{
					Schema: sqliteSchema,
					Table:  table.Name,
					Name:   e.name,
					Kind:   PrimaryKey,
				})
			case "u":
				constraints = append(constraints, Constraint{
					Schema: sqliteSchema,
					Table:  table.Name,
					Name:   e.name,
					Kind:   Unique,
				})
			}
		}

		fks, err := d.foreignKeys(ctx, db, table.Name)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, fks...)
	}

	return constraints, nil
}

func (d *SQLiteDialect) RowCount(ctx context.Context, db *sql.DB, table Identity) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteDouble(table.Name))
	return scanCount(ctx, db, query)
}

type sqliteIndexEntry struct {
	name   string
	unique bool
	origin string
}

func (d *SQLiteDialect) indexList(ctx context.Context, db *sql.DB, table string) ([]sqliteIndexEntry, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", quoteDouble(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []sqliteIndexEntry
	for rows.Next() {
		var (
			seq     int
			e       sqliteIndexEntry
			partial bool
		)
		if err := rows.Scan(&seq, &e.name, &e.unique, &e.origin, &partial); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// foreignKeys derives foreign-key constraints from PRAGMA foreign_key_list.
// SQLite does not expose declared constraint names, so names are synthesized
// from the table and the pragma's constraint id, which keeps them stable for
// identical schemas on both sides.
func (d *SQLiteDialect) foreignKeys(ctx context.Context, db *sql.DB, table string) ([]Constraint, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteDouble(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[int]struct{})
	var constraints []Constraint
	for rows.Next() {
		var (
			id, seq                         int
			refTable, from                  string
			to                              sql.NullString
			onUpdate, onDelete, matchClause string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &matchClause); err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		constraints = append(constraints, Constraint{
			Schema: sqliteSchema,
			Table:  table,
			Name:   fmt.Sprintf("fk_%s_%d", table, id),
			Kind:   ForeignKey,
		})
	}

	return constraints, rows.Err()
}
