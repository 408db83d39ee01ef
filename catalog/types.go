package catalog

import "database/sql"

// Identity names a schema-level catalog object. It is an opaque comparison
// key: case sensitivity is whatever the underlying catalog returned.
type Identity struct {
	Schema string
	Name   string
}

func (id Identity) String() string {
	if id.Schema == "" {
		return id.Name
	}
	return id.Schema + "." + id.Name
}

// Category is one kind of catalog object being compared.
type Category int

const (
	Tables Category = iota
	Views
	Procedures
	Functions
	Indexes
	Constraints
)

// AllCategories returns every category in declared comparison order.
func AllCategories() []Category {
	return []Category{Tables, Views, Procedures, Functions, Indexes, Constraints}
}

func (c Category) String() string {
	switch c {
	case Tables:
		return "tables"
	case Views:
		return "views"
	case Procedures:
		return "procedures"
	case Functions:
		return "functions"
	case Indexes:
		return "indexes"
	case Constraints:
		return "constraints"
	default:
		return "unknown"
	}
}

// IndexIdentity is the comparison key of an index: the owning table plus the
// index name.
type IndexIdentity struct {
	Schema string
	Table  string
	Name   string
}

// Index describes an index. Type, Unique and Primary are informational and
// never part of the comparison key.
type Index struct {
	Schema  string
	Table   string
	Name    string
	Type    string
	Unique  bool
	Primary bool
}

// Key returns the index's comparison key.
func (ix Index) Key() IndexIdentity {
	return IndexIdentity{Schema: ix.Schema, Table: ix.Table, Name: ix.Name}
}

// ConstraintKind classifies a table constraint.
type ConstraintKind string

const (
	PrimaryKey ConstraintKind = "PRIMARY KEY"
	ForeignKey ConstraintKind = "FOREIGN KEY"
	Unique     ConstraintKind = "UNIQUE"
	Check      ConstraintKind = "CHECK"
)

// Constraint describes a table constraint. The whole value is the comparison
// key: two constraints with the same name but different kinds are different
// objects.
type Constraint struct {
	Schema string
	Table  string
	Name   string
	Kind   ConstraintKind
}

// Snapshot is the inventory of one catalog at one point in time. It is built
// once by a Reader (or by test helpers) and must not be mutated afterwards.
// RowCounts holds one entry per table; an invalid NullInt64 records that the
// count could not be obtained, which is distinct from a count of zero.
type Snapshot struct {
	Tables      map[Identity]struct{}
	Views       map[Identity]struct{}
	Procedures  map[Identity]struct{}
	Functions   map[Identity]struct{}
	Indexes     map[IndexIdentity]Index
	Constraints map[Constraint]struct{}
	RowCounts   map[Identity]sql.NullInt64
}

// NewSnapshot returns an empty snapshot ready to be populated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Tables:      make(map[Identity]struct{}),
		Views:       make(map[Identity]struct{}),
		Procedures:  make(map[Identity]struct{}),
		Functions:   make(map[Identity]struct{}),
		Indexes:     make(map[IndexIdentity]Index),
		Constraints: make(map[Constraint]struct{}),
		RowCounts:   make(map[Identity]sql.NullInt64),
	}
}

// AddTable records a base table.
func (s *Snapshot) AddTable(schema, name string) {
	s.Tables[Identity{Schema: schema, Name: name}] = struct{}{}
}

// AddView records a view.
func (s *Snapshot) AddView(schema, name string) {
	s.Views[Identity{Schema: schema, Name: name}] = struct{}{}
}

// AddProcedure records a stored procedure.
func (s *Snapshot) AddProcedure(schema, name string) {
	s.Procedures[Identity{Schema: schema, Name: name}] = struct{}{}
}

// AddFunction records a function.
func (s *Snapshot) AddFunction(schema, name string) {
	s.Functions[Identity{Schema: schema, Name: name}] = struct{}{}
}

// AddIndex records an index.
func (s *Snapshot) AddIndex(ix Index) {
	s.Indexes[ix.Key()] = ix
}

// AddConstraint records a constraint.
func (s *Snapshot) AddConstraint(c Constraint) {
	s.Constraints[c] = struct{}{}
}

// SetRowCount records the row count of a table. Pass an invalid NullInt64
// when the count could not be obtained.
func (s *Snapshot) SetRowCount(schema, name string, count sql.NullInt64) {
	s.RowCounts[Identity{Schema: schema, Name: name}] = count
}

// Count reports how many objects the snapshot holds in a category.
func (s *Snapshot) Count(c Category) int {
	switch c {
	case Tables:
		return len(s.Tables)
	case Views:
		return len(s.Views)
	case Procedures:
		return len(s.Procedures)
	case Functions:
		return len(s.Functions)
	case Indexes:
		return len(s.Indexes)
	case Constraints:
		return len(s.Constraints)
	default:
		return 0
	}
}

// Profile is a named comparison configuration: which categories to diff and
// which exclusion policy to apply to both snapshots first.
type Profile struct {
	Name       string
	Categories []Category
	Policy     Policy
}

// FullProfile compares every category with no exclusions.
func FullProfile() Profile {
	return Profile{
		Name:       "full",
		Categories: AllCategories(),
		Policy:     NoExclusions(),
	}
}

// ApplicationProfile compares application-level objects only (no indexes or
// constraints) and hides known infrastructure objects on both sides.
func ApplicationProfile() Profile {
	return Profile{
		Name:       "application",
		Categories: []Category{Tables, Views, Procedures, Functions},
		Policy:     SystemObjectExclusions(),
	}
}
