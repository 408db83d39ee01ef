package catalog

import "database/sql"

// Policy decides which objects are infrastructure noise and should be
// invisible to a comparison. Matching is by object name only, exact and
// case-sensitive, ignoring schema: an identically named object in another
// schema is excluded too. That behavior is load-bearing for existing
// comparisons and must not be narrowed to schema-qualified matching.
type Policy struct {
	Tables     map[string]struct{}
	Procedures map[string]struct{}
	Functions  map[string]struct{}
}

// NewPolicy builds a policy from name lists per category.
func NewPolicy(tables, procedures, functions []string) Policy {
	return Policy{
		Tables:     nameSet(tables),
		Procedures: nameSet(procedures),
		Functions:  nameSet(functions),
	}
}

// NoExclusions is the disabled policy: it excludes nothing.
func NoExclusions() Policy {
	return Policy{}
}

// SystemObjectExclusions hides the database-diagram artifacts SQL Server
// management tooling creates in application databases.
func SystemObjectExclusions() Policy {
	return NewPolicy(
		[]string{"sysdiagrams"},
		[]string{
			"sp_alterdiagram",
			"sp_creatediagram",
			"sp_dropdiagram",
			"sp_helpdiagramdefinition",
			"sp_helpdiagrams",
			"sp_renamediagram",
			"sp_upgraddiagrams",
		},
		[]string{"fn_diagramobjects"},
	)
}

// Excludes reports whether the identity should be dropped from the given
// category before diffing. It is pure: no I/O, no state.
func (p Policy) Excludes(category Category, id Identity) bool {
	switch category {
	case Tables:
		_, ok := p.Tables[id.Name]
		return ok
	case Procedures:
		_, ok := p.Procedures[id.Name]
		return ok
	case Functions:
		_, ok := p.Functions[id.Name]
		return ok
	default:
		return false
	}
}

// Empty reports whether the policy excludes nothing.
func (p Policy) Empty() bool {
	return len(p.Tables) == 0 && len(p.Procedures) == 0 && len(p.Functions) == 0
}

// Merge returns a policy that excludes everything either policy excludes.
// Neither input is modified.
func (p Policy) Merge(other Policy) Policy {
	return Policy{
		Tables:     mergeNameSets(p.Tables, other.Tables),
		Procedures: mergeNameSets(p.Procedures, other.Procedures),
		Functions:  mergeNameSets(p.Functions, other.Functions),
	}
}

// Apply returns a snapshot without the excluded identities. Excluded tables
// lose their row-count entries as well, so they can never surface as count
// mismatches. The input snapshot is not modified; category sets the policy
// cannot match are shared with the result rather than copied.
func (p Policy) Apply(s *Snapshot) *Snapshot {
	if p.Empty() {
		return s
	}

	filtered := &Snapshot{
		Tables:      make(map[Identity]struct{}, len(s.Tables)),
		Views:       s.Views,
		Procedures:  make(map[Identity]struct{}, len(s.Procedures)),
		Functions:   make(map[Identity]struct{}, len(s.Functions)),
		Indexes:     s.Indexes,
		Constraints: s.Constraints,
		RowCounts:   make(map[Identity]sql.NullInt64, len(s.RowCounts)),
	}

	for id := range s.Tables {
		if p.Excludes(Tables, id) {
			continue
		}
		filtered.Tables[id] = struct{}{}
		if count, ok := s.RowCounts[id]; ok {
			filtered.RowCounts[id] = count
		}
	}
	for id := range s.Procedures {
		if !p.Excludes(Procedures, id) {
			filtered.Procedures[id] = struct{}{}
		}
	}
	for id := range s.Functions {
		if !p.Excludes(Functions, id) {
			filtered.Functions[id] = struct{}{}
		}
	}

	return filtered
}

func nameSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func mergeNameSets(a, b map[string]struct{}) map[string]struct{} {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	merged := make(map[string]struct{}, len(a)+len(b))
	for name := range a {
		merged[name] = struct{}{}
	}
	for name := range b {
		merged[name] = struct{}{}
	}
	return merged
}
