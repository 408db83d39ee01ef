package catalog

import (
	"database/sql"
	"sort"
	"strings"
)

// Ref names one catalog object inside a finding. Table is set for indexes
// and constraints; Detail carries attributes shown next to the name (index
// type and uniqueness, constraint kind).
type Ref struct {
	Schema string
	Table  string
	Name   string
	Detail string
}

func (r Ref) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Schema, r.Table, r.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	s := strings.Join(parts, ".")
	if r.Detail != "" {
		s += " (" + r.Detail + ")"
	}
	return s
}

// CategoryDiff is the symmetric-difference decomposition of one category:
// identities present on one side of the comparison only.
type CategoryDiff struct {
	Category Category
	Missing  []Ref // in source, not in target
	Extra    []Ref // in target, not in source
}

// Empty reports whether the category matched on both sides.
func (d CategoryDiff) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0
}

// RowCountMismatch records a table whose row counts differ between the two
// sides. An invalid count means the side could not be counted, which never
// equals a numeric count.
type RowCountMismatch struct {
	Table  Identity
	Source sql.NullInt64
	Target sql.NullInt64
}

// Report is the raw outcome of one comparison: a CategoryDiff per evaluated
// category in declared order, plus row-count mismatches when structural
// parity of the table category allowed counts to be compared at all.
type Report struct {
	Categories []CategoryDiff
	RowCounts  []RowCountMismatch
}

// Empty reports whether the comparison found no differences.
func (r *Report) Empty() bool {
	for _, d := range r.Categories {
		if !d.Empty() {
			return false
		}
	}
	return len(r.RowCounts) == 0
}

// CategoryDiff returns the diff computed for one category, if the category
// was part of the comparison.
func (r *Report) CategoryDiff(c Category) (CategoryDiff, bool) {
	for _, d := range r.Categories {
		if d.Category == c {
			return d, true
		}
	}
	return CategoryDiff{}, false
}

// diffKeys computes the two set differences of the maps' key sets.
func diffKeys[K comparable, V any](source, target map[K]V) (missing, extra []K) {
	for k := range source {
		if _, ok := target[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range target {
		if _, ok := source[k]; !ok {
			extra = append(extra, k)
		}
	}
	return missing, extra
}

// categoryDiffers drives Diff: one entry per category, in declared order.
var categoryDiffers = []struct {
	category Category
	diff     func(source, target *Snapshot) (missing, extra []Ref)
}{
	{Tables, func(s, t *Snapshot) ([]Ref, []Ref) {
		m, e := diffKeys(s.Tables, t.Tables)
		return identityRefs(m), identityRefs(e)
	}},
	{Views, func(s, t *Snapshot) ([]Ref, []Ref) {
		m, e := diffKeys(s.Views, t.Views)
		return identityRefs(m), identityRefs(e)
	}},
	{Procedures, func(s, t *Snapshot) ([]Ref, []Ref) {
		m, e := diffKeys(s.Procedures, t.Procedures)
		return identityRefs(m), identityRefs(e)
	}},
	{Functions, func(s, t *Snapshot) ([]Ref, []Ref) {
		m, e := diffKeys(s.Functions, t.Functions)
		return identityRefs(m), identityRefs(e)
	}},
	{Indexes, func(s, t *Snapshot) ([]Ref, []Ref) {
		m, e := diffKeys(s.Indexes, t.Indexes)
		return indexRefs(m, s.Indexes), indexRefs(e, t.Indexes)
	}},
	{Constraints, func(s, t *Snapshot) ([]Ref, []Ref) {
		m, e := diffKeys(s.Constraints, t.Constraints)
		return constraintRefs(m), constraintRefs(e)
	}},
}

// Diff compares two snapshots over the requested categories; passing no
// categories compares all of them. Identity attributes such as index type or
// uniqueness never cause a mismatch. Row counts are reconciled only when the
// table category was requested and shows zero missing and zero extra tables;
// comparing counts across mismatched table sets is meaningless and is
// skipped by construction rather than filtered from the output.
func Diff(source, target *Snapshot, categories ...Category) *Report {
	if len(categories) == 0 {
		categories = AllCategories()
	}
	requested := make(map[Category]struct{}, len(categories))
	for _, c := range categories {
		requested[c] = struct{}{}
	}

	report := &Report{}
	tableParity := false
	for _, cd := range categoryDiffers {
		if _, ok := requested[cd.category]; !ok {
			continue
		}
		missing, extra := cd.diff(source, target)
		sortRefs(missing)
		sortRefs(extra)
		diff := CategoryDiff{Category: cd.category, Missing: missing, Extra: extra}
		report.Categories = append(report.Categories, diff)
		if cd.category == Tables {
			tableParity = diff.Empty()
		}
	}

	if _, ok := requested[Tables]; ok && tableParity {
		report.RowCounts = rowCountMismatches(source, target)
	}

	return report
}

// rowCountMismatches walks the source's tables in a stable order and records
// every count inequality, including one side being unavailable.
func rowCountMismatches(source, target *Snapshot) []RowCountMismatch {
	var mismatches []RowCountMismatch
	for _, id := range sortedIdentities(source.Tables) {
		sourceCount := source.RowCounts[id]
		targetCount := target.RowCounts[id]
		if countsEqual(sourceCount, targetCount) {
			continue
		}
		mismatches = append(mismatches, RowCountMismatch{
			Table:  id,
			Source: sourceCount,
			Target: targetCount,
		})
	}
	return mismatches
}

// countsEqual treats two unavailable counts as equal; an unavailable count
// never equals a numeric one, not even zero.
func countsEqual(a, b sql.NullInt64) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Int64 == b.Int64
}

func identityRefs(ids []Identity) []Ref {
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, Ref{Schema: id.Schema, Name: id.Name})
	}
	return refs
}

func indexRefs(keys []IndexIdentity, descriptors map[IndexIdentity]Index) []Ref {
	refs := make([]Ref, 0, len(keys))
	for _, k := range keys {
		refs = append(refs, Ref{
			Schema: k.Schema,
			Table:  k.Table,
			Name:   k.Name,
			Detail: describeIndex(descriptors[k]),
		})
	}
	return refs
}

func constraintRefs(keys []Constraint) []Ref {
	refs := make([]Ref, 0, len(keys))
	for _, c := range keys {
		refs = append(refs, Ref{
			Schema: c.Schema,
			Table:  c.Table,
			Name:   c.Name,
			Detail: string(c.Kind),
		})
	}
	return refs
}

// describeIndex renders the informational attributes shown next to an index
// finding.
func describeIndex(ix Index) string {
	detail := ix.Type
	attr := ""
	switch {
	case ix.Primary:
		attr = "primary key"
	case ix.Unique:
		attr = "unique"
	}
	if attr != "" {
		if detail != "" {
			detail += ", "
		}
		detail += attr
	}
	return detail
}

func sortRefs(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if a.Schema != b.Schema {
			return a.Schema < b.Schema
		}
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Detail < b.Detail
	})
}

func sortedIdentities(set map[Identity]struct{}) []Identity {
	ids := make([]Identity, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sortIdentities(ids)
	return ids
}

func sortIdentities(ids []Identity) {
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Schema != ids[j].Schema {
			return ids[i].Schema < ids[j].Schema
		}
		return ids[i].Name < ids[j].Name
	})
}
