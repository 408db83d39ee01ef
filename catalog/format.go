package catalog

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FormatVerdict renders a verdict as human-readable text: one section per
// category with findings, missing objects before extra ones, row-count
// mismatches last, then the overall result.
func FormatVerdict(v Verdict) string {
	var sb strings.Builder
	sb.WriteString("=== CATALOG COMPARISON ===\n")

	section := ""
	for _, f := range v.Findings {
		name := f.Category.String()
		if f.Kind == FindingRowCount {
			name = "row counts"
		}
		if name != section {
			sb.WriteString(fmt.Sprintf("\n%s:\n", name))
			section = name
		}

		switch f.Kind {
		case FindingMissing:
			sb.WriteString(fmt.Sprintf("  missing in target: %s\n", f.Object))
		case FindingExtra:
			sb.WriteString(fmt.Sprintf("  extra in target: %s\n", f.Object))
		case FindingRowCount:
			sb.WriteString(fmt.Sprintf("  %s: source=%s target=%s\n",
				f.Object, FormatCount(f.Source), FormatCount(f.Target)))
		}
	}

	if v.Pass {
		sb.WriteString("\nresult: PASS\n")
	} else {
		sb.WriteString(fmt.Sprintf("\nresult: FAIL (findings: %d)\n", len(v.Findings)))
	}

	return sb.String()
}

// FormatCount renders a nullable row count.
func FormatCount(n sql.NullInt64) string {
	if !n.Valid {
		return "unavailable"
	}
	return strconv.FormatInt(n.Int64, 10)
}

// FormatSnapshotSummary renders a single catalog's inventory: object counts
// per category, row totals, the largest tables, and any tables whose counts
// could not be obtained.
func FormatSnapshotSummary(s *Snapshot) string {
	var sb strings.Builder
	sb.WriteString("=== CATALOG SUMMARY ===\n\n")

	for _, c := range AllCategories() {
		sb.WriteString(fmt.Sprintf("%s: %d\n", c, s.Count(c)))
	}

	counted := 0
	var total int64
	var unavailable []Identity
	for id, count := range s.RowCounts {
		if count.Valid {
			counted++
			total += count.Int64
		} else {
			unavailable = append(unavailable, id)
		}
	}
	sb.WriteString(fmt.Sprintf("\nrows: %d across %d of %d tables\n", total, counted, len(s.Tables)))

	if largest := largestTables(s, 5); len(largest) > 0 {
		sb.WriteString("largest tables:\n")
		for _, t := range largest {
			sb.WriteString(fmt.Sprintf("  %s: %d rows\n", t.id, t.rows))
		}
	}

	if len(unavailable) > 0 {
		sortIdentities(unavailable)
		sb.WriteString("counts unavailable:\n")
		for _, id := range unavailable {
			sb.WriteString(fmt.Sprintf("  %s\n", id))
		}
	}

	return sb.String()
}

type tableSize struct {
	id   Identity
	rows int64
}

func largestTables(s *Snapshot, n int) []tableSize {
	var sizes []tableSize
	for id, count := range s.RowCounts {
		if count.Valid {
			sizes = append(sizes, tableSize{id: id, rows: count.Int64})
		}
	}
	sort.Slice(sizes, func(i, j int) bool {
		if sizes[i].rows != sizes[j].rows {
			return sizes[i].rows > sizes[j].rows
		}
		a, b := sizes[i].id, sizes[j].id
		if a.Schema != b.Schema {
			return a.Schema < b.Schema
		}
		return a.Name < b.Name
	})
	if len(sizes) > n {
		sizes = sizes[:n]
	}
	return sizes
}
