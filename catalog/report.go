package catalog

import (
	"database/sql"
	"time"
)

// FindingKind tags a single reported difference.
type FindingKind int

const (
	// FindingMissing marks an object present in the source but not the target.
	FindingMissing FindingKind = iota
	// FindingExtra marks an object present in the target but not the source.
	FindingExtra
	// FindingRowCount marks a table whose row counts differ.
	FindingRowCount
)

func (k FindingKind) String() string {
	switch k {
	case FindingMissing:
		return "missing object"
	case FindingExtra:
		return "extra object"
	case FindingRowCount:
		return "row count mismatch"
	default:
		return "unknown"
	}
}

// Finding is one reportable difference between the two catalogs. Source and
// Target are set for row-count findings only.
type Finding struct {
	Kind     FindingKind
	Category Category
	Object   Ref
	Source   sql.NullInt64
	Target   sql.NullInt64
}

// Verdict is the final outcome of a comparison: Pass with no findings, or
// Fail with the ordered findings that caused it.
type Verdict struct {
	Pass        bool
	Findings    []Finding
	GeneratedAt time.Time
}

// Summarize folds a report into a verdict. Findings keep a stable order:
// categories in declared order, all missing objects before all extra objects
// within a category, row-count mismatches last.
func Summarize(report *Report) Verdict {
	var findings []Finding

	for _, diff := range report.Categories {
		for _, ref := range diff.Missing {
			findings = append(findings, Finding{
				Kind:     FindingMissing,
				Category: diff.Category,
				Object:   ref,
			})
		}
		for _, ref := range diff.Extra {
			findings = append(findings, Finding{
				Kind:     FindingExtra,
				Category: diff.Category,
				Object:   ref,
			})
		}
	}

	for _, mismatch := range report.RowCounts {
		findings = append(findings, Finding{
			Kind:     FindingRowCount,
			Category: Tables,
			Object:   Ref{Schema: mismatch.Table.Schema, Name: mismatch.Table.Name},
			Source:   mismatch.Source,
			Target:   mismatch.Target,
		})
	}

	return Verdict{
		Pass:        len(findings) == 0,
		Findings:    findings,
		GeneratedAt: time.Now().UTC(),
	}
}
