package report

import (
	"github.com/oscar-hpc/groupreport/internal/identity"
	"github.com/oscar-hpc/groupreport/pkg/mmath"
)

// Section labels for the affiliation-grouped member table.
const (
	SectionPrimary   = "PRIMARY"
	SectionSecondary = "SECONDARY"
	SectionOther     = "OTHER"
)

// Row is one line of the flattened member table: either a section header
// (Record nil) or a member row.
type Row struct {
	Label  string
	Record *UserRecord
}

// IsHeader reports whether the row is a synthetic section header.
func (r Row) IsHeader() bool {
	return r.Record == nil
}

// Section is one affiliation bucket of the member table, sorted alphabetically
// by username.
type Section struct {
	Label   string
	Records []UserRecord
}

// SplitByAffiliation partitions records into PRIMARY, SECONDARY, and OTHER
// sections, each sorted by username. Empty sections are omitted.
func SplitByAffiliation(records []UserRecord) []Section {
	buckets := map[string][]UserRecord{}
	for _, r := range records {
		label := SectionOther
		switch r.Affiliation {
		case identity.Primary:
			label = SectionPrimary
		case identity.Secondary:
			label = SectionSecondary
		}
		buckets[label] = append(buckets[label], r)
	}

	var sections []Section
	for _, label := range []string{SectionPrimary, SectionSecondary, SectionOther} {
		if len(buckets[label]) == 0 {
			continue
		}
		sections = append(sections, Section{
			Label:   label,
			Records: sortedByUsername(buckets[label]),
		})
	}
	return sections
}

// Flatten concatenates sections into one row sequence, prepending a header row
// to each section.
func Flatten(sections []Section) []Row {
	var rows []Row
	for _, section := range sections {
		rows = append(rows, Row{Label: section.Label})
		for i := range section.Records {
			rows = append(rows, Row{Record: &section.Records[i]})
		}
	}
	return rows
}

// Paginate splits rows into fixed-size pages; the final page may be shorter
// and empty input yields no pages. Header rows consume page budget like any
// other row, so a header can land at the bottom of a page with its first
// member row on the next.
func Paginate(rows []Row, pageSize int) [][]Row {
	if len(rows) == 0 {
		return nil
	}
	pages := make([][]Row, 0, (len(rows)+pageSize-1)/pageSize)
	for start := 0; start < len(rows); start += pageSize {
		end := mmath.Min(start+pageSize, len(rows))
		pages = append(pages, rows[start:end:end])
	}
	return pages
}

// Pages runs the grouping pass and pagination in one step.
func Pages(records []UserRecord, pageSize int) [][]Row {
	return Paginate(Flatten(SplitByAffiliation(records)), pageSize)
}
