package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oscar-hpc/groupreport/internal/identity"
)

func sectionRecords(n int, affiliation identity.Affiliation, prefix string) []UserRecord {
	records := make([]UserRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, UserRecord{
			Username:    fmt.Sprintf("%s%02d", prefix, i),
			Affiliation: affiliation,
		})
	}
	return records
}

func TestSplitByAffiliation(t *testing.T) {
	records := []UserRecord{
		{Username: "zoe", Affiliation: identity.Primary},
		{Username: "amy", Affiliation: identity.Primary},
		{Username: "bob", Affiliation: identity.Secondary},
		{Username: "ghost", Affiliation: identity.Unknown},
	}

	sections := SplitByAffiliation(records)

	require.Len(t, sections, 3)
	require.Equal(t, SectionPrimary, sections[0].Label)
	require.Equal(t, SectionSecondary, sections[1].Label)
	require.Equal(t, SectionOther, sections[2].Label)

	// Alphabetical within a section.
	require.Equal(t, "amy", sections[0].Records[0].Username)
	require.Equal(t, "zoe", sections[0].Records[1].Username)
}

func TestSplitByAffiliationOmitsEmptySections(t *testing.T) {
	sections := SplitByAffiliation(sectionRecords(2, identity.Primary, "p"))
	require.Len(t, sections, 1)
	require.Equal(t, SectionPrimary, sections[0].Label)
}

func TestFlattenPrependsHeaders(t *testing.T) {
	records := append(
		sectionRecords(2, identity.Primary, "p"),
		sectionRecords(1, identity.Secondary, "s")...)

	rows := Flatten(SplitByAffiliation(records))

	require.Len(t, rows, 5)
	require.True(t, rows[0].IsHeader())
	require.Equal(t, SectionPrimary, rows[0].Label)
	require.False(t, rows[1].IsHeader())
	require.True(t, rows[3].IsHeader())
	require.Equal(t, SectionSecondary, rows[3].Label)
}

func TestPaginateRoundTrip(t *testing.T) {
	records := append(
		sectionRecords(30, identity.Primary, "p"),
		sectionRecords(12, identity.Secondary, "s")...)
	rows := Flatten(SplitByAffiliation(records))

	const pageSize = 25
	pages := Paginate(rows, pageSize)

	// 44 rows (42 members + 2 headers) over 25-row pages.
	require.Len(t, pages, 2)
	require.Len(t, pages[0], pageSize)
	require.Len(t, pages[1], len(rows)-pageSize)

	var flattened []Row
	for _, page := range pages {
		require.LessOrEqual(t, len(page), pageSize)
		flattened = append(flattened, page...)
	}
	require.Equal(t, rows, flattened)
}

func TestPaginateExactMultiple(t *testing.T) {
	rows := Flatten(SplitByAffiliation(sectionRecords(9, identity.Primary, "p")))
	require.Len(t, rows, 10)

	pages := Paginate(rows, 5)
	require.Len(t, pages, 2)
	require.Len(t, pages[0], 5)
	require.Len(t, pages[1], 5)
}

func TestPaginateEmptyInputYieldsNoPages(t *testing.T) {
	require.Nil(t, Paginate(nil, 25))
	require.Nil(t, Pages(nil, 25))
}

func TestHeaderRowConsumesPageBudget(t *testing.T) {
	// The PRIMARY header plus 23 members fill rows 1-24 of the first
	// page, so the SECONDARY header lands as its last row, orphaned
	// from the members that start page two.
	records := append(
		sectionRecords(23, identity.Primary, "p"),
		sectionRecords(3, identity.Secondary, "s")...)

	pages := Pages(records, 25)

	require.Len(t, pages, 2)
	last := pages[0][24]
	require.True(t, last.IsHeader())
	require.Equal(t, SectionSecondary, last.Label)
	require.False(t, pages[1][0].IsHeader())
}
