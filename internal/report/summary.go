package report

import (
	"sort"

	"github.com/oscar-hpc/groupreport/internal/identity"
)

// RollupLabel names the synthesized bucket holding everything a bounded top-N
// view excludes.
const RollupLabel = "All Others"

// GroupSummary holds the group-level figures derived from the merged dataset.
// It exists only for the lifetime of one report.
type GroupSummary struct {
	PrimaryMembers   int
	SecondaryMembers int
	// UnknownMembers counts records with a defective affiliation. They are
	// surfaced separately rather than folded into the total.
	UnknownMembers int
	TotalMembers   int

	// TierCounts is computed over primary members only; secondary members
	// are not counted against premium tiers even if they hold a tag.
	TierCounts map[string]int

	AllocationGB int
	UsedGB       int
	// AvailableGB may be negative when the group is over quota; it is
	// reported as-is.
	AvailableGB int
}

// Summarize derives the group-level counts and storage figures.
func Summarize(records []UserRecord, allocationGB int) GroupSummary {
	s := GroupSummary{TierCounts: map[string]int{}}
	for _, r := range records {
		switch r.Affiliation {
		case identity.Primary:
			s.PrimaryMembers++
			for _, tag := range r.AccountTiers {
				s.TierCounts[tag]++
			}
		case identity.Secondary:
			s.SecondaryMembers++
		default:
			s.UnknownMembers++
		}
		s.UsedGB += r.StorageGB
	}
	s.TotalMembers = s.PrimaryMembers + s.SecondaryMembers
	s.AllocationGB = allocationGB
	s.AvailableGB = allocationGB - s.UsedGB
	return s
}

// RankedEntry is one row of a bounded top-N view.
type RankedEntry struct {
	Label string
	Value float64
}

// TopStorage ranks users by storage consumed. Zero-storage users never appear,
// not even inside the rollup bucket.
func TopStorage(records []UserRecord, n int) []RankedEntry {
	var pool []RankedEntry
	for _, r := range sortedByUsername(records) {
		if r.StorageGB == 0 {
			continue
		}
		pool = append(pool, RankedEntry{Label: r.Username, Value: float64(r.StorageGB)})
	}
	return rank(pool, n)
}

// TopUsage ranks users by CPU core-hours on one partition. The candidate pool
// is restricted to primary members, mirroring the tier-count policy; zero
// usage is not excluded.
func TopUsage(records []UserRecord, partition string, n int) []RankedEntry {
	var pool []RankedEntry
	for _, r := range sortedByUsername(records) {
		if r.Affiliation != identity.Primary {
			continue
		}
		pool = append(pool, RankedEntry{
			Label: r.Username,
			Value: r.UsageByPartition[partition].CPUCoreHours,
		})
	}
	return rank(pool, n)
}

// rank sorts the pool descending by value (stable, so ties keep username
// order) and takes the first n. When entries are left over, one rollup bucket
// holding their sum is appended.
func rank(pool []RankedEntry, n int) []RankedEntry {
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Value > pool[j].Value })
	if len(pool) <= n {
		return pool
	}
	top := make([]RankedEntry, n, n+1)
	copy(top, pool[:n])
	var rest float64
	for _, entry := range pool[n:] {
		rest += entry.Value
	}
	return append(top, RankedEntry{Label: RollupLabel, Value: rest})
}

func sortedByUsername(records []UserRecord) []UserRecord {
	sorted := make([]UserRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Username < sorted[j].Username })
	return sorted
}
