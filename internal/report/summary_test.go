package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oscar-hpc/groupreport/internal/accounting"
	"github.com/oscar-hpc/groupreport/internal/identity"
)

func TestSummarize(t *testing.T) {
	records := []UserRecord{
		{Username: "alice", Affiliation: identity.Primary,
			AccountTiers: []string{"priority", "gpu-standard"}, StorageGB: 120},
		{Username: "bob", Affiliation: identity.Secondary,
			AccountTiers: []string{"priority"}, StorageGB: 0},
		{Username: "carol", Affiliation: identity.Primary,
			AccountTiers: []string{"priority"}, StorageGB: 500},
	}

	s := Summarize(records, 1000)

	require.Equal(t, 2, s.PrimaryMembers)
	require.Equal(t, 1, s.SecondaryMembers)
	require.Equal(t, 0, s.UnknownMembers)
	require.Equal(t, 3, s.TotalMembers)
	// bob holds a priority tag but is secondary, so he is not counted.
	require.Equal(t, map[string]int{"priority": 2, "gpu-standard": 1}, s.TierCounts)
	require.Equal(t, 1000, s.AllocationGB)
	require.Equal(t, 620, s.UsedGB)
	require.Equal(t, 380, s.AvailableGB)
}

func TestSummarizeUnknownAffiliationSurfacedSeparately(t *testing.T) {
	records := []UserRecord{
		{Username: "alice", Affiliation: identity.Primary},
		{Username: "ghost", Affiliation: identity.Unknown},
	}

	s := Summarize(records, 100)
	require.Equal(t, 1, s.UnknownMembers)
	require.Equal(t, 1, s.TotalMembers, "unknown records must not inflate the total")
}

func TestSummarizeOverQuotaGoesNegative(t *testing.T) {
	records := []UserRecord{{Username: "alice", Affiliation: identity.Primary, StorageGB: 150}}
	s := Summarize(records, 100)
	require.Equal(t, -50, s.AvailableGB)
}

func TestTopStorageRollup(t *testing.T) {
	var records []UserRecord
	for i := 0; i < 8; i++ {
		records = append(records, UserRecord{
			Username:    fmt.Sprintf("user%d", i),
			Affiliation: identity.Primary,
			StorageGB:   (i + 1) * 10,
		})
	}

	top := TopStorage(records, 5)

	// Pool of 8 > 5: five ranked entries plus one rollup.
	require.Len(t, top, 6)
	require.Equal(t, RollupLabel, top[5].Label)
	// The rollup holds the sum of the three excluded entries (10+20+30).
	require.Equal(t, 60.0, top[5].Value)
	require.Equal(t, "user7", top[0].Label)
	require.Equal(t, 80.0, top[0].Value)
}

func TestTopStorageNoRollupForSmallPool(t *testing.T) {
	records := []UserRecord{
		{Username: "alice", StorageGB: 120},
		{Username: "bob", StorageGB: 80},
	}

	top := TopStorage(records, 5)
	require.Len(t, top, 2)
	for _, entry := range top {
		require.NotEqual(t, RollupLabel, entry.Label)
	}
}

func TestTopStorageExcludesZeroUsers(t *testing.T) {
	var records []UserRecord
	for i := 0; i < 10; i++ {
		records = append(records, UserRecord{
			Username:  fmt.Sprintf("user%d", i),
			StorageGB: 7,
		})
	}
	records = append(records,
		UserRecord{Username: "zero1"},
		UserRecord{Username: "zero2"},
	)

	top := TopStorage(records, 5)

	// Ten non-zero users: five ranked plus the rollup of the other five.
	// The two zero-storage users appear nowhere, not even in the rollup.
	require.Len(t, top, 6)
	require.Equal(t, 35.0, top[5].Value)
}

func TestTopUsageRestrictedToPrimary(t *testing.T) {
	records := []UserRecord{
		{Username: "alice", Affiliation: identity.Primary, UsageByPartition: map[string]accounting.Usage{
			"batch": {JobCount: 3, CPUCoreHours: 45},
		}},
		{Username: "bob", Affiliation: identity.Secondary, UsageByPartition: map[string]accounting.Usage{
			"batch": {JobCount: 100, CPUCoreHours: 9999},
		}},
	}

	top := TopUsage(records, "batch", 10)

	require.Len(t, top, 1)
	require.Equal(t, "alice", top[0].Label)
}

func TestTopUsageKeepsZeroUsers(t *testing.T) {
	records := []UserRecord{
		{Username: "alice", Affiliation: identity.Primary, UsageByPartition: map[string]accounting.Usage{
			"batch": {},
		}},
	}

	top := TopUsage(records, "batch", 10)
	require.Len(t, top, 1)
	require.Equal(t, 0.0, top[0].Value)
}

func TestTopUsageTiesBreakByUsername(t *testing.T) {
	records := []UserRecord{
		{Username: "zed", Affiliation: identity.Primary, UsageByPartition: map[string]accounting.Usage{
			"batch": {CPUCoreHours: 10},
		}},
		{Username: "amy", Affiliation: identity.Primary, UsageByPartition: map[string]accounting.Usage{
			"batch": {CPUCoreHours: 10},
		}},
	}

	top := TopUsage(records, "batch", 10)
	require.Equal(t, "amy", top[0].Label)
	require.Equal(t, "zed", top[1].Label)
}

// TestSummarizeWorkedExample is the worked example from the report design:
// alice (primary, 120 GB, 3 batch jobs / 45 core-hours), bob (secondary,
// 0 GB, no jobs), allocation 500 GB.
func TestSummarizeWorkedExample(t *testing.T) {
	records := []UserRecord{
		{Username: "alice", Affiliation: identity.Primary, StorageGB: 120,
			UsageByPartition: map[string]accounting.Usage{"batch": {JobCount: 3, CPUCoreHours: 45}}},
		{Username: "bob", Affiliation: identity.Secondary, StorageGB: 0,
			UsageByPartition: map[string]accounting.Usage{"batch": {}}},
	}

	s := Summarize(records, 500)
	require.Equal(t, 1, s.PrimaryMembers)
	require.Equal(t, 1, s.SecondaryMembers)
	require.Equal(t, 2, s.TotalMembers)
	require.Equal(t, 120, s.UsedGB)
	require.Equal(t, 380, s.AvailableGB)

	usage := TopUsage(records, "batch", 10)
	require.Len(t, usage, 1)
	require.Equal(t, "alice", usage[0].Label)

	storage := TopStorage(records, 5)
	require.Len(t, storage, 1)
	require.Equal(t, "alice", storage[0].Label)
}
