// Package report aggregates per-user facts from the identity, accounting, and
// quota sources into one typed dataset and derives the summarized, paginated
// views the renderer consumes.
package report

import (
	"github.com/oscar-hpc/groupreport/internal/accounting"
	"github.com/oscar-hpc/groupreport/internal/identity"
)

// NoTiersPlaceholder is rendered for a user holding no premium account tiers.
const NoTiersPlaceholder = "-"

// Tier maps a canonical account-tier tag to the Linux groups that grant it.
// Declaration order of a tier table is its display order.
type Tier struct {
	Tag    string   `json:"tag"`
	Groups []string `json:"groups"`
}

// DefaultTiers is the site's premium account-tier vocabulary. Several groups
// are synonyms for one tier and collapse to a single tag.
func DefaultTiers() []Tier {
	return []Tier{
		{Tag: "priority", Groups: []string{
			"priority", "priority1", "priority2", "priority3", "priority4",
			"priority5", "priority6", "priority7", "priority8", "priority9",
		}},
		{Tag: "priority-plus", Groups: []string{"priority+", "priority+1"}},
		{Tag: "gpu-standard", Groups: []string{"pri-gpu", "pri-gpu1"}},
		{Tag: "gpu-standard-plus", Groups: []string{"pri-gpu+", "pri-gpu+1"}},
		{Tag: "gpu-highend", Groups: []string{"gpu-he", "gpu-he1"}},
		{Tag: "bigmem-priority", Groups: []string{"pri-bigmem"}},
	}
}

// DefaultPartitions is the fixed partition list usage is tracked against.
func DefaultPartitions() []string {
	return []string{"batch", "bigmem", "gpu"}
}

// UserRecord is one row of the merged dataset: everything the report knows
// about one group member. Numeric fields are always present; absent source
// data is zero, never missing.
type UserRecord struct {
	Username    string
	Affiliation identity.Affiliation

	Name  string
	Email string

	// AccountTiers holds canonical tier tags in tier-table declaration
	// order; empty is valid.
	AccountTiers []string

	// UsageByPartition has an entry for every partition in the report's
	// fixed partition list.
	UsageByPartition map[string]accounting.Usage

	StorageGB int
}
