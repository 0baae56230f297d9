package report

import (
	"github.com/pkg/errors"

	"github.com/oscar-hpc/groupreport/internal/identity"
)

// ErrEnrichmentMissing indicates a group member reached the merge with no
// enrichment computed, which is an internal consistency defect.
var ErrEnrichmentMissing = errors.New("no enrichment for group member")

// Merge joins membership, enrichment, and storage into the final dataset. The
// affiliation map is the authoritative key set: every member yields exactly
// one record, and enrichment or storage rows for usernames outside it are
// stale and dropped. Output order is undefined.
func Merge(
	affiliations map[string]identity.Affiliation,
	enrichments map[string]Enrichment,
	storage map[string]int,
) ([]UserRecord, error) {
	records := make([]UserRecord, 0, len(affiliations))
	for username, affiliation := range affiliations {
		enr, ok := enrichments[username]
		if !ok {
			return nil, errors.Wrapf(ErrEnrichmentMissing, "user %s", username)
		}
		records = append(records, UserRecord{
			Username:         username,
			Affiliation:      affiliation,
			Name:             enr.Name,
			Email:            enr.Email,
			AccountTiers:     enr.AccountTiers,
			UsageByPartition: enr.UsageByPartition,
			StorageGB:        storage[username],
		})
	}
	return records, nil
}
