package report

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/oscar-hpc/groupreport/internal/accounting"
	"github.com/oscar-hpc/groupreport/internal/identity"
	"github.com/oscar-hpc/groupreport/pkg/set"
)

// Enrichment is everything the per-user lookups supply for one username.
type Enrichment struct {
	Name             string
	Email            string
	AccountTiers     []string
	UsageByPartition map[string]accounting.Usage
}

// Enricher fetches per-user details from the identity and accounting sources.
// Every sub-lookup degrades to a safe default on failure, so enrichment as a
// whole never fails for an existing username.
type Enricher struct {
	Directory  identity.Directory
	Accounting accounting.Source

	Partitions []string
	Tiers      []Tier
	Window     accounting.Window
}

// Enrich resolves name, email, account tiers, and per-partition usage for one
// username. Safe for concurrent use.
func (e *Enricher) Enrich(ctx context.Context, username string) Enrichment {
	enr := Enrichment{
		Name:             identity.DisplayName(e.Directory, username),
		Email:            identity.Email(e.Directory, username),
		AccountTiers:     e.accountTiers(username),
		UsageByPartition: make(map[string]accounting.Usage, len(e.Partitions)),
	}
	for _, partition := range e.Partitions {
		usage, err := e.Accounting.Usage(ctx, username, partition, e.Window)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user":      username,
				"partition": partition,
			}).Warn("accounting query failed, recording zero usage")
			usage = accounting.Usage{}
		}
		enr.UsageByPartition[partition] = usage
	}
	return enr
}

// accountTiers intersects the user's full group membership against the tier
// tables. Each matched tier contributes its canonical tag once, in
// declaration order.
func (e *Enricher) accountTiers(username string) []string {
	groups, err := e.Directory.Groups(username)
	if err != nil {
		log.WithError(err).WithField("user", username).
			Warn("group membership lookup failed, recording no account tiers")
		return nil
	}
	membership := set.FromSlice(groups)

	var tags []string
	for _, tier := range e.Tiers {
		if membership.ContainsAny(tier.Groups) {
			tags = append(tags, tier.Tag)
		}
	}
	return tags
}
