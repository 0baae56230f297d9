// Package internal wires the report pipeline together: membership resolution,
// the per-user enrichment fan-out, the quota load, and the merge, summarize,
// paginate, render stages.
package internal

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/oscar-hpc/groupreport/internal/accounting"
	"github.com/oscar-hpc/groupreport/internal/identity"
	"github.com/oscar-hpc/groupreport/internal/options"
	"github.com/oscar-hpc/groupreport/internal/quota"
	"github.com/oscar-hpc/groupreport/internal/render"
	"github.com/oscar-hpc/groupreport/internal/report"
	"github.com/oscar-hpc/groupreport/pkg/syncx/errgroupx"
)

// Collaborators are the external sources and sinks of the pipeline. They are
// injectable so the core can run against deterministic fakes in tests.
type Collaborators struct {
	Directory  identity.Directory
	Accounting accounting.Source
	LoadQuota  func(path string) (quota.Snapshot, error)
	Renderer   render.Renderer
}

// Run generates one report with the production collaborators.
func Run(ctx context.Context, version string, opts *options.Options) error {
	renderer, err := render.NewText()
	if err != nil {
		return err
	}
	log.Infof("groupreport %s", version)
	return run(ctx, opts, Collaborators{
		Directory:  identity.Getent{},
		Accounting: accounting.NewSacct(opts.SacctPath),
		LoadQuota:  quota.Load,
		Renderer:   renderer,
	})
}

func run(ctx context.Context, opts *options.Options, c Collaborators) error {
	runID := uuid.NewString()
	logger := log.WithFields(log.Fields{"group": opts.Group, "run_id": runID})

	printableConfig, err := opts.Printable()
	if err != nil {
		return err
	}
	logger.Infof("report configuration: %s", printableConfig)

	window, err := opts.Window()
	if err != nil {
		return err
	}

	members, err := identity.ResolveMembers(c.Directory, opts.Group)
	if err != nil {
		return errors.Wrapf(err, "resolving members of group %s", opts.Group)
	}
	logger.Infof("resolved %d members", len(members))

	usernames := make([]string, 0, len(members))
	for name := range members {
		usernames = append(usernames, name)
	}
	sort.Strings(usernames)

	enricher := &report.Enricher{
		Directory:  c.Directory,
		Accounting: c.Accounting,
		Partitions: opts.Partitions,
		Tiers:      opts.Tiers,
		Window:     window,
	}

	// Fan out the per-user enrichment alongside the quota load, bounded so
	// the accounting backend is not overwhelmed. Wait is the merge barrier:
	// nothing downstream runs on partial results. Enrichment tasks degrade
	// internally and never fail; only the quota load can abort here.
	enrichments := make([]report.Enrichment, len(usernames))
	var snap quota.Snapshot
	group := errgroupx.WithContext(ctx).WithLimit(opts.Concurrency)
	for i, username := range usernames {
		i, username := i, username
		group.Go(func(ctx context.Context) error {
			enrichments[i] = enricher.Enrich(ctx, username)
			return nil
		})
	}
	group.Go(func(context.Context) error {
		var err error
		snap, err = c.LoadQuota(opts.QuotaPath)
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}

	byUser := make(map[string]report.Enrichment, len(usernames))
	for i, username := range usernames {
		byUser[username] = enrichments[i]
	}

	records, err := report.Merge(members, byUser, snap.UsedByUser)
	if err != nil {
		return err
	}

	topUsage := make(map[string][]report.RankedEntry, len(opts.Partitions))
	for _, partition := range opts.Partitions {
		topUsage[partition] = report.TopUsage(records, partition, opts.UsageTopN)
	}

	doc := render.Document{
		Group:       opts.Group,
		Window:      window,
		GeneratedAt: time.Now(),
		RunID:       runID,
		Summary:     report.Summarize(records, snap.AllocationGB()),
		Tiers:       opts.Tiers,
		Partitions:  opts.Partitions,
		TopStorage:  report.TopStorage(records, opts.StorageTopN),
		TopUsage:    topUsage,
		Pages:       report.Pages(records, opts.PageSize),
	}

	out, err := os.Create(opts.Output)
	if err != nil {
		return errors.Wrapf(err, "creating report output %s", opts.Output)
	}
	defer out.Close()
	if err := c.Renderer.Render(out, doc); err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"members": len(records),
		"pages":   len(doc.Pages),
		"output":  opts.Output,
	}).Info("report written")
	return nil
}
