// Package options contains the configurable options of the groupreport CLI.
package options

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/oscar-hpc/groupreport/internal/accounting"
	"github.com/oscar-hpc/groupreport/internal/report"
	"github.com/oscar-hpc/groupreport/pkg/check"
)

// Options stores all the configurable options for a report run.
type Options struct {
	ConfigFile string `json:"config_file"`

	Group string `json:"group"`
	Start string `json:"start"`
	End   string `json:"end"`

	QuotaDir  string `json:"quota_dir"`
	QuotaPath string `json:"quota_path"`
	Output    string `json:"output"`
	SacctPath string `json:"sacct_path"`

	Partitions []string      `json:"partitions"`
	Tiers      []report.Tier `json:"tiers"`

	StorageTopN int `json:"storage_top_n"`
	UsageTopN   int `json:"usage_top_n"`
	PageSize    int `json:"page_size"`
	Concurrency int `json:"concurrency"`
}

// DefaultOptions returns the default report options.
func DefaultOptions() *Options {
	return &Options{
		QuotaDir:    "/gpfs/data/ccvstaff/quota-reports",
		SacctPath:   "/usr/local/bin/sacct",
		Partitions:  report.DefaultPartitions(),
		Tiers:       report.DefaultTiers(),
		StorageTopN: 5,
		UsageTopN:   10,
		PageSize:    25,
		Concurrency: 8,
	}
}

// Resolve fills in the derived paths that depend on the group name.
func (o *Options) Resolve() {
	if o.QuotaPath == "" {
		o.QuotaPath = filepath.Join(o.QuotaDir, o.Group+"-quota-report.txt")
	}
	if o.Output == "" {
		o.Output = o.Group + "-report.txt"
	}
}

// Validate implements the check.Validatable interface.
func (o Options) Validate() []error {
	errs := []error{
		check.NotEmpty(o.Group, "a group name must be provided"),
		validDate(o.Start, "start (-S)"),
		validDate(o.End, "end (-E)"),
		check.GreaterThanOrEqualTo(o.Concurrency, 1, "concurrency must be at least 1"),
		check.GreaterThanOrEqualTo(o.PageSize, 2, "page size must be at least 2"),
		check.GreaterThanOrEqualTo(o.StorageTopN, 1, "storage top-n must be at least 1"),
		check.GreaterThanOrEqualTo(o.UsageTopN, 1, "usage top-n must be at least 1"),
	}
	if len(o.Partitions) == 0 {
		errs = append(errs, errors.New("at least one partition must be configured"))
	}
	if _, err := o.Window(); o.Start != "" && o.End != "" && err != nil {
		errs = append(errs, err)
	}
	return errs
}

// Window parses the report period bounds.
func (o Options) Window() (accounting.Window, error) {
	start, err := time.Parse(accounting.DateFormat, o.Start)
	if err != nil {
		return accounting.Window{}, errors.Wrap(err, "parsing start date")
	}
	end, err := time.Parse(accounting.DateFormat, o.End)
	if err != nil {
		return accounting.Window{}, errors.Wrap(err, "parsing end date")
	}
	if end.Before(start) {
		return accounting.Window{}, errors.Errorf(
			"end date %s is before start date %s", o.End, o.Start)
	}
	return accounting.Window{Start: start, End: end}, nil
}

// Printable returns a JSON representation of the options for logging.
func (o Options) Printable() (string, error) {
	bs, err := json.Marshal(o)
	if err != nil {
		return "", errors.Wrap(err, "unable to convert options to JSON")
	}
	return string(bs), nil
}

func validDate(value, name string) error {
	if value == "" {
		return errors.Errorf("a %s date must be provided", name)
	}
	if _, err := time.Parse(accounting.DateFormat, value); err != nil {
		return errors.Errorf("%s date %q must be formatted as YYYY-MM-DD", name, value)
	}
	return nil
}
