// Package accounting queries per-user job accounting data from the scheduler.
package accounting

import (
	"context"
	"time"
)

// DateFormat is the wire format for report period bounds.
const DateFormat = "2006-01-02"

// Usage is the aggregate of one user's completed jobs on one partition over
// the report window.
type Usage struct {
	JobCount     int     `json:"job_count"`
	CPUCoreHours float64 `json:"cpu_core_hours"`
}

// Window is the report period.
type Window struct {
	Start time.Time
	End   time.Time
}

// String renders the window with DateFormat bounds.
func (w Window) String() string {
	return w.Start.Format(DateFormat) + " to " + w.End.Format(DateFormat)
}

// Source produces accounting data. An empty result is valid zero usage, not an
// error; callers degrade errors to zero usage per the report's defaulting
// policy.
type Source interface {
	Usage(ctx context.Context, username, partition string, window Window) (Usage, error)
}
