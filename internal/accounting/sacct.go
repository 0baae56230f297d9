package accounting

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const secondsPerHour = 3600

// Sacct implements Source by shelling out to the Slurm sacct utility.
type Sacct struct {
	// Path is the sacct binary to invoke, e.g. /usr/local/bin/sacct.
	Path string
}

// NewSacct returns a Source backed by the sacct binary at the given path.
func NewSacct(path string) *Sacct {
	if path == "" {
		path = "sacct"
	}
	return &Sacct{Path: path}
}

// Usage implements Source. It requests one CPUTimeRaw line per completed job
// (-X: whole jobs, not steps; -n: no header) and aggregates them.
func (s *Sacct) Usage(
	ctx context.Context, username, partition string, window Window,
) (Usage, error) {
	// #nosec G204
	cmd := exec.CommandContext(ctx, s.Path,
		"-u", username,
		"-S", window.Start.Format(DateFormat),
		"-E", window.End.Format(DateFormat),
		"-r", partition,
		"-X", "-n", "--format=CPUTimeRaw")
	out, err := cmd.Output()
	if err != nil {
		return Usage{}, errors.Wrapf(err, "error while executing %s for user %s on partition %s",
			s.Path, username, partition)
	}
	return parseCPUTimeRaw(out)
}

// parseCPUTimeRaw aggregates sacct CPUTimeRaw output: one integer of CPU
// seconds per job. CPU time is normalized to core-hours here, once, for the
// whole pipeline.
func parseCPUTimeRaw(out []byte) (Usage, error) {
	var jobs int
	var seconds int64
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		secs, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return Usage{}, errors.Wrapf(err, "parsing sacct CPUTimeRaw line %q", line)
		}
		jobs++
		seconds += secs
	}
	return Usage{
		JobCount:     jobs,
		CPUCoreHours: float64(seconds) / secondsPerHour,
	}, nil
}
