// Package quota parses the site's periodic storage quota snapshots.
package quota

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// headerLines is the fixed count of banner lines before the first data row.
const headerLines = 3

// Column positions in a snapshot data row. Trailing file-count columns are
// ignored.
const (
	colName = iota
	colPath
	colType
	colUsedGB
	colAvailableGB
	minColumns
)

// ErrMalformed indicates the snapshot file did not match the expected schema.
// Storage is a mandatory report section, so this is fatal.
var ErrMalformed = errors.New("quota snapshot is malformed")

// Snapshot is one parsed quota report: the group aggregate row plus per-user
// storage consumption.
type Snapshot struct {
	TotalUsedGB      int
	TotalAvailableGB int
	UsedByUser       map[string]int
}

// AllocationGB is the group's storage ceiling: what is used plus what remains.
func (s Snapshot) AllocationGB() int {
	return s.TotalUsedGB + s.TotalAvailableGB
}

// Load reads and parses the snapshot at the given path. A missing or
// unreadable file is fatal to the report; it is never defaulted away.
func Load(path string) (Snapshot, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "opening quota snapshot")
	}
	defer f.Close()

	snap, err := Parse(f)
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "parsing quota snapshot %s", path)
	}
	return snap, nil
}

// Parse reads a whitespace-delimited snapshot: a fixed number of header lines,
// one group aggregate row, then one row per user. The aggregate row supplies
// the totals and is excluded from the per-user mapping.
func Parse(r io.Reader) (Snapshot, error) {
	snap := Snapshot{UsedByUser: map[string]int{}}
	scanner := bufio.NewScanner(r)

	var line int
	var sawAggregate bool
	for scanner.Scan() {
		line++
		if line <= headerLines {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < minColumns {
			return Snapshot{}, errors.Wrapf(ErrMalformed,
				"line %d has %d columns, expected at least %d", line, len(fields), minColumns)
		}

		used, err := parseGB(fields[colUsedGB])
		if err != nil {
			return Snapshot{}, errors.Wrapf(err, "line %d", line)
		}

		if !sawAggregate {
			available, err := parseGB(fields[colAvailableGB])
			if err != nil {
				return Snapshot{}, errors.Wrapf(err, "line %d", line)
			}
			snap.TotalUsedGB = used
			snap.TotalAvailableGB = available
			sawAggregate = true
			continue
		}
		snap.UsedByUser[fields[colName]] = used
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, errors.Wrap(err, "reading quota snapshot")
	}
	if !sawAggregate {
		return Snapshot{}, errors.Wrap(ErrMalformed, "no group aggregate row found")
	}
	return snap, nil
}

func parseGB(field string) (int, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "bad GB value %q", field)
	}
	if v < 0 {
		return 0, errors.Wrapf(ErrMalformed, "negative GB value %q", field)
	}
	return int(math.Round(v)), nil
}
