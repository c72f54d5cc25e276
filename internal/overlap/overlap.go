// Package overlap checks sets of time intervals, grouped by a key, for
// overlapping rows and for rows with zero or negative duration. It is a
// standalone data-quality check and does not depend on the cron engine.
package overlap

import (
	"crypto/rand"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

// Row is one time interval with a unique id and a grouping key. Intervals
// only conflict with other intervals in the same group.
type Row struct {
	ID       string
	GroupKey string
	StartAt  time.Time
	EndAt    time.Time
}

// NewRowID generates a ULID for rows coming from sources without their own
// unique key.
func NewRowID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ViolationKind classifies why a row was flagged.
type ViolationKind string

const (
	KindOverlap          ViolationKind = "overlap"
	KindZeroDuration     ViolationKind = "zero_duration"
	KindNegativeDuration ViolationKind = "negative_duration"
)

// Violation flags one offending row. For overlaps, Other points at one of the
// rows it conflicts with.
type Violation struct {
	Kind  ViolationKind
	Row   Row
	Other *Row
}

// Opts controls the check.
type Opts struct {
	// AllowZeroDuration accepts rows whose start and end coincide instead of
	// flagging them. Such rows still participate in the overlap scan.
	AllowZeroDuration bool
	// Pairwise disables the pre-fanned sweep and compares every pair of rows
	// within a group. Both paths flag the same rows; the sweep is just
	// O(n log n) instead of O(n^2).
	Pairwise bool
}

// overlaps reports whether two intervals conflict. Intervals are treated as
// half-open, so touching endpoints do not overlap.
func overlaps(a, b Row) bool {
	return a.StartAt.Before(b.EndAt) && b.StartAt.Before(a.EndAt)
}

// Check flags rows with invalid durations, then scans each group for
// overlapping intervals. Each row is flagged at most once per kind.
// Violations come back sorted by group key, then row ID, then kind.
func Check(rows []Row, opts Opts) []Violation {
	var out []Violation

	groups := make(map[string][]Row)
	for _, r := range rows {
		switch {
		case r.EndAt.Before(r.StartAt):
			out = append(out, Violation{Kind: KindNegativeDuration, Row: r})
		case r.EndAt.Equal(r.StartAt) && !opts.AllowZeroDuration:
			out = append(out, Violation{Kind: KindZeroDuration, Row: r})
		default:
			groups[r.GroupKey] = append(groups[r.GroupKey], r)
		}
	}

	for _, group := range groups {
		if opts.Pairwise {
			out = append(out, scanPairwise(group)...)
		} else {
			out = append(out, scanSweep(group)...)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Row.GroupKey != b.Row.GroupKey {
			return a.Row.GroupKey < b.Row.GroupKey
		}
		if a.Row.ID != b.Row.ID {
			return a.Row.ID < b.Row.ID
		}
		return a.Kind < b.Kind
	})
	return out
}

// scanSweep sorts a group by start time and walks it once, carrying the row
// with the furthest end seen so far. Any row starting before that end
// overlaps it.
func scanSweep(group []Row) []Violation {
	sorted := make([]Row, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].StartAt.Equal(sorted[j].StartAt) {
			return sorted[i].StartAt.Before(sorted[j].StartAt)
		}
		// At equal starts, shorter rows go first. A zero-duration row can
		// only overlap a strictly earlier interval, so the running max must
		// not advance past it to a same-start sibling before its turn.
		if !sorted[i].EndAt.Equal(sorted[j].EndAt) {
			return sorted[i].EndAt.Before(sorted[j].EndAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	var out []Violation
	flagged := make(map[string]bool)
	flag := func(r Row, other Row) {
		if flagged[r.ID] {
			return
		}
		flagged[r.ID] = true
		o := other
		out = append(out, Violation{Kind: KindOverlap, Row: r, Other: &o})
	}

	maxRow := sorted[0]
	for _, r := range sorted[1:] {
		if r.StartAt.Before(maxRow.EndAt) && overlaps(r, maxRow) {
			flag(r, maxRow)
			flag(maxRow, r)
		}
		if r.EndAt.After(maxRow.EndAt) {
			maxRow = r
		}
	}
	return out
}

// scanPairwise compares every pair of rows in a group.
func scanPairwise(group []Row) []Violation {
	var out []Violation
	flagged := make(map[string]bool)
	flag := func(r Row, other Row) {
		if flagged[r.ID] {
			return
		}
		flagged[r.ID] = true
		o := other
		out = append(out, Violation{Kind: KindOverlap, Row: r, Other: &o})
	}

	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			if overlaps(group[i], group[j]) {
				flag(group[i], group[j])
				flag(group[j], group[i])
			}
		}
	}
	return out
}
