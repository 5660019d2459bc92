// Package interval implements arithmetic on half-open time intervals
// [Start, End) at whole-second granularity.
package interval

import (
	"sort"
	"time"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// New builds an interval truncated to whole seconds.
func New(start, end time.Time) Interval {
	return Interval{Start: start.Truncate(time.Second), End: end.Truncate(time.Second)}
}

// Empty reports whether the interval covers no time. Malformed intervals
// (End <= Start) are empty.
func (i Interval) Empty() bool {
	return !i.End.After(i.Start)
}

// Duration returns the covered length, zero for empty intervals.
func (i Interval) Duration() time.Duration {
	if i.Empty() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Contains reports whether other lies entirely inside i.
func (i Interval) Contains(other Interval) bool {
	if i.Empty() || other.Empty() {
		return false
	}
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Overlaps reports a strict overlap: a.Start < b.End && a.End > b.Start.
// Touching endpoints do not overlap.
func Overlaps(a, b Interval) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Subtract removes cuts from base and returns the remaining pieces in
// ascending order. Cuts may overlap each other or extend past base.
func Subtract(base Interval, cuts ...Interval) []Interval {
	if base.Empty() {
		return nil
	}

	sorted := make([]Interval, 0, len(cuts))
	for _, c := range cuts {
		if !c.Empty() {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var pieces []Interval
	cursor := base.Start
	for _, c := range sorted {
		if !c.Start.Before(base.End) {
			break
		}
		if gap := (Interval{Start: cursor, End: c.Start}); !gap.Empty() {
			pieces = append(pieces, gap)
		}
		if c.End.After(cursor) {
			cursor = c.End
		}
	}
	if tail := (Interval{Start: cursor, End: base.End}); !tail.Empty() {
		pieces = append(pieces, tail)
	}
	return pieces
}

// DurationMinutes returns the whole minutes covered by i.
func DurationMinutes(i Interval) int {
	return int(i.Duration() / time.Minute)
}
