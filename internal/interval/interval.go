// Package interval implements the time arithmetic the booking scheduler is
// built on: wall-clock minutes within a single day and half-open intervals
// over them. Everything here is pure; admission and any advisory pre-check
// must share these predicates so boundary behavior never diverges.
package interval

import (
	"fmt"
	"sort"
	"time"
)

const clockLayout = "15:04"

// Clock is a wall-clock time within a day, in minutes since midnight.
type Clock int

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Interval is a half-open time range [Start, End) on a single calendar day.
type Interval struct {
	Start Clock
	End   Clock
}

// Parse builds an Interval from "HH:MM" start and end strings. It does not
// check validity; callers decide whether to reject with Valid.
func Parse(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

// Valid reports whether the interval has positive length. Zero-length and
// inverted intervals are invalid.
func (iv Interval) Valid() bool {
	return iv.Start < iv.End
}

func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}

// Overlaps reports whether a and b share any instant. Half-open semantics:
// an interval ending exactly when another starts does not overlap it.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// AnyOverlap reports whether iv overlaps any interval in set.
func AnyOverlap(iv Interval, set []Interval) bool {
	for _, e := range set {
		if Overlaps(iv, e) {
			return true
		}
	}
	return false
}

// SortByStart orders set by ascending start time, in place.
func SortByStart(set []Interval) {
	sort.Slice(set, func(i, j int) bool {
		return set[i].Start < set[j].Start
	})
}
