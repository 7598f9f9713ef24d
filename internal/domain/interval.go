package domain

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// MinuteRange is a half-open interval [Start, End) in minutes since midnight
type MinuteRange struct {
	Start int
	End   int
}

// NewMinuteRange builds a range from two wall-clock times
func NewMinuteRange(start, end types.TimeString) (MinuteRange, error) {
	s, err := start.Minutes()
	if err != nil {
		return MinuteRange{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	e, err := end.Minutes()
	if err != nil {
		return MinuteRange{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return MinuteRange{Start: s, End: e}, nil
}

// Empty reports whether the range has no positive length
func (r MinuteRange) Empty() bool {
	return r.End <= r.Start
}

// Overlaps uses half-open semantics: touching ranges do not overlap
func (r MinuteRange) Overlaps(other MinuteRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Contains reports whether other lies entirely within r
func (r MinuteRange) Contains(other MinuteRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// MergeRanges sorts ranges and joins the overlapping or adjacent ones
func MergeRanges(ranges []MinuteRange) []MinuteRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]MinuteRange, 0, len(ranges))
	for _, r := range ranges {
		if !r.Empty() {
			sorted = append(sorted, r)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var merged []MinuteRange
	for _, r := range sorted {
		last := len(merged) - 1
		if last >= 0 && r.Start <= merged[last].End {
			if r.End > merged[last].End {
				merged[last].End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// SubtractRanges removes every range in cut from base
func SubtractRanges(base, cut []MinuteRange) []MinuteRange {
	result := base
	for _, c := range cut {
		var next []MinuteRange
		for _, r := range result {
			if !r.Overlaps(c) {
				next = append(next, r)
				continue
			}
			if r.Start < c.Start {
				next = append(next, MinuteRange{Start: r.Start, End: c.Start})
			}
			if c.End < r.End {
				next = append(next, MinuteRange{Start: c.End, End: r.End})
			}
		}
		result = next
	}
	return result
}
