// Package series holds the time-series value types the toolkit works
// on: a single Series binding a time axis to its unit label and value
// array, and a Collection coordinating many series onto one shared unit.
//
// Series values are treated as immutable: every operation returns a new
// Series and leaves the receiver untouched, so a collection member held
// elsewhere never changes under its holder.
package series

import (
	"fmt"
	"sort"

	"github.com/quartzlab/tephra/internal/axis"
	"github.com/quartzlab/tephra/internal/timeunit"
)

// Series is one time series: a time axis, its unit label, and the value
// array bound one-to-one with the axis. The value array is owned by
// whoever built the series; conversion only ever permutes it in lockstep
// with the axis, never resizes or recomputes it.
type Series struct {
	// ID identifies the series to external bookkeeping (catalog rows,
	// collection results). Preserved verbatim by every operation.
	ID string

	// Name is a human-readable label for display.
	Name string

	// Time is the time axis. After any operation in this package it is
	// non-decreasing when read as forward-flowing astronomical time.
	Time []float64

	// Values is the bound value array. May be empty for a bare axis.
	Values []float64

	// TimeUnit is the raw unit label ("yrs BP", "ka", ...). Empty means
	// the default year-CE convention.
	TimeUnit string

	TimeName  string
	ValueName string
	ValueUnit string
}

// Len returns the number of points on the time axis.
func (s Series) Len() int { return len(s.Time) }

// Descriptor resolves the series' unit label. An empty label resolves to
// the default year-CE convention.
func (s Series) Descriptor() (timeunit.Descriptor, error) {
	return timeunit.Resolve(s.TimeUnit)
}

// Clone returns a deep copy of the series.
func (s Series) Clone() Series {
	out := s
	out.Time = append([]float64(nil), s.Time...)
	out.Values = append([]float64(nil), s.Values...)
	return out
}

// ConvertTimeUnit re-expresses the series under the target unit label.
// It returns the converted series and whether the axis (and values, in
// lockstep) had to be reversed to stay ascending. The receiver is not
// modified. An empty target returns an unchanged copy.
//
// Fails with *timeunit.UnrecognizedUnitError when either the current or
// the target label is unknown, and with *axis.ShapeMismatchError when a
// non-empty value array does not match the axis length.
func (s Series) ConvertTimeUnit(target string) (Series, bool, error) {
	if target == "" {
		return s.Clone(), false, nil
	}

	from, err := s.Descriptor()
	if err != nil {
		return Series{}, false, fmt.Errorf("series %s: %w", s.ID, err)
	}
	to, err := timeunit.Resolve(target)
	if err != nil {
		return Series{}, false, err
	}

	newTime, reordered := axis.Convert(s.Time, from, to)

	out := s
	out.Time = newTime
	out.TimeUnit = target

	if len(s.Values) == 0 {
		out.Values = nil
		return out, reordered, nil
	}
	newValues, err := axis.ApplyReorder(s.Values, len(newTime), reordered)
	if err != nil {
		return Series{}, false, fmt.Errorf("series %s: %w", s.ID, err)
	}
	out.Values = newValues
	return out, reordered, nil
}

// SortByTime returns a copy of the series sorted ascending by time, with
// the value array permuted in lockstep. Raw files are not guaranteed to
// arrive ordered; ingestion runs this before anything else touches the
// axis. Fails with *axis.ShapeMismatchError when a non-empty value array
// does not match the axis length.
func (s Series) SortByTime() (Series, error) {
	if len(s.Values) > 0 && len(s.Values) != len(s.Time) {
		return Series{}, fmt.Errorf("series %s: %w", s.ID,
			&axis.ShapeMismatchError{AxisLen: len(s.Time), ValuesLen: len(s.Values)})
	}

	idx := make([]int, len(s.Time))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Time[idx[a]] < s.Time[idx[b]]
	})

	out := s
	out.Time = make([]float64, len(s.Time))
	for i, j := range idx {
		out.Time[i] = s.Time[j]
	}
	if len(s.Values) > 0 {
		out.Values = make([]float64, len(s.Values))
		for i, j := range idx {
			out.Values[i] = s.Values[j]
		}
	} else {
		out.Values = append([]float64(nil), s.Values...)
	}
	return out, nil
}
