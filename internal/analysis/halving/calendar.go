// Package halving provides the fixed Bitcoin halving calendar used as a
// date reference by the indicator and projection engines. The table is
// static configuration, never derived from market data.
package halving

import (
	"fmt"
	"time"

	"athProjector/internal/ports"
)

// Calendar is an immutable, ascending set of halving dates.
type Calendar struct {
	dates []time.Time
}

// NewCalendar returns the default calendar: the historical halvings plus the
// scheduled future ones.
func NewCalendar() *Calendar {
	return &Calendar{dates: []time.Time{
		time.Date(2012, time.November, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2016, time.July, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.May, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2028, time.May, 12, 0, 0, 0, 0, time.UTC),
	}}
}

// Dates returns a copy of the full halving date table, ascending.
func (c *Calendar) Dates() []time.Time {
	out := make([]time.Time, len(c.dates))
	copy(out, c.dates)
	return out
}

// ReferenceDateForYear returns the halving date whose calendar year equals
// year. Returns ports.ErrNotFound if the table has no entry for that year.
func (c *Calendar) ReferenceDateForYear(year int) (time.Time, error) {
	for _, d := range c.dates {
		if d.Year() == year {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("no halving date for year %d: %w", year, ports.ErrNotFound)
}

// DaysSinceLast returns the number of whole days between asOf and the most
// recent halving strictly before it. Returns 0 when asOf is at or before the
// first halving.
func (c *Calendar) DaysSinceLast(asOf time.Time) int {
	var last time.Time
	found := false
	for _, d := range c.dates {
		if d.Before(asOf) {
			last = d
			found = true
		}
	}
	if !found {
		return 0
	}
	return int(asOf.Sub(last).Hours() / 24)
}
