package halving

import (
	"errors"
	"testing"
	"time"

	"athProjector/internal/ports"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReferenceDateForYear(t *testing.T) {
	cal := NewCalendar()

	tests := []struct {
		name    string
		year    int
		want    time.Time
		wantErr bool
	}{
		{name: "first halving", year: 2012, want: date(2012, time.November, 28)},
		{name: "2024 halving", year: 2024, want: date(2024, time.May, 12)},
		{name: "future halving", year: 2028, want: date(2028, time.May, 12)},
		{name: "no halving that year", year: 2023, wantErr: true},
		{name: "before the first halving", year: 2008, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.ReferenceDateForYear(tt.year)
			if tt.wantErr {
				if !errors.Is(err, ports.ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysSinceLast(t *testing.T) {
	cal := NewCalendar()

	tests := []struct {
		name string
		asOf time.Time
		want int
	}{
		{name: "before first halving", asOf: date(2010, time.January, 1), want: 0},
		{name: "exactly on first halving", asOf: date(2012, time.November, 28), want: 0},
		{name: "ten days after first halving", asOf: date(2012, time.December, 8), want: 10},
		{name: "day after 2020 halving", asOf: date(2020, time.May, 12), want: 1},
		{name: "exactly on 2024 halving counts from 2020", asOf: date(2024, time.May, 12), want: 1462},
		{name: "after 2024 halving", asOf: date(2024, time.May, 22), want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.DaysSinceLast(tt.asOf); got != tt.want {
				t.Errorf("DaysSinceLast(%v) = %d, want %d", tt.asOf, got, tt.want)
			}
		})
	}
}

// Two dates between the same pair of halvings must differ by their calendar
// distance.
func TestDaysSinceLastDifference(t *testing.T) {
	cal := NewCalendar()
	d1 := date(2021, time.February, 1)
	d2 := date(2021, time.March, 15)

	diff := cal.DaysSinceLast(d2) - cal.DaysSinceLast(d1)
	want := int(d2.Sub(d1).Hours() / 24)
	if diff != want {
		t.Errorf("difference = %d, want %d", diff, want)
	}
}

func TestDatesIsACopy(t *testing.T) {
	cal := NewCalendar()
	dates := cal.Dates()
	if len(dates) != 5 {
		t.Fatalf("expected 5 halving dates, got %d", len(dates))
	}
	dates[0] = date(1999, time.January, 1)
	if cal.Dates()[0].Year() == 1999 {
		t.Error("Dates() must return a copy, calendar was mutated")
	}
}
