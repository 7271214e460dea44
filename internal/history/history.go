// Package history turns completed tasks into per-day completion counts for
// the calendar heat map.
package history

import (
	"sort"
	"time"

	"github.com/existflow/ironfocus/internal/model"
)

// DateLayout is the day key format
const DateLayout = "2006-01-02"

// Day is a calendar date in the rendering location
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf truncates t to its calendar day in loc
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// String formats the day as YYYY-MM-DD
func (d Day) String() string {
	return d.Time(time.UTC).Format(DateLayout)
}

// Time returns midnight of the day in loc
func (d Day) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is an earlier date than o
func (d Day) Before(o Day) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Value is one heat map cell: a day and how many tasks were completed on it
type Value struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Heatmap holds completion counts per day. Days without completions are absent.
type Heatmap struct {
	loc    *time.Location
	counts map[Day]int
}

// Aggregate buckets completed tasks by the local day they were completed.
// Active tasks are skipped. The result does not depend on input order.
func Aggregate(tasks []model.Task, loc *time.Location) Heatmap {
	if loc == nil {
		loc = time.Local
	}

	h := Heatmap{loc: loc, counts: make(map[Day]int)}
	for i := range tasks {
		if tasks[i].IsActive {
			continue
		}
		h.counts[DayOf(tasks[i].CompletedAt(), loc)]++
	}
	return h
}

// Count returns the completions on day
func (h Heatmap) Count(day Day) int {
	return h.counts[day]
}

// CountAt returns the completions on the local day containing t
func (h Heatmap) CountAt(t time.Time) int {
	return h.counts[DayOf(t, h.loc)]
}

// Counts returns a copy of the sparse day to count mapping
func (h Heatmap) Counts() map[Day]int {
	out := make(map[Day]int, len(h.counts))
	for d, n := range h.counts {
		out[d] = n
	}
	return out
}

// Values returns the list-of-pairs form, oldest day first
func (h Heatmap) Values() []Value {
	days := make([]Day, 0, len(h.counts))
	for d := range h.counts {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	values := make([]Value, 0, len(days))
	for _, d := range days {
		values = append(values, Value{Date: d.String(), Count: h.counts[d]})
	}
	return values
}

// Len returns the number of days with at least one completion
func (h Heatmap) Len() int {
	return len(h.counts)
}

// Total returns the number of completions across all days
func (h Heatmap) Total() int {
	total := 0
	for _, n := range h.counts {
		total += n
	}
	return total
}

// Location returns the location days are computed in
func (h Heatmap) Location() *time.Location {
	if h.loc == nil {
		return time.Local
	}
	return h.loc
}

// Level maps a day count to a color bucket: 0 empty, 1, 2, and 3 for three or more
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count >= 3:
		return 3
	default:
		return count
	}
}

// Window returns the first and last day of a heat map spanning months
// back from end, inclusive of both ends.
func Window(end time.Time, months int, loc *time.Location) (Day, Day) {
	if loc == nil {
		loc = time.Local
	}
	end = end.In(loc)

	// Step back whole months, clamping to the target month's last day
	// (Aug 31 minus 6 months is Feb 28, not Mar 3).
	y, m, d := end.Date()
	first := time.Date(y, m-time.Month(months), 1, 0, 0, 0, 0, loc)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	start := Day{Year: first.Year(), Month: first.Month(), Day: d}
	return start, DayOf(end, loc)
}

// IsZero reports whether d is the zero Day
func (d Day) IsZero() bool {
	return d == Day{}
}

// Weeks lays the days from first to last out as calendar columns, Sunday
// first. Slots before first and after last hold the zero Day.
func Weeks(first, last Day) [][7]Day {
	if last.Before(first) {
		return nil
	}

	start := first.Time(time.UTC)
	end := last.Time(time.UTC)
	// Back up to the Sunday that opens the first column.
	cur := start.AddDate(0, 0, -int(start.Weekday()))

	var weeks [][7]Day
	for !cur.After(end) {
		var week [7]Day
		for i := 0; i < 7; i++ {
			if !cur.Before(start) && !cur.After(end) {
				week[i] = DayOf(cur, time.UTC)
			}
			cur = cur.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}
