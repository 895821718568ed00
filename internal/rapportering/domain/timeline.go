package domain

import (
	"fmt"
	"sort"
	"time"
)

// Timeline owns the ordered day collection of a period. Days are created
// lazily as activities are placed and never outside the owning range.
type Timeline struct {
	start time.Time
	end   time.Time
	days  []*Day // sorted by date ascending, date is the uniqueness key
}

// NewTimeline builds an empty timeline spanning [start, end] inclusive.
func NewTimeline(start, end time.Time) *Timeline {
	return &Timeline{start: ToDate(start), end: ToDate(end)}
}

func (t *Timeline) Start() time.Time { return t.start }
func (t *Timeline) End() time.Time   { return t.end }

// Contains reports whether the date falls within the timeline's range.
func (t *Timeline) Contains(date time.Time) bool {
	d := ToDate(date)
	return !d.Before(t.start) && !d.After(t.end)
}

// PlaceActivity locates or creates the day for the activity's date and
// appends the activity to it.
func (t *Timeline) PlaceActivity(a *Activity) error {
	if !t.Contains(a.Date()) {
		return fmt.Errorf("%w: %s not in [%s, %s]",
			ErrOutOfRange,
			a.Date().Format(time.DateOnly),
			t.start.Format(time.DateOnly),
			t.end.Format(time.DateOnly))
	}
	t.dayAt(a.Date()).place(a)
	return nil
}

// Days returns the days oldest first. The returned slice is a copy, so the
// traversal is restartable without exposing mutable structure.
func (t *Timeline) Days() []*Day {
	out := make([]*Day, len(t.days))
	copy(out, t.days)
	return out
}

func (t *Timeline) dayAt(date time.Time) *Day {
	d := ToDate(date)
	idx := sort.Search(len(t.days), func(i int) bool {
		return !t.days[i].date.Before(d)
	})
	if idx < len(t.days) && t.days[idx].date.Equal(d) {
		return t.days[idx]
	}
	day := newDay(d)
	t.days = append(t.days, nil)
	copy(t.days[idx+1:], t.days[idx:])
	t.days[idx] = day
	return day
}

func (t *Timeline) lockAll() {
	for _, d := range t.days {
		d.lockAll()
	}
}
