package domain

import "time"

// EligibilityPolicy decides which activity types may still be recorded for a
// date given elapsed time. Calendar policy lives outside the aggregate; the
// domain only consumes the result.
type EligibilityPolicy func(date, now time.Time) []ActivityType

// DefaultEligibilityPolicy allows every type for dates up to now; future
// dates take no activities.
func DefaultEligibilityPolicy(date, now time.Time) []ActivityType {
	if ToDate(date).After(ToDate(now)) {
		return nil
	}
	return ActivityTypes()
}

// Day is a calendar date within a period holding the activities recorded for
// it. Owned by Timeline; the date is the uniqueness key.
type Day struct {
	date       time.Time
	activities []*Activity
}

func newDay(date time.Time) *Day {
	return &Day{date: ToDate(date)}
}

func (d *Day) Date() time.Time { return d.date }

// Activities returns the recorded activities in placement order.
func (d *Day) Activities() []*Activity {
	out := make([]*Activity, len(d.activities))
	copy(out, d.activities)
	return out
}

// EligibleTypes reports the activity types still permissible for this date.
func (d *Day) EligibleTypes(now time.Time, policy EligibilityPolicy) []ActivityType {
	if policy == nil {
		policy = DefaultEligibilityPolicy
	}
	return policy(d.date, now)
}

func (d *Day) place(a *Activity) {
	d.activities = append(d.activities, a)
}

func (d *Day) lockAll() {
	for _, a := range d.activities {
		a.Lock()
	}
}
