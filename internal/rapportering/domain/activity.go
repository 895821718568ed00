package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	dErrors "github.com/navikt/dp-rapportering/pkg/domain-errors"
)

// ActivityType is the closed set of declared day statuses.
type ActivityType string

const (
	ActivityWork     ActivityType = "work"
	ActivitySick     ActivityType = "sick"
	ActivityVacation ActivityType = "vacation"
	ActivityAbsence  ActivityType = "absence"
)

// ActivityTypes lists every type in declaration order.
func ActivityTypes() []ActivityType {
	return []ActivityType{ActivityWork, ActivitySick, ActivityVacation, ActivityAbsence}
}

// IsValid checks the type against the closed set.
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityWork, ActivitySick, ActivityVacation, ActivityAbsence:
		return true
	}
	return false
}

// TimeDenominated reports whether the type carries a duration. Only worked
// hours are time-denominated; the rest are whole-day markers.
func (t ActivityType) TimeDenominated() bool {
	return t == ActivityWork
}

// ActivityState gates mutation of a recorded activity.
type ActivityState string

const (
	ActivityOpen   ActivityState = "open"
	ActivityLocked ActivityState = "locked"
)

// Activity is a single day-level record of a claimant's declared status.
// Owned exclusively by its Day; once the owning period submits the activity
// locks and rejects further changes.
type Activity struct {
	id       uuid.UUID
	date     time.Time
	typ      ActivityType
	duration time.Duration
	state    ActivityState
}

// NewActivity validates and constructs an open activity.
func NewActivity(date time.Time, typ ActivityType, duration time.Duration) (*Activity, error) {
	if !typ.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown activity type %q", typ))
	}
	if duration < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "duration cannot be negative")
	}
	if duration > 0 && !typ.TimeDenominated() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("activity type %q is not time-denominated", typ))
	}
	return &Activity{
		id:       uuid.New(),
		date:     ToDate(date),
		typ:      typ,
		duration: duration,
		state:    ActivityOpen,
	}, nil
}

// RehydrateActivity reconstructs a stored activity without re-running
// transition side effects. Projector and store use only.
func RehydrateActivity(id uuid.UUID, date time.Time, typ ActivityType, duration time.Duration, state ActivityState) *Activity {
	return &Activity{
		id:       id,
		date:     ToDate(date),
		typ:      typ,
		duration: duration,
		state:    state,
	}
}

func (a *Activity) ID() uuid.UUID           { return a.id }
func (a *Activity) Date() time.Time         { return a.date }
func (a *Activity) Type() ActivityType      { return a.typ }
func (a *Activity) Duration() time.Duration { return a.duration }
func (a *Activity) State() ActivityState    { return a.state }

// SetDuration changes the recorded duration. Fails once locked.
func (a *Activity) SetDuration(d time.Duration) error {
	if a.state == ActivityLocked {
		return fmt.Errorf("%w: activity %s is locked", ErrIllegalTransition, a.id)
	}
	if d < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "duration cannot be negative")
	}
	if d > 0 && !a.typ.TimeDenominated() {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("activity type %q is not time-denominated", a.typ))
	}
	a.duration = d
	return nil
}

// SetType changes the declared status. Fails once locked; a non
// time-denominated target drops the duration.
func (a *Activity) SetType(typ ActivityType) error {
	if a.state == ActivityLocked {
		return fmt.Errorf("%w: activity %s is locked", ErrIllegalTransition, a.id)
	}
	if !typ.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown activity type %q", typ))
	}
	a.typ = typ
	if !typ.TimeDenominated() {
		a.duration = 0
	}
	return nil
}

// Lock makes the activity immutable. Invoked when the owning period submits;
// irreversible and idempotent.
func (a *Activity) Lock() {
	a.state = ActivityLocked
}
