package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivitySnapshot carries an activity's scalar fields into visitor dispatch
// and across the persisted state boundary.
type ActivitySnapshot struct {
	ID       uuid.UUID
	Date     time.Time
	Type     ActivityType
	Duration time.Duration
	State    ActivityState
}

// ObligationSnapshot carries the subject-level obligation fields. Both
// candidate dates are included so stored state can round-trip: the effective
// date is the later of the two and must stay order independent after
// rehydration.
type ObligationSnapshot struct {
	Kind            ObligationKind
	EffectiveFrom   time.Time
	ApplicationDate *time.Time
	DecisionDate    *time.Time
	Active          bool
}

// Visitor is the read-only traversal contract every external projector
// implements: one callback per node kind. Traversal order is fixed by the
// timeline and approval log ordering invariants; a projector may ignore any
// subset of the calls. Projectors never mutate the aggregate.
type Visitor interface {
	VisitSubject(ident string, obligation *ObligationSnapshot)
	VisitPeriod(period PeriodSnapshot)
	VisitApprovalChange(periodID uuid.UUID, change ApprovalChange)
	VisitDay(periodID uuid.UUID, date time.Time)
	VisitActivity(periodID uuid.UUID, activity ActivitySnapshot)
}
