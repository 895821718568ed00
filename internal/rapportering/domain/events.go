package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventMeta carries the fields every inbound event has: a globally unique
// event id used for duplicate suppression, the external subject ident the
// event targets, and the producer's creation timestamp.
type EventMeta struct {
	EventID   uuid.UUID
	Ident     string
	CreatedAt time.Time
}

// Event is the closed set of inbound domain events. Subject.Handle
// type-switches over it; adding a kind is a compile-time-visible change at
// every consumption site.
type Event interface {
	Meta() EventMeta
	isEvent()
}

// ApplicationSubmitted signals that the claimant applied for benefits. The
// application date becomes a candidate for the reporting obligation.
type ApplicationSubmitted struct {
	EventMeta
	ApplicationDate time.Time
}

// ObligationDateDetermined carries an application-driven candidate date for
// when reporting became required.
type ObligationDateDetermined struct {
	EventMeta
	CandidateDate time.Time
}

// DecisionApproved carries the decision-driven candidate date.
type DecisionApproved struct {
	EventMeta
	EffectiveDate time.Time
}

// DecisionRejected ends the subject's reporting obligation.
type DecisionRejected struct {
	EventMeta
}

// NewCycleStarted opens a fresh reporting period starting at RangeStart.
type NewCycleStarted struct {
	EventMeta
	RangeStart time.Time
}

// ActivityRecorded places an activity on a day within an open period.
type ActivityRecorded struct {
	EventMeta
	PeriodID uuid.UUID
	Activity *Activity
}

// PeriodApproved records an approval decision on a period.
type PeriodApproved struct {
	EventMeta
	PeriodID      uuid.UUID
	Actor         Actor
	Justification string
}

// PeriodDeapproved revokes the live approval on a period.
type PeriodDeapproved struct {
	EventMeta
	PeriodID      uuid.UUID
	Actor         Actor
	Justification string
}

// PeriodSubmitted closes a period for edits and locks its activities.
type PeriodSubmitted struct {
	EventMeta
	PeriodID uuid.UUID
}

// PeriodCorrected supersedes an existing period with a fresh version.
type PeriodCorrected struct {
	EventMeta
	PriorPeriodID uuid.UUID
}

func (m EventMeta) Meta() EventMeta { return m }

func (ApplicationSubmitted) isEvent()     {}
func (ObligationDateDetermined) isEvent() {}
func (DecisionApproved) isEvent()         {}
func (DecisionRejected) isEvent()         {}
func (NewCycleStarted) isEvent()          {}
func (ActivityRecorded) isEvent()         {}
func (PeriodApproved) isEvent()           {}
func (PeriodDeapproved) isEvent()         {}
func (PeriodSubmitted) isEvent()          {}
func (PeriodCorrected) isEvent()          {}
