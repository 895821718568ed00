package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PeriodState is the aggregate's primary lifecycle state. It governs edit
// permission; the approved state is derived from the ApprovalLog.
type PeriodState string

const (
	PeriodAwaitingCompletion PeriodState = "awaiting_completion"
	PeriodSubmittedState     PeriodState = "submitted"
)

// PeriodLengthDays is the fixed reporting cycle length.
const PeriodLengthDays = 14

// DeadlineStrategy computes the date after which totals may be computed from
// a period's boundaries. Injected at creation time so calendar policy stays
// replaceable without touching the state machine.
type DeadlineStrategy func(rangeStart, rangeEnd time.Time) time.Time

// DefaultDeadlineStrategy allows computing totals from the day after the
// period ends.
func DefaultDeadlineStrategy(_, rangeEnd time.Time) time.Time {
	return ToDate(rangeEnd).AddDate(0, 0, 1)
}

// CarryForwardPolicy decides which timeline content carries forward from a
// corrected period to its successor. The exact product rule is still under
// clarification, so it is injected like the deadline strategy.
type CarryForwardPolicy func(prior, successor *ReportingPeriod) error

// CopyOpenActivities re-records every activity of the prior period on the
// successor as open activities, so the correction starts from the declared
// state and remains editable.
func CopyOpenActivities(prior, successor *ReportingPeriod) error {
	for _, day := range prior.Timeline().Days() {
		for _, act := range day.Activities() {
			copied, err := NewActivity(act.Date(), act.Type(), act.Duration())
			if err != nil {
				return err
			}
			if err := successor.timeline.PlaceActivity(copied); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReportingPeriod is the aggregate combining a date range, a timeline, an
// approval log, a lifecycle state, and optional links to a prior or
// succeeding corrected version. Never deleted, only superseded.
type ReportingPeriod struct {
	id             uuid.UUID
	start          time.Time
	end            time.Time
	computeAfter   time.Time
	state          PeriodState
	approvableFrom *time.Time
	timeline       *Timeline
	approvals      *ApprovalLog
	corrects       *uuid.UUID
	correctedBy    *uuid.UUID
}

// NewReportingPeriod opens a period in AwaitingCompletion covering
// PeriodLengthDays from rangeStart.
func NewReportingPeriod(rangeStart time.Time, strategy DeadlineStrategy) *ReportingPeriod {
	if strategy == nil {
		strategy = DefaultDeadlineStrategy
	}
	start := ToDate(rangeStart)
	end := start.AddDate(0, 0, PeriodLengthDays-1)
	return &ReportingPeriod{
		id:           uuid.New(),
		start:        start,
		end:          end,
		computeAfter: strategy(start, end),
		state:        PeriodAwaitingCompletion,
		timeline:     NewTimeline(start, end),
		approvals:    NewApprovalLog(),
	}
}

// PeriodSnapshot carries the scalar fields of a period across the persisted
// state boundary and into visitor dispatch.
type PeriodSnapshot struct {
	ID             uuid.UUID
	Start          time.Time
	End            time.Time
	ComputeAfter   time.Time
	State          PeriodState
	ApprovableFrom *time.Time
	Corrects       *uuid.UUID
	CorrectedBy    *uuid.UUID
}

// RehydratePeriod reconstructs a period from its stored scalar fields plus
// previously recorded approval changes and activities. The result is
// indistinguishable from a live-built aggregate for all read operations, but
// no transition side effects are re-fired.
func RehydratePeriod(snap PeriodSnapshot, changes []ApprovalChange, activities []*Activity) (*ReportingPeriod, error) {
	p := &ReportingPeriod{
		id:           snap.ID,
		start:        ToDate(snap.Start),
		end:          ToDate(snap.End),
		computeAfter: ToDate(snap.ComputeAfter),
		state:        snap.State,
		timeline:     NewTimeline(snap.Start, snap.End),
		approvals:    RehydrateApprovalLog(changes),
		corrects:     snap.Corrects,
		correctedBy:  snap.CorrectedBy,
	}
	if snap.ApprovableFrom != nil {
		from := ToDate(*snap.ApprovableFrom)
		p.approvableFrom = &from
	}
	for _, a := range activities {
		if err := p.timeline.PlaceActivity(a); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *ReportingPeriod) ID() uuid.UUID             { return p.id }
func (p *ReportingPeriod) Start() time.Time          { return p.start }
func (p *ReportingPeriod) End() time.Time            { return p.end }
func (p *ReportingPeriod) ComputeAfter() time.Time   { return p.computeAfter }
func (p *ReportingPeriod) State() PeriodState        { return p.state }
func (p *ReportingPeriod) Timeline() *Timeline       { return p.timeline }
func (p *ReportingPeriod) Approvals() *ApprovalLog   { return p.approvals }
func (p *ReportingPeriod) Corrects() *uuid.UUID      { return cloneID(p.corrects) }
func (p *ReportingPeriod) CorrectedBy() *uuid.UUID   { return cloneID(p.correctedBy) }
func (p *ReportingPeriod) ApprovableFrom() *time.Time {
	if p.approvableFrom == nil {
		return nil
	}
	from := *p.approvableFrom
	return &from
}

// Snapshot returns the period's scalar fields.
func (p *ReportingPeriod) Snapshot() PeriodSnapshot {
	return PeriodSnapshot{
		ID:             p.id,
		Start:          p.start,
		End:            p.end,
		ComputeAfter:   p.computeAfter,
		State:          p.state,
		ApprovableFrom: p.ApprovableFrom(),
		Corrects:       cloneID(p.corrects),
		CorrectedBy:    cloneID(p.correctedBy),
	}
}

// RecordActivity places an activity on the timeline. Rejected once the period
// left AwaitingCompletion.
func (p *ReportingPeriod) RecordActivity(a *Activity) error {
	if p.state != PeriodAwaitingCompletion {
		return fmt.Errorf("%w: period %s is %s", ErrPeriodClosed, p.id, p.state)
	}
	return p.timeline.PlaceActivity(a)
}

// Approve records an approval. After a de-approval a fresh approval is gated
// by the recomputed eligibility date.
func (p *ReportingPeriod) Approve(actor Actor, justification string, now time.Time) error {
	if p.approvableFrom != nil && ToDate(now).Before(*p.approvableFrom) {
		return fmt.Errorf("%w: approvable from %s", ErrNotYetApprovable, p.approvableFrom.Format(time.DateOnly))
	}
	return p.approvals.RecordApproval(actor, justification, now)
}

// Deapprove revokes the live approval and recomputes the approvable-from
// gate.
func (p *ReportingPeriod) Deapprove(actor Actor, justification string, now time.Time) error {
	if err := p.approvals.RecordDeapproval(actor, justification, now); err != nil {
		return err
	}
	if from, ok := p.approvals.NextApprovableFrom(); ok {
		p.approvableFrom = &from
	}
	return nil
}

// Submit closes the period for edits and locks every activity. Re-submission
// of an already submitted period is a no-op.
func (p *ReportingPeriod) Submit() error {
	if p.state == PeriodSubmittedState {
		return nil
	}
	p.state = PeriodSubmittedState
	p.timeline.lockAll()
	return nil
}

// Correct produces the successor period superseding this one. The caller
// (Subject) establishes the back-reference only when the correction source
// matches the owner.
func (p *ReportingPeriod) Correct(strategy DeadlineStrategy, carry CarryForwardPolicy) (*ReportingPeriod, error) {
	if p.correctedBy != nil {
		return nil, fmt.Errorf("%w: period %s superseded by %s", ErrAlreadyCorrected, p.id, *p.correctedBy)
	}
	successor := NewReportingPeriod(p.start, strategy)
	prior := p.id
	successor.corrects = &prior
	if carry != nil {
		if err := carry(p, successor); err != nil {
			return nil, err
		}
	}
	return successor, nil
}

// markCorrectedBy establishes the successor back-reference.
func (p *ReportingPeriod) markCorrectedBy(successor uuid.UUID) {
	p.correctedBy = &successor
}

// Accept drives visitor dispatch: the period's scalar fields first, then
// each approval change in emission order, then each day oldest first with its
// activities. Each entity is visited exactly once.
func (p *ReportingPeriod) Accept(v Visitor) {
	v.VisitPeriod(p.Snapshot())
	for _, change := range p.approvals.Changes() {
		v.VisitApprovalChange(p.id, change)
	}
	for _, day := range p.timeline.Days() {
		v.VisitDay(p.id, day.Date())
		for _, act := range day.Activities() {
			v.VisitActivity(p.id, ActivitySnapshot{
				ID:       act.ID(),
				Date:     act.Date(),
				Type:     act.Type(),
				Duration: act.Duration(),
				State:    act.State(),
			})
		}
	}
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	out := *id
	return &out
}
