package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ObligationKind says which candidate date established the reporting
// obligation.
type ObligationKind string

const (
	ObligationApplicationDriven ObligationKind = "application_driven"
	ObligationDecisionDriven    ObligationKind = "decision_driven"
)

// obligation tracks both candidate dates so the later-wins rule stays order
// independent across event arrival and replay.
type obligation struct {
	applicationDate *time.Time
	decisionDate    *time.Time
	active          bool
}

func (o *obligation) snapshot() *ObligationSnapshot {
	if o.applicationDate == nil && o.decisionDate == nil {
		return nil
	}
	snap := &ObligationSnapshot{
		ApplicationDate: cloneDate(o.applicationDate),
		DecisionDate:    cloneDate(o.decisionDate),
		Active:          o.active,
	}
	switch {
	case o.applicationDate != nil && o.decisionDate != nil:
		snap.EffectiveFrom = laterOf(*o.applicationDate, *o.decisionDate)
		snap.Kind = ObligationDecisionDriven
		if o.applicationDate.After(*o.decisionDate) {
			snap.Kind = ObligationApplicationDriven
		}
	case o.applicationDate != nil:
		snap.EffectiveFrom = *o.applicationDate
		snap.Kind = ObligationApplicationDriven
	default:
		snap.EffectiveFrom = *o.decisionDate
		snap.Kind = ObligationDecisionDriven
	}
	return snap
}

// Subject is the claimant aggregate root: the standing reporting obligation
// plus every reporting period it owns. Created on the first qualifying event
// and never deleted.
type Subject struct {
	ident       string
	obligation  obligation
	periods     []*ReportingPeriod
	strategy    DeadlineStrategy
	carry       CarryForwardPolicy
	eligibility EligibilityPolicy
}

// SubjectOption configures aggregate policies at construction time.
type SubjectOption func(*Subject)

// WithDeadlineStrategy replaces the compute-after rule used at period
// creation.
func WithDeadlineStrategy(strategy DeadlineStrategy) SubjectOption {
	return func(s *Subject) {
		if strategy != nil {
			s.strategy = strategy
		}
	}
}

// WithCarryForwardPolicy replaces the timeline carry-forward rule applied
// when a correction is created.
func WithCarryForwardPolicy(policy CarryForwardPolicy) SubjectOption {
	return func(s *Subject) {
		if policy != nil {
			s.carry = policy
		}
	}
}

// WithEligibilityPolicy replaces the per-day activity type eligibility rule.
func WithEligibilityPolicy(policy EligibilityPolicy) SubjectOption {
	return func(s *Subject) {
		if policy != nil {
			s.eligibility = policy
		}
	}
}

// NewSubject creates an empty aggregate for the external subject ident.
func NewSubject(ident string, opts ...SubjectOption) *Subject {
	s := &Subject{
		ident:       ident,
		strategy:    DefaultDeadlineStrategy,
		carry:       CopyOpenActivities,
		eligibility: DefaultEligibilityPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RehydrateSubject reconstructs the aggregate from stored state without
// re-firing side effects.
func RehydrateSubject(ident string, snap *ObligationSnapshot, periods []*ReportingPeriod, opts ...SubjectOption) *Subject {
	s := NewSubject(ident, opts...)
	if snap != nil {
		s.obligation = obligation{
			applicationDate: cloneDate(snap.ApplicationDate),
			decisionDate:    cloneDate(snap.DecisionDate),
			active:          snap.Active,
		}
	}
	s.periods = append(s.periods, periods...)
	return s
}

func (s *Subject) Ident() string { return s.ident }

// Obligation returns the derived obligation state, or nil when no qualifying
// event has arrived yet.
func (s *Subject) Obligation() *ObligationSnapshot {
	return s.obligation.snapshot()
}

// EligibilityPolicy exposes the day eligibility rule for projectors.
func (s *Subject) EligibilityPolicy() EligibilityPolicy {
	return s.eligibility
}

// Periods returns every owned period, including unexposed draft corrections.
func (s *Subject) Periods() []*ReportingPeriod {
	out := make([]*ReportingPeriod, len(s.periods))
	copy(out, s.periods)
	return out
}

// ExposedPeriods filters out draft corrections: a period in
// AwaitingCompletion that supersedes another without the successor
// relationship established yet must not be exposed.
func (s *Subject) ExposedPeriods() []*ReportingPeriod {
	out := make([]*ReportingPeriod, 0, len(s.periods))
	for _, p := range s.periods {
		if s.isDraftCorrection(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Subject) isDraftCorrection(p *ReportingPeriod) bool {
	if p.State() != PeriodAwaitingCompletion || p.Corrects() == nil {
		return false
	}
	prior := s.periodByID(*p.Corrects())
	if prior == nil {
		return true
	}
	back := prior.CorrectedBy()
	return back == nil || *back != p.ID()
}

// PeriodByID looks up an owned period.
func (s *Subject) PeriodByID(id uuid.UUID) (*ReportingPeriod, bool) {
	p := s.periodByID(id)
	return p, p != nil
}

func (s *Subject) periodByID(id uuid.UUID) *ReportingPeriod {
	for _, p := range s.periods {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// Handle is the single mutation entry point. It type-switches on the event
// kind and delegates to the targeted period or to subject-level logic. Event
// application is atomic: preconditions are validated before any state
// changes, so a failure leaves the aggregate untouched.
func (s *Subject) Handle(event Event) error {
	switch ev := event.(type) {
	case ApplicationSubmitted:
		date := ToDate(ev.ApplicationDate)
		s.obligation.applicationDate = &date
		s.obligation.active = true
		return nil

	case ObligationDateDetermined:
		date := ToDate(ev.CandidateDate)
		s.obligation.applicationDate = &date
		s.obligation.active = true
		return nil

	case DecisionApproved:
		date := ToDate(ev.EffectiveDate)
		s.obligation.decisionDate = &date
		s.obligation.active = true
		return nil

	case DecisionRejected:
		s.obligation.active = false
		return nil

	case NewCycleStarted:
		s.periods = append(s.periods, NewReportingPeriod(ev.RangeStart, s.strategy))
		return nil

	case ActivityRecorded:
		period, err := s.resolvePeriod(ev.PeriodID)
		if err != nil {
			return err
		}
		return period.RecordActivity(ev.Activity)

	case PeriodApproved:
		period, err := s.resolvePeriod(ev.PeriodID)
		if err != nil {
			return err
		}
		return period.Approve(ev.Actor, ev.Justification, ev.CreatedAt)

	case PeriodDeapproved:
		period, err := s.resolvePeriod(ev.PeriodID)
		if err != nil {
			return err
		}
		return period.Deapprove(ev.Actor, ev.Justification, ev.CreatedAt)

	case PeriodSubmitted:
		period, err := s.resolvePeriod(ev.PeriodID)
		if err != nil {
			return err
		}
		return period.Submit()

	case PeriodCorrected:
		return s.correct(ev)

	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, event)
	}
}

// correct creates the successor and, because the event was routed to this
// subject as the period's owner, establishes the back-reference in the same
// step so the successor never lingers as a draft.
func (s *Subject) correct(ev PeriodCorrected) error {
	prior, err := s.resolvePeriod(ev.PriorPeriodID)
	if err != nil {
		return err
	}
	successor, err := prior.Correct(s.strategy, s.carry)
	if err != nil {
		return err
	}
	prior.markCorrectedBy(successor.ID())
	s.periods = append(s.periods, successor)
	return nil
}

func (s *Subject) resolvePeriod(id uuid.UUID) (*ReportingPeriod, error) {
	if p := s.periodByID(id); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: period %s", ErrUnresolvedTarget, id)
}

// Accept dispatches the whole aggregate to a visitor: subject fields first,
// then every period in ownership order with its approval changes and days.
func (s *Subject) Accept(v Visitor) {
	v.VisitSubject(s.ident, s.Obligation())
	for _, p := range s.periods {
		p.Accept(v)
	}
}

func cloneDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}
