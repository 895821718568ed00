package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
)

// SubjectResponse is the API shape of a subject and their exposed periods.
type SubjectResponse struct {
	Ident      string              `json:"ident"`
	Obligation *ObligationResponse `json:"obligation,omitempty"`
	Periods    []PeriodResponse    `json:"periods"`
}

type ObligationResponse struct {
	Kind          string `json:"kind"`
	EffectiveFrom string `json:"effectiveFrom"`
	Active        bool   `json:"active"`
}

type PeriodResponse struct {
	ID             uuid.UUID        `json:"id"`
	FromDate       string           `json:"fromDate"`
	ToDate         string           `json:"toDate"`
	ComputeAfter   string           `json:"computeAfter"`
	Status         string           `json:"status"`
	Approved       bool             `json:"approved"`
	ApprovableFrom *string          `json:"approvableFrom,omitempty"`
	Corrects       *uuid.UUID       `json:"corrects,omitempty"`
	CorrectedBy    *uuid.UUID       `json:"correctedBy,omitempty"`
	Approvals      []ApprovalChange `json:"approvals"`
	Days           []DayResponse    `json:"days"`
}

type ApprovalChange struct {
	ID            uuid.UUID  `json:"id"`
	Kind          string     `json:"kind"`
	ActorKind     string     `json:"actorKind"`
	ActorID       string     `json:"actorId"`
	Timestamp     time.Time  `json:"timestamp"`
	Revokes       *uuid.UUID `json:"revokes,omitempty"`
	Justification string     `json:"justification,omitempty"`
}

type DayResponse struct {
	Date          string             `json:"date"`
	Activities    []ActivityResponse `json:"activities"`
	EligibleTypes []string           `json:"eligibleTypes"`
}

type ActivityResponse struct {
	ID    uuid.UUID `json:"id"`
	Type  string    `json:"type"`
	Hours float64   `json:"hours,omitempty"`
	State string    `json:"state"`
}

// apiProjector is the visitor that flattens the aggregate into response DTOs.
// It relies on the fixed traversal order: period scalars first, then approval
// changes, then days oldest first, then each day's activities.
type apiProjector struct {
	response SubjectResponse
	policy   domain.EligibilityPolicy
	now      time.Time
}

// ProjectSubject builds the API view of a subject. Draft corrections are
// excluded by projecting only the exposed periods.
func ProjectSubject(subject *domain.Subject, now time.Time) SubjectResponse {
	p := &apiProjector{
		policy: subject.EligibilityPolicy(),
		now:    now,
	}
	p.response.Ident = subject.Ident()
	p.response.Periods = []PeriodResponse{}

	if o := subject.Obligation(); o != nil {
		p.response.Obligation = &ObligationResponse{
			Kind:          string(o.Kind),
			EffectiveFrom: isoDate(o.EffectiveFrom),
			Active:        o.Active,
		}
	}
	for _, period := range subject.ExposedPeriods() {
		period.Accept(p)
	}
	return p.response
}

func (p *apiProjector) VisitSubject(string, *domain.ObligationSnapshot) {}

func (p *apiProjector) VisitPeriod(snap domain.PeriodSnapshot) {
	period := PeriodResponse{
		ID:           snap.ID,
		FromDate:     isoDate(snap.Start),
		ToDate:       isoDate(snap.End),
		ComputeAfter: isoDate(snap.ComputeAfter),
		Status:       string(snap.State),
		Corrects:     snap.Corrects,
		CorrectedBy:  snap.CorrectedBy,
		Approvals:    []ApprovalChange{},
		Days:         []DayResponse{},
	}
	if snap.ApprovableFrom != nil {
		from := isoDate(*snap.ApprovableFrom)
		period.ApprovableFrom = &from
	}
	p.response.Periods = append(p.response.Periods, period)
}

func (p *apiProjector) VisitApprovalChange(_ uuid.UUID, change domain.ApprovalChange) {
	period := p.currentPeriod()
	period.Approvals = append(period.Approvals, ApprovalChange{
		ID:            change.ID,
		Kind:          string(change.Kind),
		ActorKind:     string(change.Actor.Kind),
		ActorID:       change.Actor.ID,
		Timestamp:     change.Timestamp,
		Revokes:       change.Revokes,
		Justification: change.Justification,
	})
	if change.Kind == domain.ChangeApproval {
		period.Approved = true
	} else {
		period.Approved = false
	}
}

func (p *apiProjector) VisitDay(_ uuid.UUID, date time.Time) {
	period := p.currentPeriod()
	eligible := p.policy(date, p.now)
	types := make([]string, 0, len(eligible))
	for _, t := range eligible {
		types = append(types, string(t))
	}
	period.Days = append(period.Days, DayResponse{
		Date:          isoDate(date),
		Activities:    []ActivityResponse{},
		EligibleTypes: types,
	})
}

func (p *apiProjector) VisitActivity(_ uuid.UUID, activity domain.ActivitySnapshot) {
	period := p.currentPeriod()
	day := &period.Days[len(period.Days)-1]
	day.Activities = append(day.Activities, ActivityResponse{
		ID:    activity.ID,
		Type:  string(activity.Type),
		Hours: activity.Duration.Hours(),
		State: string(activity.State),
	})
}

func (p *apiProjector) currentPeriod() *PeriodResponse {
	return &p.response.Periods[len(p.response.Periods)-1]
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}
