// Package store holds the persistence projection shared by the memory and
// postgres subject stores. Both project the aggregate through the visitor
// into flat rows and rebuild it from those rows on load.
package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
)

// Projection collects the flattened persistent state of one subject. It
// implements domain.Visitor; day callbacks are ignored because days are
// derivable from activity dates.
type Projection struct {
	Ident      string
	Obligation *domain.ObligationSnapshot
	Periods    []domain.PeriodSnapshot
	Approvals  map[uuid.UUID][]domain.ApprovalChange
	Activities map[uuid.UUID][]domain.ActivitySnapshot
}

// Project flattens a subject into rows via visitor traversal.
func Project(subject *domain.Subject) *Projection {
	p := &Projection{
		Approvals:  make(map[uuid.UUID][]domain.ApprovalChange),
		Activities: make(map[uuid.UUID][]domain.ActivitySnapshot),
	}
	subject.Accept(p)
	return p
}

func (p *Projection) VisitSubject(ident string, obligation *domain.ObligationSnapshot) {
	p.Ident = ident
	p.Obligation = obligation
}

func (p *Projection) VisitPeriod(period domain.PeriodSnapshot) {
	p.Periods = append(p.Periods, period)
}

func (p *Projection) VisitApprovalChange(periodID uuid.UUID, change domain.ApprovalChange) {
	p.Approvals[periodID] = append(p.Approvals[periodID], change)
}

func (p *Projection) VisitDay(uuid.UUID, time.Time) {}

func (p *Projection) VisitActivity(periodID uuid.UUID, activity domain.ActivitySnapshot) {
	p.Activities[periodID] = append(p.Activities[periodID], activity)
}

// Rehydrate rebuilds the aggregate from projected rows. Approval changes and
// activities must be supplied in their original recording order.
func (p *Projection) Rehydrate(opts ...domain.SubjectOption) (*domain.Subject, error) {
	periods := make([]*domain.ReportingPeriod, 0, len(p.Periods))
	for _, snap := range p.Periods {
		activities := make([]*domain.Activity, 0, len(p.Activities[snap.ID]))
		for _, row := range p.Activities[snap.ID] {
			activities = append(activities, domain.RehydrateActivity(row.ID, row.Date, row.Type, row.Duration, row.State))
		}
		period, err := domain.RehydratePeriod(snap, p.Approvals[snap.ID], activities)
		if err != nil {
			return nil, fmt.Errorf("rehydrate period %s: %w", snap.ID, err)
		}
		periods = append(periods, period)
	}
	return domain.RehydrateSubject(p.Ident, p.Obligation, periods, opts...), nil
}
