package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
)

type ReportingPeriodSuite struct {
	suite.Suite
	claimant domain.Actor
}

func TestReportingPeriodSuite(t *testing.T) {
	suite.Run(t, new(ReportingPeriodSuite))
}

func (s *ReportingPeriodSuite) SetupTest() {
	s.claimant = domain.Actor{Kind: domain.ActorClaimant, ID: "12345678901"}
}

func (s *ReportingPeriodSuite) newPeriod() *domain.ReportingPeriod {
	return domain.NewReportingPeriod(domain.Date(2024, time.January, 1), nil)
}

func (s *ReportingPeriodSuite) TestCreation() {
	s.Run("covers fourteen days from range start", func() {
		p := s.newPeriod()
		s.Equal(domain.Date(2024, time.January, 1), p.Start())
		s.Equal(domain.Date(2024, time.January, 14), p.End())
		s.Equal(domain.PeriodAwaitingCompletion, p.State())
	})

	s.Run("default strategy computes totals after the period ends", func() {
		p := s.newPeriod()
		s.Equal(domain.Date(2024, time.January, 15), p.ComputeAfter())
	})

	s.Run("deadline strategy is pluggable", func() {
		strategy := func(_, end time.Time) time.Time {
			return end.AddDate(0, 0, 8)
		}
		p := domain.NewReportingPeriod(domain.Date(2024, time.January, 1), strategy)
		s.Equal(domain.Date(2024, time.January, 22), p.ComputeAfter())
	})
}

func (s *ReportingPeriodSuite) TestRecordActivity() {
	s.Run("places open activities on the timeline", func() {
		p := s.newPeriod()
		act, err := domain.NewActivity(domain.Date(2024, time.January, 2), domain.ActivityWork, 5*time.Hour)
		s.Require().NoError(err)
		s.Require().NoError(p.RecordActivity(act))
		s.Len(p.Timeline().Days(), 1)
	})

	s.Run("rejects activities once submitted", func() {
		p := s.newPeriod()
		s.Require().NoError(p.Submit())

		act, err := domain.NewActivity(domain.Date(2024, time.January, 2), domain.ActivitySick, 0)
		s.Require().NoError(err)

		err = p.RecordActivity(act)
		s.ErrorIs(err, domain.ErrPeriodClosed)
		s.ErrorIs(err, domain.ErrIllegalTransition)
		s.Empty(p.Timeline().Days())
	})
}

func (s *ReportingPeriodSuite) TestSubmit() {
	s.Run("locks every activity in the timeline", func() {
		p := s.newPeriod()
		for day := 1; day <= 3; day++ {
			act, err := domain.NewActivity(domain.Date(2024, time.January, day), domain.ActivityWork, time.Hour)
			s.Require().NoError(err)
			s.Require().NoError(p.RecordActivity(act))
		}

		s.Require().NoError(p.Submit())
		s.Equal(domain.PeriodSubmittedState, p.State())
		for _, day := range p.Timeline().Days() {
			for _, act := range day.Activities() {
				s.Equal(domain.ActivityLocked, act.State())
				s.ErrorIs(act.SetDuration(2*time.Hour), domain.ErrIllegalTransition)
			}
		}
	})

	s.Run("re-submission is a no-op, not an error", func() {
		p := s.newPeriod()
		s.Require().NoError(p.Submit())
		s.Require().NoError(p.Submit())
		s.Equal(domain.PeriodSubmittedState, p.State())
	})
}

func (s *ReportingPeriodSuite) TestApprovalGate() {
	s.Run("approval allowed while no gate applies", func() {
		p := s.newPeriod()
		s.Require().NoError(p.Approve(s.claimant, "", domain.Date(2024, time.January, 14)))
		s.Nil(p.ApprovableFrom())
	})

	s.Run("deapproval recomputes the gate", func() {
		p := s.newPeriod()
		s.Require().NoError(p.Approve(s.claimant, "", domain.Date(2024, time.January, 14)))
		s.Require().NoError(p.Deapprove(s.claimant, "", domain.Date(2024, time.January, 14)))

		s.Require().NotNil(p.ApprovableFrom())
		s.Equal(domain.Date(2024, time.January, 13), *p.ApprovableFrom())
	})

	s.Run("re-approval before the eligibility date fails", func() {
		p := s.newPeriod()
		s.Require().NoError(p.Approve(s.claimant, "", domain.Date(2024, time.January, 14)))
		s.Require().NoError(p.Deapprove(s.claimant, "", domain.Date(2024, time.January, 20)))

		err := p.Approve(s.claimant, "", domain.Date(2024, time.January, 18))
		s.ErrorIs(err, domain.ErrNotYetApprovable)

		s.Require().NoError(p.Approve(s.claimant, "", domain.Date(2024, time.January, 19)))
	})

	s.Run("approval survives submission since the log tracks it", func() {
		p := s.newPeriod()
		s.Require().NoError(p.Submit())
		s.Require().NoError(p.Approve(s.claimant, "", domain.Date(2024, time.January, 15)))
		_, ok := p.Approvals().CurrentApproval()
		s.True(ok)
	})
}

func (s *ReportingPeriodSuite) TestCorrection() {
	s.Run("successor links to the prior period", func() {
		p := s.newPeriod()
		act, err := domain.NewActivity(domain.Date(2024, time.January, 2), domain.ActivityWork, 5*time.Hour)
		s.Require().NoError(err)
		s.Require().NoError(p.RecordActivity(act))
		s.Require().NoError(p.Submit())

		successor, err := p.Correct(nil, domain.CopyOpenActivities)
		s.Require().NoError(err)
		s.Require().NotNil(successor.Corrects())
		s.Equal(p.ID(), *successor.Corrects())
		s.Equal(p.Start(), successor.Start())
		s.Equal(p.End(), successor.End())
		s.Equal(domain.PeriodAwaitingCompletion, successor.State())
	})

	s.Run("carry-forward policy copies activities as open", func() {
		p := s.newPeriod()
		act, err := domain.NewActivity(domain.Date(2024, time.January, 2), domain.ActivityWork, 5*time.Hour)
		s.Require().NoError(err)
		s.Require().NoError(p.RecordActivity(act))
		s.Require().NoError(p.Submit())

		successor, err := p.Correct(nil, domain.CopyOpenActivities)
		s.Require().NoError(err)

		days := successor.Timeline().Days()
		s.Require().Len(days, 1)
		copied := days[0].Activities()
		s.Require().Len(copied, 1)
		s.Equal(domain.ActivityOpen, copied[0].State())
		s.Equal(5*time.Hour, copied[0].Duration())
		s.NotEqual(act.ID(), copied[0].ID())
	})

	s.Run("carry-forward policy is injectable", func() {
		p := s.newPeriod()
		act, err := domain.NewActivity(domain.Date(2024, time.January, 2), domain.ActivityWork, 5*time.Hour)
		s.Require().NoError(err)
		s.Require().NoError(p.RecordActivity(act))

		none := func(_, _ *domain.ReportingPeriod) error { return nil }
		successor, err := p.Correct(nil, none)
		s.Require().NoError(err)
		s.Empty(successor.Timeline().Days())
	})
}

func (s *ReportingPeriodSuite) TestRehydration() {
	p := s.newPeriod()
	act, err := domain.NewActivity(domain.Date(2024, time.January, 2), domain.ActivityWork, 5*time.Hour)
	s.Require().NoError(err)
	s.Require().NoError(p.RecordActivity(act))
	s.Require().NoError(p.Approve(s.claimant, "", domain.Date(2024, time.January, 14)))
	s.Require().NoError(p.Submit())

	var activities []*domain.Activity
	for _, day := range p.Timeline().Days() {
		for _, a := range day.Activities() {
			activities = append(activities, domain.RehydrateActivity(a.ID(), a.Date(), a.Type(), a.Duration(), a.State()))
		}
	}

	r, err := domain.RehydratePeriod(p.Snapshot(), p.Approvals().Changes(), activities)
	s.Require().NoError(err)

	s.Equal(p.Snapshot(), r.Snapshot())
	s.Equal(p.Approvals().Changes(), r.Approvals().Changes())
	s.Require().Len(r.Timeline().Days(), 1)
	s.Equal(domain.ActivityLocked, r.Timeline().Days()[0].Activities()[0].State())
}

// recordingVisitor captures dispatch order for the traversal contract.
type recordingVisitor struct {
	calls    []string
	periods  []domain.PeriodSnapshot
	changes  []domain.ApprovalChange
	days     []time.Time
	activity []domain.ActivitySnapshot
}

func (v *recordingVisitor) VisitSubject(string, *domain.ObligationSnapshot) {
	v.calls = append(v.calls, "subject")
}

func (v *recordingVisitor) VisitPeriod(p domain.PeriodSnapshot) {
	v.calls = append(v.calls, "period")
	v.periods = append(v.periods, p)
}

func (v *recordingVisitor) VisitApprovalChange(_ uuid.UUID, c domain.ApprovalChange) {
	v.calls = append(v.calls, "approval")
	v.changes = append(v.changes, c)
}

func (v *recordingVisitor) VisitDay(_ uuid.UUID, date time.Time) {
	v.calls = append(v.calls, "day")
	v.days = append(v.days, date)
}

func (v *recordingVisitor) VisitActivity(_ uuid.UUID, a domain.ActivitySnapshot) {
	v.calls = append(v.calls, "activity")
	v.activity = append(v.activity, a)
}

func (s *ReportingPeriodSuite) TestVisitorDispatchOrder() {
	p := s.newPeriod()
	for _, day := range []int{5, 2, 9} {
		act, err := domain.NewActivity(domain.Date(2024, time.January, day), domain.ActivityWork, time.Hour)
		s.Require().NoError(err)
		s.Require().NoError(p.RecordActivity(act))
	}
	s.Require().NoError(p.Approve(s.claimant, "", domain.Date(2024, time.January, 14)))
	s.Require().NoError(p.Deapprove(s.claimant, "", domain.Date(2024, time.January, 14)))

	v := &recordingVisitor{}
	p.Accept(v)

	s.Equal([]string{"period", "approval", "approval", "day", "activity", "day", "activity", "day", "activity"}, v.calls)
	s.Equal(domain.ChangeApproval, v.changes[0].Kind, "log order is emission order")
	s.Equal(domain.ChangeDeapproval, v.changes[1].Kind)
	s.Equal([]time.Time{
		domain.Date(2024, time.January, 2),
		domain.Date(2024, time.January, 5),
		domain.Date(2024, time.January, 9),
	}, v.days, "days oldest first")
	s.Require().Len(v.periods, 1)
	s.Equal(p.ID(), v.periods[0].ID)
}
