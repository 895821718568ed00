package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
	"github.com/navikt/dp-rapportering/internal/rapportering/service"
	"github.com/navikt/dp-rapportering/internal/rapportering/store/dedupe"
	"github.com/navikt/dp-rapportering/internal/rapportering/store/memory"
)

type JobsSuite struct {
	suite.Suite
	store  *memory.InMemorySubjectStore
	svc    *service.Service
	runner *Runner
	clock  time.Time
	ctx    context.Context
}

func (s *JobsSuite) SetupTest() {
	s.store = memory.New()
	s.svc = service.New(s.store, dedupe.NewInMemoryRegistry())
	s.clock = domain.Date(2024, time.January, 1)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.runner = NewRunner(s.store, s.svc, logger, time.Hour, time.Hour,
		WithClock(func() time.Time { return s.clock }))
	s.ctx = context.Background()
}

func (s *JobsSuite) meta(ident string) domain.EventMeta {
	return domain.EventMeta{EventID: uuid.New(), Ident: ident, CreatedAt: s.clock}
}

func (s *JobsSuite) seedSubject(ident string, start time.Time) {
	s.Require().NoError(s.svc.Handle(s.ctx, domain.ApplicationSubmitted{
		EventMeta:       s.meta(ident),
		ApplicationDate: start,
	}))
	s.Require().NoError(s.svc.Handle(s.ctx, domain.NewCycleStarted{
		EventMeta:  s.meta(ident),
		RangeStart: start,
	}))
}

func (s *JobsSuite) TestSweepSubmissions() {
	start := domain.Date(2024, time.January, 1)
	s.seedSubject("12345678901", start)

	s.Run("nothing due before the deadline", func() {
		s.clock = start.AddDate(0, 0, 5)
		s.runner.SweepSubmissions(s.ctx)

		subject, err := s.svc.Subject(s.ctx, "12345678901")
		s.Require().NoError(err)
		s.Equal(domain.PeriodAwaitingCompletion, subject.Periods()[0].State())
	})

	s.Run("past the deadline the period submits and locks", func() {
		activity, err := domain.NewActivity(start.AddDate(0, 0, 2), domain.ActivityWork, 4*time.Hour)
		s.Require().NoError(err)
		subject, err := s.svc.Subject(s.ctx, "12345678901")
		s.Require().NoError(err)
		s.Require().NoError(s.svc.Handle(s.ctx, domain.ActivityRecorded{
			EventMeta: s.meta("12345678901"),
			PeriodID:  subject.Periods()[0].ID(),
			Activity:  activity,
		}))

		s.clock = start.AddDate(0, 0, domain.PeriodLengthDays+1)
		s.runner.SweepSubmissions(s.ctx)

		subject, err = s.svc.Subject(s.ctx, "12345678901")
		s.Require().NoError(err)
		s.Equal(domain.PeriodSubmittedState, subject.Periods()[0].State())
		for _, day := range subject.Periods()[0].Timeline().Days() {
			for _, act := range day.Activities() {
				s.Equal(domain.ActivityLocked, act.State())
			}
		}
	})

	s.Run("sweep is idempotent", func() {
		s.runner.SweepSubmissions(s.ctx)

		subject, err := s.svc.Subject(s.ctx, "12345678901")
		s.Require().NoError(err)
		s.Len(subject.Periods(), 1)
	})
}

func (s *JobsSuite) TestStartNewCycles() {
	start := domain.Date(2024, time.January, 1)
	s.seedSubject("12345678901", start)

	rejected := domain.Date(2024, time.January, 1)
	s.seedSubject("22345678901", rejected)
	s.Require().NoError(s.svc.Handle(s.ctx, domain.DecisionRejected{EventMeta: s.meta("22345678901")}))

	s.clock = start.AddDate(0, 0, domain.PeriodLengthDays+1)
	s.runner.StartNewCycles(s.ctx)

	s.Run("active subject gets a contiguous next period", func() {
		subject, err := s.svc.Subject(s.ctx, "12345678901")
		s.Require().NoError(err)
		s.Require().Len(subject.Periods(), 2)

		first, second := subject.Periods()[0], subject.Periods()[1]
		s.Equal(first.End().AddDate(0, 0, 1), second.Start())
	})

	s.Run("rejected subject stays at one period", func() {
		subject, err := s.svc.Subject(s.ctx, "22345678901")
		s.Require().NoError(err)
		s.Len(subject.Periods(), 1)
	})
}

func TestJobsSuite(t *testing.T) {
	suite.Run(t, new(JobsSuite))
}
