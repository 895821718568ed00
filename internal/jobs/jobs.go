// Package jobs runs the periodic background workers: the submission sweep
// that closes periods past their deadline and the new-cycle worker that opens
// the next period for subjects still under an obligation.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
	"github.com/navikt/dp-rapportering/internal/rapportering/ports"
)

// EventHandler applies an event; both workers feed the same path as bus and
// HTTP events so per-subject exclusivity holds.
type EventHandler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// Runner drives both workers off interval tickers.
type Runner struct {
	store   ports.SubjectStore
	handler EventHandler
	logger  *slog.Logger
	now     func() time.Time

	submissionInterval time.Duration
	newCycleInterval   time.Duration
}

type Option func(*Runner)

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner constructs a Runner.
func NewRunner(store ports.SubjectStore, handler EventHandler, logger *slog.Logger,
	submissionInterval, newCycleInterval time.Duration, opts ...Option) *Runner {
	r := &Runner{
		store:              store,
		handler:            handler,
		logger:             logger,
		now:                time.Now,
		submissionInterval: submissionInterval,
		newCycleInterval:   newCycleInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run blocks until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	submissionTicker := time.NewTicker(r.submissionInterval)
	defer submissionTicker.Stop()
	newCycleTicker := time.NewTicker(r.newCycleInterval)
	defer newCycleTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-submissionTicker.C:
			r.SweepSubmissions(ctx)
		case <-newCycleTicker.C:
			r.StartNewCycles(ctx)
		}
	}
}

// SweepSubmissions submits every period whose deadline has passed.
func (r *Runner) SweepSubmissions(ctx context.Context) {
	now := r.now()
	due, err := r.store.DueForSubmission(ctx, now)
	if err != nil {
		r.logger.ErrorContext(ctx, "submission sweep query failed", "error", err)
		return
	}

	for _, candidate := range due {
		err := r.handler.Handle(ctx, domain.PeriodSubmitted{
			EventMeta: domain.EventMeta{EventID: uuid.New(), Ident: candidate.Ident, CreatedAt: now},
			PeriodID:  candidate.PeriodID,
		})
		if err != nil {
			// Keep sweeping; the period is retried next tick.
			r.logger.ErrorContext(ctx, "failed to submit due period",
				"period_id", candidate.PeriodID,
				"error", err,
			)
		}
	}

	if len(due) > 0 {
		r.logger.InfoContext(ctx, "submission sweep finished", "candidates", len(due))
	}
}

// StartNewCycles opens the next period for every subject whose latest period
// has ended while their obligation is still active. The new range starts the
// day after the previous range ended.
func (r *Runner) StartNewCycles(ctx context.Context) {
	now := r.now()
	due, err := r.store.DueForNewCycle(ctx, now)
	if err != nil {
		r.logger.ErrorContext(ctx, "new-cycle query failed", "error", err)
		return
	}

	for _, ident := range due {
		subject, err := r.store.Find(ctx, ident)
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to load due subject", "error", err)
			continue
		}

		// Corrections re-cover old ranges, so the next range starts after
		// the latest end across all periods.
		var latestEnd time.Time
		for _, period := range subject.Periods() {
			if period.End().After(latestEnd) {
				latestEnd = period.End()
			}
		}
		rangeStart := latestEnd.AddDate(0, 0, 1)

		err = r.handler.Handle(ctx, domain.NewCycleStarted{
			EventMeta:  domain.EventMeta{EventID: uuid.New(), Ident: ident, CreatedAt: now},
			RangeStart: rangeStart,
		})
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to start new cycle", "error", err)
		}
	}

	if len(due) > 0 {
		r.logger.InfoContext(ctx, "new-cycle worker finished", "candidates", len(due))
	}
}
