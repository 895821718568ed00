package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
	"github.com/navikt/dp-rapportering/internal/rapportering/metrics"
	"github.com/navikt/dp-rapportering/internal/rapportering/ports"
	dErrors "github.com/navikt/dp-rapportering/pkg/domain-errors"
	"github.com/navikt/dp-rapportering/pkg/platform/keyed"
	"github.com/navikt/dp-rapportering/pkg/platform/sentinel"
)

// Service orchestrates event application: duplicate suppression, per-subject
// serialization, load, domain dispatch, save, and downstream notification.
type Service struct {
	store      ports.SubjectStore
	duplicates ports.DuplicateRegistry
	publisher  ports.NotificationPublisher
	locks      *keyed.Mutex
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithPublisher(publisher ports.NotificationPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service.
func New(store ports.SubjectStore, duplicates ports.DuplicateRegistry, opts ...Option) *Service {
	s := &Service{
		store:      store,
		duplicates: duplicates,
		locks:      keyed.NewMutex(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle applies one inbound event to its subject. Duplicate event ids are
// acknowledged without effect. Events that merely fail a domain precondition
// come back as coded errors so transports can answer 4xx instead of retrying.
func (s *Service) Handle(ctx context.Context, event domain.Event) error {
	started := s.now()
	kind := eventKind(event)

	meta := event.Meta()
	if err := validateMeta(meta); err != nil {
		s.metrics.IncrementHandled(kind, "rejected")
		return err
	}

	unlock := s.locks.Lock(meta.Ident)
	defer unlock()

	// Checked under the subject lock so a concurrent redelivery cannot race
	// past it. The id is registered only after the save succeeds; a failed
	// save leaves it unregistered and the redelivery gets applied.
	seen, err := s.duplicates.Seen(ctx, meta.EventID)
	if err != nil {
		// Losing the registry must not stall intake; a rare duplicate
		// slipping through is absorbed by the domain's idempotent paths.
		s.logger.WarnContext(ctx, "duplicate registry unavailable, processing anyway",
			"event_id", meta.EventID,
			"error", err,
		)
	} else if seen {
		s.logger.InfoContext(ctx, "skipping duplicate event",
			"event_id", meta.EventID,
			"kind", kind,
		)
		s.metrics.IncrementDuplicate()
		return nil
	}

	subject, err := s.loadOrCreate(ctx, meta.Ident, event)
	if err != nil {
		s.metrics.IncrementHandled(kind, outcomeOf(err))
		return err
	}

	if err := subject.Handle(event); err != nil {
		s.logger.InfoContext(ctx, "event rejected by domain",
			"event_id", meta.EventID,
			"kind", kind,
			"error", err,
		)
		s.metrics.IncrementHandled(kind, "rejected")
		return translateDomainError(err)
	}

	if err := s.store.Save(ctx, subject); err != nil {
		s.metrics.IncrementHandled(kind, "error")
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save subject")
	}

	if err := s.duplicates.Register(ctx, meta.EventID); err != nil {
		// State is saved; a redelivery slipping past a degraded registry
		// replays onto idempotent domain paths.
		s.logger.WarnContext(ctx, "failed to register event id",
			"event_id", meta.EventID,
			"error", err,
		)
	}

	s.notify(ctx, meta, event)

	s.logger.InfoContext(ctx, "event applied",
		"event_id", meta.EventID,
		"kind", kind,
	)
	s.metrics.IncrementHandled(kind, "applied")
	s.metrics.ObserveHandleLatency(s.now().Sub(started))
	return nil
}

// Subject loads the exposed view of a subject for read endpoints.
func (s *Service) Subject(ctx context.Context, ident string) (*domain.Subject, error) {
	subject, err := s.store.Find(ctx, ident)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unknown subject")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subject")
	}
	return subject, nil
}

// loadOrCreate finds the subject, creating a fresh aggregate when the event
// kind is allowed to establish one. Period-targeted events for an unknown
// subject are client errors, not creations.
func (s *Service) loadOrCreate(ctx context.Context, ident string, event domain.Event) (*domain.Subject, error) {
	subject, err := s.store.Find(ctx, ident)
	if err == nil {
		return subject, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subject")
	}

	switch event.(type) {
	case domain.ApplicationSubmitted, domain.ObligationDateDetermined, domain.DecisionApproved, domain.NewCycleStarted:
		return domain.NewSubject(ident), nil
	default:
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown subject")
	}
}

func (s *Service) notify(ctx context.Context, meta domain.EventMeta, event domain.Event) {
	if s.publisher == nil {
		return
	}
	periodID, ok := targetPeriod(event)
	if !ok {
		return
	}
	notification := ports.PeriodNotification{
		Ident:     meta.Ident,
		PeriodID:  periodID,
		EventKind: eventKind(event),
		Timestamp: s.now(),
	}
	if err := s.publisher.PublishPeriodChanged(ctx, notification); err != nil {
		// Notifications are best effort; state is already saved.
		s.logger.ErrorContext(ctx, "failed to publish period notification",
			"event_id", meta.EventID,
			"period_id", periodID,
			"error", err,
		)
	}
}

func validateMeta(meta domain.EventMeta) error {
	if meta.EventID == uuid.Nil {
		return dErrors.New(dErrors.CodeValidation, "event id is required")
	}
	if meta.Ident == "" {
		return dErrors.New(dErrors.CodeValidation, "subject ident is required")
	}
	return nil
}

// translateDomainError maps domain sentinels to transport-facing codes.
func translateDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnresolvedTarget):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "unknown period")
	case errors.Is(err, domain.ErrAlreadyCorrected),
		errors.Is(err, domain.ErrAlreadyApproved):
		return dErrors.Wrap(err, dErrors.CodeConflict, err.Error())
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrNotYetApprovable),
		errors.Is(err, domain.ErrNothingToRevoke),
		errors.Is(err, domain.ErrJustificationRequired),
		errors.Is(err, domain.ErrOutOfRange):
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, err.Error())
	case isCoded(err):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply event")
	}
}

func isCoded(err error) bool {
	var coded *dErrors.Error
	return errors.As(err, &coded)
}

func outcomeOf(err error) string {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		return "error"
	}
	return "rejected"
}

func targetPeriod(event domain.Event) (uuid.UUID, bool) {
	switch ev := event.(type) {
	case domain.ActivityRecorded:
		return ev.PeriodID, true
	case domain.PeriodApproved:
		return ev.PeriodID, true
	case domain.PeriodDeapproved:
		return ev.PeriodID, true
	case domain.PeriodSubmitted:
		return ev.PeriodID, true
	case domain.PeriodCorrected:
		return ev.PriorPeriodID, true
	default:
		return uuid.Nil, false
	}
}

func eventKind(event domain.Event) string {
	switch event.(type) {
	case domain.ApplicationSubmitted:
		return "application_submitted"
	case domain.ObligationDateDetermined:
		return "obligation_date_determined"
	case domain.DecisionApproved:
		return "decision_approved"
	case domain.DecisionRejected:
		return "decision_rejected"
	case domain.NewCycleStarted:
		return "new_cycle_started"
	case domain.ActivityRecorded:
		return "activity_recorded"
	case domain.PeriodApproved:
		return "period_approved"
	case domain.PeriodDeapproved:
		return "period_deapproved"
	case domain.PeriodSubmitted:
		return "period_submitted"
	case domain.PeriodCorrected:
		return "period_corrected"
	default:
		return fmt.Sprintf("%T", event)
	}
}
