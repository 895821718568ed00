package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
	"github.com/navikt/dp-rapportering/internal/rapportering/ports"
	"github.com/navikt/dp-rapportering/internal/rapportering/store"
	"github.com/navikt/dp-rapportering/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested subject does not exist
// - Return nil for successful operations
// InMemorySubjectStore keeps projected subject rows in memory for tests/dev.
type InMemorySubjectStore struct {
	mu       sync.RWMutex
	subjects map[string]*store.Projection
}

// New constructs an empty in-memory subject store.
func New() *InMemorySubjectStore {
	return &InMemorySubjectStore{subjects: make(map[string]*store.Projection)}
}

func (s *InMemorySubjectStore) Find(_ context.Context, ident string) (*domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projection, ok := s.subjects[ident]
	if !ok {
		return nil, fmt.Errorf("subject %s: %w", ident, sentinel.ErrNotFound)
	}
	return projection.Rehydrate()
}

func (s *InMemorySubjectStore) Save(_ context.Context, subject *domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subjects[subject.Ident()] = store.Project(subject)
	return nil
}

func (s *InMemorySubjectStore) DueForSubmission(_ context.Context, now time.Time) ([]ports.SubmissionCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []ports.SubmissionCandidate
	for ident, projection := range s.subjects {
		for _, period := range projection.Periods {
			if period.State != domain.PeriodAwaitingCompletion {
				continue
			}
			if period.ComputeAfter.After(now) {
				continue
			}
			due = append(due, ports.SubmissionCandidate{Ident: ident, PeriodID: period.ID})
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].Ident != due[j].Ident {
			return due[i].Ident < due[j].Ident
		}
		return due[i].PeriodID.String() < due[j].PeriodID.String()
	})
	return due, nil
}

func (s *InMemorySubjectStore) DueForNewCycle(_ context.Context, now time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []string
	for ident, projection := range s.subjects {
		if projection.Obligation == nil || !projection.Obligation.Active {
			continue
		}
		if len(projection.Periods) == 0 {
			continue
		}
		latest := projection.Periods[0]
		for _, period := range projection.Periods[1:] {
			if period.Start.After(latest.Start) {
				latest = period
			}
		}
		if latest.End.Before(now) {
			due = append(due, ident)
		}
	}
	sort.Strings(due)
	return due, nil
}
