package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/navikt/dp-rapportering/internal/rapportering/domain"
)

type ApprovalLogSuite struct {
	suite.Suite
	claimant   domain.Actor
	caseworker domain.Actor
}

func TestApprovalLogSuite(t *testing.T) {
	suite.Run(t, new(ApprovalLogSuite))
}

func (s *ApprovalLogSuite) SetupTest() {
	s.claimant = domain.Actor{Kind: domain.ActorClaimant, ID: "12345678901"}
	s.caseworker = domain.Actor{Kind: domain.ActorCaseworker, ID: "123"}
}

func (s *ApprovalLogSuite) TestRecordApproval() {
	s.Run("empty log has no live approval", func() {
		log := domain.NewApprovalLog()
		_, ok := log.CurrentApproval()
		s.False(ok)
		_, ok = log.LastApprovedAt()
		s.False(ok)
	})

	s.Run("approval becomes the live entry", func() {
		log := domain.NewApprovalLog()
		at := domain.Date(2024, time.January, 14)
		s.Require().NoError(log.RecordApproval(s.claimant, "", at))

		live, ok := log.CurrentApproval()
		s.True(ok)
		s.Equal(domain.ActorClaimant, live.Actor.Kind)

		lastAt, ok := log.LastApprovedAt()
		s.True(ok)
		s.Equal(at, lastAt)
	})

	s.Run("duplicate approval is suppressed, not re-recorded", func() {
		log := domain.NewApprovalLog()
		at := domain.Date(2024, time.January, 14)
		s.Require().NoError(log.RecordApproval(s.claimant, "", at))

		err := log.RecordApproval(s.claimant, "", at.AddDate(0, 0, 1))
		s.ErrorIs(err, domain.ErrAlreadyApproved)
		s.Len(log.Changes(), 1)
	})

	s.Run("live approval blocks the other actor kind too", func() {
		log := domain.NewApprovalLog()
		at := domain.Date(2024, time.January, 14)
		s.Require().NoError(log.RecordApproval(s.claimant, "", at))

		err := log.RecordApproval(s.caseworker, "begrunnelse", at.AddDate(0, 0, 1))
		s.ErrorIs(err, domain.ErrAlreadyApproved)
		s.Len(log.Changes(), 1)
	})
}

func (s *ApprovalLogSuite) TestRecordDeapproval() {
	s.Run("deapproval without live approval fails", func() {
		log := domain.NewApprovalLog()
		err := log.RecordDeapproval(s.claimant, "", domain.Date(2024, time.January, 14))
		s.ErrorIs(err, domain.ErrNothingToRevoke)
	})

	s.Run("caseworker deapproval requires justification", func() {
		log := domain.NewApprovalLog()
		s.Require().NoError(log.RecordApproval(s.claimant, "", domain.Date(2024, time.January, 14)))

		err := log.RecordDeapproval(s.caseworker, "", domain.Date(2024, time.January, 15))
		s.ErrorIs(err, domain.ErrJustificationRequired)
		s.Len(log.Changes(), 1)
	})

	s.Run("deapproval nullifies the prior approval entirely", func() {
		log := domain.NewApprovalLog()
		s.Require().NoError(log.RecordApproval(s.claimant, "", domain.Date(2024, time.January, 14)))
		s.Require().NoError(log.RecordDeapproval(s.claimant, "", domain.Date(2024, time.January, 14)))

		_, ok := log.CurrentApproval()
		s.False(ok)

		changes := log.Changes()
		s.Require().Len(changes, 2)
		s.Require().NotNil(changes[1].Revokes)
		s.Equal(changes[0].ID, *changes[1].Revokes)
	})
}

// Reference scenario: claimant approves, claimant de-approves on Jan-14,
// caseworker "123" re-approves with justification after the eligibility date.
func (s *ApprovalLogSuite) TestApproveDeapproveReapprove() {
	log := domain.NewApprovalLog()

	s.Require().NoError(log.RecordApproval(s.claimant, "", domain.Date(2024, time.January, 14)))
	live, ok := log.CurrentApproval()
	s.Require().True(ok)
	s.Equal(domain.ActorClaimant, live.Actor.Kind)

	s.Require().NoError(log.RecordDeapproval(s.claimant, "", domain.Date(2024, time.January, 14)))
	_, ok = log.CurrentApproval()
	s.False(ok)

	from, ok := log.NextApprovableFrom()
	s.Require().True(ok)
	s.Equal(domain.Date(2024, time.January, 13), from, "approvable one day before the de-approval's reference date")

	s.Require().NoError(log.RecordApproval(s.caseworker, "begrunnelse", domain.Date(2024, time.January, 15)))
	live, ok = log.CurrentApproval()
	s.Require().True(ok)
	s.Equal(domain.ActorCaseworker, live.Actor.Kind)
	s.Equal("123", live.Actor.ID)

	// Exactly one live approval even with three entries in the log.
	s.Len(log.Changes(), 3)
}

func (s *ApprovalLogSuite) TestReplayEquivalence() {
	log := domain.NewApprovalLog()
	s.Require().NoError(log.RecordApproval(s.claimant, "", domain.Date(2024, time.January, 14)))
	s.Require().NoError(log.RecordDeapproval(s.caseworker, "feil i rapporten", domain.Date(2024, time.January, 16)))
	s.Require().NoError(log.RecordApproval(s.caseworker, "rettet", domain.Date(2024, time.January, 17)))

	rehydrated := domain.RehydrateApprovalLog(log.Changes())

	gotLive, gotOK := rehydrated.CurrentApproval()
	wantLive, wantOK := log.CurrentApproval()
	s.Equal(wantOK, gotOK)
	s.Equal(wantLive, gotLive)

	gotFrom, gotOK := rehydrated.NextApprovableFrom()
	wantFrom, wantOK := log.NextApprovableFrom()
	s.Equal(wantOK, gotOK)
	s.Equal(wantFrom, gotFrom)
	s.Equal(log.Changes(), rehydrated.Changes())
}
