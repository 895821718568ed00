//go:build integration

package dedupe_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/navikt/dp-rapportering/internal/rapportering/store/dedupe"
	"github.com/navikt/dp-rapportering/pkg/testutil/containers"
)

type RedisRegistrySuite struct {
	suite.Suite
	redis    *containers.RedisContainer
	registry *dedupe.RedisRegistry
}

func TestRedisRegistrySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisRegistrySuite))
}

func (s *RedisRegistrySuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.registry = dedupe.NewRedisRegistry(s.redis.Client)
}

func (s *RedisRegistrySuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisRegistrySuite) TestSeenAfterRegister() {
	ctx := context.Background()
	eventID := uuid.New()

	seen, err := s.registry.Seen(ctx, eventID)
	s.Require().NoError(err)
	s.False(seen)

	s.Require().NoError(s.registry.Register(ctx, eventID))

	seen, err = s.registry.Seen(ctx, eventID)
	s.Require().NoError(err)
	s.True(seen)
}

func (s *RedisRegistrySuite) TestRetentionExpiry() {
	ctx := context.Background()
	registry := dedupe.NewRedisRegistry(s.redis.Client, dedupe.WithRetention(time.Second))
	eventID := uuid.New()

	s.Require().NoError(registry.Register(ctx, eventID))

	time.Sleep(1500 * time.Millisecond)

	seen, err := registry.Seen(ctx, eventID)
	s.Require().NoError(err)
	s.False(seen)
}
