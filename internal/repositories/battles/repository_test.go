package battles_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/clock"
	mockclock "github.com/KirkDiggler/rpg-campaign/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
	"github.com/KirkDiggler/rpg-campaign/internal/testutils"
	"github.com/KirkDiggler/rpg-campaign/internal/testutils/builders"
)

// RepositoryTestSuite runs the same contract against every implementation.
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(s *RepositoryTestSuite) battles.Repository

	ctx       context.Context
	ctrl      *gomock.Controller
	mockClock *mockclock.MockClock
	now       time.Time
	server    *miniredis.Miniredis
	repo      battles.Repository
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockClock = mockclock.NewMockClock(s.ctrl)
	s.now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()
	s.repo = s.newRepo(s)
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RepositoryTestSuite) battle(id string) *battles.BattleData {
	return builders.NewBattleBuilder().
		WithID(id).
		WithName("Bridge ambush").
		WithParticipant(testutils.CreateTestHero()).
		Build()
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	created, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: s.battle("b1")})
	s.Require().NoError(err)
	s.Equal(s.now, created.Battle.CreatedAt)
	s.Equal(s.now, created.Battle.UpdatedAt)

	got, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "b1"})
	s.Require().NoError(err)
	s.Equal("Bridge ambush", got.Battle.Name)
	s.Require().Len(got.Battle.Participants, 1)
	s.Require().Len(got.Battle.Participants[0].Effects, 1)
	s.Equal(3.0, got.Battle.Participants[0].Effects[0].Magnitude.Base)
	s.True(s.now.Equal(got.Battle.CreatedAt))
}

func (s *RepositoryTestSuite) TestCreateDuplicate() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: s.battle("b1")})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, &battles.CreateInput{Battle: s.battle("b1")})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestCreateValidation() {
	_, err := s.repo.Create(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, &battles.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, &battles.CreateInput{Battle: &battles.BattleData{}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "nope"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Equal("nope", errors.GetMeta(err)["battle_id"])
}

func (s *RepositoryTestSuite) TestUpdate() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: s.battle("b1")})
	s.Require().NoError(err)

	s.now = s.now.Add(time.Minute)
	battle := s.battle("b1")
	battle.Round = 3
	battle.Participants[0].Mana = 20

	updated, err := s.repo.Update(s.ctx, &battles.UpdateInput{Battle: battle})
	s.Require().NoError(err)
	s.Equal(s.now, updated.Battle.UpdatedAt)

	got, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "b1"})
	s.Require().NoError(err)
	s.Equal(3, got.Battle.Round)
	s.Equal(20, got.Battle.Participants[0].Mana)
}

func (s *RepositoryTestSuite) TestUpdateMissing() {
	_, err := s.repo.Update(s.ctx, &battles.UpdateInput{Battle: s.battle("ghost")})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: s.battle("b1")})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, &battles.DeleteInput{ID: "b1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &battles.GetInput{ID: "b1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, &battles.DeleteInput{ID: "b1"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestList() {
	for _, id := range []string{"b1", "b2", "b3"} {
		_, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: s.battle(id)})
		s.Require().NoError(err)
	}
	_, err := s.repo.Delete(s.ctx, &battles.DeleteInput{ID: "b2"})
	s.Require().NoError(err)

	out, err := s.repo.List(s.ctx, &battles.ListInput{})
	s.Require().NoError(err)
	s.ElementsMatch([]string{"b1", "b3"}, out.IDs)
}

func (s *RepositoryTestSuite) TestStoredCopyIsIsolated() {
	battle := s.battle("b1")
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: battle})
	s.Require().NoError(err)

	battle.Participants[0].Effects[0].Magnitude.Base = 99

	got, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "b1"})
	s.Require().NoError(err)
	s.Equal(3.0, got.Battle.Participants[0].Effects[0].Magnitude.Base)
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(s *RepositoryTestSuite) battles.Repository {
			return battles.NewInMemory(s.mockClock)
		},
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(s *RepositoryTestSuite) battles.Repository {
			client, server := testutils.CreateTestRedisClient(s.T())
			s.server = server
			repo, err := battles.NewRedisRepository(&battles.Config{
				Client: client,
				Clock:  s.mockClock,
				TTL:    time.Hour,
			})
			s.Require().NoError(err)
			return repo
		},
	})
}

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx    context.Context
	server *miniredis.Miniredis
	repo   battles.Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	client, server := testutils.CreateTestRedisClient(s.T())
	s.server = server

	var err error
	s.repo, err = battles.NewRedisRepository(&battles.Config{
		Client: client,
		Clock:  clock.Fixed(time.Unix(0, 0).UTC()),
		TTL:    time.Hour,
	})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestKeyLayoutAndTTL() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: &battles.BattleData{ID: "b1", Name: "Test"}})
	s.Require().NoError(err)

	s.True(s.server.Exists("battle:b1"))
	s.Equal(time.Hour, s.server.TTL("battle:b1"))
	members, err := s.server.Members("battles:index")
	s.Require().NoError(err)
	s.Equal([]string{"b1"}, members)
}

func (s *RedisRepositoryTestSuite) TestExpiredBattlesArePruned() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: &battles.BattleData{ID: "b1", Name: "Test"}})
	s.Require().NoError(err)

	s.server.FastForward(2 * time.Hour)

	_, err = s.repo.Get(s.ctx, &battles.GetInput{ID: "b1"})
	s.True(errors.IsNotFound(err))

	out, err := s.repo.List(s.ctx, &battles.ListInput{})
	s.Require().NoError(err)
	s.Empty(out.IDs)
	s.False(s.server.Exists("battles:index"), "index entry was pruned")
}

func (s *RedisRepositoryTestSuite) TestDuplicateCreateKeepsSingleIndexEntry() {
	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: &battles.BattleData{ID: "b1", Name: "Test"}})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, &battles.CreateInput{Battle: &battles.BattleData{ID: "b1", Name: "Other"}})
	s.True(errors.IsAlreadyExists(err))

	members, err := s.server.Members("battles:index")
	s.Require().NoError(err)
	s.Equal([]string{"b1"}, members)

	out, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "b1"})
	s.Require().NoError(err)
	s.Equal("Test", out.Battle.Name)
}

func (s *RedisRepositoryTestSuite) TestFailedCreateLeavesNothingBehind() {
	s.server.SetError("LOADING server is loading")

	_, err := s.repo.Create(s.ctx, &battles.CreateInput{Battle: &battles.BattleData{ID: "b1", Name: "Test"}})
	s.Require().Error(err)

	s.server.SetError("")
	s.False(s.server.Exists("battle:b1"))
	s.False(s.server.Exists("battles:index"))
}

func (s *RedisRepositoryTestSuite) TestConfigValidation() {
	_, err := battles.NewRedisRepository(&battles.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = battles.NewRedisRepository(nil)
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisRepositorySpecifics(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
