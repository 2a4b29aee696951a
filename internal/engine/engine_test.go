package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-campaign/internal/engine"
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/roller"
)

type EngineTestSuite struct {
	suite.Suite
	engine engine.Engine
}

func (s *EngineTestSuite) SetupTest() {
	var err error
	s.engine, err = engine.New(&engine.Config{Roller: roller.NewSeeded(1)})
	s.Require().NoError(err)
}

func (s *EngineTestSuite) TestNewValidation() {
	_, err := engine.New(&engine.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = engine.New(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *EngineTestSuite) TestResolveRoundContinuesCounter() {
	hero, err := effects.NewParticipant(&effects.ParticipantConfig{ID: "hero", Name: "Hero", BaseInitiative: 10})
	s.Require().NoError(err)
	slow, err := effects.NewSlow("s1", "Slow", 2, true, "", 3)
	s.Require().NoError(err)
	_, err = hero.GrantEffect(slow)
	s.Require().NoError(err)

	output, err := s.engine.ResolveRound(context.Background(), &engine.ResolveRoundInput{
		Participants:    []*effects.Participant{hero},
		IsActiveRound:   true,
		CompletedRounds: 4,
	})

	s.Require().NoError(err)
	s.Equal(5, output.Report.Round)
	outcome, ok := output.Report.Outcome("hero")
	s.Require().True(ok)
	s.Equal(7, outcome.Initiative)
}

func (s *EngineTestSuite) TestResolveRoundNilInput() {
	_, err := s.engine.ResolveRound(context.Background(), nil)
	s.True(errors.IsInvalidArgument(err))
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
