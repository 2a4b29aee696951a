package effects_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

type ParticipantTestSuite struct {
	suite.Suite
	participant *effects.Participant
}

func (s *ParticipantTestSuite) SetupTest() {
	var err error
	s.participant, err = effects.NewParticipant(&effects.ParticipantConfig{
		ID:             "hero",
		Name:           "Hero",
		BaseInitiative: 10,
		Mana:           5,
	})
	s.Require().NoError(err)
}

func (s *ParticipantTestSuite) grant(e *effects.StatusEffect, err error) *effects.StatusEffect {
	s.Require().NoError(err)
	active, err := s.participant.GrantEffect(e)
	s.Require().NoError(err)
	return active
}

func (s *ParticipantTestSuite) TestNewParticipantDefaults() {
	s.Equal(effects.ParticipantCharacter, s.participant.Kind())
	s.Equal("character", s.participant.GetType())
	s.Equal("hero", s.participant.GetID())
	s.Equal(10, s.participant.Initiative())
	s.Empty(s.participant.ActiveEffects())
}

func (s *ParticipantTestSuite) TestNewParticipantValidation() {
	_, err := effects.NewParticipant(&effects.ParticipantConfig{Name: "Nameless"})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = effects.NewParticipant(&effects.ParticipantConfig{ID: "x", Name: "X", Kind: "dragon"})
	s.Require().Error(err)

	_, err = effects.NewParticipant(nil)
	s.Require().Error(err)
}

func (s *ParticipantTestSuite) TestInitiativeFoldsInInsertionOrder() {
	s.grant(effects.NewSlow("s1", "Slow", 2, true, "", 3))
	s.grant(effects.NewSlow("s2", "Frost", 2, true, "", 2))
	s.grant(effects.NewOther("o1", "Marked", 2, effects.DecayAlways, ""))

	s.Equal(5, s.participant.Initiative())
	s.Equal(10, s.participant.BaseInitiative())

	ids := []string{}
	for _, e := range s.participant.ActiveEffects() {
		ids = append(ids, e.ID())
	}
	s.Equal([]string{"s1", "s2", "o1"}, ids)
}

func (s *ParticipantTestSuite) TestCoexistStacking() {
	s.grant(effects.NewSlow("s1", "Slow", 2, true, "caster", 3))
	s.grant(effects.NewSlow("s2", "Slow", 4, true, "caster", 3))

	s.Len(s.participant.ActiveEffects(), 2)
	s.Equal(4, s.participant.Initiative())
}

func (s *ParticipantTestSuite) TestRefreshStacking() {
	refreshing := func(id string, duration int, power float64) (*effects.StatusEffect, error) {
		return effects.NewStatusEffect(effects.Definition{
			ID:       id,
			Kind:     effects.KindSlow,
			Name:     "Slow",
			Duration: duration,
			Capabilities: effects.Capabilities{
				Decay:  effects.DecayActiveRounds,
				Power:  effects.PowerFixed,
				Target: effects.TargetInitiative,
			},
			Magnitude: effects.NewFixedAmount(power),
			SourceID:  "caster",
			Stacking:  effects.StackRefresh,
		})
	}

	first := s.grant(refreshing("s1", 3, 2))
	second := s.grant(refreshing("s2", 1, 4))

	s.Same(first, second, "refresh returns the existing instance")
	s.Len(s.participant.ActiveEffects(), 1)
	s.Equal(3, first.Duration(), "the longer duration wins")
	s.Equal(6, s.participant.Initiative(), "the newer magnitude replaces the old one")
}

func (s *ParticipantTestSuite) TestRefreshOnlyMatchesSameSource() {
	def := func(id, source string) (*effects.StatusEffect, error) {
		return effects.NewStatusEffect(effects.Definition{
			ID:       id,
			Name:     "Ward",
			Duration: 2,
			Capabilities: effects.Capabilities{
				Decay:  effects.DecayAlways,
				Power:  effects.PowerNone,
				Target: effects.TargetGeneric,
			},
			SourceID: source,
			Stacking: effects.StackRefresh,
		})
	}

	s.grant(def("w1", "alice"))
	s.grant(def("w2", "bob"))

	s.Len(s.participant.ActiveEffects(), 2)
}

func (s *ParticipantTestSuite) TestRefreshIgnoresDifferentShape() {
	slow := s.grant(effects.NewSlow("s1", "Bane", 2, true, "caster", 3))
	bane := s.grant(effects.NewStatusEffect(effects.Definition{
		ID:       "o1",
		Name:     "Bane",
		Duration: 5,
		Capabilities: effects.Capabilities{
			Decay:  effects.DecayAlways,
			Power:  effects.PowerNone,
			Target: effects.TargetGeneric,
		},
		SourceID: "caster",
		Stacking: effects.StackRefresh,
	}))

	s.NotSame(slow, bane)
	s.Len(s.participant.ActiveEffects(), 2)
	s.Equal(2, slow.Duration())
	s.Equal(7, s.participant.Initiative(), "the slow keeps its magnitude")

	restored, err := effects.ParticipantFromData(s.participant.ToData())
	s.Require().NoError(err)
	s.Equal(7, restored.Initiative())
	s.Len(restored.ActiveEffects(), 2)
}

func (s *ParticipantTestSuite) TestRefreshIgnoresRandomOntoFixed() {
	fixed := s.grant(effects.NewStatusEffect(effects.Definition{
		ID:       "m1",
		Kind:     effects.KindManaRegeneration,
		Name:     "Regen",
		Duration: 2,
		Capabilities: effects.Capabilities{
			Decay:  effects.DecayActiveRounds,
			Power:  effects.PowerFixed,
			Target: effects.TargetMana,
		},
		Magnitude: effects.NewFixedAmount(3),
	}))
	random := s.grant(effects.NewStatusEffect(effects.Definition{
		ID:       "m2",
		Kind:     effects.KindManaRegeneration,
		Name:     "Regen",
		Duration: 4,
		Capabilities: effects.Capabilities{
			Decay:  effects.DecayActiveRounds,
			Power:  effects.PowerRandom,
			Target: effects.TargetMana,
		},
		Magnitude: effects.NewRangeAmount(1, 3),
		Stacking:  effects.StackRefresh,
	}))

	s.NotSame(fixed, random)
	s.Len(s.participant.ActiveEffects(), 2)

	_, err := effects.ParticipantFromData(s.participant.ToData())
	s.Require().NoError(err)
}

func (s *ParticipantTestSuite) TestGrantNilEffect() {
	_, err := s.participant.GrantEffect(nil)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ParticipantTestSuite) TestRemoveExpired() {
	s.grant(effects.NewOther("a", "A", 0, effects.DecayAlways, ""))
	s.grant(effects.NewOther("b", "B", 2, effects.DecayAlways, ""))
	s.grant(effects.NewOther("c", "C", 0, effects.DecayAlways, ""))
	s.grant(effects.NewOther("d", "D", 1, effects.DecayAlways, ""))

	expired := s.participant.RemoveExpired()

	s.Require().Len(expired, 2)
	s.Equal("a", expired[0].ID())
	s.Equal("c", expired[1].ID())

	remaining := s.participant.ActiveEffects()
	s.Require().Len(remaining, 2)
	s.Equal("b", remaining[0].ID())
	s.Equal("d", remaining[1].ID())

	s.Empty(s.participant.RemoveExpired())
}

func (s *ParticipantTestSuite) TestActiveEffectsIsACopy() {
	s.grant(effects.NewOther("a", "A", 2, effects.DecayAlways, ""))

	list := s.participant.ActiveEffects()
	list[0] = nil

	s.NotNil(s.participant.ActiveEffects()[0])
}

func (s *ParticipantTestSuite) TestDataRoundTrip() {
	s.grant(effects.NewSlow("s1", "Slow", 2, true, "caster", 3))
	s.grant(effects.NewManaRegeneration("m1", "Regen", 1, true, "", 5, false))
	s.participant.AddMana(2)

	data := s.participant.ToData()
	s.Equal(7, data.Initiative)
	s.Equal(7, data.Mana)

	restored, err := effects.ParticipantFromData(data)
	s.Require().NoError(err)
	s.Equal(data, restored.ToData())
}

func (s *ParticipantTestSuite) TestFromDataRejectsBadEffect() {
	data := s.participant.ToData()
	data.Effects = append(data.Effects, effects.EffectData{ID: "x", Name: "", Duration: 1})

	_, err := effects.ParticipantFromData(data)

	s.Require().Error(err)
	s.True(errors.IsContentDefinition(err))
}

func TestParticipantSuite(t *testing.T) {
	suite.Run(t, new(ParticipantTestSuite))
}
