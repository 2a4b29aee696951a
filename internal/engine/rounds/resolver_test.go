package rounds_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-campaign/internal/engine/rounds"
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/roller"
	rollermock "github.com/KirkDiggler/rpg-campaign/internal/pkg/roller/mock"
)

type ResolverTestSuite struct {
	suite.Suite
	parallel   bool
	ctx        context.Context
	ctrl       *gomock.Controller
	mockRoller *rollermock.MockRoller
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockRoller = rollermock.NewMockRoller(s.ctrl)
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ResolverTestSuite) newResolver(r dice.Roller) *rounds.Resolver {
	resolver, err := rounds.New(&rounds.Config{Roller: r, Parallel: s.parallel})
	s.Require().NoError(err)
	return resolver
}

func (s *ResolverTestSuite) newParticipant(id string, initiative, mana int) *effects.Participant {
	p, err := effects.NewParticipant(&effects.ParticipantConfig{
		ID:             id,
		Name:           id,
		BaseInitiative: initiative,
		Mana:           mana,
	})
	s.Require().NoError(err)
	return p
}

func (s *ResolverTestSuite) grant(p *effects.Participant) func(*effects.StatusEffect, error) *effects.StatusEffect {
	return func(e *effects.StatusEffect, err error) *effects.StatusEffect {
		s.Require().NoError(err)
		active, err := p.GrantEffect(e)
		s.Require().NoError(err)
		return active
	}
}

func (s *ResolverTestSuite) TestNewRequiresRoller() {
	_, err := rounds.New(&rounds.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = rounds.New(nil)
	s.Require().Error(err)

	_, err = rounds.New(&rounds.Config{Roller: roller.NewSequence(), Round: -1})
	s.Require().Error(err)
}

func (s *ResolverTestSuite) TestSlowAndRegenerationScenario() {
	hero := s.newParticipant("hero", 10, 5)
	slow := s.grant(hero)(effects.NewSlow("slow", "Slow", 2, true, "", 3))
	s.grant(hero)(effects.NewManaRegeneration("regen", "Regen", 1, true, "", 5, false))
	resolver := s.newResolver(roller.NewSequence())

	report, err := resolver.ResolveRound(s.ctx, []*effects.Participant{hero}, true)

	s.Require().NoError(err)
	s.Equal(1, report.Round)
	s.True(report.Active)
	outcome, ok := report.Outcome("hero")
	s.Require().True(ok)
	s.Equal(7, outcome.Initiative)
	s.Equal(5, outcome.ManaBefore)
	s.Equal(10, outcome.ManaAfter)
	s.Require().Len(outcome.Expired, 1)
	s.Equal("regen", outcome.Expired[0].ID)

	s.Equal(7, hero.Initiative())
	s.Equal(10, hero.Mana())
	s.Equal(1, slow.Duration())
	s.Len(hero.ActiveEffects(), 1)

	report, err = resolver.ResolveRound(s.ctx, []*effects.Participant{hero}, true)

	s.Require().NoError(err)
	s.Equal(2, report.Round)
	outcome, _ = report.Outcome("hero")
	s.Equal(7, outcome.Initiative, "slow still applies in the round it expires")
	s.Equal(10, outcome.ManaAfter)
	s.Require().Len(outcome.Expired, 1)
	s.Equal("slow", outcome.Expired[0].ID)

	s.Equal(10, hero.Initiative())
	s.Equal(10, hero.Mana())
	s.Empty(hero.ActiveEffects())
	s.Equal(2, resolver.Round())
	s.Equal(rounds.PhaseAwaitingRound, resolver.Phase())
}

func (s *ResolverTestSuite) TestInitiativeFoldOrder() {
	hero := s.newParticipant("hero", 10, 0)
	s.grant(hero)(effects.NewSlow("s1", "Slow", 3, true, "", 3))
	s.grant(hero)(effects.NewSlow("s2", "Frost", 3, true, "", 2))

	report, err := s.newResolver(roller.NewSequence()).ResolveRound(s.ctx, []*effects.Participant{hero}, true)

	s.Require().NoError(err)
	outcome, _ := report.Outcome("hero")
	s.Equal(5, outcome.Initiative)
}

func (s *ResolverTestSuite) TestInactiveRoundLeavesActiveRoundersAlone() {
	hero := s.newParticipant("hero", 10, 0)
	slow := s.grant(hero)(effects.NewSlow("s1", "Slow", 1, true, "", 3))
	haste := s.grant(hero)(effects.NewSlow("s2", "Drag", 1, false, "", 1))

	report, err := s.newResolver(roller.NewSequence()).ResolveRound(s.ctx, []*effects.Participant{hero}, false)

	s.Require().NoError(err)
	s.Equal(1, slow.Duration())
	s.Equal(0, haste.Duration())
	outcome, _ := report.Outcome("hero")
	s.Equal(6, outcome.Initiative)
	s.Require().Len(outcome.Expired, 1)
	s.Equal("s2", outcome.Expired[0].ID)
	s.Len(hero.ActiveEffects(), 1)
}

func (s *ResolverTestSuite) TestStackedEffectsDecayIndependently() {
	hero := s.newParticipant("hero", 10, 0)
	short := s.grant(hero)(effects.NewSlow("s1", "Slow", 1, true, "caster", 1))
	long := s.grant(hero)(effects.NewSlow("s2", "Slow", 3, true, "caster", 1))
	resolver := s.newResolver(roller.NewSequence())

	report, err := resolver.ResolveRound(s.ctx, []*effects.Participant{hero}, true)

	s.Require().NoError(err)
	outcome, _ := report.Outcome("hero")
	s.Equal(8, outcome.Initiative)
	s.Equal(0, short.Duration())
	s.Equal(2, long.Duration())
	s.Equal(1, report.ExpiredCount())
	s.Equal(9, hero.Initiative())
}

func (s *ResolverTestSuite) TestZeroDurationEffectAppliesOnce() {
	hero := s.newParticipant("hero", 10, 0)
	s.grant(hero)(effects.NewManaRegeneration("m1", "Surge", 0, true, "", 4, false))

	report, err := s.newResolver(roller.NewSequence()).ResolveRound(s.ctx, []*effects.Participant{hero}, true)

	s.Require().NoError(err)
	s.Equal(4, hero.Mana())
	s.Equal(1, report.ExpiredCount())
}

func (s *ResolverTestSuite) TestRandomRegenerationDrawsOncePerRound() {
	hero := s.newParticipant("hero", 10, 0)
	s.grant(hero)(effects.NewStatusEffect(effects.Definition{
		ID:       "m1",
		Kind:     effects.KindManaRegeneration,
		Name:     "Regen",
		Duration: 5,
		Capabilities: effects.Capabilities{
			Decay:  effects.DecayAlways,
			Power:  effects.PowerRandom,
			Target: effects.TargetMana,
		},
		Magnitude: effects.NewRandomAmount(3, 1),
	}))
	resolver := s.newResolver(roller.NewSequence(1, 10000, 5000))

	wants := []int{2, 4, 3}
	mana := 0
	for _, want := range wants {
		report, err := resolver.ResolveRound(s.ctx, []*effects.Participant{hero}, true)
		s.Require().NoError(err)
		outcome, _ := report.Outcome("hero")
		s.Equal(want, outcome.ManaAfter-outcome.ManaBefore)
		mana += want
	}
	s.Equal(mana, hero.Mana())
}

func (s *ResolverTestSuite) TestSeededRollerReplays() {
	run := func() []int {
		hero := s.newParticipant("hero", 10, 0)
		s.grant(hero)(effects.NewManaRegeneration("m1", "Regen", 20, true, "", 6, true))
		resolver := s.newResolver(roller.NewSeeded(7))

		var gains []int
		for i := 0; i < 10; i++ {
			report, err := resolver.ResolveRound(s.ctx, []*effects.Participant{hero}, true)
			s.Require().NoError(err)
			outcome, _ := report.Outcome("hero")
			gains = append(gains, outcome.ManaAfter-outcome.ManaBefore)
		}
		return gains
	}

	s.Equal(run(), run())
}

func (s *ResolverTestSuite) TestRollerFailureHaltsApplying() {
	hero := s.newParticipant("hero", 10, 5)
	slow := s.grant(hero)(effects.NewSlow("slow", "Slow", 1, true, "", 3))
	s.grant(hero)(effects.NewManaRegeneration("regen", "Regen", 2, true, "", 4, true))
	resolver := s.newResolver(s.mockRoller)

	s.mockRoller.EXPECT().Roll(10000).Return(0, errors.Unavailable("no entropy"))

	report, err := resolver.ResolveRound(s.ctx, []*effects.Participant{hero}, true)

	s.Nil(report)
	s.Require().Error(err)
	s.Contains(err.Error(), "no entropy")
	meta := errors.GetMeta(err)
	s.Equal("hero", meta["participant_id"])
	s.Equal("regen", meta["effect_id"])
	s.Equal(1, meta["round"])

	s.Equal(0, slow.Duration(), "decay stays committed")
	s.Len(hero.ActiveEffects(), 2, "cleanup did not run")
	s.Equal(5, hero.Mana(), "nothing was applied")
	s.Equal(0, resolver.Round())
	s.Equal(rounds.PhaseAwaitingRound, resolver.Phase())
}

func (s *ResolverTestSuite) TestCanceledContext() {
	hero := s.newParticipant("hero", 10, 5)
	slow := s.grant(hero)(effects.NewSlow("slow", "Slow", 2, true, "", 3))
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.newResolver(roller.NewSequence()).ResolveRound(ctx, []*effects.Participant{hero}, true)

	s.Require().Error(err)
	s.True(errors.IsCanceled(err))
	s.Equal(2, slow.Duration())
}

func (s *ResolverTestSuite) TestRejectsDuplicateParticipants() {
	hero := s.newParticipant("hero", 10, 5)

	_, err := s.newResolver(roller.NewSequence()).ResolveRound(s.ctx, []*effects.Participant{hero, hero}, true)

	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ResolverTestSuite) TestEmptyBattleAdvancesRound() {
	resolver := s.newResolver(roller.NewSequence())

	report, err := resolver.ResolveRound(s.ctx, nil, true)

	s.Require().NoError(err)
	s.Equal(1, report.Round)
	s.Empty(report.Outcomes)
}

func (s *ResolverTestSuite) TestManyParticipantsKeepOrder() {
	var participants []*effects.Participant
	for i := 0; i < 20; i++ {
		p := s.newParticipant(fmt.Sprintf("p%02d", i), 10+i, i)
		s.grant(p)(effects.NewSlow(fmt.Sprintf("s%02d", i), "Slow", 1+i%3, true, "", float64(i%4)))
		s.grant(p)(effects.NewManaRegeneration(fmt.Sprintf("m%02d", i), "Regen", 2, true, "", 6, true))
		participants = append(participants, p)
	}

	report, err := s.newResolver(roller.NewSeeded(99)).ResolveRound(s.ctx, participants, true)

	s.Require().NoError(err)
	s.Require().Len(report.Outcomes, 20)
	for i, outcome := range report.Outcomes {
		s.Equal(fmt.Sprintf("p%02d", i), outcome.ParticipantID)
		s.Equal(10+i-i%4, outcome.Initiative)
		gain := outcome.ManaAfter - outcome.ManaBefore
		s.GreaterOrEqual(gain, 0)
		s.LessOrEqual(gain, 6)
	}
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, &ResolverTestSuite{})
}

func TestResolverSuiteParallel(t *testing.T) {
	suite.Run(t, &ResolverTestSuite{parallel: true})
}

// Parallel and sequential resolution produce identical reports for the same
// seed.
func TestParallelMatchesSequential(t *testing.T) {
	build := func() []*effects.Participant {
		var out []*effects.Participant
		for i := 0; i < 12; i++ {
			p, err := effects.NewParticipant(&effects.ParticipantConfig{
				ID: fmt.Sprintf("p%d", i), Name: "P", BaseInitiative: 10,
			})
			require.NoError(t, err)
			regen, err := effects.NewManaRegeneration(fmt.Sprintf("m%d", i), "Regen", 3, true, "", 8, true)
			require.NoError(t, err)
			_, err = p.GrantEffect(regen)
			require.NoError(t, err)
			out = append(out, p)
		}
		return out
	}

	resolve := func(parallel bool) []*rounds.Report {
		resolver, err := rounds.New(&rounds.Config{Roller: roller.NewSeeded(1234), Parallel: parallel, Workers: 4})
		require.NoError(t, err)
		participants := build()
		var reports []*rounds.Report
		for i := 0; i < 3; i++ {
			report, err := resolver.ResolveRound(context.Background(), participants, true)
			require.NoError(t, err)
			reports = append(reports, report)
		}
		return reports
	}

	require.Equal(t, resolve(false), resolve(true))
}
