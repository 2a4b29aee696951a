package scenario_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-campaign/internal/content"
	"github.com/KirkDiggler/rpg-campaign/internal/engine"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/orchestrators/battle"
	battlemock "github.com/KirkDiggler/rpg-campaign/internal/orchestrators/battle/mock"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/roller"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
	roundlog "github.com/KirkDiggler/rpg-campaign/internal/repositories/round_log"
	"github.com/KirkDiggler/rpg-campaign/internal/scenario"
)

type LoadTestSuite struct {
	suite.Suite
}

func TestLoadSuite(t *testing.T) {
	suite.Run(t, new(LoadTestSuite))
}

func (s *LoadTestSuite) TestLoadStringBuildsSteps() {
	sc, err := scenario.LoadString("inline", `
local s = Scenario.new("duel")
s:participant("hero", { initiative = 10, mana = 5 })
s:grant("hero", { template = "slow_minor" })
s:round{ active = false }
s:expect("hero", { initiative = 7 })
return s
`)
	s.Require().NoError(err)
	s.Equal("duel", sc.Name)
	s.Require().Len(sc.Steps, 4)

	s.Equal(scenario.StepParticipant, sc.Steps[0].Kind)
	s.Equal("hero", sc.Steps[0].Target)
	s.Equal(10, sc.Steps[0].Args["initiative"])
	s.Equal(5, sc.Steps[0].Args["mana"])

	s.Equal(scenario.StepGrant, sc.Steps[1].Kind)
	s.Equal("slow_minor", sc.Steps[1].Args["template"])

	s.Equal(scenario.StepRound, sc.Steps[2].Kind)
	s.Equal(false, sc.Steps[2].Args["active"])

	s.Equal(scenario.StepExpect, sc.Steps[3].Kind)
	s.Equal(7, sc.Steps[3].Args["initiative"])
}

func (s *LoadTestSuite) TestEffectHelpersFillDefaults() {
	sc, err := scenario.LoadString("helpers", `
local s = Scenario.new("helpers")
s:grant("hero", Effects.slow{ duration = 2, power = 1.5 })
s:grant("hero", Effects.mana_regeneration{ duration = 1, base = 4, random = true, active = false })
s:grant("hero", Effects.other{ name = "Marked" })
return s
`)
	s.Require().NoError(err)
	s.Require().Len(sc.Steps, 3)

	slow := sc.Steps[0].Args
	s.Equal("slow", slow["kind"])
	s.Equal("active_rounds", slow["decay"])
	s.Equal("fixed", slow["power_kind"])
	s.Equal("initiative", slow["target"])
	s.Equal(1.5, slow["power"])
	s.Equal(2, slow["duration"])

	regen := sc.Steps[1].Args
	s.Equal("mana_regeneration", regen["kind"])
	s.Equal("inactive_rounds", regen["decay"])
	s.Equal(true, regen["random"])
	s.NotContains(regen, "active")

	other := sc.Steps[2].Args
	s.Equal("Marked", other["name"])
	s.Equal("none", other["power_kind"])
	s.Equal("always", other["decay"])
}

func (s *LoadTestSuite) TestExplicitDecayBeatsActiveShorthand() {
	sc, err := scenario.LoadString("decay", `
local s = Scenario.new("decay")
s:grant("hero", Effects.slow{ decay = "active_rounds", active = false })
s:grant("hero", Effects.slow{ decay = "always", active = true })
s:grant("hero", Effects.slow{ active = false })
return s
`)
	s.Require().NoError(err)
	s.Require().Len(sc.Steps, 3)

	s.Equal("active_rounds", sc.Steps[0].Args["decay"])
	s.Equal("always", sc.Steps[1].Args["decay"])
	s.Equal("inactive_rounds", sc.Steps[2].Args["decay"])
	for _, step := range sc.Steps {
		s.NotContains(step.Args, "active")
	}
}

func (s *LoadTestSuite) TestUnnamedScenarioTakesChunkName() {
	sc, err := scenario.LoadString("anonymous", `return Scenario.new()`)
	s.Require().NoError(err)
	s.Equal("anonymous", sc.Name)
	s.Empty(sc.Steps)
}

func (s *LoadTestSuite) TestLoadFileNamesAfterFile() {
	sc, err := scenario.LoadFile("testdata/inactive_chill.lua")
	s.Require().NoError(err)
	s.Equal("inactive_chill", sc.Name)
	s.NotEmpty(sc.Steps)
}

func (s *LoadTestSuite) TestScriptErrors() {
	testCases := []struct {
		name   string
		source string
	}{
		{name: "syntax error", source: `local s = `},
		{name: "runtime error", source: `error("boom")`},
		{name: "returns nothing", source: `local s = Scenario.new("x")`},
		{name: "returns a table", source: `return {}`},
		{name: "grant without table", source: `local s = Scenario.new("x"); s:grant("hero"); return s`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := scenario.LoadString(tc.name, tc.source)
			s.Require().Error(err)
			s.True(errors.IsContentDefinition(err), "got %v", err)
		})
	}
}

func (s *LoadTestSuite) TestMissingFile() {
	_, err := scenario.LoadFile("testdata/does_not_exist.lua")
	s.Require().Error(err)
	s.Equal("testdata/does_not_exist.lua", errors.GetMeta(err)["path"])
}

type RunnerTestSuite struct {
	suite.Suite
	ctx    context.Context
	repo   *battles.InMemoryRepository
	runner *scenario.Runner
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (s *RunnerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = battles.NewInMemory(clock.New())

	eng, err := engine.New(&engine.Config{Roller: roller.NewSeeded(7)})
	s.Require().NoError(err)
	catalog, err := content.Default()
	s.Require().NoError(err)

	svc, err := battle.NewOrchestrator(&battle.Config{
		BattleRepo:  s.repo,
		RoundLog:    roundlog.NewInMemory(),
		Engine:      eng,
		Catalog:     catalog,
		IDGenerator: idgen.NewSequential(),
		EventBus:    events.NewBus(),
	})
	s.Require().NoError(err)

	s.runner, err = scenario.NewRunner(&scenario.RunnerConfig{Service: svc})
	s.Require().NoError(err)
}

func (s *RunnerTestSuite) TestScenarioFiles() {
	for _, path := range []string{"testdata/slow_and_regen.lua", "testdata/inactive_chill.lua"} {
		s.Run(path, func() {
			sc, err := scenario.LoadFile(path)
			s.Require().NoError(err)

			result, err := s.runner.Run(s.ctx, sc)
			s.Require().NoError(err)
			s.NotEmpty(result.BattleID)
			s.NotEmpty(result.Reports)
			s.Positive(result.Expectations)
		})
	}
}

func (s *RunnerTestSuite) TestBattleEndedAfterRun() {
	sc, err := scenario.LoadFile("testdata/slow_and_regen.lua")
	s.Require().NoError(err)

	result, err := s.runner.Run(s.ctx, sc)
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &battles.GetInput{ID: result.BattleID})
	s.True(errors.IsNotFound(err))
}

func (s *RunnerTestSuite) TestUnmetExpectation() {
	sc, err := scenario.LoadString("wrong", `
local s = Scenario.new("wrong")
s:participant("hero", { initiative = 10 })
s:grant("hero", { template = "slow_minor" })
s:expect("hero", { initiative = 9 })
return s
`)
	s.Require().NoError(err)

	_, err = s.runner.Run(s.ctx, sc)
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))

	meta := errors.GetMeta(err)
	s.Equal(3, meta["step"])
	s.Equal("initiative", meta["field"])
	s.Equal(9, meta["want"])
	s.Equal(7, meta["got"])
}

func (s *RunnerTestSuite) TestDegenerateRangeActsFixed() {
	sc, err := scenario.LoadString("regen", `
local s = Scenario.new("regen")
s:participant("mage", { initiative = 4, mana = 0 })
s:grant("mage", Effects.mana_regeneration{ duration = 5, min = 2, max = 2 })
s:round{ count = 5 }
s:expect("mage", { mana = 10, effects = 0, round = 5 })
return s
`)
	s.Require().NoError(err)

	result, err := s.runner.Run(s.ctx, sc)
	s.Require().NoError(err)
	s.Len(result.Reports, 5)
}

func (s *RunnerTestSuite) TestBadArguments() {
	testCases := []struct {
		name   string
		source string
		code   errors.Code
	}{
		{
			name:   "fractional initiative",
			source: `local s = Scenario.new("x"); s:participant("a", { initiative = 1.5 }); return s`,
			code:   errors.CodeInvalidArgument,
		},
		{
			name:   "zero round count",
			source: `local s = Scenario.new("x"); s:round{ count = 0 }; return s`,
			code:   errors.CodeInvalidArgument,
		},
		{
			name:   "unknown template",
			source: `local s = Scenario.new("x"); s:participant("a", {}); s:grant("a", { template = "nope" }); return s`,
			code:   errors.CodeNotFound,
		},
		{
			name:   "inline effect without name",
			source: `local s = Scenario.new("x"); s:participant("a", {}); s:grant("a", { duration = 1 }); return s`,
			code:   errors.CodeContentDefinition,
		},
		{
			name:   "expect unknown participant",
			source: `local s = Scenario.new("x"); s:expect("ghost", { mana = 0 }); return s`,
			code:   errors.CodeNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			sc, err := scenario.LoadString(tc.name, tc.source)
			s.Require().NoError(err)

			_, err = s.runner.Run(s.ctx, sc)
			s.Require().Error(err)
			s.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (s *RunnerTestSuite) TestKeepBattle() {
	ctrl := gomock.NewController(s.T())
	svc := battlemock.NewMockService(ctrl)

	runner, err := scenario.NewRunner(&scenario.RunnerConfig{Service: svc, KeepBattle: true})
	s.Require().NoError(err)

	svc.EXPECT().
		CreateBattle(gomock.Any(), &battle.CreateBattleInput{Name: "empty"}).
		Return(&battle.CreateBattleOutput{Battle: &battles.BattleData{ID: "b1"}}, nil)

	result, err := runner.Run(s.ctx, &scenario.Scenario{Name: "empty"})
	s.Require().NoError(err)
	s.Equal("b1", result.BattleID)
}

func (s *RunnerTestSuite) TestNewRunnerRequiresService() {
	_, err := scenario.NewRunner(&scenario.RunnerConfig{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}
