package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-campaign/internal/content"
	"github.com/KirkDiggler/rpg-campaign/internal/engine/rounds"
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/orchestrators/battle"
)

// RunnerConfig holds the dependencies for a scenario runner
type RunnerConfig struct {
	Service battle.Service
	// KeepBattle leaves the battle in the store after the run
	KeepBattle bool
}

// Validate ensures all required dependencies are provided
func (c *RunnerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Service == nil {
		vb.RequiredField("Service")
	}
	return vb.Build()
}

// Runner executes scenarios against a battle service.
type Runner struct {
	service    battle.Service
	keepBattle bool
}

// Result describes a finished run.
type Result struct {
	BattleID     string
	Reports      []*rounds.Report
	Expectations int
}

// NewRunner creates a runner
func NewRunner(cfg *RunnerConfig) (*Runner, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Runner{service: cfg.Service, keepBattle: cfg.KeepBattle}, nil
}

// Run creates a battle for the scenario and executes its steps in order. It
// stops at the first failing step; an unmet expectation is a
// FAILED_PRECONDITION error carrying the step index and both values.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Result, error) {
	if s == nil {
		return nil, errors.InvalidArgument("scenario is required")
	}

	created, err := r.service.CreateBattle(ctx, &battle.CreateBattleInput{Name: s.Name})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create battle")
	}
	result := &Result{BattleID: created.Battle.ID}

	if !r.keepBattle {
		defer func() {
			if _, err := r.service.EndBattle(ctx, &battle.EndBattleInput{BattleID: result.BattleID}); err != nil {
				slog.Warn("Failed to end scenario battle", "battle_id", result.BattleID, "error", err)
			}
		}()
	}

	for i, step := range s.Steps {
		if err := r.runStep(ctx, result, step); err != nil {
			return result, errors.Wrapf(err, "step %d (%s)", i+1, step.Kind).
				WithMeta("scenario", s.Name).
				WithMeta("step", i+1)
		}
	}

	slog.Info("Scenario passed",
		"scenario", s.Name,
		"steps", len(s.Steps),
		"rounds", len(result.Reports),
		"expectations", result.Expectations)

	return result, nil
}

func (r *Runner) runStep(ctx context.Context, result *Result, step Step) error {
	switch step.Kind {
	case StepParticipant:
		return r.addParticipant(ctx, result.BattleID, step)
	case StepGrant:
		return r.grant(ctx, result.BattleID, step)
	case StepRound:
		return r.round(ctx, result, step)
	case StepExpect:
		result.Expectations++
		return r.expect(ctx, result, step)
	default:
		return errors.InvalidArgumentf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) addParticipant(ctx context.Context, battleID string, step Step) error {
	initiative, err := intArg(step.Args, "initiative", 0)
	if err != nil {
		return err
	}
	mana, err := intArg(step.Args, "mana", 0)
	if err != nil {
		return err
	}
	kind, err := stringArg(step.Args, "kind", string(effects.ParticipantCharacter))
	if err != nil {
		return err
	}

	_, err = r.service.AddParticipant(ctx, &battle.AddParticipantInput{
		BattleID:       battleID,
		ParticipantID:  step.Target,
		Name:           step.Target,
		Kind:           effects.ParticipantKind(kind),
		BaseInitiative: initiative,
		Mana:           mana,
	})
	return err
}

func (r *Runner) grant(ctx context.Context, battleID string, step Step) error {
	source, err := stringArg(step.Args, "source", "")
	if err != nil {
		return err
	}
	input := &battle.GrantEffectInput{
		BattleID: battleID,
		TargetID: step.Target,
		SourceID: source,
	}

	if templateID, ok := step.Args["template"].(string); ok {
		input.TemplateID = templateID
	} else {
		tmpl, err := templateFromArgs(step.Args)
		if err != nil {
			return err
		}
		def, err := tmpl.Definition("", source)
		if err != nil {
			return err
		}
		input.Definition = &def
	}

	_, err = r.service.GrantEffect(ctx, input)
	return err
}

func (r *Runner) round(ctx context.Context, result *Result, step Step) error {
	active, err := boolArg(step.Args, "active", true)
	if err != nil {
		return err
	}
	count, err := intArg(step.Args, "count", 1)
	if err != nil {
		return err
	}
	if count < 1 {
		return errors.InvalidArgumentf("round count must be positive, got %d", count)
	}

	for i := 0; i < count; i++ {
		out, err := r.service.ResolveRound(ctx, &battle.ResolveRoundInput{
			BattleID:      result.BattleID,
			IsActiveRound: active,
		})
		if err != nil {
			return err
		}
		result.Reports = append(result.Reports, out.Report)
	}
	return nil
}

func (r *Runner) expect(ctx context.Context, result *Result, step Step) error {
	out, err := r.service.GetBattle(ctx, &battle.GetBattleInput{BattleID: result.BattleID})
	if err != nil {
		return err
	}

	var participant *effects.ParticipantData
	for i := range out.Battle.Participants {
		if out.Battle.Participants[i].ID == step.Target {
			participant = &out.Battle.Participants[i]
			break
		}
	}
	if participant == nil {
		return errors.NotFoundf("participant %s not found", step.Target).
			WithMeta("participant_id", step.Target)
	}

	checks := []struct {
		key string
		got int
	}{
		{"initiative", participant.Initiative},
		{"mana", participant.Mana},
		{"effects", len(participant.Effects)},
		{"round", out.Battle.Round},
		{"expired", lastExpired(result.Reports, step.Target)},
	}
	for _, c := range checks {
		if _, ok := step.Args[c.key]; !ok {
			continue
		}
		want, err := intArg(step.Args, c.key, 0)
		if err != nil {
			return err
		}
		if want != c.got {
			return errors.FailedPreconditionf("%s %s: want %d, got %d", step.Target, c.key, want, c.got).
				WithMeta("participant_id", step.Target).
				WithMeta("field", c.key).
				WithMeta("want", want).
				WithMeta("got", c.got)
		}
	}
	return nil
}

func lastExpired(reports []*rounds.Report, participantID string) int {
	if len(reports) == 0 {
		return 0
	}
	outcome, ok := reports[len(reports)-1].Outcome(participantID)
	if !ok {
		return 0
	}
	return len(outcome.Expired)
}

// templateFromArgs turns an inline effect table into a content template. A
// numeric power is shorthand for base, and random = true without an explicit
// range draws from [0, base].
func templateFromArgs(args map[string]any) (content.Template, error) {
	var t content.Template
	var err error
	fields := []struct {
		key string
		dst *string
		def string
	}{
		{"name", &t.Name, ""},
		{"kind", (*string)(&t.Kind), string(effects.KindOther)},
		{"icon", (*string)(&t.Icon), ""},
		{"decay", (*string)(&t.Decay), string(effects.DecayAlways)},
		{"power_kind", (*string)(&t.Power), string(effects.PowerNone)},
		{"target", (*string)(&t.Target), string(effects.TargetGeneric)},
		{"stacking", (*string)(&t.Stacking), ""},
	}
	for _, s := range fields {
		if *s.dst, err = stringArg(args, s.key, s.def); err != nil {
			return t, err
		}
	}
	if t.Duration, err = intArg(args, "duration", 0); err != nil {
		return t, err
	}

	base, hasBase, err := floatArg(args, "base")
	if err != nil {
		return t, err
	}
	if power, ok, err := floatArg(args, "power"); err != nil {
		return t, err
	} else if ok && !hasBase {
		base, hasBase = power, true
	}
	variance, _, err := floatArg(args, "variance")
	if err != nil {
		return t, err
	}
	lo, hasMin, err := floatArg(args, "min")
	if err != nil {
		return t, err
	}
	hi, hasMax, err := floatArg(args, "max")
	if err != nil {
		return t, err
	}
	random, err := boolArg(args, "random", false)
	if err != nil {
		return t, err
	}

	switch {
	case hasMin || hasMax:
		m := &content.Magnitude{Variance: variance}
		if hasMin {
			m.Min = &lo
		}
		if hasMax {
			m.Max = &hi
		}
		if hasBase {
			m.Base = &base
		}
		t.Magnitude = m
	case random && hasBase && variance == 0:
		zero := 0.0
		t.Magnitude = &content.Magnitude{Min: &zero, Max: &base}
	case hasBase:
		t.Magnitude = &content.Magnitude{Base: &base, Variance: variance}
	}

	return t, nil
}

func intArg(args map[string]any, key string, def int) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return 0, errors.InvalidArgumentf("%s must be a whole number, got %v", key, n)
	default:
		return 0, errors.InvalidArgumentf("%s must be a number, got %s", key, describe(v))
	}
}

func floatArg(args map[string]any, key string) (float64, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), true, nil
	case float64:
		return n, true, nil
	default:
		return 0, false, errors.InvalidArgumentf("%s must be a number, got %s", key, describe(v))
	}
}

func stringArg(args map[string]any, key, def string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.InvalidArgumentf("%s must be a string, got %s", key, describe(v))
	}
	return s, nil
}

func boolArg(args map[string]any, key string, def bool) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.InvalidArgumentf("%s must be a boolean, got %s", key, describe(v))
	}
	return b, nil
}

func describe(v any) string {
	return fmt.Sprintf("%T", v)
}
