// Package battle implements the battle orchestrator: battle sessions, their
// participants, effect grants and round resolution.
package battle

//go:generate mockgen -destination=mock/mock_service.go -package=battlemock github.com/KirkDiggler/rpg-campaign/internal/orchestrators/battle Service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-campaign/internal/content"
	"github.com/KirkDiggler/rpg-campaign/internal/engine"
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
	roundlog "github.com/KirkDiggler/rpg-campaign/internal/repositories/round_log"
)

// Service defines the interface for battle operations
type Service interface {
	CreateBattle(ctx context.Context, input *CreateBattleInput) (*CreateBattleOutput, error)
	AddParticipant(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error)
	GrantEffect(ctx context.Context, input *GrantEffectInput) (*GrantEffectOutput, error)

	// ResolveRound runs one round. The battle is saved even when the round
	// halts, so decay that was committed stays visible.
	ResolveRound(ctx context.Context, input *ResolveRoundInput) (*ResolveRoundOutput, error)

	// GetRoundHistory returns the reports of resolved rounds in round order
	GetRoundHistory(ctx context.Context, input *GetRoundHistoryInput) (*GetRoundHistoryOutput, error)

	GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error)
	EndBattle(ctx context.Context, input *EndBattleInput) (*EndBattleOutput, error)
	ListBattles(ctx context.Context, input *ListBattlesInput) (*ListBattlesOutput, error)
}

// Config holds the dependencies for the battle orchestrator
type Config struct {
	BattleRepo  battles.Repository
	RoundLog    roundlog.Repository
	Engine      engine.Engine
	Catalog     *content.Catalog
	IDGenerator idgen.Generator
	EventBus    events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BattleRepo == nil {
		vb.RequiredField("BattleRepo")
	}
	if c.RoundLog == nil {
		vb.RequiredField("RoundLog")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

type orchestrator struct {
	battleRepo battles.Repository
	roundLog   roundlog.Repository
	engine     engine.Engine
	catalog    *content.Catalog
	idGen      idgen.Generator
	eventBus   events.EventBus

	// every operation on one battle runs under its lock
	locks *battleLocks
}

// NewOrchestrator creates a new battle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		battleRepo: cfg.BattleRepo,
		roundLog:   cfg.RoundLog,
		engine:     cfg.Engine,
		catalog:    cfg.Catalog,
		idGen:      cfg.IDGenerator,
		eventBus:   cfg.EventBus,
		locks:      newBattleLocks(),
	}, nil
}

func (o *orchestrator) lock(battleID string) func() {
	return o.locks.acquire(battleID)
}

// CreateBattle starts an empty battle at round zero
func (o *orchestrator) CreateBattle(ctx context.Context, input *CreateBattleInput) (*CreateBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.InvalidArgument("battle name is required")
	}

	created, err := o.battleRepo.Create(ctx, &battles.CreateInput{
		Battle: &battles.BattleData{
			ID:           o.idGen.Generate(idgen.KindBattle),
			Name:         input.Name,
			Participants: []effects.ParticipantData{},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create battle")
	}

	slog.Info("Battle created",
		"battle_id", created.Battle.ID,
		"name", created.Battle.Name)

	return &CreateBattleOutput{Battle: created.Battle}, nil
}

// AddParticipant adds a combatant with no effects
func (o *orchestrator) AddParticipant(
	ctx context.Context,
	input *AddParticipantInput,
) (*AddParticipantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	id := input.ParticipantID
	if id == "" {
		id = o.idGen.Generate(idgen.KindParticipant)
	}
	participant, err := effects.NewParticipant(&effects.ParticipantConfig{
		ID:             id,
		Name:           input.Name,
		Kind:           input.Kind,
		BaseInitiative: input.BaseInitiative,
		Mana:           input.Mana,
	})
	if err != nil {
		return nil, err
	}

	unlock := o.lock(input.BattleID)
	defer unlock()

	battle, err := o.load(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}

	for _, p := range battle.Participants {
		if p.ID == id {
			return nil, errors.AlreadyExistsf("participant %s already in battle", id).
				WithMeta("battle_id", battle.ID).
				WithMeta("participant_id", id)
		}
	}

	data := participant.ToData()
	battle.Participants = append(battle.Participants, data)
	if _, err := o.battleRepo.Update(ctx, &battles.UpdateInput{Battle: battle}); err != nil {
		return nil, errors.Wrap(err, "failed to save battle")
	}

	slog.Info("Participant added",
		"battle_id", battle.ID,
		"participant_id", id,
		"kind", data.Kind)

	return &AddParticipantOutput{Participant: data}, nil
}

// GrantEffect builds an effect and grants it to the target participant
func (o *orchestrator) GrantEffect(ctx context.Context, input *GrantEffectInput) (*GrantEffectOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("BattleID", input.BattleID, vb)
	errors.ValidateRequired("TargetID", input.TargetID, vb)
	switch {
	case input.TemplateID == "" && input.Definition == nil:
		vb.Field("TemplateID", "template or definition is required")
	case input.TemplateID != "" && input.Definition != nil:
		vb.Field("TemplateID", "cannot be combined with a definition")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	effect, err := o.buildEffect(input)
	if err != nil {
		return nil, err
	}

	unlock := o.lock(input.BattleID)
	defer unlock()

	battle, err := o.load(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}

	idx := participantIndex(battle, input.TargetID)
	if idx < 0 {
		return nil, errors.NotFoundf("participant %s not found", input.TargetID).
			WithMeta("battle_id", battle.ID).
			WithMeta("participant_id", input.TargetID)
	}

	target, err := effects.ParticipantFromData(battle.Participants[idx])
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore participant")
	}

	active, err := target.GrantEffect(effect)
	if err != nil {
		return nil, err
	}

	battle.Participants[idx] = target.ToData()
	if _, err := o.battleRepo.Update(ctx, &battles.UpdateInput{Battle: battle}); err != nil {
		return nil, errors.Wrap(err, "failed to save battle")
	}

	refreshed := active != effect
	slog.Info("Effect granted",
		"battle_id", battle.ID,
		"participant_id", target.GetID(),
		"effect_id", active.ID(),
		"effect_name", active.Name(),
		"duration", active.Duration(),
		"refreshed", refreshed)

	o.publish(ctx, EventEffectGranted, battleEntity{id: battle.ID}, target, map[string]any{
		KeyBattleID:   battle.ID,
		KeyEffectID:   active.ID(),
		KeyEffectName: active.Name(),
	})

	return &GrantEffectOutput{Effect: active.ToData(), Refreshed: refreshed}, nil
}

func (o *orchestrator) buildEffect(input *GrantEffectInput) (*effects.StatusEffect, error) {
	id := o.idGen.Generate(idgen.KindEffect)
	if input.TemplateID != "" {
		return o.catalog.Instantiate(input.TemplateID, input.SourceID, id)
	}

	def := *input.Definition
	def.ID = id
	if def.SourceID == "" {
		def.SourceID = input.SourceID
	}
	return effects.NewStatusEffect(def)
}

// ResolveRound loads the battle, runs one round and saves the result
func (o *orchestrator) ResolveRound(
	ctx context.Context,
	input *ResolveRoundInput,
) (*ResolveRoundOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	unlock := o.lock(input.BattleID)
	defer unlock()

	battle, err := o.load(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}

	participants := make([]*effects.Participant, 0, len(battle.Participants))
	for _, data := range battle.Participants {
		p, err := effects.ParticipantFromData(data)
		if err != nil {
			return nil, errors.Wrap(err, "failed to restore participant")
		}
		participants = append(participants, p)
	}

	output, resolveErr := o.engine.ResolveRound(ctx, &engine.ResolveRoundInput{
		Participants:    participants,
		IsActiveRound:   input.IsActiveRound,
		CompletedRounds: battle.Round,
	})

	for i, p := range participants {
		battle.Participants[i] = p.ToData()
	}

	if resolveErr != nil {
		slog.Error("Round halted",
			"battle_id", battle.ID,
			"round", battle.Round+1,
			"active", input.IsActiveRound,
			"error", resolveErr)

		if _, err := o.battleRepo.Update(ctx, &battles.UpdateInput{Battle: battle}); err != nil {
			slog.Error("Failed to save halted battle",
				"battle_id", battle.ID,
				"error", err)
		}
		return nil, errors.Wrap(resolveErr, "failed to resolve round").
			WithMeta("battle_id", battle.ID)
	}

	report := output.Report
	battle.Round = report.Round
	updated, err := o.battleRepo.Update(ctx, &battles.UpdateInput{Battle: battle})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save battle")
	}

	slog.Info("Round resolved",
		"battle_id", battle.ID,
		"round", report.Round,
		"active", report.Active,
		"participants", len(report.Outcomes),
		"expired", report.ExpiredCount())

	if _, err := o.roundLog.Append(ctx, &roundlog.AppendInput{BattleID: battle.ID, Report: report}); err != nil {
		slog.Warn("Failed to record round",
			"battle_id", battle.ID,
			"round", report.Round,
			"error", err)
	}

	source := battleEntity{id: battle.ID}
	for i, outcome := range report.Outcomes {
		for _, expired := range outcome.Expired {
			o.publish(ctx, EventEffectExpired, source, participants[i], map[string]any{
				KeyBattleID:   battle.ID,
				KeyEffectID:   expired.ID,
				KeyEffectName: expired.Name,
				KeyRound:      report.Round,
			})
		}
	}
	o.publish(ctx, EventRoundResolved, source, nil, map[string]any{
		KeyBattleID:     battle.ID,
		KeyRound:        report.Round,
		KeyActive:       report.Active,
		KeyExpiredCount: report.ExpiredCount(),
	})

	return &ResolveRoundOutput{Report: report, Battle: updated.Battle}, nil
}

// GetBattle returns the stored battle
func (o *orchestrator) GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	unlock := o.lock(input.BattleID)
	defer unlock()

	battle, err := o.load(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	return &GetBattleOutput{Battle: battle}, nil
}

// EndBattle deletes the battle
func (o *orchestrator) EndBattle(ctx context.Context, input *EndBattleInput) (*EndBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}

	unlock := o.lock(input.BattleID)
	defer unlock()

	if _, err := o.battleRepo.Delete(ctx, &battles.DeleteInput{ID: input.BattleID}); err != nil {
		return nil, errors.Wrap(err, "failed to end battle")
	}

	if _, err := o.roundLog.Delete(ctx, &roundlog.DeleteInput{BattleID: input.BattleID}); err != nil {
		slog.Warn("Failed to delete round log",
			"battle_id", input.BattleID,
			"error", err)
	}

	slog.Info("Battle ended", "battle_id", input.BattleID)

	return &EndBattleOutput{}, nil
}

// GetRoundHistory lists recorded rounds of a live battle
func (o *orchestrator) GetRoundHistory(
	ctx context.Context,
	input *GetRoundHistoryInput,
) (*GetRoundHistoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}
	if input.SinceRound < 0 {
		return nil, errors.InvalidArgumentf("since round must not be negative, got %d", input.SinceRound)
	}

	unlock := o.lock(input.BattleID)
	defer unlock()

	if _, err := o.load(ctx, input.BattleID); err != nil {
		return nil, err
	}

	out, err := o.roundLog.List(ctx, &roundlog.ListInput{
		BattleID:   input.BattleID,
		SinceRound: input.SinceRound,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read round history")
	}
	return &GetRoundHistoryOutput{Reports: out.Reports}, nil
}

// ListBattles returns live battle ids
func (o *orchestrator) ListBattles(ctx context.Context, _ *ListBattlesInput) (*ListBattlesOutput, error) {
	out, err := o.battleRepo.List(ctx, &battles.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list battles")
	}
	return &ListBattlesOutput{BattleIDs: out.IDs}, nil
}

func (o *orchestrator) load(ctx context.Context, battleID string) (*battles.BattleData, error) {
	out, err := o.battleRepo.Get(ctx, &battles.GetInput{ID: battleID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load battle %s", battleID)
	}
	return out.Battle, nil
}

func participantIndex(battle *battles.BattleData, id string) int {
	for i, p := range battle.Participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}
