// Package v1alpha1 handles the battle gRPC service interface
package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-campaign/internal/content"
	"github.com/KirkDiggler/rpg-campaign/internal/engine/rounds"
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/orchestrators/battle"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
)

// HandlerConfig holds dependencies for the battle handler
type HandlerConfig struct {
	BattleService battle.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c.BattleService == nil {
		return errors.InvalidArgument("battle service is required")
	}
	return nil
}

// Handler implements BattleServiceServer
type Handler struct {
	battleService battle.Service
}

var _ BattleServiceServer = (*Handler)(nil)

// NewHandler creates a new battle handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{battleService: cfg.BattleService}, nil
}

// CreateBattleRequest starts a battle
type CreateBattleRequest struct {
	Name string `json:"name"`
}

// BattleResponse carries a battle snapshot
type BattleResponse struct {
	Battle *battles.BattleData `json:"battle"`
}

// CreateBattle starts an empty battle
func (h *Handler) CreateBattle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in CreateBattleRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.CreateBattle(ctx, &battle.CreateBattleInput{Name: in.Name})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(BattleResponse{Battle: out.Battle})
}

// AddParticipantRequest adds a combatant
type AddParticipantRequest struct {
	BattleID       string `json:"battle_id"`
	ParticipantID  string `json:"participant_id"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	BaseInitiative int    `json:"base_initiative"`
	Mana           int    `json:"mana"`
}

// ParticipantResponse carries one participant
type ParticipantResponse struct {
	Participant effects.ParticipantData `json:"participant"`
}

// AddParticipant adds a combatant to a battle
func (h *Handler) AddParticipant(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in AddParticipantRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.BattleID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("battle_id is required"))
	}

	out, err := h.battleService.AddParticipant(ctx, &battle.AddParticipantInput{
		BattleID:       in.BattleID,
		ParticipantID:  in.ParticipantID,
		Name:           in.Name,
		Kind:           effects.ParticipantKind(in.Kind),
		BaseInitiative: in.BaseInitiative,
		Mana:           in.Mana,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(ParticipantResponse{Participant: out.Participant})
}

// EffectRequest is an inline effect definition
type EffectRequest struct {
	Kind     string   `json:"kind"`
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Duration int      `json:"duration"`
	Decay    string   `json:"decay"`
	Power    string   `json:"power"`
	Target   string   `json:"target"`
	Base     *float64 `json:"base"`
	Variance float64  `json:"variance"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Stacking string   `json:"stacking"`
}

// GrantEffectRequest grants a template or an inline effect
type GrantEffectRequest struct {
	BattleID   string         `json:"battle_id"`
	TargetID   string         `json:"target_id"`
	SourceID   string         `json:"source_id"`
	TemplateID string         `json:"template_id"`
	Effect     *EffectRequest `json:"effect"`
}

// GrantEffectResponse carries the active effect
type GrantEffectResponse struct {
	Effect    effects.EffectData `json:"effect"`
	Refreshed bool               `json:"refreshed"`
}

// GrantEffect grants an effect to a participant
func (h *Handler) GrantEffect(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in GrantEffectRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	input := &battle.GrantEffectInput{
		BattleID:   in.BattleID,
		TargetID:   in.TargetID,
		SourceID:   in.SourceID,
		TemplateID: in.TemplateID,
	}
	if in.Effect != nil {
		def, err := in.Effect.template().Definition("", in.SourceID)
		if err != nil {
			return nil, errors.ToGRPCError(err)
		}
		input.Definition = &def
	}

	out, err := h.battleService.GrantEffect(ctx, input)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(GrantEffectResponse{Effect: out.Effect, Refreshed: out.Refreshed})
}

func (r *EffectRequest) template() content.Template {
	t := content.Template{
		Kind:     effects.Kind(r.Kind),
		Name:     r.Name,
		Icon:     effects.Icon(r.Icon),
		Duration: r.Duration,
		Decay:    effects.DecayPolicy(r.Decay),
		Power:    effects.PowerKind(r.Power),
		Target:   effects.TargetDomain(r.Target),
		Stacking: effects.StackingPolicy(r.Stacking),
	}
	if r.Base != nil || r.Min != nil || r.Max != nil {
		t.Magnitude = &content.Magnitude{Base: r.Base, Variance: r.Variance, Min: r.Min, Max: r.Max}
	}
	return t
}

// ResolveRoundRequest resolves one round
type ResolveRoundRequest struct {
	BattleID string `json:"battle_id"`
	Active   bool   `json:"active"`
}

// ResolveRoundResponse carries the round report and the battle afterwards
type ResolveRoundResponse struct {
	Report *rounds.Report      `json:"report"`
	Battle *battles.BattleData `json:"battle"`
}

// ResolveRound resolves the next round of a battle
func (h *Handler) ResolveRound(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in ResolveRoundRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.ResolveRound(ctx, &battle.ResolveRoundInput{
		BattleID:      in.BattleID,
		IsActiveRound: in.Active,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(ResolveRoundResponse{Report: out.Report, Battle: out.Battle})
}

// RoundHistoryRequest selects recorded rounds
type RoundHistoryRequest struct {
	BattleID   string `json:"battle_id"`
	SinceRound int    `json:"since_round"`
}

// RoundHistoryResponse carries reports in round order
type RoundHistoryResponse struct {
	Reports []*rounds.Report `json:"reports"`
}

// GetRoundHistory returns the reports of resolved rounds
func (h *Handler) GetRoundHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in RoundHistoryRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.GetRoundHistory(ctx, &battle.GetRoundHistoryInput{
		BattleID:   in.BattleID,
		SinceRound: in.SinceRound,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	reports := out.Reports
	if reports == nil {
		reports = []*rounds.Report{}
	}
	return respond(RoundHistoryResponse{Reports: reports})
}

// BattleRequest identifies a battle
type BattleRequest struct {
	BattleID string `json:"battle_id"`
}

// GetBattle returns a battle snapshot
func (h *Handler) GetBattle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in BattleRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.GetBattle(ctx, &battle.GetBattleInput{BattleID: in.BattleID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(BattleResponse{Battle: out.Battle})
}

// EndBattle removes a battle
func (h *Handler) EndBattle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in BattleRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	if _, err := h.battleService.EndBattle(ctx, &battle.EndBattleInput{BattleID: in.BattleID}); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

// ListBattlesResponse carries live battle ids
type ListBattlesResponse struct {
	BattleIDs []string `json:"battle_ids"`
}

// ListBattles lists live battles
func (h *Handler) ListBattles(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.battleService.ListBattles(ctx, &battle.ListBattlesInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	ids := out.BattleIDs
	if ids == nil {
		ids = []string{}
	}
	return respond(ListBattlesResponse{BattleIDs: ids})
}
