package battle

import (
	"github.com/KirkDiggler/rpg-campaign/internal/engine/rounds"
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
)

// CreateBattleInput defines the request for starting a battle
type CreateBattleInput struct {
	Name string
}

// CreateBattleOutput contains the new battle
type CreateBattleOutput struct {
	Battle *battles.BattleData
}

// AddParticipantInput defines a combatant joining a battle
type AddParticipantInput struct {
	BattleID string
	// ParticipantID is generated when empty
	ParticipantID  string
	Name           string
	Kind           effects.ParticipantKind
	BaseInitiative int
	Mana           int
}

// AddParticipantOutput contains the participant as stored
type AddParticipantOutput struct {
	Participant effects.ParticipantData
}

// GrantEffectInput grants an effect from a template or an inline definition.
// Exactly one of TemplateID and Definition must be set.
type GrantEffectInput struct {
	BattleID   string
	TargetID   string
	SourceID   string
	TemplateID string
	Definition *effects.Definition
}

// GrantEffectOutput contains the effect that is now active on the target
type GrantEffectOutput struct {
	Effect effects.EffectData
	// Refreshed is true when an existing effect absorbed the grant
	Refreshed bool
}

// ResolveRoundInput defines the round to resolve
type ResolveRoundInput struct {
	BattleID      string
	IsActiveRound bool
}

// ResolveRoundOutput contains the round report and the battle afterwards
type ResolveRoundOutput struct {
	Report *rounds.Report
	Battle *battles.BattleData
}

// GetRoundHistoryInput selects recorded rounds of a battle
type GetRoundHistoryInput struct {
	BattleID string
	// SinceRound skips rounds up to and including this one
	SinceRound int
}

// GetRoundHistoryOutput contains reports in round order
type GetRoundHistoryOutput struct {
	Reports []*rounds.Report
}

// GetBattleInput identifies a battle
type GetBattleInput struct {
	BattleID string
}

// GetBattleOutput contains the battle snapshot
type GetBattleOutput struct {
	Battle *battles.BattleData
}

// EndBattleInput identifies the battle to end
type EndBattleInput struct {
	BattleID string
}

// EndBattleOutput is empty on success
type EndBattleOutput struct{}

// ListBattlesInput is reserved for filters
type ListBattlesInput struct{}

// ListBattlesOutput contains live battle ids
type ListBattlesOutput struct {
	BattleIDs []string
}
