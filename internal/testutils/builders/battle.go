package builders

import (
	"time"

	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
)

// ParticipantBuilder provides a fluent interface for building test
// ParticipantData
type ParticipantBuilder struct {
	participant effects.ParticipantData
}

// NewParticipantBuilder creates a character with initiative 10 and no mana
func NewParticipantBuilder() *ParticipantBuilder {
	return &ParticipantBuilder{
		participant: effects.ParticipantData{
			ID:             "participant-test-1",
			Name:           "Test Participant",
			Kind:           effects.ParticipantCharacter,
			BaseInitiative: 10,
			Initiative:     10,
			Effects:        []effects.EffectData{},
		},
	}
}

// WithID sets the participant ID
func (b *ParticipantBuilder) WithID(id string) *ParticipantBuilder {
	b.participant.ID = id
	return b
}

// WithName sets the display name
func (b *ParticipantBuilder) WithName(name string) *ParticipantBuilder {
	b.participant.Name = name
	return b
}

// AsMonster sets the monster kind
func (b *ParticipantBuilder) AsMonster() *ParticipantBuilder {
	b.participant.Kind = effects.ParticipantMonster
	return b
}

// WithInitiative sets the base initiative
func (b *ParticipantBuilder) WithInitiative(initiative int) *ParticipantBuilder {
	b.participant.BaseInitiative = initiative
	return b
}

// WithMana sets current mana
func (b *ParticipantBuilder) WithMana(mana int) *ParticipantBuilder {
	b.participant.Mana = mana
	return b
}

// WithEffect appends an effect
func (b *ParticipantBuilder) WithEffect(effect effects.EffectData) *ParticipantBuilder {
	b.participant.Effects = append(b.participant.Effects, effect)
	return b
}

// Build returns the ParticipantData. Initiative is folded from the built
// effects the same way a live participant computes it.
func (b *ParticipantBuilder) Build() effects.ParticipantData {
	data := b.participant
	data.Effects = append([]effects.EffectData{}, b.participant.Effects...)

	data.Initiative = data.BaseInitiative
	for _, e := range data.Effects {
		if e.Capabilities.Target == effects.TargetInitiative && e.Magnitude != nil {
			data.Initiative -= e.Magnitude.Rounded()
		}
	}
	return data
}

// BattleBuilder provides a fluent interface for building test BattleData
type BattleBuilder struct {
	battle battles.BattleData
}

// NewBattleBuilder creates an empty battle at round zero
func NewBattleBuilder() *BattleBuilder {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &BattleBuilder{
		battle: battles.BattleData{
			ID:           "battle-test-1",
			Name:         "Test Battle",
			Participants: []effects.ParticipantData{},
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// WithID sets the battle ID
func (b *BattleBuilder) WithID(id string) *BattleBuilder {
	b.battle.ID = id
	return b
}

// WithName sets the battle name
func (b *BattleBuilder) WithName(name string) *BattleBuilder {
	b.battle.Name = name
	return b
}

// WithRound sets the completed round count
func (b *BattleBuilder) WithRound(round int) *BattleBuilder {
	b.battle.Round = round
	return b
}

// WithParticipant appends a participant
func (b *BattleBuilder) WithParticipant(p effects.ParticipantData) *BattleBuilder {
	b.battle.Participants = append(b.battle.Participants, p)
	return b
}

// Build returns a fresh copy of the BattleData
func (b *BattleBuilder) Build() *battles.BattleData {
	data := b.battle
	data.Participants = append([]effects.ParticipantData{}, b.battle.Participants...)
	return &data
}
