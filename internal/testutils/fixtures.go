package testutils

import (
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
	"github.com/KirkDiggler/rpg-campaign/internal/testutils/builders"
)

// CreateTestSlow creates a slow of power 3 lasting two active rounds
func CreateTestSlow(id string) effects.EffectData {
	return builders.NewEffectBuilder().
		WithID(id).
		WithName("Slow").
		AsSlow(3).
		Build()
}

// CreateTestManaRegeneration creates a regeneration drawing from [1, 3] for
// two active rounds
func CreateTestManaRegeneration(id string) effects.EffectData {
	return builders.NewEffectBuilder().
		WithID(id).
		WithName("Mana Regeneration").
		AsManaRegeneration(1, 3).
		Build()
}

// CreateTestHero creates a character with initiative 10, mana 5 and a slow
func CreateTestHero() effects.ParticipantData {
	return builders.NewParticipantBuilder().
		WithID("hero").
		WithName("Hero").
		WithInitiative(10).
		WithMana(5).
		WithEffect(CreateTestSlow("effect-slow-1")).
		Build()
}

// CreateTestGoblin creates an effect-free monster with initiative 6
func CreateTestGoblin() effects.ParticipantData {
	return builders.NewParticipantBuilder().
		WithID("goblin").
		WithName("Goblin").
		AsMonster().
		WithInitiative(6).
		Build()
}

// CreateTestBattle creates a battle holding the test hero and goblin
func CreateTestBattle(id string) *battles.BattleData {
	return builders.NewBattleBuilder().
		WithID(id).
		WithParticipant(CreateTestHero()).
		WithParticipant(CreateTestGoblin()).
		Build()
}
