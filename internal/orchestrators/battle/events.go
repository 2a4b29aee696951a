package battle

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Event types published on the bus
const (
	EventEffectGranted = "battle.effect.granted"
	EventEffectExpired = "battle.effect.expired"
	EventRoundResolved = "battle.round.resolved"
)

// Context keys set on published events
const (
	KeyBattleID      = "battle_id"
	KeyEffectID      = "effect_id"
	KeyEffectName    = "effect_name"
	KeyRound         = "round"
	KeyActive        = "active"
	KeyExpiredCount  = "expired_count"
	KeyParticipantID = "participant_id"
)

// battleEntity lets a battle act as an event source.
type battleEntity struct {
	id string
}

func (b battleEntity) GetID() string   { return b.id }
func (b battleEntity) GetType() string { return "battle" }

var _ core.Entity = battleEntity{}

// publish sends an event; delivery failures are logged, never returned.
func (o *orchestrator) publish(
	ctx context.Context,
	eventType string,
	source, target core.Entity,
	fields map[string]any,
) {
	event := events.NewGameEvent(eventType, source, target)
	for k, v := range fields {
		event.Context().Set(k, v)
	}
	if err := o.eventBus.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish battle event",
			"event_type", eventType,
			"error", err)
	}
}
