package engine

import (
	"github.com/KirkDiggler/rpg-campaign/internal/engine/rounds"
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
)

// ResolveRoundInput contains the battle state a round runs over
type ResolveRoundInput struct {
	Participants  []*effects.Participant
	IsActiveRound bool
	// CompletedRounds is how many rounds the battle has already resolved.
	CompletedRounds int
}

// ResolveRoundOutput contains the round report
type ResolveRoundOutput struct {
	Report *rounds.Report
}
