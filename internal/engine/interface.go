// Package engine is the battle-rules boundary orchestrators call into.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/rpg-campaign/internal/engine Engine

import (
	"context"
)

// Engine applies the battle rules to participants
type Engine interface {
	// ResolveRound runs one round over the participants of a battle.
	ResolveRound(ctx context.Context, input *ResolveRoundInput) (*ResolveRoundOutput, error)
}
