package engine

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-campaign/internal/engine/rounds"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

type engine struct {
	roller   dice.Roller
	parallel bool
	workers  int
}

// Config configures the engine
type Config struct {
	Roller   dice.Roller
	Parallel bool
	Workers  int
}

// Validate ensures all required dependencies are present
func (cfg *Config) Validate() error {
	if cfg.Roller == nil {
		return errors.InvalidArgument("roller is required")
	}
	if cfg.Workers < 0 {
		return errors.InvalidArgumentf("workers must not be negative, got %d", cfg.Workers)
	}
	return nil
}

// New creates an engine
func New(cfg *Config) (Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &engine{
		roller:   cfg.Roller,
		parallel: cfg.Parallel,
		workers:  cfg.Workers,
	}, nil
}

// ResolveRound resumes a resolver at the battle's round counter and runs one
// round.
func (e *engine) ResolveRound(ctx context.Context, input *ResolveRoundInput) (*ResolveRoundOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	resolver, err := rounds.New(&rounds.Config{
		Roller:   e.roller,
		Parallel: e.parallel,
		Workers:  e.workers,
		Round:    input.CompletedRounds,
	})
	if err != nil {
		return nil, err
	}

	report, err := resolver.ResolveRound(ctx, input.Participants, input.IsActiveRound)
	if err != nil {
		return nil, err
	}

	return &ResolveRoundOutput{Report: report}, nil
}
