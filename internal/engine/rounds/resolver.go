// Package rounds resolves battle rounds. A round decays every effect, applies
// the survivors to their participants and then removes what has expired.
package rounds

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

// Config configures a Resolver.
type Config struct {
	// Roller draws random magnitudes. Required.
	Roller dice.Roller

	// Parallel resolves participants concurrently inside each phase.
	// Magnitude draws stay sequential so results match sequential mode.
	Parallel bool

	// Workers caps concurrent participants in parallel mode. Zero means no cap.
	Workers int

	// Round is the number of rounds already resolved, for resuming a battle.
	Round int
}

// Validate ensures the config is usable
func (c *Config) Validate() error {
	if c.Roller == nil {
		return errors.InvalidArgument("roller is required")
	}
	if c.Round < 0 {
		return errors.InvalidArgumentf("round must not be negative, got %d", c.Round)
	}
	if c.Workers < 0 {
		return errors.InvalidArgumentf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// Resolver is the round state machine:
// AwaitingRound -> Decaying -> Applying -> Cleanup -> AwaitingRound.
type Resolver struct {
	roller   dice.Roller
	parallel bool
	workers  int

	// run serializes rounds
	run sync.Mutex

	state sync.RWMutex
	round int
	phase Phase
}

// New creates a resolver in AwaitingRound.
func New(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Resolver{
		roller:   cfg.Roller,
		parallel: cfg.Parallel,
		workers:  cfg.Workers,
		round:    cfg.Round,
		phase:    PhaseAwaitingRound,
	}, nil
}

// Round returns the number of rounds resolved so far.
func (r *Resolver) Round() int {
	r.state.RLock()
	defer r.state.RUnlock()
	return r.round
}

// Phase returns the current state.
func (r *Resolver) Phase() Phase {
	r.state.RLock()
	defer r.state.RUnlock()
	return r.phase
}

func (r *Resolver) setPhase(p Phase) {
	r.state.Lock()
	r.phase = p
	r.state.Unlock()
}

// ResolveRound runs one round over participants.
//
// If a magnitude draw fails the round halts in Applying: the decay already
// done stays committed, nothing is applied or removed, the round counter does
// not advance and the resolver returns to AwaitingRound.
func (r *Resolver) ResolveRound(
	ctx context.Context,
	participants []*effects.Participant,
	isActiveRound bool,
) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "round not started")
	}
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}

	r.run.Lock()
	defer r.run.Unlock()
	defer r.setPhase(PhaseAwaitingRound)

	round := r.Round() + 1

	r.setPhase(PhaseDecaying)
	if err := r.each(participants, func(_ int, p *effects.Participant) error {
		for _, e := range p.ActiveEffects() {
			e.DecreaseDuration(isActiveRound, 1)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	r.setPhase(PhaseApplying)
	if err := r.draw(participants); err != nil {
		return nil, errors.Wrapf(err, "round %d halted while applying effects", round).
			WithMeta("round", round)
	}

	outcomes := make([]Outcome, len(participants))
	if err := r.each(participants, func(i int, p *effects.Participant) error {
		before := p.Mana()
		running := p.BaseInitiative()
		for _, e := range p.ActiveEffects() {
			running = e.Apply(p, running)
		}
		outcomes[i] = Outcome{
			ParticipantID: p.GetID(),
			Initiative:    running,
			ManaBefore:    before,
			ManaAfter:     p.Mana(),
		}
		return nil
	}); err != nil {
		return nil, err
	}

	r.setPhase(PhaseCleanup)
	if err := r.each(participants, func(i int, p *effects.Participant) error {
		for _, e := range p.RemoveExpired() {
			outcomes[i].Expired = append(outcomes[i].Expired, e.ToData())
		}
		return nil
	}); err != nil {
		return nil, err
	}

	r.state.Lock()
	r.round = round
	r.state.Unlock()

	return &Report{
		Round:    round,
		Active:   isActiveRound,
		Outcomes: outcomes,
	}, nil
}

// draw rolls every random magnitude once, in participant then insertion
// order, so a seeded roller replays identically in either mode.
func (r *Resolver) draw(participants []*effects.Participant) error {
	for _, p := range participants {
		for _, e := range p.ActiveEffects() {
			if err := e.Prepare(r.roller); err != nil {
				return errors.Wrap(err, "failed to draw effect magnitude").
					WithMeta("participant_id", p.GetID())
			}
		}
	}
	return nil
}

// each runs fn for every participant, concurrently in parallel mode. It
// returns once every call has finished.
func (r *Resolver) each(participants []*effects.Participant, fn func(int, *effects.Participant) error) error {
	if !r.parallel {
		for i, p := range participants {
			if err := fn(i, p); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}
	for i, p := range participants {
		g.Go(func() error {
			return fn(i, p)
		})
	}
	return g.Wait()
}

func validateParticipants(participants []*effects.Participant) error {
	seen := make(map[string]struct{}, len(participants))
	for i, p := range participants {
		if p == nil {
			return errors.InvalidArgumentf("participant %d is nil", i)
		}
		if _, ok := seen[p.GetID()]; ok {
			return errors.InvalidArgumentf("participant %s listed twice", p.GetID()).
				WithMeta("participant_id", p.GetID())
		}
		seen[p.GetID()] = struct{}{}
	}
	return nil
}
