package effects

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

// ParticipantKind is the toolkit entity type of a participant.
type ParticipantKind string

// Participant kinds
const (
	ParticipantCharacter ParticipantKind = "character"
	ParticipantMonster   ParticipantKind = "monster"
)

// ParticipantConfig holds the baseline stats of a new participant.
type ParticipantConfig struct {
	ID             string
	Name           string
	Kind           ParticipantKind
	BaseInitiative int
	Mana           int
}

// Validate ensures the baseline is usable
func (c *ParticipantConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("ID", c.ID, vb)
	errors.ValidateRequired("Name", c.Name, vb)
	errors.ValidateEnum("Kind", string(c.Kind),
		[]string{string(ParticipantCharacter), string(ParticipantMonster)}, vb)

	return vb.Build()
}

// Participant is one combatant: baseline stats plus the ordered list of
// active effects. Insertion order is application order.
//
// A Participant is not safe for concurrent use. The battle that owns it
// serializes access.
type Participant struct {
	id             string
	name           string
	kind           ParticipantKind
	baseInitiative int
	mana           int
	effects        []*StatusEffect
}

// Participants are toolkit entities so they can source and receive events.
var _ core.Entity = (*Participant)(nil)

// NewParticipant creates a participant with no effects.
func NewParticipant(cfg *ParticipantConfig) (*Participant, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("participant config is required")
	}
	if cfg.Kind == "" {
		cfg.Kind = ParticipantCharacter
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid participant")
	}

	return &Participant{
		id:             cfg.ID,
		name:           cfg.Name,
		kind:           cfg.Kind,
		baseInitiative: cfg.BaseInitiative,
		mana:           cfg.Mana,
	}, nil
}

// GetID implements core.Entity
func (p *Participant) GetID() string { return p.id }

// GetType implements core.Entity
func (p *Participant) GetType() string { return string(p.kind) }

// Name returns the display name.
func (p *Participant) Name() string { return p.name }

// Kind returns the participant kind.
func (p *Participant) Kind() ParticipantKind { return p.kind }

// BaseInitiative returns initiative before effects.
func (p *Participant) BaseInitiative() int { return p.baseInitiative }

// Mana returns current mana.
func (p *Participant) Mana() int { return p.mana }

// AddMana changes mana by delta. Spending and out-of-engine gains go here.
func (p *Participant) AddMana(delta int) { p.mana += delta }

// Initiative folds every initiative effect over the baseline in insertion
// order, using each effect's current magnitude.
func (p *Participant) Initiative() int {
	running := p.baseInitiative
	for _, e := range p.effects {
		running = e.ApplyInitiative(running)
	}
	return running
}

// GrantEffect appends effect. Under StackRefresh an existing effect with the
// same name, source, kind and capabilities absorbs the grant instead; any
// other grant coexists. The returned effect is the instance that is now active.
func (p *Participant) GrantEffect(effect *StatusEffect) (*StatusEffect, error) {
	if effect == nil {
		return nil, errors.InvalidArgument("effect is required")
	}

	if effect.stacking == StackRefresh {
		for _, existing := range p.effects {
			if existing.refreshedBy(effect) {
				existing.refresh(effect)
				return existing, nil
			}
		}
	}

	p.effects = append(p.effects, effect)
	return effect, nil
}

// ActiveEffects returns the effects in insertion order. The slice is a copy.
func (p *Participant) ActiveEffects() []*StatusEffect {
	out := make([]*StatusEffect, len(p.effects))
	copy(out, p.effects)
	return out
}

// RemoveExpired drops every effect whose duration is zero and returns them in
// insertion order. Only the round resolver calls this, at the end of a round.
func (p *Participant) RemoveExpired() []*StatusEffect {
	var expired []*StatusEffect
	kept := p.effects[:0]
	for _, e := range p.effects {
		if e.Expired() {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(p.effects); i++ {
		p.effects[i] = nil
	}
	p.effects = kept
	return expired
}
