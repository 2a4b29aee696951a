// Package effects models timed status effects and the battle participants that
// carry them. Behaviour is selected by an explicit trait set (Capabilities)
// rather than by effect type.
package effects

import (
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

// Kind names the content family of an effect. It selects the display key and
// icon; behaviour comes from Capabilities.
type Kind string

// Effect kinds
const (
	KindSlow             Kind = "slow"
	KindManaRegeneration Kind = "mana_regeneration"
	KindOther            Kind = "other"
)

// Icon is the icon the battle view shows for an effect.
type Icon string

// Icons
const (
	IconSlow             Icon = "slow"
	IconManaRegeneration Icon = "mana_regeneration"
	IconUnknown          Icon = "unknown"
)

// StackingPolicy decides what granting an effect does when the participant
// already carries one with the same name and source.
type StackingPolicy string

// Stacking policies
const (
	// StackCoexist keeps both instances; each decays on its own.
	StackCoexist StackingPolicy = "coexist"
	// StackRefresh raises the existing instance's duration and replaces its
	// magnitude instead of adding a second instance.
	StackRefresh StackingPolicy = "refresh"
)

// Definition is everything needed to build a StatusEffect.
type Definition struct {
	ID           string
	Kind         Kind
	Name         string
	Icon         Icon
	Duration     int
	Capabilities Capabilities
	Magnitude    *StatAmount
	SourceID     string
	Stacking     StackingPolicy
}

// StatusEffect is a named, timed modifier attached to a participant.
type StatusEffect struct {
	id           string
	kind         Kind
	name         string
	icon         Icon
	duration     int
	capabilities Capabilities
	magnitude    *StatAmount
	sourceID     string
	stacking     StackingPolicy
}

// NewStatusEffect validates def and builds the effect. Inconsistent content
// fails here with a CONTENT_DEFINITION error, never during resolution.
func NewStatusEffect(def Definition) (*StatusEffect, error) {
	if def.Kind == "" {
		def.Kind = KindOther
	}
	if def.Icon == "" {
		def.Icon = def.Kind.DefaultIcon()
	}
	if def.Stacking == "" {
		def.Stacking = StackCoexist
	}

	if err := validateDefinition(def); err != nil {
		return nil, errors.Wrapf(err, "invalid effect %q", def.Name).
			WithMeta("effect_name", def.Name)
	}

	return &StatusEffect{
		id:           def.ID,
		kind:         def.Kind,
		name:         def.Name,
		icon:         def.Icon,
		duration:     def.Duration,
		capabilities: def.Capabilities,
		magnitude:    def.Magnitude.clone(),
		sourceID:     def.SourceID,
		stacking:     def.Stacking,
	}, nil
}

func validateDefinition(def Definition) error {
	if strings.TrimSpace(def.Name) == "" {
		return errors.ContentDefinition("effect name is required")
	}
	if def.Duration < 0 {
		return errors.ContentDefinitionf("duration must not be negative, got %d", def.Duration)
	}
	switch def.Kind {
	case KindSlow, KindManaRegeneration, KindOther:
	default:
		return errors.ContentDefinitionf("unknown effect kind %q", def.Kind)
	}
	switch def.Icon {
	case IconSlow, IconManaRegeneration, IconUnknown:
	default:
		return errors.ContentDefinitionf("unknown icon %q", def.Icon)
	}
	switch def.Stacking {
	case StackCoexist, StackRefresh:
	default:
		return errors.ContentDefinitionf("unknown stacking policy %q", def.Stacking)
	}

	caps := def.Capabilities
	if err := caps.Validate(); err != nil {
		return err
	}

	switch {
	case caps.Power == PowerNone && def.Magnitude != nil:
		return errors.ContentDefinition("magnitude supplied for an effect without power")
	case caps.Power != PowerNone && def.Magnitude == nil:
		return errors.ContentDefinitionf("%s power needs a magnitude", caps.Power)
	}

	if m := def.Magnitude; m != nil {
		if m.Variance < 0 {
			return errors.ContentDefinitionf("magnitude variance must not be negative, got %v", m.Variance)
		}
		if caps.Power == PowerFixed && m.IsRandom() {
			return errors.ContentDefinition("fixed power cannot carry a random magnitude")
		}
	}

	return nil
}

// NewSlow builds an initiative reduction that decays in active or inactive
// rounds.
func NewSlow(id, name string, duration int, activeRounder bool, sourceID string, power float64) (*StatusEffect, error) {
	return NewStatusEffect(Definition{
		ID:       id,
		Kind:     KindSlow,
		Name:     name,
		Duration: duration,
		Capabilities: Capabilities{
			Decay:  decayFor(activeRounder),
			Power:  PowerFixed,
			Target: TargetInitiative,
		},
		Magnitude: NewFixedAmount(power),
		SourceID:  sourceID,
	})
}

// NewManaRegeneration builds a mana gain applied every round it is active.
// With random set, each application draws from [0, maxPower].
func NewManaRegeneration(
	id, name string, duration int, activeRounder bool, sourceID string, maxPower float64, random bool,
) (*StatusEffect, error) {
	magnitude := NewFixedAmount(maxPower)
	if random {
		magnitude = NewRangeAmount(0, maxPower)
	}
	return NewStatusEffect(Definition{
		ID:       id,
		Kind:     KindManaRegeneration,
		Name:     name,
		Duration: duration,
		Capabilities: Capabilities{
			Decay:  decayFor(activeRounder),
			Power:  PowerRandom,
			Target: TargetMana,
		},
		Magnitude: magnitude,
		SourceID:  sourceID,
	})
}

// NewOther builds a display-only effect.
func NewOther(id, name string, duration int, decay DecayPolicy, sourceID string) (*StatusEffect, error) {
	return NewStatusEffect(Definition{
		ID:       id,
		Kind:     KindOther,
		Name:     name,
		Duration: duration,
		Capabilities: Capabilities{
			Decay:  decay,
			Power:  PowerNone,
			Target: TargetGeneric,
		},
		SourceID: sourceID,
	})
}

func decayFor(activeRounder bool) DecayPolicy {
	if activeRounder {
		return DecayActiveRounds
	}
	return DecayInactiveRounds
}

// DefaultIcon returns the icon used when content does not name one.
func (k Kind) DefaultIcon() Icon {
	switch k {
	case KindSlow:
		return IconSlow
	case KindManaRegeneration:
		return IconManaRegeneration
	default:
		return IconUnknown
	}
}

// LocalisationKey is the string-resource key for the kind.
func (k Kind) LocalisationKey() string {
	switch k {
	case KindSlow:
		return "state.effect.slow"
	case KindManaRegeneration:
		return "state.effect.manaRegeneration"
	default:
		return "state.effect.other"
	}
}

// ID returns the effect instance id.
func (e *StatusEffect) ID() string { return e.id }

// Kind returns the content family.
func (e *StatusEffect) Kind() Kind { return e.kind }

// Name returns the display name.
func (e *StatusEffect) Name() string { return e.name }

// Icon returns the display icon.
func (e *StatusEffect) Icon() Icon { return e.icon }

// Duration returns the remaining rounds.
func (e *StatusEffect) Duration() int { return e.duration }

// Capabilities returns the trait set.
func (e *StatusEffect) Capabilities() Capabilities { return e.capabilities }

// SourceID names the participant that created the effect. The participant
// may no longer exist.
func (e *StatusEffect) SourceID() string { return e.sourceID }

// Stacking returns the stacking policy.
func (e *StatusEffect) Stacking() StackingPolicy { return e.stacking }

// LocalisationKey returns the string-resource key for display.
func (e *StatusEffect) LocalisationKey() string { return e.kind.LocalisationKey() }

// Magnitude returns a copy of the magnitude, or nil for powerless effects.
func (e *StatusEffect) Magnitude() *StatAmount { return e.magnitude.clone() }

// Expired reports whether the duration has run out.
func (e *StatusEffect) Expired() bool { return e.duration == 0 }

// DecreaseDuration consumes amount rounds when the decay policy matches the
// phase. Duration never drops below zero.
func (e *StatusEffect) DecreaseDuration(isActiveRound bool, amount int) {
	if amount <= 0 || !e.capabilities.Consumes(isActiveRound) {
		return
	}
	e.duration -= amount
	if e.duration < 0 {
		e.duration = 0
	}
}

// Prepare draws the magnitude for this application pass. Only random-power
// effects draw; the value is then shared by every read until the next pass.
func (e *StatusEffect) Prepare(roller dice.Roller) error {
	if e.capabilities.Power != PowerRandom || e.magnitude == nil {
		return nil
	}
	if _, err := e.magnitude.Roll(roller); err != nil {
		return errors.Wrapf(err, "failed to roll magnitude for %q", e.name).
			WithMeta("effect_id", e.id)
	}
	return nil
}

// Apply dispatches on the target domain. Initiative effects return the
// adjusted running value without touching target; mana effects change
// target directly and return running unchanged; generic effects do nothing.
func (e *StatusEffect) Apply(target *Participant, running int) int {
	switch e.capabilities.Target {
	case TargetInitiative:
		return e.ApplyInitiative(running)
	case TargetMana:
		e.ApplyMana(target)
		return running
	default:
		return running
	}
}

// ApplyInitiative is one step of the initiative fold.
func (e *StatusEffect) ApplyInitiative(running int) int {
	if e.capabilities.Target != TargetInitiative || e.magnitude == nil {
		return running
	}
	return running - e.magnitude.Rounded()
}

// ApplyMana adds the current magnitude to the target's mana.
func (e *StatusEffect) ApplyMana(target *Participant) {
	if e.capabilities.Target != TargetMana || e.magnitude == nil || target == nil {
		return
	}
	target.mana += e.magnitude.Rounded()
}

// refreshedBy reports whether other may fold into e. The magnitude is only
// replaced between effects of the same shape.
func (e *StatusEffect) refreshedBy(other *StatusEffect) bool {
	return e.name == other.name &&
		e.sourceID == other.sourceID &&
		e.kind == other.kind &&
		e.capabilities == other.capabilities
}

// refresh folds a same-named grant into e under StackRefresh.
func (e *StatusEffect) refresh(other *StatusEffect) {
	if other.duration > e.duration {
		e.duration = other.duration
	}
	e.magnitude = other.magnitude.clone()
}
