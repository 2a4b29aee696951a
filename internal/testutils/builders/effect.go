// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
)

// EffectBuilder provides a fluent interface for building test EffectData
type EffectBuilder struct {
	effect effects.EffectData
}

// NewEffectBuilder creates a builder for a display-only effect lasting two
// rounds
func NewEffectBuilder() *EffectBuilder {
	return &EffectBuilder{
		effect: effects.EffectData{
			ID:              "effect-test-1",
			Kind:            effects.KindOther,
			Name:            "Test Effect",
			Icon:            effects.IconUnknown,
			LocalisationKey: effects.KindOther.LocalisationKey(),
			Duration:        2,
			Capabilities: effects.Capabilities{
				Decay:  effects.DecayAlways,
				Power:  effects.PowerNone,
				Target: effects.TargetGeneric,
			},
			Stacking: effects.StackCoexist,
		},
	}
}

// WithID sets the effect ID
func (b *EffectBuilder) WithID(id string) *EffectBuilder {
	b.effect.ID = id
	return b
}

// WithName sets the display name
func (b *EffectBuilder) WithName(name string) *EffectBuilder {
	b.effect.Name = name
	return b
}

// WithDuration sets the remaining rounds
func (b *EffectBuilder) WithDuration(duration int) *EffectBuilder {
	b.effect.Duration = duration
	return b
}

// WithDecay sets the decay policy
func (b *EffectBuilder) WithDecay(decay effects.DecayPolicy) *EffectBuilder {
	b.effect.Capabilities.Decay = decay
	return b
}

// WithSource sets the creating participant
func (b *EffectBuilder) WithSource(sourceID string) *EffectBuilder {
	b.effect.SourceID = sourceID
	return b
}

// AsSlow turns the effect into a fixed initiative reduction
func (b *EffectBuilder) AsSlow(power float64) *EffectBuilder {
	b.setKind(effects.KindSlow)
	b.effect.Capabilities.Power = effects.PowerFixed
	b.effect.Capabilities.Target = effects.TargetInitiative
	b.effect.Magnitude = effects.NewFixedAmount(power)
	if b.effect.Capabilities.Decay == effects.DecayAlways {
		b.effect.Capabilities.Decay = effects.DecayActiveRounds
	}
	return b
}

// AsManaRegeneration turns the effect into a mana gain drawn from [lo, hi]
func (b *EffectBuilder) AsManaRegeneration(lo, hi float64) *EffectBuilder {
	b.setKind(effects.KindManaRegeneration)
	b.effect.Capabilities.Power = effects.PowerRandom
	b.effect.Capabilities.Target = effects.TargetMana
	b.effect.Magnitude = effects.NewRangeAmount(lo, hi)
	if b.effect.Capabilities.Decay == effects.DecayAlways {
		b.effect.Capabilities.Decay = effects.DecayActiveRounds
	}
	return b
}

// WithRefresh makes the effect refresh instead of stacking
func (b *EffectBuilder) WithRefresh() *EffectBuilder {
	b.effect.Stacking = effects.StackRefresh
	return b
}

func (b *EffectBuilder) setKind(kind effects.Kind) {
	b.effect.Kind = kind
	b.effect.Icon = kind.DefaultIcon()
	b.effect.LocalisationKey = kind.LocalisationKey()
}

// Build returns the built EffectData
func (b *EffectBuilder) Build() effects.EffectData {
	data := b.effect
	if data.Magnitude != nil {
		m := *data.Magnitude
		data.Magnitude = &m
	}
	return data
}
