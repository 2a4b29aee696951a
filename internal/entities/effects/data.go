package effects

import (
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

// EffectData is the plain-value form of a StatusEffect, used for
// persistence, reports and rendering.
type EffectData struct {
	ID              string         `json:"id"`
	Kind            Kind           `json:"kind"`
	Name            string         `json:"name"`
	Icon            Icon           `json:"icon"`
	LocalisationKey string         `json:"localisation_key"`
	Duration        int            `json:"duration"`
	Capabilities    Capabilities   `json:"capabilities"`
	Magnitude       *StatAmount    `json:"magnitude,omitempty"`
	SourceID        string         `json:"source_id,omitempty"`
	Stacking        StackingPolicy `json:"stacking"`
}

// ParticipantData is the plain-value form of a Participant. Initiative is
// derived and ignored when restoring.
type ParticipantData struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           ParticipantKind `json:"kind"`
	BaseInitiative int             `json:"base_initiative"`
	Initiative     int             `json:"initiative"`
	Mana           int             `json:"mana"`
	Effects        []EffectData    `json:"effects"`
}

// ToData snapshots the effect.
func (e *StatusEffect) ToData() EffectData {
	return EffectData{
		ID:              e.id,
		Kind:            e.kind,
		Name:            e.name,
		Icon:            e.icon,
		LocalisationKey: e.LocalisationKey(),
		Duration:        e.duration,
		Capabilities:    e.capabilities,
		Magnitude:       e.magnitude.clone(),
		SourceID:        e.sourceID,
		Stacking:        e.stacking,
	}
}

// EffectFromData rebuilds an effect, running the same checks as
// NewStatusEffect.
func EffectFromData(data EffectData) (*StatusEffect, error) {
	return NewStatusEffect(Definition{
		ID:           data.ID,
		Kind:         data.Kind,
		Name:         data.Name,
		Icon:         data.Icon,
		Duration:     data.Duration,
		Capabilities: data.Capabilities,
		Magnitude:    data.Magnitude,
		SourceID:     data.SourceID,
		Stacking:     data.Stacking,
	})
}

// ToData snapshots the participant and its effects.
func (p *Participant) ToData() ParticipantData {
	data := ParticipantData{
		ID:             p.id,
		Name:           p.name,
		Kind:           p.kind,
		BaseInitiative: p.baseInitiative,
		Initiative:     p.Initiative(),
		Mana:           p.mana,
		Effects:        make([]EffectData, 0, len(p.effects)),
	}
	for _, e := range p.effects {
		data.Effects = append(data.Effects, e.ToData())
	}
	return data
}

// ParticipantFromData rebuilds a participant in the stored effect order.
// Effects are appended directly so stacking is not re-evaluated.
func ParticipantFromData(data ParticipantData) (*Participant, error) {
	p, err := NewParticipant(&ParticipantConfig{
		ID:             data.ID,
		Name:           data.Name,
		Kind:           data.Kind,
		BaseInitiative: data.BaseInitiative,
		Mana:           data.Mana,
	})
	if err != nil {
		return nil, err
	}

	for i, ed := range data.Effects {
		e, err := EffectFromData(ed)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to restore effect %d of %s", i, data.ID)
		}
		p.effects = append(p.effects, e)
	}
	return p, nil
}
