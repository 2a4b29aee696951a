package rounds

import (
	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
)

// Report describes one resolved round.
type Report struct {
	Round    int       `json:"round"`
	Active   bool      `json:"active"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is what a round did to one participant. Initiative is the value
// the round's fold produced, which still includes effects that expired in
// this round.
type Outcome struct {
	ParticipantID string               `json:"participant_id"`
	Initiative    int                  `json:"initiative"`
	ManaBefore    int                  `json:"mana_before"`
	ManaAfter     int                  `json:"mana_after"`
	Expired       []effects.EffectData `json:"expired,omitempty"`
}

// Outcome returns the outcome for participantID.
func (r *Report) Outcome(participantID string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.ParticipantID == participantID {
			return o, true
		}
	}
	return Outcome{}, false
}

// ExpiredCount is the number of effects removed in the round.
func (r *Report) ExpiredCount() int {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.Expired)
	}
	return n
}
