package effects

import (
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

// sampleResolution is the die size used to draw a uniform fraction from a
// dice.Roller. A d10000 gives steps of 1/9999 across the range.
const sampleResolution = 10000

// StatAmount is an effect magnitude. Fixed amounts always yield Base; random
// amounts draw uniformly from [Base-Variance, Base+Variance].
type StatAmount struct {
	Base     float64 `json:"base"`
	Variance float64 `json:"variance,omitempty"`
	Random   bool    `json:"random,omitempty"`

	// Last holds the most recent draw so every consumer in one application
	// pass reads the same value.
	Last   float64 `json:"last,omitempty"`
	Rolled bool    `json:"rolled,omitempty"`
}

// NewFixedAmount returns an amount that always yields value.
func NewFixedAmount(value float64) *StatAmount {
	return &StatAmount{Base: value}
}

// NewRandomAmount returns an amount drawn from [base-variance, base+variance].
func NewRandomAmount(base, variance float64) *StatAmount {
	return &StatAmount{Base: base, Variance: variance, Random: true}
}

// NewRangeAmount returns a random amount covering [lo, hi].
func NewRangeAmount(lo, hi float64) *StatAmount {
	if hi < lo {
		lo, hi = hi, lo
	}
	return NewRandomAmount((lo+hi)/2, (hi-lo)/2)
}

// Min is the smallest value the amount can yield.
func (a *StatAmount) Min() float64 {
	if !a.IsRandom() {
		return a.Base
	}
	return a.Base - a.Variance
}

// Max is the largest value the amount can yield.
func (a *StatAmount) Max() float64 {
	if !a.IsRandom() {
		return a.Base
	}
	return a.Base + a.Variance
}

// IsRandom reports whether reads can differ between draws. A zero variance
// degenerates to a fixed amount.
func (a *StatAmount) IsRandom() bool {
	return a.Random && a.Variance > 0
}

// SampleOrFixed returns a fresh draw for random amounts and Base otherwise.
// The draw depends only on the values the roller produces.
func (a *StatAmount) SampleOrFixed(roller dice.Roller) (float64, error) {
	if !a.IsRandom() {
		return a.Base, nil
	}
	if roller == nil {
		return 0, errors.Internal("random amount sampled without a roller")
	}

	face, err := roller.Roll(sampleResolution)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll effect magnitude")
	}
	if face < 1 || face > sampleResolution {
		return 0, errors.Internalf("roller returned %d for a d%d", face, sampleResolution)
	}

	fraction := float64(face-1) / float64(sampleResolution-1)
	return math.Min(a.Min()+fraction*(a.Max()-a.Min()), a.Max()), nil
}

// Roll draws a new value and keeps it as the current one.
func (a *StatAmount) Roll(roller dice.Roller) (float64, error) {
	value, err := a.SampleOrFixed(roller)
	if err != nil {
		return 0, err
	}
	a.Last = value
	a.Rolled = true
	return value, nil
}

// Current returns the value of the last draw, or Base when the amount is
// fixed or has not been rolled yet.
func (a *StatAmount) Current() float64 {
	if a.IsRandom() && a.Rolled {
		return a.Last
	}
	return a.Base
}

// Rounded converts the current value to an integer, rounding half away from
// zero. Every effect kind uses this conversion.
func (a *StatAmount) Rounded() int {
	return roundHalfAway(a.Current())
}

func (a *StatAmount) clone() *StatAmount {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func roundHalfAway(v float64) int {
	return int(math.Round(v))
}
