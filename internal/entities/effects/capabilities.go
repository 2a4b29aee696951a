package effects

import (
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

// DecayPolicy decides which round phases consume an effect's duration.
type DecayPolicy string

// Decay policies
const (
	DecayActiveRounds   DecayPolicy = "active_rounds"
	DecayInactiveRounds DecayPolicy = "inactive_rounds"
	DecayAlways         DecayPolicy = "always"
)

// PowerKind decides whether an effect has a magnitude and whether it is
// resampled every application.
type PowerKind string

// Power kinds
const (
	PowerNone   PowerKind = "none"
	PowerFixed  PowerKind = "fixed"
	PowerRandom PowerKind = "random"
)

// TargetDomain is the derived stat an effect changes.
type TargetDomain string

// Target domains
const (
	TargetInitiative TargetDomain = "initiative"
	TargetMana       TargetDomain = "mana"
	TargetGeneric    TargetDomain = "generic"
)

// Capabilities is the trait set of an effect. Each category holds exactly one
// value and the categories compose freely.
type Capabilities struct {
	Decay  DecayPolicy  `json:"decay" yaml:"decay"`
	Power  PowerKind    `json:"power" yaml:"power"`
	Target TargetDomain `json:"target" yaml:"target"`
}

// Consumes reports whether a round of the given phase decrements duration.
func (c Capabilities) Consumes(isActiveRound bool) bool {
	switch c.Decay {
	case DecayActiveRounds:
		return isActiveRound
	case DecayInactiveRounds:
		return !isActiveRound
	case DecayAlways:
		return true
	default:
		return false
	}
}

// Validate checks that every category holds a known value and that the
// combination can be applied.
func (c Capabilities) Validate() error {
	if _, err := ParseDecayPolicy(string(c.Decay)); err != nil {
		return err
	}
	if _, err := ParsePowerKind(string(c.Power)); err != nil {
		return err
	}
	if _, err := ParseTargetDomain(string(c.Target)); err != nil {
		return err
	}
	if c.Target != TargetGeneric && c.Power == PowerNone {
		return errors.ContentDefinitionf("%s effects need a power kind other than %q", c.Target, PowerNone)
	}
	return nil
}

// ParseDecayPolicy parses the content form of a decay policy.
func ParseDecayPolicy(s string) (DecayPolicy, error) {
	switch p := DecayPolicy(s); p {
	case DecayActiveRounds, DecayInactiveRounds, DecayAlways:
		return p, nil
	case "":
		return "", errors.ContentDefinition("decay policy is required")
	default:
		return "", errors.ContentDefinitionf("unknown decay policy %q", s)
	}
}

// ParsePowerKind parses the content form of a power kind.
func ParsePowerKind(s string) (PowerKind, error) {
	switch p := PowerKind(s); p {
	case PowerNone, PowerFixed, PowerRandom:
		return p, nil
	case "":
		return "", errors.ContentDefinition("power kind is required")
	default:
		return "", errors.ContentDefinitionf("unknown power kind %q", s)
	}
}

// ParseTargetDomain parses the content form of a target domain.
func ParseTargetDomain(s string) (TargetDomain, error) {
	switch t := TargetDomain(s); t {
	case TargetInitiative, TargetMana, TargetGeneric:
		return t, nil
	case "":
		return "", errors.ContentDefinition("target domain is required")
	default:
		return "", errors.ContentDefinitionf("unknown target domain %q", s)
	}
}
