// Package idgen provides ID generation for battles, participants and effect
// instances
package idgen

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/rpg-campaign/internal/pkg/idgen Generator

// Kind names the entity an ID is minted for. It becomes the ID prefix.
type Kind string

// ID kinds
const (
	KindBattle      Kind = "battle"
	KindParticipant Kind = "participant"
	KindEffect      Kind = "effect"
)

// Generator generates unique identifiers
type Generator interface {
	Generate(kind Kind) string
}

// UUIDGenerator generates IDs of the form kind_uuid
type UUIDGenerator struct{}

// NewUUID creates a UUID generator
func NewUUID() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate(kind Kind) string {
	return fmt.Sprintf("%s_%s", kind, uuid.New().String())
}

// SequentialGenerator counts per kind, producing battle_1, effect_1,
// effect_2 and so on. Used by tests and scenario runs that need stable IDs.
type SequentialGenerator struct {
	mu       sync.Mutex
	counters map[Kind]uint64
}

// NewSequential creates a sequential generator
func NewSequential() *SequentialGenerator {
	return &SequentialGenerator{counters: make(map[Kind]uint64)}
}

// Generate creates the next ID for kind
func (g *SequentialGenerator) Generate(kind Kind) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.counters[kind]++
	return fmt.Sprintf("%s_%d", kind, g.counters[kind])
}
