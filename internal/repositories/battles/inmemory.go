package battles

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	clock clock.Clock
	store map[string]*BattleData
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// NewInMemory creates a new in-memory repository
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock: c,
		store: make(map[string]*BattleData),
	}
}

// Create stores a battle
func (r *InMemoryRepository) Create(_ context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errInputRequired()
	}
	if err := validateBattle(input.Battle); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Battle.ID]; exists {
		return nil, errAlreadyExists(input.Battle.ID)
	}

	battle := copyBattle(input.Battle)
	now := r.clock.Now()
	battle.CreatedAt = now
	battle.UpdatedAt = now
	r.store[battle.ID] = battle

	return &CreateOutput{Battle: copyBattle(battle)}, nil
}

// Get retrieves a battle by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errInputRequired()
	}
	if input.ID == "" {
		return nil, errIDRequired()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	battle, exists := r.store[input.ID]
	if !exists {
		return nil, errNotFound(input.ID)
	}

	// Return a copy to prevent external modification
	return &GetOutput{Battle: copyBattle(battle)}, nil
}

// Update replaces an existing battle
func (r *InMemoryRepository) Update(_ context.Context, input *UpdateInput) (*UpdateOutput, error) {
	if input == nil {
		return nil, errInputRequired()
	}
	if err := validateBattle(input.Battle); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Battle.ID]; !exists {
		return nil, errNotFound(input.Battle.ID)
	}

	battle := copyBattle(input.Battle)
	battle.UpdatedAt = r.clock.Now()
	r.store[battle.ID] = battle

	return &UpdateOutput{Battle: copyBattle(battle)}, nil
}

// Delete removes a battle
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errInputRequired()
	}
	if input.ID == "" {
		return nil, errIDRequired()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.ID]; !exists {
		return nil, errNotFound(input.ID)
	}
	delete(r.store, input.ID)

	return &DeleteOutput{}, nil
}

// List returns every stored battle id
func (r *InMemoryRepository) List(_ context.Context, _ *ListInput) (*ListOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.store))
	for id := range r.store {
		ids = append(ids, id)
	}
	return &ListOutput{IDs: ids}, nil
}

func copyBattle(b *BattleData) *BattleData {
	c := *b
	c.Participants = make([]effects.ParticipantData, len(b.Participants))
	for i, p := range b.Participants {
		p.Effects = append([]effects.EffectData(nil), p.Effects...)
		for j, e := range p.Effects {
			if e.Magnitude != nil {
				m := *e.Magnitude
				p.Effects[j].Magnitude = &m
			}
		}
		c.Participants[i] = p
	}
	return &c
}
