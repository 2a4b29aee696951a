// Package battles stores battle snapshots.
package battles

//go:generate mockgen -destination=mock/mock_repository.go -package=battlesmock github.com/KirkDiggler/rpg-campaign/internal/repositories/battles Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
)

// Repository defines the storage interface for battles
type Repository interface {
	// Create stores a new battle. Fails with ALREADY_EXISTS if the id is taken.
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Get retrieves a battle by ID
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Update replaces an existing battle
	Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error)

	// Delete removes a battle
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	// List returns every stored battle id
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// BattleData is the persistent state of a battle. Participants carry their
// effects in application order.
type BattleData struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Round        int                       `json:"round"`
	Participants []effects.ParticipantData `json:"participants"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// CreateInput contains the battle to create
type CreateInput struct {
	Battle *BattleData
}

// CreateOutput contains the stored battle
type CreateOutput struct {
	Battle *BattleData
}

// GetInput identifies the battle to load
type GetInput struct {
	ID string
}

// GetOutput contains the loaded battle
type GetOutput struct {
	Battle *BattleData
}

// UpdateInput contains the new battle state
type UpdateInput struct {
	Battle *BattleData
}

// UpdateOutput contains the stored battle
type UpdateOutput struct {
	Battle *BattleData
}

// DeleteInput identifies the battle to delete
type DeleteInput struct {
	ID string
}

// DeleteOutput is empty on success
type DeleteOutput struct{}

// ListInput is reserved for filters
type ListInput struct{}

// ListOutput contains battle ids in no particular order
type ListOutput struct {
	IDs []string
}

func validateBattle(b *BattleData) error {
	if b == nil {
		return errBattleRequired()
	}
	if b.ID == "" {
		return errIDRequired()
	}
	return nil
}
