package battles

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-campaign/internal/redis"
)

const (
	// Key pattern: battle:{id}
	battleKeyPrefix = "battle:"
	// Set of every live battle id
	battleIndexKey = "battles:index"
	defaultTTL     = 24 * time.Hour
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
	// TTL is refreshed on every write. Zero means 24h.
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	if c.TTL < 0 {
		return errors.InvalidArgument("ttl must not be negative")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis repository for battles
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    ttl,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new battle with the configured TTL
func (r *redisRepository) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errInputRequired()
	}
	if err := validateBattle(input.Battle); err != nil {
		return nil, err
	}

	battle := *input.Battle
	now := r.clock.Now()
	battle.CreatedAt = now
	battle.UpdatedAt = now

	battleJSON, err := json.Marshal(&battle)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal battle")
	}

	// The index write rides in the same MULTI so a key never exists unindexed.
	// Re-adding the id of an existing battle is a no-op.
	pipe := r.client.TxPipeline()
	setNX := pipe.SetNX(ctx, buildKey(battle.ID), battleJSON, r.ttl)
	pipe.SAdd(ctx, battleIndexKey, battle.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to store battle in Redis")
	}
	if !setNX.Val() {
		return nil, errAlreadyExists(battle.ID)
	}

	return &CreateOutput{Battle: &battle}, nil
}

// Get retrieves a battle by ID
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errInputRequired()
	}
	if input.ID == "" {
		return nil, errIDRequired()
	}

	battleJSON, err := r.client.Get(ctx, buildKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errNotFound(input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get battle from Redis")
	}

	var battle BattleData
	if err := json.Unmarshal([]byte(battleJSON), &battle); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal battle")
	}

	return &GetOutput{Battle: &battle}, nil
}

// Update replaces an existing battle and refreshes its TTL
func (r *redisRepository) Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error) {
	if input == nil {
		return nil, errInputRequired()
	}
	if err := validateBattle(input.Battle); err != nil {
		return nil, err
	}

	battle := *input.Battle
	battle.UpdatedAt = r.clock.Now()

	battleJSON, err := json.Marshal(&battle)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal battle")
	}

	updated, err := r.client.SetXX(ctx, buildKey(battle.ID), battleJSON, r.ttl).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update battle in Redis")
	}
	if !updated {
		return nil, errNotFound(battle.ID)
	}

	return &UpdateOutput{Battle: &battle}, nil
}

// Delete removes a battle
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errInputRequired()
	}
	if input.ID == "" {
		return nil, errIDRequired()
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, buildKey(input.ID))
	pipe.SRem(ctx, battleIndexKey, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete battle from Redis")
	}
	if del.Val() == 0 {
		return nil, errNotFound(input.ID)
	}

	return &DeleteOutput{}, nil
}

// List returns live battle ids, pruning index entries whose battle expired
func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, battleIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list battles")
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		n, err := r.client.Exists(ctx, buildKey(id)).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to check battle %s", id)
		}
		if n == 0 {
			if err := r.client.SRem(ctx, battleIndexKey, id).Err(); err != nil {
				slog.Warn("Failed to prune battle index entry",
					"battle_id", id,
					"error", err)
			}
			continue
		}
		live = append(live, id)
	}

	return &ListOutput{IDs: live}, nil
}

func buildKey(id string) string {
	return battleKeyPrefix + id
}
