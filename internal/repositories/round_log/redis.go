package roundlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KirkDiggler/rpg-campaign/internal/engine/rounds"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-campaign/internal/redis"
)

const (
	// Key pattern: round_log:{battle_id}
	logKeyPrefix = "round_log:"
	defaultTTL   = 24 * time.Hour

	errBattleIDEmpty = "battle ID cannot be empty"
	errReportNil     = "report cannot be nil"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	// TTL is refreshed on every append. Zero means 24h.
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.TTL < 0 {
		return errors.InvalidArgument("ttl must not be negative")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis repository for round logs
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

	return &redisRepository{client: cfg.Client, ttl: ttl}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Append pushes the report onto the battle's list
func (r *redisRepository) Append(ctx context.Context, input *AppendInput) (*AppendOutput, error) {
	if err := validateAppend(input); err != nil {
		return nil, err
	}

	reportJSON, err := json.Marshal(input.Report)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal report")
	}

	key := logKeyPrefix + input.BattleID
	pipe := r.client.TxPipeline()
	push := pipe.RPush(ctx, key, reportJSON)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to append report in Redis").
			WithMeta("battle_id", input.BattleID)
	}

	return &AppendOutput{Length: int(push.Val())}, nil
}

// List reads the whole list and filters by round
func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}

	values, err := r.client.LRange(ctx, logKeyPrefix+input.BattleID, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read round log from Redis").
			WithMeta("battle_id", input.BattleID)
	}

	reports := make([]*rounds.Report, 0, len(values))
	for i, value := range values {
		var report rounds.Report
		if err := json.Unmarshal([]byte(value), &report); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal report %d", i).
				WithMeta("battle_id", input.BattleID)
		}
		if report.Round > input.SinceRound {
			reports = append(reports, &report)
		}
	}

	return &ListOutput{Reports: reports}, nil
}

// Delete removes the list
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.BattleID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}

	key := logKeyPrefix + input.BattleID
	pipe := r.client.TxPipeline()
	length := pipe.LLen(ctx, key)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete round log from Redis").
			WithMeta("battle_id", input.BattleID)
	}

	return &DeleteOutput{ReportsDeleted: int(length.Val())}, nil
}

func validateAppend(input *AppendInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	if input.BattleID == "" {
		return errors.InvalidArgument(errBattleIDEmpty)
	}
	if input.Report == nil {
		return errors.InvalidArgument(errReportNil)
	}
	return nil
}
