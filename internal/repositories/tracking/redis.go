package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/clanboard/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	configKeyPrefix = "tracking:"
	configIndexKey  = "tracking_index"
)

var (
	// ErrConfigNotFound is returned when no configuration exists for a guild and clan
	ErrConfigNotFound = errors.New("tracking config not found")

	// ErrSinkNotEnabled is returned when updating a sink that is not configured
	ErrSinkNotEnabled = errors.New("sink not enabled")
)

// Config holds configuration for the Redis tracking repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed tracking repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func configKey(guildID, clanTag string) string {
	return fmt.Sprintf("%s%s:%s", configKeyPrefix, guildID, clanTag)
}

// SaveConfig upserts a tracking configuration
func (r *redisRepository) SaveConfig(ctx context.Context, input *SaveConfigInput) error {
	if input == nil || input.Config == nil {
		return errors.New("input and config cannot be nil")
	}

	cfg := input.Config
	if cfg.GuildID == "" || cfg.ClanTag == "" {
		return errors.New("guild ID and clan tag cannot be empty")
	}

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal tracking config: %w", err)
	}

	key := configKey(cfg.GuildID, cfg.ClanTag)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, configJSON, 0)
	pipe.SAdd(ctx, configIndexKey, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save tracking config: %w", err)
	}

	return nil
}

// GetConfig retrieves a tracking configuration
func (r *redisRepository) GetConfig(ctx context.Context, input *GetConfigInput) (*models.TrackingConfig, error) {
	if input == nil || input.GuildID == "" || input.ClanTag == "" {
		return nil, errors.New("guild ID and clan tag cannot be empty")
	}

	return r.getByKey(ctx, r.client, configKey(input.GuildID, input.ClanTag))
}

func (r *redisRepository) getByKey(ctx context.Context, c redis.Cmdable, key string) (*models.TrackingConfig, error) {
	configJSON, err := c.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to get tracking config: %w", err)
	}

	var cfg models.TrackingConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tracking config: %w", err)
	}
	if cfg.Sinks == nil {
		cfg.Sinks = make(map[models.SinkType]*models.SinkConfig)
	}

	return &cfg, nil
}

// DeleteConfig removes a tracking configuration
func (r *redisRepository) DeleteConfig(ctx context.Context, input *DeleteConfigInput) error {
	if input == nil || input.GuildID == "" || input.ClanTag == "" {
		return errors.New("guild ID and clan tag cannot be empty")
	}

	key := configKey(input.GuildID, input.ClanTag)

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, configIndexKey, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete tracking config: %w", err)
	}

	return nil
}

// ListConfigs returns every persisted configuration
func (r *redisRepository) ListConfigs(ctx context.Context) (*ListConfigsOutput, error) {
	keys, err := r.client.SMembers(ctx, configIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking configs: %w", err)
	}

	if len(keys) == 0 {
		return &ListConfigsOutput{
			Configs: []*models.TrackingConfig{},
		}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(keys))
	for _, key := range keys {
		cmds[key] = pipe.Get(ctx, key)
	}

	// redis.Nil from a stale index entry is handled per command below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get tracking configs: %w", err)
	}

	configs := make([]*models.TrackingConfig, 0, len(keys))
	for key, cmd := range cmds {
		configJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get tracking config %s: %w", key, err)
		}

		var cfg models.TrackingConfig
		if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tracking config %s: %w", key, err)
		}
		configs = append(configs, &cfg)
	}

	return &ListConfigsOutput{
		Configs: configs,
	}, nil
}

// UpdateMessageID records the backing message of a board sink.
// The read-modify-write runs under WATCH so a concurrent configure call is not overwritten.
func (r *redisRepository) UpdateMessageID(ctx context.Context, input *UpdateMessageIDInput) error {
	if input == nil || input.GuildID == "" || input.ClanTag == "" {
		return errors.New("guild ID and clan tag cannot be empty")
	}

	key := configKey(input.GuildID, input.ClanTag)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		cfg, err := r.getByKey(ctx, tx, key)
		if err != nil {
			return err
		}

		sink := cfg.Sink(input.SinkType)
		if sink == nil {
			return ErrSinkNotEnabled
		}
		sink.MessageID = input.MessageID

		configJSON, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal tracking config: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, configJSON, 0)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrSinkNotEnabled) {
			return err
		}
		return fmt.Errorf("failed to update message ID: %w", err)
	}

	return nil
}
