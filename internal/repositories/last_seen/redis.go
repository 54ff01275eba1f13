package last_seen

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis, one hash per clan: member tag -> unix millis
	lastSeenKeyPrefix = "last_seen:"
)

// touchScript raises each member's timestamp to ARGV[1] unless it is already later.
// ARGV: [1]=now_ms, [2..]=member tags
var touchScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local updated = 0
for i = 2, #ARGV do
  local current = tonumber(redis.call('HGET', KEYS[1], ARGV[i]))
  if current == nil or current < now then
    redis.call('HSET', KEYS[1], ARGV[i], ARGV[1])
    updated = updated + 1
  end
end
return updated
`)

// Config holds configuration for the Redis last-seen repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed last-seen repository
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

func lastSeenKey(clanTag string) string {
	return lastSeenKeyPrefix + clanTag
}

// Touch records activity for members
func (r *redisRepository) Touch(ctx context.Context, input *TouchInput) error {
	if input == nil || input.ClanTag == "" {
		return errors.New("input and clan tag cannot be empty")
	}

	if len(input.MemberTags) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(input.MemberTags)+1)
	args = append(args, strconv.FormatInt(input.Now.UnixMilli(), 10))
	for _, tag := range input.MemberTags {
		args = append(args, tag)
	}

	if err := touchScript.Run(ctx, r.client, []string{lastSeenKey(input.ClanTag)}, args...).Err(); err != nil {
		return fmt.Errorf("failed to touch last seen: %w", err)
	}

	return nil
}

// Seed creates records only for members that have none
func (r *redisRepository) Seed(ctx context.Context, input *SeedInput) error {
	if input == nil || input.ClanTag == "" {
		return errors.New("input and clan tag cannot be empty")
	}

	if len(input.MemberTags) == 0 {
		return nil
	}

	key := lastSeenKey(input.ClanTag)
	now := strconv.FormatInt(input.Now.UnixMilli(), 10)

	pipe := r.client.Pipeline()
	for _, tag := range input.MemberTags {
		pipe.HSetNX(ctx, key, tag, now)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed last seen: %w", err)
	}

	return nil
}

// Prune deletes records for members that are not in PresentTags
func (r *redisRepository) Prune(ctx context.Context, input *PruneInput) (*PruneOutput, error) {
	if input == nil || input.ClanTag == "" {
		return nil, errors.New("input and clan tag cannot be empty")
	}

	key := lastSeenKey(input.ClanTag)

	stored, err := r.client.HKeys(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list last seen members: %w", err)
	}

	present := make(map[string]struct{}, len(input.PresentTags))
	for _, tag := range input.PresentTags {
		present[tag] = struct{}{}
	}

	removed := make([]string, 0)
	for _, tag := range stored {
		if _, ok := present[tag]; !ok {
			removed = append(removed, tag)
		}
	}

	if len(removed) == 0 {
		return &PruneOutput{Removed: removed}, nil
	}

	if err := r.client.HDel(ctx, key, removed...).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune last seen: %w", err)
	}

	return &PruneOutput{
		Removed: removed,
	}, nil
}

// Read returns every record for a clan
func (r *redisRepository) Read(ctx context.Context, input *ReadInput) (*ReadOutput, error) {
	if input == nil || input.ClanTag == "" {
		return nil, errors.New("input and clan tag cannot be empty")
	}

	values, err := r.client.HGetAll(ctx, lastSeenKey(input.ClanTag)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read last seen: %w", err)
	}

	lastSeen := make(map[string]time.Time, len(values))
	for tag, raw := range values {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// skip a corrupt field rather than failing the whole board
			continue
		}
		lastSeen[tag] = time.UnixMilli(ms).UTC()
	}

	return &ReadOutput{
		LastSeen: lastSeen,
	}, nil
}
