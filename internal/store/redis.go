package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

const (
	DriverRedis = "redis"

	profileKeyPrefix = "tubearchitect:profile:"
)

// RedisStore keeps each profile as a JSON string under its own key.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// OpenRedis connects with a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url string, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("Redis connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return NewRedisStore(client, logger), nil
}

func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (models.ProfileInput, error) {
	raw, err := s.client.Get(ctx, profileKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ProfileInput{}, ErrNotFound
	}
	if err != nil {
		return models.ProfileInput{}, fmt.Errorf("failed to load profile: %w", err)
	}

	var p models.ProfileInput
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.ProfileInput{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p.Redacted(), nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, profile models.ProfileInput) error {
	raw, err := json.Marshal(profile.Redacted())
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.client.Set(ctx, profileKeyPrefix+userID, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.logger.Debug("Profile saved", zap.String("user_id", userID))
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
