package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"sqlpractice-service/internal/config"
)

const sessionKeyPrefix = "session:"

// RedisService caches hashed session id -> user id. With no reachable
// Redis it runs disabled: writes are dropped and every read misses.
type RedisService struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisService(cfg config.RedisConfig, logger *zap.Logger) *RedisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.URL == "" && cfg.Host == "" {
		logger.Info("redis not configured, session cache disabled")
		return &RedisService{logger: logger}
	}

	if cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, falling back to host/port", zap.Error(err))
		} else if client, err := connect(opt); err != nil {
			logger.Warn("redis connection failed with REDIS_URL", zap.Error(err))
		} else {
			logger.Info("connected to redis using REDIS_URL")
			return &RedisService{client: client, logger: logger}
		}
	}

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	client, err := connect(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Warn("redis connection failed, session cache disabled",
			zap.String("addr", addr), zap.Error(err))
		return &RedisService{logger: logger}
	}

	logger.Info("connected to redis", zap.String("addr", addr))
	return &RedisService{client: client, logger: logger}
}

// NewRedisServiceWithClient wraps an existing client.
func NewRedisServiceWithClient(client *redis.Client, logger *zap.Logger) *RedisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisService{client: client, logger: logger}
}

func connect(opt *redis.Options) (*redis.Client, error) {
	if opt.DialTimeout == 0 {
		opt.DialTimeout = 2 * time.Second
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (r *RedisService) Enabled() bool {
	return r.client != nil
}

func (r *RedisService) SetSession(ctx context.Context, hashedID string, userID int64, ttl time.Duration) error {
	if r.client == nil || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, sessionKeyPrefix+hashedID, strconv.FormatInt(userID, 10), ttl).Err()
}

// GetSession reports the cached owner of hashedID. A miss is (0, false, nil).
func (r *RedisService) GetSession(ctx context.Context, hashedID string) (int64, bool, error) {
	if r.client == nil {
		return 0, false, nil
	}
	val, err := r.client.Get(ctx, sessionKeyPrefix+hashedID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session cache entry: %w", err)
	}
	return userID, true, nil
}

func (r *RedisService) DeleteSession(ctx context.Context, hashedID string) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, sessionKeyPrefix+hashedID).Err()
}

func (r *RedisService) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

func (r *RedisService) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
