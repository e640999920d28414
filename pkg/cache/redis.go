// Package cache 提供 Redis 客户端封装，支持连接池、JSON 序列化与集合操作
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Config Redis 配置
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	MaxPoolSize  int
	ConnTimeout  int
	ReadTimeout  int
	WriteTimeout int
}

// RedisCache Redis 缓存实现
type RedisCache struct {
	client *redis.Client
	config Config
}

// New 创建 Redis 缓存实例
func New(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.MaxPoolSize,
		ConnMaxIdleTime: time.Duration(cfg.ConnTimeout) * time.Second,
		ReadTimeout:     time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:    time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info(context.Background(), "Redis connected successfully", "addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))

	return &RedisCache{
		client: client,
		config: cfg,
	}, nil
}

// Client 返回底层 Redis 客户端
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// Get 获取缓存值
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		logger.Error(ctx, "Redis Get failed", "key", key, "error", err)
		return "", err
	}
	return val, nil
}

// GetJSON 获取 JSON 格式的缓存值
func (rc *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	val, err := rc.Get(ctx, key)
	if err != nil {
		return err
	}
	if val == "" {
		return nil
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set 设置缓存值
func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	err := rc.client.Set(ctx, key, value, expiration).Err()
	if err != nil {
		logger.Error(ctx, "Redis Set failed", "key", key, "error", err)
		return err
	}
	return nil
}

// SetJSON 设置 JSON 格式的缓存值
func (rc *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rc.Set(ctx, key, string(data), expiration)
}

// Delete 删除缓存
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := rc.client.Del(ctx, keys...).Err()
	if err != nil {
		logger.Error(ctx, "Redis Delete failed", "keys", keys, "error", err)
		return err
	}
	return nil
}

// SAdd 向集合添加成员
func (rc *RedisCache) SAdd(ctx context.Context, key string, members ...interface{}) error {
	err := rc.client.SAdd(ctx, key, members...).Err()
	if err != nil {
		logger.Error(ctx, "Redis SAdd failed", "key", key, "error", err)
		return err
	}
	return nil
}

// SRem 从集合移除成员
func (rc *RedisCache) SRem(ctx context.Context, key string, members ...interface{}) error {
	err := rc.client.SRem(ctx, key, members...).Err()
	if err != nil {
		logger.Error(ctx, "Redis SRem failed", "key", key, "error", err)
		return err
	}
	return nil
}

// SIsMember 判断成员是否在集合中
func (rc *RedisCache) SIsMember(ctx context.Context, key string, member interface{}) (bool, error) {
	ok, err := rc.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		logger.Error(ctx, "Redis SIsMember failed", "key", key, "error", err)
		return false, err
	}
	return ok, nil
}

// SMembers 获取集合所有成员
func (rc *RedisCache) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := rc.client.SMembers(ctx, key).Result()
	if err != nil {
		logger.Error(ctx, "Redis SMembers failed", "key", key, "error", err)
		return nil, err
	}
	return members, nil
}

// SCard 获取集合成员数量
func (rc *RedisCache) SCard(ctx context.Context, key string) (int64, error) {
	n, err := rc.client.SCard(ctx, key).Result()
	if err != nil {
		logger.Error(ctx, "Redis SCard failed", "key", key, "error", err)
		return 0, err
	}
	return n, nil
}

// Close 关闭 Redis 连接
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
