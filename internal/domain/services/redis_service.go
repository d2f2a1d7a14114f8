package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(keys ...string) error
	Ping() error
	GetClient() *redis.Client
	CacheLockStatus(doorID uint, view *LockStatusView, expiration time.Duration) error
	GetLockStatus(doorID uint) (*LockStatusView, error)
	InvalidateLockStatus(doorID uint) error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisServiceWithClient(client)
}

// NewRedisServiceWithClient 使用已有客户端，测试中配合 miniredis 使用
func NewRedisServiceWithClient(client *redis.Client) InterfaceRedisService {
	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
	}
}

// LockStatusKey 门锁状态缓存键
func LockStatusKey(doorID uint) string {
	return fmt.Sprintf("door:lock:%d", doorID)
}

// 1 Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// 2 Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// 3 Delete deletes keys from Redis
func (s *RedisService) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.Client.Del(s.Ctx, keys...).Err()
}

// 4 Ping 检查 Redis 连通性
func (s *RedisService) Ping() error {
	ctx, cancel := context.WithTimeout(s.Ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx).Err()
}

// 5 GetClient 返回底层客户端，供事件转发复用连接
func (s *RedisService) GetClient() *redis.Client {
	return s.Client
}

// 6 CacheLockStatus 缓存门锁状态
func (s *RedisService) CacheLockStatus(doorID uint, view *LockStatusView, expiration time.Duration) error {
	return s.Set(LockStatusKey(doorID), view, expiration)
}

// 7 GetLockStatus 读取缓存的门锁状态
func (s *RedisService) GetLockStatus(doorID uint) (*LockStatusView, error) {
	var view LockStatusView
	if err := s.Get(LockStatusKey(doorID), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// 8 InvalidateLockStatus 删除门锁状态缓存
func (s *RedisService) InvalidateLockStatus(doorID uint) error {
	return s.Delete(LockStatusKey(doorID))
}
