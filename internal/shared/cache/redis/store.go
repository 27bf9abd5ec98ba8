// Package redis Redis 缓存实现
package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout 建立连接时的探活超时
const pingTimeout = 5 * time.Second

// Store Redis 缓存存储
type Store struct {
	client *redis.Client
}

// NewStoreFromURL 从 URL 创建 Redis 缓存实例，连接失败时返回错误
func NewStoreFromURL(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	log.Printf("[redis/cache] Connected to %s (db=%d)", opts.Addr, opts.DB)
	return &Store{client: client}, nil
}

// NewStoreFromClient 复用已有的 Redis 客户端
func NewStoreFromClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close 关闭 Redis 连接
func (s *Store) Close() error {
	return s.client.Close()
}

// Client 返回底层 Redis 客户端
func (s *Store) Client() *redis.Client {
	return s.client
}
