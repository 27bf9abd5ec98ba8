package infra

import (
	"fmt"

	"sge-admin/internal/shared/cache"
	cacheredis "sge-admin/internal/shared/cache/redis"
)

// openCache 连接 Redis 缓存
func openCache(redisURL string) (cache.Cache, error) {
	store, err := cacheredis.NewStoreFromURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	return store, nil
}
