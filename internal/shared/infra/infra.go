// Package infra 基础设施聚合层
//
// 按配置初始化并持有进程级依赖：
//   - Storage：持久化存储（MongoDB / PostgreSQL / SQLite）
//   - Cache：仪表盘快照缓存（Redis，可选）
//   - Objects：学生照片对象存储（MinIO，可选）
package infra

import (
	"context"
	"errors"
	"fmt"
	"log"

	"sge-admin/internal/config"
	"sge-admin/internal/shared/cache"
	objstore "sge-admin/internal/shared/minio"
	"sge-admin/internal/shared/storage"
)

// Infrastructure 基础设施聚合结构
type Infrastructure struct {
	// Storage 持久化存储
	Storage storage.PersistentStore

	// Cache 缓存；未配置 Redis 时为 NoOpCache
	Cache cache.Cache

	// Objects 对象存储；未配置 MinIO 时为 nil
	Objects *objstore.Client
}

// Open 按配置打开所有基础设施，任一必需组件失败时关闭已打开的部分
func Open(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	infra := &Infrastructure{Cache: cache.NewNoOpCache()}

	store, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	infra.Storage = store

	if cfg.RedisURL != "" {
		c, err := openCache(cfg.RedisURL)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Cache = c
	}

	if cfg.MinIOEnabled() {
		objects, err := objstore.NewClient(cfg.MinIO)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("init object store: %w", err)
		}
		if err := objects.EnsureBucket(ctx); err != nil {
			infra.Close()
			return nil, fmt.Errorf("init object store: %w", err)
		}
		log.Printf("[infra] Object store ready: %s/%s", cfg.MinIO.Endpoint, objects.Bucket())
		infra.Objects = objects
	}

	return infra, nil
}

// Close 关闭所有基础设施连接
func (i *Infrastructure) Close() error {
	var errs []error

	if i.Storage != nil {
		if err := i.Storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}

	if i.Cache != nil {
		if err := i.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}

	return errors.Join(errs...)
}

// NewNoOpInfrastructure 以给定存储创建基础设施，不启用缓存与对象存储（用于测试）
func NewNoOpInfrastructure(store storage.PersistentStore) *Infrastructure {
	return &Infrastructure{
		Storage: store,
		Cache:   cache.NewNoOpCache(),
	}
}
